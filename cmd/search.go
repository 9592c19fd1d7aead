package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"spores/internal/formatter"
	"spores/internal/models"
	"spores/internal/shared"
)

// Search queries the catalog for one resource type and prints the normalized
// results as a single JSON document.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	kind, err := models.ParseKind(cmd.String("type"))
	if err != nil {
		return err
	}

	if err := r.ensureClient(cmd); err != nil {
		return err
	}

	r.logger.Infof("searching %s for %q", kind.Plural(), query)

	page, err := r.client.Search(ctx, query, kind, cmd.Int("limit"))
	if err != nil {
		return err
	}

	return r.writeJSON(map[string]any{
		"query": query,
		"type":  kind,
		"total": page.Total,
		"items": formatter.NormalizeAll(page.Items),
	}, cmd.Bool("pretty"))
}
