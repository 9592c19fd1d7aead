package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"spores/internal/models"
	"spores/internal/shared"
)

// Save adds catalog items to the user's library, one request per ID so a
// failure reports exactly how far it got. Playlists are saved by following
// them.
func (r *Runner) Save(ctx context.Context, cmd *cli.Command) error {
	kind, err := models.ParseKind(cmd.String("type"))
	if err != nil {
		return err
	}

	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one %s ID", shared.ErrMissingArgument, kind)
	}

	var save func(ctx context.Context, id string) error
	switch kind {
	case models.KindTrack:
		save = func(ctx context.Context, id string) error {
			return r.client.SaveTracks(ctx, []string{id})
		}
	case models.KindAlbum:
		save = func(ctx context.Context, id string) error {
			return r.client.SaveAlbums(ctx, []string{id})
		}
	case models.KindPlaylist:
		save = func(ctx context.Context, id string) error {
			return r.client.FollowPlaylist(ctx, id)
		}
	case models.KindArtist:
		return errors.New("saving artists is not supported; use 'follow' instead")
	default:
		return fmt.Errorf("%w: cannot save type %q", shared.ErrInvalidFlag, kind)
	}

	refs := make([]models.ResourceRef, 0, len(ids))
	for _, id := range ids {
		ref, err := models.Resolve(kind, id)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}

	if err := r.ensureClient(cmd); err != nil {
		return err
	}

	r.logger.Infof("saving %d %s", len(refs), kind.Plural())

	saved := 0
	for _, ref := range refs {
		if err := save(ctx, ref.ID); err != nil {
			return fmt.Errorf("saved %d of %d %s: %w", saved, len(refs), kind.Plural(), err)
		}
		saved++
	}

	return r.writeJSON(map[string]any{
		"type":  kind,
		"saved": saved,
		"ids":   ids,
	}, cmd.Bool("pretty"))
}
