package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"spores/internal/shared"
	"spores/internal/ui"
)

// Configure walks through credential setup and writes the config file.
// Existing values become the prompt defaults so rerunning only changes what
// the user types.
func (r *Runner) Configure(ctx context.Context, cmd *cli.Command) error {
	path, err := r.resolveConfigPath(cmd)
	if err != nil {
		return err
	}

	colors := ui.Colors()
	r.writePlain("%s\n", colors.Title("Spores configuration"))
	r.writePlain("Create a Spotify app at https://developer.spotify.com/dashboard\n\n")

	defaults := &shared.Config{RedirectURI: shared.DefaultRedirectURI}
	if existing, err := shared.LoadConfig(path); err == nil {
		defaults = existing
	}

	reader := bufio.NewReader(r.input)

	clientID, err := r.promptLine(reader, "Client ID", defaults.ClientID)
	if err != nil {
		return err
	}
	clientSecret, err := r.promptLine(reader, "Client secret", defaults.ClientSecret)
	if err != nil {
		return err
	}
	redirectURI, err := r.promptLine(reader, "Redirect URI", defaults.RedirectURI)
	if err != nil {
		return err
	}

	config := &shared.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURI:  redirectURI,
	}
	if err := config.Validate(); err != nil {
		return err
	}

	if err := shared.SaveConfig(path, config); err != nil {
		return err
	}

	r.config = config
	r.configPath = path

	return r.writePlain("%s\n", colors.OK(fmt.Sprintf("Configuration saved to %s", path)))
}

// promptLine asks for one value, keeping the fallback on an empty answer.
func (r *Runner) promptLine(reader *bufio.Reader, label, fallback string) (string, error) {
	if fallback != "" {
		r.writePlain("%s [%s]: ", label, fallback)
	} else {
		r.writePlain("%s: ", label)
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}
