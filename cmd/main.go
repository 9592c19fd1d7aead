package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"spores/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "spores",
		Usage:    "Manage Spotify playlists and your library from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrMissingConfig) {
			// first run: a starter config was just written and instructions
			// are already on stderr
			os.Exit(0)
		}
		fail(err)
	}
}

// fail emits the error envelope on stdout and exits non-zero.
func fail(err error) {
	payload, marshalErr := shared.MarshalJSON(map[string]string{"error": err.Error()}, true)
	if marshalErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(payload))
	os.Exit(1)
}
