package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"spores/internal/auth"
	"spores/internal/shared"
	"spores/internal/spotify"
	"spores/internal/ui"
)

// Runner holds all dependencies for CLI commands and provides methods for
// each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *spotify.Client
	session    *auth.Session
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Client     *spotify.Client
	Session    *auth.Session
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		client:     opts.Client,
		session:    opts.Session,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		searchCommand,
		playlistCommand,
		saveCommand,
		configureCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveConfigPath picks the config file location: the --config flag when
// set, the platform default otherwise.
func (r *Runner) resolveConfigPath(cmd *cli.Command) (string, error) {
	if path := cmd.String("config"); path != "" {
		return path, nil
	}
	return shared.DefaultConfigPath()
}

// ensureConfig loads and validates the config file, writing a starter
// template on first run.
func (r *Runner) ensureConfig(cmd *cli.Command) error {
	if r.config != nil {
		return nil
	}

	path, err := r.resolveConfigPath(cmd)
	if err != nil {
		return err
	}
	r.configPath = path

	if _, err := os.Stat(path); err != nil {
		if createErr := shared.CreateConfigFile(path); createErr != nil {
			return fmt.Errorf("failed to create config template: %w", createErr)
		}
		colors := ui.Colors()
		fmt.Fprintln(os.Stderr, colors.OK(fmt.Sprintf("Created config file at %s", path)))
		fmt.Fprintln(os.Stderr, "Fill in your Spotify credentials and run again.")
		return shared.ErrMissingConfig
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("%w (in %s)", err, path)
	}

	r.config = config
	return nil
}

// ensureClient builds the API client behind every command that talks to
// Spotify, wiring the auth session on first use.
func (r *Runner) ensureClient(cmd *cli.Command) error {
	if r.client != nil {
		return nil
	}

	if err := r.ensureConfig(cmd); err != nil {
		return err
	}

	if r.session == nil {
		cachePath := filepath.Join(filepath.Dir(r.configPath), auth.CacheFileName)
		r.session = auth.NewSession(auth.SessionOpts{
			ClientID:     r.config.ClientID,
			ClientSecret: r.config.ClientSecret,
			RedirectURI:  r.config.RedirectURI,
			Store:        auth.NewTokenStore(cachePath),
			Logger:       r.logger,
			HTTPClient:   r.httpClient,
		})
	}

	r.client = spotify.NewClient(spotify.ClientOpts{
		Tokens:     r.session,
		HTTPClient: r.httpClient,
		Logger:     r.logger,
	})

	return nil
}

// writeJSON writes data as JSON to the output writer
func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

// writePlain writes formatted text to the output writer
func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
