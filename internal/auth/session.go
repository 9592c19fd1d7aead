package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"spores/internal/server"
	"spores/internal/shared"
	"spores/internal/ui"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// authTimeout bounds how long the interactive flow waits for the user.
	authTimeout = 2 * time.Minute
)

// Scopes lists every permission the CLI requests during authorization.
var Scopes = []string{
	"playlist-read-private",
	"playlist-read-collaborative",
	"playlist-modify-public",
	"playlist-modify-private",
	"user-library-modify",
}

// Session produces access tokens valid for immediate use. The token cache is
// loaded once; afterwards each call reuses, refreshes or interactively
// authorizes as the cached credential requires.
type Session struct {
	config     *oauth2.Config
	store      *TokenStore
	logger     *log.Logger
	prompt     io.Writer
	httpClient *http.Client
	timeout    time.Duration

	// swapped out in tests
	listen      func(network, addr string) (net.Listener, error)
	openBrowser func(url string) error

	cred   *Credential
	loaded bool
}

// SessionOpts configures a [Session]. ClientID, ClientSecret and Store are
// required; the rest defaults to production behavior.
type SessionOpts struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Store        *TokenStore
	Logger       *log.Logger
	Prompt       io.Writer       // interactive flow messages, default os.Stderr
	HTTPClient   *http.Client    // used for exchange and refresh calls
	Endpoint     oauth2.Endpoint // defaults to the Spotify accounts service
	Timeout      time.Duration   // interactive flow timeout
}

// NewSession creates a session from the given options.
func NewSession(opts SessionOpts) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(os.Stderr)
	}
	prompt := opts.Prompt
	if prompt == nil {
		prompt = os.Stderr
	}
	redirectURI := opts.RedirectURI
	if redirectURI == "" {
		redirectURI = shared.DefaultRedirectURI
	}
	endpoint := opts.Endpoint
	if endpoint.AuthURL == "" && endpoint.TokenURL == "" {
		endpoint = oauth2.Endpoint{AuthURL: spotifyAuthURL, TokenURL: spotifyTokenURL}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = authTimeout
	}

	return &Session{
		config: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		store:       opts.Store,
		logger:      logger,
		prompt:      prompt,
		httpClient:  opts.HTTPClient,
		timeout:     timeout,
		listen:      net.Listen,
		openBrowser: shared.OpenBrowser,
	}
}

// Credential returns a credential whose access token is valid for immediate
// use, refreshing or authorizing interactively when the cache cannot supply
// one.
func (s *Session) Credential(ctx context.Context) (*Credential, error) {
	if !s.loaded {
		cred, err := s.store.Load()
		if err != nil {
			return nil, err
		}
		s.cred = cred
		s.loaded = true
	}

	switch {
	case s.cred == nil:
		return s.authorize(ctx)
	case s.cred.Stale(time.Now()):
		return s.refresh(ctx)
	default:
		return s.cred, nil
	}
}

// AccessToken implements the API client's token source.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	cred, err := s.Credential(ctx)
	if err != nil {
		return "", err
	}
	return cred.AccessToken, nil
}

// oauthContext threads the injected HTTP client into oauth2 calls.
func (s *Session) oauthContext(ctx context.Context) context.Context {
	if s.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

// refresh trades the cached refresh token for a new access token and
// persists the result.
func (s *Session) refresh(ctx context.Context) (*Credential, error) {
	if s.cred.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token in %s", shared.ErrAuthExpired, s.store.Path())
	}

	s.logger.Info("access token expired, refreshing")

	source := s.config.TokenSource(s.oauthContext(ctx), &oauth2.Token{RefreshToken: s.cred.RefreshToken})
	token, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: refresh rejected (%v); delete %s and run any command to authorize again",
				shared.ErrAuthExpired, err, s.store.Path())
		}
		return nil, fmt.Errorf("%w: token refresh: %v", shared.ErrAPIRequest, err)
	}

	cred := fromToken(token)
	if cred.RefreshToken == "" {
		cred.RefreshToken = s.cred.RefreshToken
	}
	if err := s.store.Save(cred); err != nil {
		return nil, err
	}

	s.cred = cred
	return cred, nil
}

// authorize runs the interactive authorization code flow: a loopback HTTP
// server receives the provider's callback while the user approves access in
// the browser.
func (s *Session) authorize(ctx context.Context) (*Credential, error) {
	state := shared.GenerateState()
	authURL := s.config.AuthCodeURL(state)

	addr, path, err := callbackEndpoint(s.config.RedirectURL)
	if err != nil {
		return nil, err
	}

	handler := server.NewCallbackHandler(s.oauthContext(ctx), s.config, state, path)
	router := server.NewBasicRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.logger.Debugf("callback server: %s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	})
	router.Handler(handler)

	listener, err := s.listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot listen on %s: %v", shared.ErrAuthFailed, addr, err)
	}

	httpServer := &http.Server{Handler: router}
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Infof("starting authorization server at %v", listener.Addr())
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	s.promptAuth(authURL)

	timeout := time.NewTimer(s.timeout)
	defer timeout.Stop()

	var result server.AuthResult
	select {
	case result = <-handler.Result():
		// Got result from the callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("%w: callback server: %v", shared.ErrAuthFailed, err)
	case <-timeout.C:
		httpServer.Close()
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, s.timeout)
	case <-ctx.Done():
		httpServer.Close()
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}
	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	cred := fromToken(result.Token)
	if err := s.store.Save(cred); err != nil {
		return nil, err
	}

	s.cred = cred
	return cred, nil
}

// promptAuth walks the user through the browser step. Output goes to the
// prompt writer so stdout stays reserved for command output.
func (s *Session) promptAuth(authURL string) {
	colors := ui.Colors()
	fmt.Fprintln(s.prompt, colors.Title("Spotify authorization required"))
	fmt.Fprintln(s.prompt, "→ Opening browser...")
	if err := s.openBrowser(authURL); err != nil {
		s.logger.Warnf("failed to open browser automatically %v", err)
		fmt.Fprintln(s.prompt, colors.Warn("⚠ Could not open browser automatically."))
		fmt.Fprintf(s.prompt, "Please open this URL in your browser:\n%s\n\n", authURL)
	}
	fmt.Fprintln(s.prompt, colors.Help(fmt.Sprintf("→ Waiting for authorization (%s timeout)...", s.timeout)))
}

// callbackEndpoint splits a redirect URI into the loopback listen address
// and the callback path.
func callbackEndpoint(redirectURI string) (addr, path string, err error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return "", "", fmt.Errorf("%w: bad redirect URI %q: %v", shared.ErrInvalidConfig, redirectURI, err)
	}

	host := parsed.Hostname()
	if host == "" {
		return "", "", fmt.Errorf("%w: redirect URI %q has no host", shared.ErrInvalidConfig, redirectURI)
	}
	port := parsed.Port()
	if port == "" {
		port = "8888"
	}

	path = parsed.Path
	if path == "" {
		path = "/"
	}

	return net.JoinHostPort(host, port), path, nil
}
