package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

// newExchangeConfig points an OAuth2 config at a local token endpoint that
// always issues the same token.
func newExchangeConfig(t *testing.T) *oauth2.Config {
	t.Helper()
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "exchanged-token", "token_type": "Bearer", "refresh_token": "refresh-1", "expires_in": 3600}`))
	}))
	t.Cleanup(tokenServer.Close)

	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenServer.URL},
	}
}

func TestCallbackHandler(t *testing.T) {
	t.Run("Successful Exchange", func(t *testing.T) {
		handler := NewCallbackHandler(context.Background(), newExchangeConfig(t), "state-1", "")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/callback?code=auth-code&state=state-1", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Error("expected success page in response body")
		}

		result := <-handler.Result()
		if result.Error() != nil {
			t.Fatalf("expected no error, got %v", result.Error())
		}
		if result.Token == nil || result.Token.AccessToken != "exchanged-token" {
			t.Errorf("expected exchanged token, got %+v", result.Token)
		}
	})

	t.Run("Rejects Wrong State", func(t *testing.T) {
		handler := NewCallbackHandler(context.Background(), newExchangeConfig(t), "state-1", "")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/callback?code=auth-code&state=forged", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "invalid state") {
			t.Errorf("expected state error, got %v", result.Error())
		}
	})

	t.Run("Rejects Replays", func(t *testing.T) {
		handler := NewCallbackHandler(context.Background(), newExchangeConfig(t), "state-1", "")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?code=auth-code&state=state-1", nil))
		if first.Code != http.StatusOK {
			t.Fatalf("expected first callback to succeed, got %d", first.Code)
		}

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?code=auth-code&state=state-1", nil))

		if second.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for replay, got %d", second.Code)
		}
		if !strings.Contains(second.Body.String(), "already processed") {
			t.Errorf("expected replay message, got %q", second.Body.String())
		}
	})

	t.Run("Surfaces Provider Error", func(t *testing.T) {
		handler := NewCallbackHandler(context.Background(), newExchangeConfig(t), "state-1", "")

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/callback?error=access_denied&error_description=User+denied&state=state-1", nil)
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected provider error, got %v", result.Error())
		}
	})

	t.Run("Custom Path", func(t *testing.T) {
		handler := NewCallbackHandler(nil, newExchangeConfig(t), "s", "/auth/cb")

		routes := handler.Routes()
		if len(routes) != 1 || routes[0] != "/auth/cb" {
			t.Errorf("expected custom route, got %v", routes)
		}

		fallback := NewCallbackHandler(nil, newExchangeConfig(t), "s", "")
		if fallback.Routes()[0] != "/callback" {
			t.Errorf("expected default route, got %v", fallback.Routes())
		}
	})
}

type stubHandler struct {
	routes []string
	hits   int
}

func (s *stubHandler) Routes() []string { return s.routes }

func (s *stubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.hits++
	w.WriteHeader(http.StatusOK)
}

func TestBasicRouter(t *testing.T) {
	t.Run("Filters Methods", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodPost, "/submit", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/submit", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", rec.Code)
		}
		if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
			t.Errorf("expected Allow header POST, got %q", allow)
		}

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/submit", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("Registers All Handler Routes", func(t *testing.T) {
		stub := &stubHandler{routes: []string{"/a", "/b"}}
		router := NewBasicRouter()
		router.Handler(stub)

		for _, path := range stub.routes {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("expected 200 for %s, got %d", path, rec.Code)
			}
		}
		if stub.hits != 2 {
			t.Errorf("expected 2 hits, got %d", stub.hits)
		}
	})

	t.Run("Applies Middleware In Order", func(t *testing.T) {
		var order []string
		tag := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(tag("first"), tag("second"))
		router.Handler(&stubHandler{routes: []string{"/x"}})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		if len(order) != 2 || order[0] != "first" || order[1] != "second" {
			t.Errorf("expected middleware order [first second], got %v", order)
		}
	})
}
