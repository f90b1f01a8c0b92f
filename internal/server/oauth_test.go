package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func newTestOAuthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://127.0.0.1:8000/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "http://example.com/authorize",
			TokenURL: tokenURL,
		},
	}
}

func TestCallbackHandler(t *testing.T) {
	t.Run("Routes", func(t *testing.T) {
		handler := NewCallbackHandler(newTestOAuthConfig(""), "state123")
		routes := handler.Routes()
		if len(routes) != 1 || routes[0] != "/callback" {
			t.Errorf("Unexpected routes: %v", routes)
		}
	})

	t.Run("SuccessfulExchange", func(t *testing.T) {
		tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"new-token","refresh_token":"new-refresh","token_type":"Bearer","expires_in":3600}`))
		}))
		defer tokenServer.Close()

		handler := NewCallbackHandler(newTestOAuthConfig(tokenServer.URL), "state123")

		req := httptest.NewRequest(http.MethodGet, "/callback?code=auth-code&state=state123", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "Authorization successful") {
			t.Errorf("Unexpected body: %s", rec.Body.String())
		}

		select {
		case result := <-handler.Result():
			if err := result.Error(); err != nil {
				t.Fatalf("Expected success, got %v", err)
			}
			if result.Token.AccessToken != "new-token" {
				t.Errorf("Unexpected access token: %s", result.Token.AccessToken)
			}
			if result.Token.RefreshToken != "new-refresh" {
				t.Errorf("Unexpected refresh token: %s", result.Token.RefreshToken)
			}
		case <-time.After(time.Second):
			t.Fatal("No result delivered")
		}
	})

	t.Run("StateMismatch", func(t *testing.T) {
		handler := NewCallbackHandler(newTestOAuthConfig(""), "expected-state")

		req := httptest.NewRequest(http.MethodGet, "/callback?code=auth-code&state=forged", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Fatal("Expected error for state mismatch")
		}
		if !strings.Contains(result.Error().Error(), "state mismatch") {
			t.Errorf("Unexpected error: %v", result.Error())
		}
	})

	t.Run("AuthorizationDenied", func(t *testing.T) {
		handler := NewCallbackHandler(newTestOAuthConfig(""), "state123")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=state123&error=access_denied&error_description=User+denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Fatal("Expected error for denied authorization")
		}
		if !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("Expected error param in message, got %v", result.Error())
		}
	})

	t.Run("SecondCallbackRejected", func(t *testing.T) {
		handler := NewCallbackHandler(newTestOAuthConfig(""), "state123")

		first := httptest.NewRequest(http.MethodGet, "/callback?state=forged", nil)
		handler.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=late", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for replayed callback, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "already processed") {
			t.Errorf("Unexpected body: %s", rec.Body.String())
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("FiltersByMethod", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rec.Code)
		}

		post := httptest.NewRequest(http.MethodPost, "/ping", nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, post)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405 for wrong method, got %d", rec.Code)
		}
	})

	t.Run("AppliesMiddleware", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Test", "applied")
				next.ServeHTTP(w, r)
			})
		})
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Header().Get("X-Test") != "applied" {
			t.Error("Expected middleware to run")
		}
	})
}
