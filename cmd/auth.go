package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tmarsden/discograf/internal/server"
	"github.com/tmarsden/discograf/internal/services"
	"github.com/tmarsden/discograf/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// oauthTimeout bounds how long the callback server waits for the user
// to finish authorizing in the browser.
const oauthTimeout = 2 * time.Minute

// doOAuth runs the full authorization-code flow: it starts a local
// callback server, opens the authorization URL in the browser, and
// waits for the redirect to deliver a token.
func (r *Runner) doOAuth(ctx context.Context, svc services.OAuthService) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	handler := server.NewCallbackHandler(svc.GetOAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	serverErrors := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("callback server shutdown failed", "error", err)
		}
	}()

	authURL := svc.GetAuthURL(state)
	r.writePlainln("Opening your browser to authorize with Spotify...")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("could not open browser", "error", err)
		r.writePlain("Visit this URL to authorize:\n\n  %s\n\n", authURL)
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		return result.Token, nil
	case err := <-serverErrors:
		return nil, fmt.Errorf("%w: callback server: %v", shared.ErrAuthFailed, err)
	case <-time.After(oauthTimeout):
		return nil, fmt.Errorf("%w: no authorization after %s", shared.ErrTimeout, oauthTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// authenticate establishes a usable token on the service. Saved tokens
// from the config are tried first; otherwise the browser flow runs.
func (r *Runner) authenticate(ctx context.Context, svc services.Service) error {
	credentials := r.config.Credentials.Spotify
	if credentials.AccessToken != "" {
		err := svc.Authenticate(ctx, map[string]string{
			"access_token":  credentials.AccessToken,
			"refresh_token": credentials.RefreshToken,
		})
		if err == nil {
			return nil
		}
		r.logger.Warn("saved token rejected, re-authorizing", "error", err)
	}

	oauthSvc, ok := svc.(services.OAuthService)
	if !ok {
		return shared.ErrNotAuthenticated
	}

	token, err := r.doOAuth(ctx, oauthSvc)
	if err != nil {
		return err
	}

	if err := svc.Authenticate(ctx, map[string]string{
		"access_token":  token.AccessToken,
		"refresh_token": token.RefreshToken,
	}); err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		r.logger.Warn("could not persist tokens", "error", err)
	}
	return nil
}

// Auth is the action for the auth command.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.service()
	if err != nil {
		return err
	}

	oauthSvc, ok := svc.(services.OAuthService)
	if !ok {
		return fmt.Errorf("%w: %s does not support browser authorization", shared.ErrInvalidArgument, svc.Name())
	}

	token, err := r.doOAuth(ctx, oauthSvc)
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return fmt.Errorf("authorization succeeded but saving tokens failed: %w", err)
	}

	r.writePlainln("✓ Authorized with Spotify")
	r.writePlain("Tokens saved to %s\n", r.configPath)
	return nil
}
