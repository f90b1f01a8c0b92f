// Package server provides HTTP routing, middleware, and the OAuth2 callback
// handler for the CLI's authorization flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first),
// following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method filtering.
//
// # OAuth Callback Handler
//
// [CallbackHandler] implements the authorization-code callback: it validates
// the state nonce (CSRF protection), rejects denied authorizations via the
// error query parameter, exchanges the code for tokens, and delivers the
// result through a channel.
//
// It processes only one callback per instance to prevent replay attacks.
//
// # Usage
//
// When an authorization flow starts, a temporary HTTP server binds the
// configured host and port (default 127.0.0.1:8000), serves GET /callback
// exactly once, and is shut down as soon as the result arrives or the flow
// times out.
package server
