// Package services defines the [Service] interface for the music streaming
// provider and implements it for Spotify.
//
// # Service Interface
//
// The interface covers exactly the operations the playlist builder needs:
// profile lookup, artist search, discography enumeration, playlist creation,
// and track insertion.
//
// # Spotify Implementation
//
// [SpotifyService] uses OAuth2 authorization-code authentication. Requests go
// through a single doRequest helper that attaches the bearer token, paces
// calls with a client-side limiter, and decodes JSON responses.
//
// # OAuth Service Extension
//
// The [OAuthService] interface extends Service for OAuth providers.
// [SpotifyService] implements this for the CLI's server-side flow.
//
// # Error Handling
//
// Non-success HTTP statuses surface as [*APIError] carrying the status code
// and raw body text. Typed errors from the shared package mark specific
// conditions:
//   - [shared.ErrNotAuthenticated] : Authenticate() not called
//   - [shared.ErrTokenExpired] : 401 from the API, reauthorization needed
//
// There is no retry layer: transient and permanent failures are reported
// identically and handled at the per-artist boundary by the caller.
package services
