// Package server provides the loopback HTTP infrastructure used during
// mail provider OAuth flows.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
// [Middleware] wraps handlers in reverse order (last added executes
// first), following the standard Go pattern. The [BasicRouter]
// implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the authorization code callback for the
// gmail and outlook consent flows. The handler validates the state
// parameter, exchanges the authorization code for tokens, and sends
// the result through a channel. It only processes one callback to
// prevent replay.
//
// # Usage
//
// When the user links a provider, a temporary HTTP server starts on the
// configured loopback address, handles the redirect from the provider's
// consent screen, and shuts down once a result is delivered or the flow
// times out. A callback alone does not mark the account connected; the
// caller confirms the link against the backend token endpoint.
package server
