// Package server provides the local HTTP plumbing for the CLI OAuth flow.
//
// The [Router] interface defines routing with [Middleware] support; the
// [BasicRouter] implementation wraps [http.ServeMux] with method filtering.
//
// [CallbackHandler] implements the OAuth2 authorization code callback:
// it validates the state parameter, exchanges the code for a token, and
// delivers the outcome through a result channel. Only the first callback
// is processed.
//
// During `mixsync auth login` a temporary server binds the configured
// redirect address, serves one callback, and is shut down by the caller.
package server
