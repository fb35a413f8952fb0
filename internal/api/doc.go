// Package api provides the HTTP transport for the Privy wallet API. It handles
// app credentials, request/response serialization and error mapping.
//
// # Client Creation
//
// The package provides two ways to create a client:
//
//   - [NewClient]: Struct-based configuration for explicit, type-safe setup.
//   - [New]: Functional options pattern for flexible configuration.
//
// Both require an app ID and app secret. They are sent as HTTP Basic
// credentials, and the app ID is repeated in the privy-app-id header.
//
// # Request Signing
//
// Requests that act on a wallet's key material carry a
// privy-authorization-signature header. The transport does not know how to
// produce it: callers set [Request.Sign], which receives the method, the full
// URL and the body. An empty signature sends the request unsigned.
//
// Failed requests are not retried.
//
// # Error Handling
//
// Non-2xx responses are returned as [apierrors.APIError] with the status,
// the server message and the request ID. Transport failures, timeouts and
// cancelled contexts are returned as [apierrors.NetworkError].
//
// # Observability
//
// A zap logger and a [RequestObserver] may be attached. Request bodies,
// signatures and credentials are never logged.
package api
