// Package client talks to the healthkeeper server API.
//
// Errors
//
//   - ErrUnavailable: the server could not be reached.
//   - ErrUnauthorized: the server answered 401 (bad credentials or token).
//   - *netx.StatusError: any other non-2xx answer; Message is the server's
//     "error" field and is safe to show to the user.
package client
