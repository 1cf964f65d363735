// Package cli provides the interactive LicitaCRM auth command-line client.
//
// It wires configuration, the HTTP API client and a small REPL. The session
// lives in the client's cookie jar exactly as it would in a browser:
//   - login / logout
//   - whoami: calls the protected probe, renewing the access token once
//     through /auth/refresh when it has expired
//   - verify / refresh: call the corresponding endpoints directly
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
