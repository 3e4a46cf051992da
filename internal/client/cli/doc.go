// Package cli implements vaultctl, the DataVault command-line client.
//
// Every invocation loads configuration, restores the session saved by
// `vaultctl login` and talks to the REST API through package api. Tokens
// refreshed along the way are written back to the session file. Passwords
// and secret payloads are read from the terminal without echo.
//
// The command tree is built by NewRootCommand and run by Execute.
package cli
