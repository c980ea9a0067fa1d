// Package cli provides the interactive DevConnector terminal client.
//
// It wires configuration and the REST API client into a small REPL. Typical
// flow: register or log in, then edit the own profile, browse profiles and
// posts, or delete the account.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL for the command list.
package cli
