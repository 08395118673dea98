// Package cli provides the interactive healthkeeper command-line client.
//
// It wires configuration, the API client and an interactive REPL. The token
// returned by register or login is held in memory only and is forgotten on
// logout or exit.
//
// Commands: register, login, me, editname, editemail, logout, help, exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
