// Package cli provides the interactive medportal command-line client.
//
// The CLI plays the part of the browser front end: it collects credentials,
// shows the screen the session layer routes to, and reacts to session
// events. When any request reports an expired session the CLI prints a
// notice and moves back to the login screen; the request layer itself never
// navigates.
//
// Commands:
//   - login / register / logout
//   - profile, update (patient fields), doctors
//   - status, help, exit
//
// A background watcher pings the API at the configured interval and shows
// online/offline in the prompt. The REPL is started via App.Run(ctx), which
// blocks until the user exits or input ends.
package cli
