// Package cli provides the interactive MedKeeper command-line client.
//
// It wires configuration, the local session store, the application services
// and a REPL. A background watcher pings the backend and flips the prompt
// between online and offline.
//
// Key features:
//   - Register / Login / Logout (the session survives restarts)
//   - Today's list with optimistic "take"
//   - Medications: list, add, delete
//   - Month calendar, weekly progress and report export
//   - Profile view and edit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
