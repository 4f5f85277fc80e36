// Package cli provides the interactive library access command-line client.
//
// It wires configuration, the local token cache, the gateway client and a
// REPL used both by holders and by scanning staff. A background watcher
// pings the gateway and shows online/offline in the prompt.
//
// Holders issue, show and watch their rotating access code, export it as a
// PNG or fetch the snapshot stored by the gateway. Staff scan codes, one at
// a time or line by line from a handheld reader, browse the audit log and
// append corrections to it.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
