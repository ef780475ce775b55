// Package daemon assembles one long-lived Daemon value binding
// configuration, engine selection, the audio queue, the dispatcher, and
// the HTTP server, replacing the package-level mutable globals the
// teacher used for its own single shared state.
package daemon
