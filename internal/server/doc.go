// Package server exposes the daemon's only input: a small loopback-bound
// HTTP API that validates and sanitises each notification, enqueues it on
// the serial audio queue, and returns immediately.
package server
