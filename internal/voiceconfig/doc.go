// Package voiceconfig loads the daemon's immutable configuration snapshot
// from four sources: a dotenv file, a structured JSON settings file, a
// markdown-embedded voice-personalities file, and a pronunciations file.
// Once Load returns, the snapshot is never mutated; callers needing a
// different value restart the daemon.
package voiceconfig
