// Package player spawns the right external media player for a synthesised
// audio buffer, writes it to a uniquely named temporary file, and waits for
// the player to exit before cleaning up.
package player
