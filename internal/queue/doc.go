// Package queue implements the daemon's serial audio queue: a single
// bounded FIFO that admits every notification requesting voice output and
// releases them strictly one at a time to the dispatcher.
package queue