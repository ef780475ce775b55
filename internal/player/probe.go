package player

import (
	"github.com/charmbracelet/log"

	"github.com/xsistens/voiced/internal/engine"
)

// Probes is the cached start-up outcome of format-specific player
// discovery. Computed once; the dispatcher never re-probes mid-run.
type Probes struct {
	Uncompressed   Candidate
	UncompressedOK bool
	Compressed     Candidate
	CompressedOK   bool
}

// Probe runs candidate discovery for both formats and logs the outcome.
func Probe() Probes {
	var p Probes
	p.Uncompressed, p.UncompressedOK = ProbeFormat(engine.FormatUncompressed)
	log.Info("probed uncompressed audio player", "available", p.UncompressedOK, "player", p.Uncompressed.Name)

	p.Compressed, p.CompressedOK = ProbeFormat(engine.FormatCompressed)
	log.Info("probed compressed audio player", "available", p.CompressedOK, "player", p.Compressed.Name)

	return p
}
