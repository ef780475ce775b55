package engine

// LocalFallbackOrder is the fixed order the dispatcher retries through
// after any primary-path failure, evaluated against the cached probe
// result rather than re-probed.
var LocalFallbackOrder = []Kind{NeuralCPU, NeuralGPU, OSTTS}

// Registry holds one constructed Backend per available Kind. A Kind absent
// from the map was not probed as available and must be skipped by both
// initial selection and the fallback chain.
type Registry map[Kind]Backend

// Select implements the daemon's fixed initial-selection precedence:
// cloud beats everything if configured; otherwise an explicit user
// preference wins if it probed available; otherwise auto-detect in the
// fallback order. The second return value reports whether the caller's
// explicit preference was requested but unavailable, so the caller can log
// a warning — selection still falls through to auto-detect in that case,
// per "if requested but unavailable, log a warning and continue."
func Select(probes Probes, preferred Kind, preferredOK bool) (Kind, bool) {
	if probes.Cloud {
		return Cloud, false
	}

	warnUnavailable := false
	if preferredOK {
		if available(probes, preferred) {
			return preferred, false
		}
		warnUnavailable = true
	}

	for _, k := range LocalFallbackOrder {
		if available(probes, k) {
			return k, warnUnavailable
		}
	}
	return Unknown, warnUnavailable
}

func available(probes Probes, k Kind) bool {
	switch k {
	case Cloud:
		return probes.Cloud
	case NeuralCPU:
		return probes.NeuralCPU
	case NeuralGPU:
		return probes.NeuralGPU
	case OSTTS:
		return probes.OSTTS
	default:
		return false
	}
}

// Chain returns the registry's backends in fallback order, skipping any
// Kind that never probed available (and so has no entry in reg).
func Chain(reg Registry) []Backend {
	var out []Backend
	for _, k := range LocalFallbackOrder {
		if b, ok := reg[k]; ok {
			out = append(out, b)
		}
	}
	return out
}
