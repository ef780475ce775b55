// Package pipeline owns the dispatcher: the once-per-run engine selection,
// per-request routing to the chosen back-end with single-retry fallback,
// and the sentence-by-sentence progressive pipeline used for the
// neural-GPU back-end.
package pipeline
