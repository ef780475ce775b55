// Package sanitize implements the text pipeline between the HTTP layer and
// the TTS back-ends: request-field validation and sanitisation, the
// legacy bracket-marker strip, pronunciation-map application, and the
// sentence splitter used by the progressive pipeline.
package sanitize
