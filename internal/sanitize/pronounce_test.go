package sanitize_test

import (
	"testing"

	"github.com/xsistens/voiced/internal/sanitize"
)

func TestApplyPronunciationsWholeWordCaseInsensitive(t *testing.T) {
	table := map[string]string{"pai": "P A I"}
	got := sanitize.ApplyPronunciations("PAI says hello to pai and Paint", table)
	want := "P A I says hello to P A I and Paint"
	if got != want {
		t.Errorf("ApplyPronunciations() = %q, want %q", got, want)
	}
}

func TestFlattenMarkdownLinks(t *testing.T) {
	got := sanitize.FlattenMarkdownLinks("see [the docs](https://example.com/docs) for more")
	want := "see the docs for more"
	if got != want {
		t.Errorf("FlattenMarkdownLinks() = %q, want %q", got, want)
	}
}

func TestStripURLSchemes(t *testing.T) {
	got := sanitize.StripURLSchemes("visit https://example.com or http://example.org")
	if got != "visit example.com or example.org" {
		t.Errorf("StripURLSchemes() = %q", got)
	}
}

func TestPrepareForSpeechPipeline(t *testing.T) {
	table := map[string]string{"pai": "P A I"}
	got := sanitize.PrepareForSpeech("PAI finished: see [report](https://x.test/r) [draft]", table)
	if got != "P A I finished: see report " {
		t.Errorf("PrepareForSpeech() = %q", got)
	}
}
