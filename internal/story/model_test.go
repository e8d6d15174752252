package story

import (
	"context"
	"strings"
	"testing"

	"fable/internal/types"
)

func sampleRequest() Request {
	return Request{
		Start:    types.Coordinate{Lat: 48.8566, Lng: 2.3522, Label: "Paris"},
		End:      types.Coordinate{Lat: 48.8584, Lng: 2.2945, Label: "Eiffel Tower"},
		POINames: []string{"Louvre", "Musée d'Orsay"},
		Style:    StyleHistoric,
		Language: LanguageFrench,
		MaxWords: 150,
	}
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(sampleRequest())

	for _, want := range []string{
		"at most 150 words",
		`"Paris"`,
		`"Eiffel Tower"`,
		"Louvre, Musée d'Orsay",
		"French",
		"steeped in history",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestBuildPrompt_Defaults(t *testing.T) {
	req := sampleRequest()
	req.MaxWords = 0
	req.Language = LanguageAuto
	req.POINames = nil

	p := BuildPrompt(req)
	if !strings.Contains(p, "at most 200 words") {
		t.Errorf("expected default word bound, got:\n%s", p)
	}
	if !strings.Contains(p, "English") {
		t.Errorf("auto language should map to English:\n%s", p)
	}
	if strings.Contains(p, "Weave in") {
		t.Errorf("no POI section expected when list empty:\n%s", p)
	}
}

func TestParseStyleAndLanguage(t *testing.T) {
	if _, ok := ParseStyle("Historic"); !ok {
		t.Error("known style rejected")
	}
	if _, ok := ParseStyle("brooding"); ok {
		t.Error("unknown style accepted")
	}
	if l, ok := ParseLanguage("auto"); !ok || l != LanguageAuto {
		t.Error("auto language rejected")
	}
	if _, ok := ParseLanguage("tlh"); ok {
		t.Error("unknown language accepted")
	}
}

func TestProviders_MissingKeyFailsBeforeNetwork(t *testing.T) {
	// Neither provider may attempt a request without a credential.
	req := sampleRequest()

	g := NewGeminiProvider("", "gemini-2.0-flash")
	if err := g.StreamStory(context.Background(), req, func(string) {}); err != ErrMissingAPIKey {
		t.Errorf("gemini err = %v, want ErrMissingAPIKey", err)
	}

	a := NewAnthropicProvider("   ", "claude-sonnet-4-20250514")
	if err := a.StreamStory(context.Background(), req, func(string) {}); err != ErrMissingAPIKey {
		t.Errorf("anthropic err = %v, want ErrMissingAPIKey", err)
	}
}
