// README: Story request types and prompt construction.
package story

import (
	"fmt"
	"strings"

	"fable/internal/types"
)

// Style shapes the tone of the generated narrative.
type Style string

const (
	StyleAdventure Style = "adventure"
	StyleRomantic  Style = "romantic"
	StyleFunny     Style = "funny"
	StyleHistoric  Style = "historic"
	StyleMystery   Style = "mystery"
)

// Language selects the narrative language. LanguageAuto maps to English.
type Language string

const (
	LanguageAuto    Language = "auto"
	LanguageEnglish Language = "en"
	LanguageGerman  Language = "de"
	LanguageFrench  Language = "fr"
	LanguageSpanish Language = "es"
	LanguageItalian Language = "it"
)

var languageNames = map[Language]string{
	LanguageEnglish: "English",
	LanguageGerman:  "German",
	LanguageFrench:  "French",
	LanguageSpanish: "Spanish",
	LanguageItalian: "Italian",
}

var styleDirectives = map[Style]string{
	StyleAdventure: "a thrilling adventure full of momentum and discovery",
	StyleRomantic:  "a warm, romantic tale",
	StyleFunny:     "a lighthearted, humorous story",
	StyleHistoric:  "a story steeped in history and atmosphere",
	StyleMystery:   "a mysterious story with an air of intrigue",
}

// ParseStyle validates a user-supplied style string.
func ParseStyle(s string) (Style, bool) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	_, ok := styleDirectives[st]
	return st, ok
}

// ParseLanguage validates a user-supplied language string.
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if l == LanguageAuto {
		return l, true
	}
	_, ok := languageNames[l]
	return l, ok
}

// Request carries everything the prompt needs: trip endpoints, nearby sights,
// tone and language.
type Request struct {
	Start    types.Coordinate
	End      types.Coordinate
	POINames []string
	Style    Style
	Language Language
	MaxWords int
}

// DefaultMaxWords bounds the narrative length when the request does not.
const DefaultMaxWords = 200

// BuildPrompt renders the instruction sent to the generative text service.
func BuildPrompt(req Request) string {
	maxWords := req.MaxWords
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	lang := languageNames[req.Language]
	if lang == "" {
		lang = languageNames[LanguageEnglish]
	}

	tone, ok := styleDirectives[req.Style]
	if !ok {
		tone = styleDirectives[StyleAdventure]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write a short story of at most %d words about a trip from %q (%.4f, %.4f) to %q (%.4f, %.4f).\n",
		maxWords,
		req.Start.Label, req.Start.Lat, req.Start.Lng,
		req.End.Label, req.End.Lat, req.End.Lng,
	)
	fmt.Fprintf(&b, "The story should be %s, written in %s.\n", tone, lang)
	if len(req.POINames) > 0 {
		fmt.Fprintf(&b, "Weave in these sights near the destination: %s.\n", strings.Join(req.POINames, ", "))
	}
	b.WriteString("Respond with the story text only, no title and no preamble.")
	return b.String()
}
