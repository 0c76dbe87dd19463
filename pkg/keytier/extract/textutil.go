package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// token is a whitespace-delimited piece of the title together with the rune
// offset it starts at.
type token struct {
	text string
	pos  int
}

// fieldsWithOffsets splits a title on whitespace, recording the rune offset
// of each token in the original title.
func fieldsWithOffsets(title string) []token {
	var toks []token
	var current strings.Builder
	pos := 0
	start := 0

	for _, r := range title {
		if unicode.IsSpace(r) {
			if current.Len() > 0 {
				toks = append(toks, token{text: current.String(), pos: start})
				current.Reset()
			}
		} else {
			if current.Len() == 0 {
				start = pos
			}
			current.WriteRune(r)
		}
		pos++
	}
	if current.Len() > 0 {
		toks = append(toks, token{text: current.String(), pos: start})
	}
	return toks
}

// stripSpaces removes all whitespace runes from a title.
func stripSpaces(title string) []rune {
	out := make([]rune, 0, utf8.RuneCountInString(title))
	for _, r := range title {
		if !unicode.IsSpace(r) {
			out = append(out, r)
		}
	}
	return out
}

// cleanToken strips leading and trailing punctuation and symbol runes.
func cleanToken(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
}

// cleanSpan cleans each token of a span and rejoins the survivors with
// single spaces.
func cleanSpan(toks []string) string {
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		if cleaned := cleanToken(t); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	return strings.Join(parts, " ")
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// hasHangul reports whether the text contains at least one Hangul rune.
func hasHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}

// numericOrSymbolOnly reports whether the text is entirely digits,
// punctuation, symbols, or spaces, carrying no lexical content.
func numericOrSymbolOnly(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// asciiLettersOnly reports whether the text consists solely of ASCII
// letters (with optional spaces), i.e. an english-only span.
func asciiLettersOnly(s string) bool {
	seen := false
	for _, r := range s {
		if r == ' ' {
			continue
		}
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			return false
		}
		seen = true
	}
	return seen
}

// singleRuneRepeat reports whether the text is one rune repeated, such as
// "aa" or "ㅋㅋㅋ".
func singleRuneRepeat(s string) bool {
	runes := []rune(s)
	if len(runes) < 2 {
		return false
	}
	for _, r := range runes[1:] {
		if r != runes[0] {
			return false
		}
	}
	return true
}
