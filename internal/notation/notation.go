package notation

import (
	"errors"
	"fmt"
	"strings"
)

// Translation errors
var (
	ErrEmptySequence    = errors.New("empty key sequence")
	ErrUnmatchedBracket = errors.New("unmatched bracket in key sequence")
	ErrUnknownToken     = errors.New("unknown key token")
)

// Special tokens that translate verbatim regardless of the target.
const (
	TokenLeader = "<leader>"
	TokenSpace  = "<space>"
)

// specialTokens maps lower-cased bracket contents to target tokens.
var specialTokens = map[string]string{
	"leader":    TokenLeader,
	"cr":        "enter",
	"enter":     "enter",
	"return":    "enter",
	"esc":       "escape",
	"escape":    "escape",
	"tab":       "tab",
	"space":     TokenSpace,
	"bs":        "backspace",
	"backspace": "backspace",
	"lt":        "<",
}

// modifierNames maps Vim modifier letters to their target spelling.
var modifierNames = map[string]string{
	"c": "ctrl",
	"s": "shift",
	"a": "alt",
}

// Translate converts a Vim left-hand side into a token list.
//
// On failure it returns a nil slice and an error wrapping one of the
// package sentinels. No partial token stream is ever returned.
func Translate(lhs string) ([]string, error) {
	if lhs == "" {
		return nil, ErrEmptySequence
	}

	runes := []rune(lhs)
	tokens := make([]string, 0, len(runes))

	for i := 0; i < len(runes); {
		r := runes[i]
		if r != '<' {
			tokens = append(tokens, string(r))
			i++
			continue
		}

		end := indexRune(runes, '>', i+1)
		if end == -1 {
			return nil, fmt.Errorf("%w: %q", ErrUnmatchedBracket, lhs)
		}

		token, err := translateBracket(string(runes[i+1 : end]))
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
		i = end + 1
	}

	return tokens, nil
}

// MustTranslate is Translate for known-valid sequences in tables and tests.
func MustTranslate(lhs string) []string {
	tokens, err := Translate(lhs)
	if err != nil {
		panic("invalid key sequence: " + lhs + ": " + err.Error())
	}
	return tokens
}

// translateBracket translates the inside of a <...> segment.
func translateBracket(inner string) (string, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return "", fmt.Errorf("%w: <>", ErrUnknownToken)
	}

	if token, ok := specialTokens[strings.ToLower(inner)]; ok {
		return token, nil
	}

	return translateChord(inner)
}

// translateChord handles modifier chords like "C-h" or "C-S-p".
// The final key keeps its case; modifier letters are case-insensitive.
func translateChord(inner string) (string, error) {
	parts := strings.Split(inner, "-")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: <%s>", ErrUnknownToken, inner)
	}

	payload := parts[len(parts)-1]
	if len([]rune(payload)) != 1 {
		return "", fmt.Errorf("%w: <%s>", ErrUnknownToken, inner)
	}

	var b strings.Builder
	for _, p := range parts[:len(parts)-1] {
		name, ok := modifierNames[strings.ToLower(p)]
		if !ok {
			return "", fmt.Errorf("%w: unknown modifier %q in <%s>", ErrUnknownToken, p, inner)
		}
		b.WriteString(name)
		b.WriteByte('+')
	}
	b.WriteString(payload)

	return b.String(), nil
}

func indexRune(runes []rune, r rune, from int) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// Join renders tokens as a readable sequence for reports and logs.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}
