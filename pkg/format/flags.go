package format

import (
	"strings"

	"go.uber.org/zap"

	"github.com/tabulario/tabular/pkg/logger"
	stringpool "github.com/tabulario/tabular/pkg/strings"
)

// flagDelimiter separates tokens in a flag string; "\ " escapes a
// literal space inside a token.
const flagDelimiter = ' '

// roleFlags maps flag tokens (long and short) to their short form.
var roleFlags = map[string]string{
	"class": "c", "c": "c",
	"ignore": "i", "i": "i",
	"meta": "m", "m": "m",
	"weight": "w", "w": "w",
}

func isFlagToken(tok string) bool {
	_, ok := roleFlags[tok]
	return ok
}

// ColumnFlags is the parsed role descriptor for one column. At most one
// of the four roles is primary for placement: ignore takes precedence,
// and meta (or a string-typed column) beats the rest.
type ColumnFlags struct {
	Class  bool
	Ignore bool
	Meta   bool
	Weight bool

	// Attributes holds the arbitrary key=value tokens; a duplicate key
	// overwrites the earlier value.
	Attributes map[string]string
}

// ParseFlags decodes the tokens of one column's flag string.
// Unrecognized non-empty tokens are logged and skipped; parsing never
// fails.
func ParseFlags(tokens []string) *ColumnFlags {
	f := &ColumnFlags{}
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if short, ok := roleFlags[tok]; ok {
			switch short {
			case "c":
				f.Class = true
			case "i":
				f.Ignore = true
			case "m":
				f.Meta = true
			case "w":
				f.Weight = true
			}
			continue
		}
		if idx := strings.Index(tok, "="); idx > 0 {
			if f.Attributes == nil {
				f.Attributes = make(map[string]string)
			}
			f.Attributes[tok[:idx]] = tok[idx+1:]
			continue
		}
		logger.Warn("invalid column flag", zap.String("flag", tok))
	}
	return f
}

// SplitFlags splits a flag string on unescaped spaces.
func SplitFlags(s string) []string {
	return stringpool.EscapeSplit(s, flagDelimiter)
}

// JoinFlags joins tokens into a flag string, escaping embedded spaces.
func JoinFlags(tokens ...string) string {
	trimmed := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok = strings.TrimSpace(tok); tok != "" {
			trimmed = append(trimmed, tok)
		}
	}
	return stringpool.EscapeJoin(trimmed, flagDelimiter)
}
