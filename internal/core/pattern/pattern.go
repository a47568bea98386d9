// Package pattern holds the regex rule sets for the known minutes dialects.
// Each dialect registers one ExtractFunc; adding a dialect means adding an
// entry to the table, not touching a dispatch chain.
package pattern

import (
	"regexp"
	"strings"

	"github.com/agenthands/rollcall/internal/core/model"
)

// ExtractFunc turns raw document text into zero or more voting records.
// Extractors never invent case numbers; identifier synthesis happens later
// when votes are constructed.
type ExtractFunc func(text string) []model.VotingRecord

var extractors = map[model.Dialect]ExtractFunc{
	model.DialectPortal:    ExtractPortal,
	model.DialectAction:    ExtractAction,
	model.DialectNarrative: ExtractNarrative,
}

// Register adds or replaces the extractor for a dialect.
func Register(d model.Dialect, fn ExtractFunc) {
	extractors[d] = fn
}

// Extract dispatches to the registered extractor for the dialect.
// Unknown dialects yield no records.
func Extract(d model.Dialect, text string) []model.VotingRecord {
	fn, ok := extractors[d]
	if !ok {
		return nil
	}
	return fn(text)
}

var resultKeywordRe = regexp.MustCompile(`(?i)\b(APPROVED|DENIED|FAILED|PASSED|TABLED|WITHDRAWN|DEFERRED|UNANIMOUS)\b`)

func findResult(text string) model.Result {
	m := resultKeywordRe.FindString(text)
	if m == "" {
		return model.ResultUnknown
	}
	return model.ParseResult(m)
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".,;")
	return strings.Join(strings.Fields(s), " ")
}
