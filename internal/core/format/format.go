// Package format picks the extraction dialect for a raw minutes document.
// Scoring is a cheap substring-count heuristic: good enough to select the
// right regex family, nothing more.
package format

import (
	"strings"

	"github.com/agenthands/rollcall/internal/core/model"
)

type signature struct {
	dialect model.Dialect
	markers []string
}

// Declaration order is the tie-break order: earlier dialects win on equal
// scores so detection stays deterministic.
var signatures = []signature{
	{model.DialectPortal, []string{"MOVANT:", "SECOND:", "AYES:", "NAYS:", "CASE NUMBER"}},
	{model.DialectAction, []string{"MOTION BY:", "SECONDED BY:", "ACTION:", "VOTE:"}},
	{model.DialectNarrative, []string{"MOTION CARRIED", "MOTION PASSED", "MOVED BY COMMISSIONER", "MOVED THAT", "UPON MOTION"}},
}

// Detect scores text against every dialect's signature markers and returns
// the argmax, or DialectUnknown when nothing matches.
func Detect(text string) model.Dialect {
	upper := strings.ToUpper(text)

	best := model.DialectUnknown
	bestScore := 0
	for _, sig := range signatures {
		score := 0
		for _, marker := range sig.markers {
			score += strings.Count(upper, marker)
		}
		if score > bestScore {
			best = sig.dialect
			bestScore = score
		}
	}
	return best
}

// Dialects lists the recognized dialects in declaration order.
func Dialects() []model.Dialect {
	out := make([]model.Dialect, 0, len(signatures))
	for _, sig := range signatures {
		out = append(out, sig.dialect)
	}
	return out
}
