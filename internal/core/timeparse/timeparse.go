// Package timeparse resolves free-form time expressions into concrete date
// windows. It never fails: expressions it cannot understand fall back to the
// last six months so downstream queries stay best-effort.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/agenthands/rollcall/internal/core/model"
)

const isoDay = "2006-01-02"

// The expressions are searched, not anchored: queries arrive as full
// sentences ("show votes since 2020"), and the embedded time expression
// still has to resolve. Priority order is the order the checks run in.
var (
	lastYearRe  = regexp.MustCompile(`\b(?:last|past)\s+year\b`)
	lastUnitsRe = regexp.MustCompile(`\b(?:last|past)\s+(\d+)\s+(month|year)s?\b`)
	unitsAgoRe  = regexp.MustCompile(`\b(\d+)\s+(month|year)s?\s+ago\b`)
	sinceRe     = regexp.MustCompile(`\bsince\s+(\d{4})\b`)
	rangeRe     = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\s+to\s+(\d{4}-\d{2}-\d{2})\b`)
	singleRe    = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
)

// Parse resolves text against the current clock. The boolean reports whether
// the expression was understood; false means the six-month fallback applied.
func Parse(text string) (model.DateWindow, bool) {
	return ParseAt(text, time.Now())
}

// ParseAt is Parse with an explicit reference instant.
func ParseAt(text string, now time.Time) (model.DateWindow, bool) {
	expr := strings.ToLower(strings.TrimSpace(text))

	if lastYearRe.MatchString(expr) {
		return model.DateWindow{Start: now.AddDate(-1, 0, 0), End: now}, true
	}

	if m := lastUnitsRe.FindStringSubmatch(expr); m != nil {
		n, _ := strconv.Atoi(m[1])
		return model.DateWindow{Start: minus(now, n, m[2]), End: now}, true
	}

	// "N months ago" is a point in the past; give it a one-month window
	// ending there so a single meeting cycle is covered.
	if m := unitsAgoRe.FindStringSubmatch(expr); m != nil {
		n, _ := strconv.Atoi(m[1])
		end := minus(now, n, m[2])
		return model.DateWindow{Start: end.AddDate(0, -1, 0), End: end}, true
	}

	if m := sinceRe.FindStringSubmatch(expr); m != nil {
		year, _ := strconv.Atoi(m[1])
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
		return model.DateWindow{Start: start, End: now}, true
	}

	if m := rangeRe.FindStringSubmatch(expr); m != nil {
		start, err1 := time.ParseInLocation(isoDay, m[1], now.Location())
		end, err2 := time.ParseInLocation(isoDay, m[2], now.Location())
		if err1 == nil && err2 == nil {
			return model.DateWindow{Start: start, End: end}, true
		}
	}

	if m := singleRe.FindStringSubmatch(expr); m != nil {
		if day, err := time.ParseInLocation(isoDay, m[1], now.Location()); err == nil {
			return model.DateWindow{Start: day.AddDate(0, 0, -15), End: day.AddDate(0, 0, 15)}, true
		}
	}

	return model.DateWindow{Start: now.AddDate(0, -6, 0), End: now}, false
}

func minus(now time.Time, n int, unit string) time.Time {
	if unit == "year" {
		return now.AddDate(-n, 0, 0)
	}
	return now.AddDate(0, -n, 0)
}
