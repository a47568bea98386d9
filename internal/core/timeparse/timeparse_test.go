package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var ref = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func TestExplicitRange(t *testing.T) {
	w, ok := ParseAt("2023-01-01 to 2023-12-31", ref)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), w.End)
}

func TestSinceYear(t *testing.T) {
	w, ok := ParseAt("since 2020", ref)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, ref, w.End)
}

func TestLastYear(t *testing.T) {
	for _, expr := range []string{"last year", "past year", "  LAST YEAR "} {
		w, ok := ParseAt(expr, ref)
		assert.True(t, ok, expr)
		assert.Equal(t, ref.AddDate(-1, 0, 0), w.Start)
		assert.Equal(t, ref, w.End)
	}
}

func TestLastNUnits(t *testing.T) {
	w, ok := ParseAt("past 3 months", ref)
	assert.True(t, ok)
	assert.Equal(t, ref.AddDate(0, -3, 0), w.Start)

	w, ok = ParseAt("last 2 years", ref)
	assert.True(t, ok)
	assert.Equal(t, ref.AddDate(-2, 0, 0), w.Start)
	assert.Equal(t, ref, w.End)
}

func TestUnitsAgo(t *testing.T) {
	w, ok := ParseAt("6 months ago", ref)
	assert.True(t, ok)
	end := ref.AddDate(0, -6, 0)
	assert.Equal(t, end, w.End)
	assert.Equal(t, end.AddDate(0, -1, 0), w.Start)
}

func TestSingleDate(t *testing.T) {
	w, ok := ParseAt("2023-06-20", ref)
	assert.True(t, ok)
	day := time.Date(2023, 6, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, day.AddDate(0, 0, -15), w.Start)
	assert.Equal(t, day.AddDate(0, 0, 15), w.End)
}

func TestEmbeddedExpressions(t *testing.T) {
	// Queries arrive as full sentences; the time expression inside still
	// has to resolve.
	w, ok := ParseAt("show me all rezoning votes since 2020", ref)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)

	w, ok = ParseAt("who made motions in the last 3 months?", ref)
	assert.True(t, ok)
	assert.Equal(t, ref.AddDate(0, -3, 0), w.Start)

	w, ok = ParseAt("votes from 2023-01-01 to 2023-06-30 please", ref)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), w.End)
}

func TestFallback(t *testing.T) {
	w, ok := ParseAt("whenever the council felt like it", ref)
	assert.False(t, ok)
	assert.Equal(t, ref.AddDate(0, -6, 0), w.Start)
	assert.Equal(t, ref, w.End)
}

func TestWindowMonths(t *testing.T) {
	w, _ := ParseAt("2024-01-10 to 2024-03-05", ref)
	assert.Equal(t, 3, w.Months())
}
