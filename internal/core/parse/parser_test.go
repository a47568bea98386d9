package parse

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/rollcall/internal/core/aiextract"
	"github.com/agenthands/rollcall/internal/core/model"
)

const portalText = "MOVANT: Jane Doe\nSECOND: John Roe\nAPPROVED"

func aiClient(response string) *aiextract.Extractor {
	return aiextract.New(&aiextract.MockClient{Response: response}, nil, 0, zerolog.Nop())
}

func TestParsePatternOnly(t *testing.T) {
	parser := New(nil, 0, zerolog.Nop())

	result := parser.Parse(context.Background(), portalText)
	require.Len(t, result.Records, 1)
	assert.Equal(t, model.DialectPortal, result.Format)
	assert.Equal(t, model.MethodPattern, result.Method)
	assert.Equal(t, "Jane Doe", result.Records[0].Movant)
	assert.Equal(t, "John Roe", result.Records[0].Second)
	assert.Equal(t, model.ResultApproved, result.Records[0].Result)
}

// With the default threshold of 0 the fallback must not run when pattern
// extraction found something.
func TestParseSkipsAIWhenPatternSufficient(t *testing.T) {
	mock := &aiextract.MockClient{Response: `{"votes": [{"movant": "Ghost", "result": "PASSED"}]}`}
	parser := New(aiextract.New(mock, nil, 0, zerolog.Nop()), 0, zerolog.Nop())

	result := parser.Parse(context.Background(), portalText)
	assert.Equal(t, model.MethodPattern, result.Method)
	assert.Len(t, result.Records, 1)
	assert.Zero(t, mock.Calls)
}

func TestParseAIFallbackOnUnknownFormat(t *testing.T) {
	ai := aiClient(`{"reasoning": "found one", "votes": [{"movant": "Jane Doe", "result": "APPROVED"}]}`)
	parser := New(ai, 0, zerolog.Nop())

	result := parser.Parse(context.Background(), "A very unusual document layout with a vote hidden in it.")
	require.Len(t, result.Records, 1)
	assert.Equal(t, model.DialectUnknown, result.Format)
	assert.Equal(t, model.MethodAI, result.Method)
	assert.Equal(t, "found one", result.Reasoning)
}

// A raised threshold runs the fallback even for a known format; a duplicate
// (movant, result) pair from the AI must not be double-counted, and the
// method stays "pattern" because the AI contributed nothing new.
func TestParseMergeDropsDuplicates(t *testing.T) {
	ai := aiClient(`{"votes": [{"movant": "JANE DOE", "result": "APPROVED"}]}`)
	parser := New(ai, 5, zerolog.Nop())

	result := parser.Parse(context.Background(), portalText)
	assert.Len(t, result.Records, 1)
	assert.Equal(t, model.MethodPattern, result.Method)
}

func TestParseMergeHybrid(t *testing.T) {
	ai := aiClient(`{"votes": [
		{"movant": "Jane Doe", "result": "APPROVED"},
		{"movant": "Pat Quinn", "result": "DENIED"}
	]}`)
	parser := New(ai, 5, zerolog.Nop())

	result := parser.Parse(context.Background(), portalText)
	require.Len(t, result.Records, 2)
	assert.Equal(t, model.MethodHybrid, result.Method)
	assert.Equal(t, "Jane Doe", result.Records[0].Movant, "pattern records come first")
	assert.Equal(t, "Pat Quinn", result.Records[1].Movant)
}

func TestParseEmptyDocumentWarns(t *testing.T) {
	parser := New(nil, 0, zerolog.Nop())

	result := parser.Parse(context.Background(), "Nothing here resembles a vote.")
	assert.Empty(t, result.Records)
	assert.Equal(t, model.MethodNone, result.Method)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no voting records")
}
