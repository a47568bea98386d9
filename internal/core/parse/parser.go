// Package parse combines format detection, pattern extraction, and the
// generative fallback into a single document parse with method provenance.
package parse

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agenthands/rollcall/internal/core/aiextract"
	"github.com/agenthands/rollcall/internal/core/format"
	"github.com/agenthands/rollcall/internal/core/model"
	"github.com/agenthands/rollcall/internal/core/pattern"
)

// Parser walks each document through detect -> pattern extract -> optional
// AI augmentation -> merge. A failed parse is a per-document condition: the
// result carries warnings, never an error that would abort a batch.
type Parser struct {
	ai        *aiextract.Extractor // nil disables the fallback
	threshold int                  // pattern-record count at or below which the fallback runs
	log       zerolog.Logger
}

func New(ai *aiextract.Extractor, threshold int, log zerolog.Logger) *Parser {
	return &Parser{
		ai:        ai,
		threshold: threshold,
		log:       log,
	}
}

// Parse extracts the voting records of one document.
func (p *Parser) Parse(ctx context.Context, text string) model.ExtractionResult {
	result := model.ExtractionResult{Method: model.MethodNone}

	result.Format = format.Detect(text)
	patternRecords := pattern.Extract(result.Format, text)
	if len(patternRecords) > 0 {
		result.Records = patternRecords
		result.Method = model.MethodPattern
	}

	if p.ai != nil && (result.Format == model.DialectUnknown || len(patternRecords) <= p.threshold) {
		aiRecords, reasoning := p.ai.Extract(ctx, text)
		result.Reasoning = reasoning

		merged, added := mergeRecords(patternRecords, aiRecords)
		if added > 0 {
			result.Records = merged
			if len(patternRecords) > 0 {
				result.Method = model.MethodHybrid
			} else {
				result.Method = model.MethodAI
			}
		}
	}

	if len(result.Records) == 0 {
		result.Method = model.MethodNone
		result.Warnings = append(result.Warnings,
			"no voting records could be extracted from this document; it may not contain votes or uses an unrecognized layout")
	}

	return result
}

// mergeRecords keeps every pattern record and adds only the AI records that
// are not duplicates by a case-insensitive (movant, result) match. Pattern
// records win because their provenance is checkable against the source text.
func mergeRecords(patternRecords, aiRecords []model.VotingRecord) ([]model.VotingRecord, int) {
	seen := make(map[string]bool, len(patternRecords))
	for _, rec := range patternRecords {
		seen[mergeKey(rec)] = true
	}

	merged := patternRecords
	added := 0
	for _, rec := range aiRecords {
		key := mergeKey(rec)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, rec)
		added++
	}
	return merged, added
}

func mergeKey(rec model.VotingRecord) string {
	return strings.ToLower(strings.TrimSpace(rec.Movant)) + "|" + string(rec.Result)
}
