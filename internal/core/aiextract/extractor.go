// Package aiextract is the generative-model fallback for documents the
// pattern extractors cannot handle. It is advisory infrastructure: total
// provider or parse failure degrades to zero records, never an error.
package aiextract

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/agenthands/rollcall/internal/core/common"
	"github.com/agenthands/rollcall/internal/core/model"
	"github.com/agenthands/rollcall/internal/llm"
)

const instruction = `You are reading the minutes of a local government meeting.
Work step by step: identify every motion that was voted on, who made it, who
seconded it, and the outcome. Then return a single JSON object of the shape:

{"reasoning": "<your step-by-step notes>",
 "votes": [{"movant": "", "second": "", "result": "", "ayes": "", "nays": "",
            "abstain": "", "absent": "", "subject": ""}]}

Use an empty string for any field you cannot determine. "result" should be one
of APPROVED, DENIED, PASSED, FAILED, TABLED, WITHDRAWN, UNANIMOUS.

MINUTES TEXT:
`

// aiVote mirrors the contract with the provider. Every field defaults to
// empty: the response is untrusted and partially specified.
type aiVote struct {
	Movant  string `json:"movant"`
	Second  string `json:"second"`
	Result  string `json:"result"`
	Ayes    string `json:"ayes"`
	Nays    string `json:"nays"`
	Abstain string `json:"abstain"`
	Absent  string `json:"absent"`
	Subject string `json:"subject"`
}

type aiResponse struct {
	Reasoning string   `json:"reasoning"`
	Votes     []aiVote `json:"votes"`
}

type Extractor struct {
	primary   llm.Client
	secondary llm.Client
	maxChars  int
	log       zerolog.Logger
}

// New builds the fallback extractor. secondary may be nil; it is attempted
// only when the primary fails or returns nothing.
func New(primary, secondary llm.Client, maxChars int, log zerolog.Logger) *Extractor {
	if maxChars <= 0 {
		maxChars = 12000
	}
	return &Extractor{
		primary:   primary,
		secondary: secondary,
		maxChars:  maxChars,
		log:       log,
	}
}

// Extract asks the configured providers for voting records. The returned
// reasoning trace is whatever the responding provider offered.
func (e *Extractor) Extract(ctx context.Context, text string) ([]model.VotingRecord, string) {
	prompt := instruction + common.Truncate(text, e.maxChars)

	records, reasoning, err := e.tryProvider(ctx, e.primary, prompt)
	if err == nil && len(records) > 0 {
		return records, reasoning
	}
	if err != nil {
		e.log.Warn().Err(err).Msg("primary AI extraction failed")
	}

	if e.secondary != nil {
		records, reasoning, err = e.tryProvider(ctx, e.secondary, prompt)
		if err == nil && len(records) > 0 {
			return records, reasoning
		}
		if err != nil {
			e.log.Warn().Err(err).Msg("secondary AI extraction failed")
		}
	}

	return nil, ""
}

func (e *Extractor) tryProvider(ctx context.Context, client llm.Client, prompt string) ([]model.VotingRecord, string, error) {
	if client == nil {
		return nil, "", fmt.Errorf("no client configured")
	}

	response, err := client.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, "", err
	}

	parsed, err := common.ParseJSON[aiResponse](response)
	if err != nil {
		return nil, "", err
	}

	var records []model.VotingRecord
	for _, v := range parsed.Votes {
		rec := model.VotingRecord{
			Movant:  strings.TrimSpace(v.Movant),
			Second:  strings.TrimSpace(v.Second),
			Result:  model.ParseResult(v.Result),
			Ayes:    strings.TrimSpace(v.Ayes),
			Nays:    strings.TrimSpace(v.Nays),
			Abstain: strings.TrimSpace(v.Abstain),
			Absent:  strings.TrimSpace(v.Absent),
			Subject: strings.TrimSpace(v.Subject),
		}
		if rec.Movant == "" && rec.Result == model.ResultUnknown {
			continue
		}
		records = append(records, rec)
	}

	return records, strings.TrimSpace(parsed.Reasoning), nil
}
