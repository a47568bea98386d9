//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/rollcall/internal/config"
	"github.com/agenthands/rollcall/internal/core/aiextract"
	"github.com/agenthands/rollcall/internal/core/common"
	"github.com/agenthands/rollcall/internal/core/parse"
	"github.com/agenthands/rollcall/internal/core/tracker"
	"github.com/agenthands/rollcall/internal/llm"
)

// narrativeMinutes is prose-style meeting text, the hardest of the three
// layouts the parser handles.
const narrativeMinutes = `
Regular Session, February 14, 2023.

Item 4: Rezoning request Z-2023-014 for the parcel at 1200 Oak Street.
Commissioner Jane Doe moved to approve the request as submitted, seconded
by Commissioner John Roe. Upon roll call the vote stood Ayes 5, Nays 0.
MOTION CARRIED.
`

func liveClient(t *testing.T) llm.Client {
	t.Helper()
	_ = godotenv.Load("../../.env")

	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		t.Skip("Skipping integration test: LLM_PROVIDER not set")
	}
	cfg := config.LLMConfig{
		Provider: provider,
		Model:    os.Getenv("LLM_MODEL"),
		APIKey:   os.Getenv("LLM_API_KEY"),
		BaseURL:  os.Getenv("LLM_BASE_URL"),
	}

	client, err := llm.NewClient(context.Background(), cfg)
	require.NoError(t, err)
	return client
}

func TestLiveExtractionFullFlow(t *testing.T) {
	client := liveClient(t)

	ai := aiextract.New(client, nil, 12000, zerolog.Nop())
	parser := parse.New(ai, 0, zerolog.Nop())

	result := parser.Parse(context.Background(), narrativeMinutes)
	require.NotEmpty(t, result.Records, "expected at least one voting record")

	tr := tracker.New(zerolog.Nop())
	for _, rec := range result.Records {
		rec.Date = "2023-02-14"
		tr.AddVotingRecord(rec)
	}

	// The model may vary phrasing, but the movant must resolve to Doe.
	profile := tr.GetRepresentative("Doe", tracker.DefaultFuzzyThreshold)
	require.NotNil(t, profile)
	assert.GreaterOrEqual(t, profile.MotionsMade+profile.SecondsGiven, 1)

	summary := tr.Summarize()
	assert.GreaterOrEqual(t, summary.Representatives, 1)
	assert.NotEmpty(t, summary.MostActive)
}

func TestLiveJSONMode(t *testing.T) {
	client := liveClient(t)

	resp, err := client.GenerateJSON(context.Background(),
		`Return a JSON object {"ok": true}.`)
	require.NoError(t, err)

	parsed, err := common.ParseJSON[okPayload](resp)
	require.NoError(t, err)
	assert.True(t, parsed.OK)
}

type okPayload struct {
	OK bool `json:"ok"`
}
