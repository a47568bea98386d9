// Package tracker aggregates extracted voting records into per-representative
// histories and resolves name variants to one identity. Aggregation is
// commutative and associative: any processing order of the same records
// produces identical state.
package tracker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agenthands/rollcall/internal/core/model"
)

// DefaultFuzzyThreshold is the minimum similarity for interactive lookup.
// Consolidation uses the stricter DefaultConsolidateThreshold because a
// destructive merge has a much higher false-positive cost than a query.
const (
	DefaultFuzzyThreshold       = 70
	DefaultConsolidateThreshold = 85
)

// Tracker is not safe for concurrent mutation; feed it gathered extraction
// results from a single goroutine.
type Tracker struct {
	profiles map[string]*model.RepresentativeProfile // lowercased name -> profile
	records  []model.VotingRecord
	byCase   map[string][]model.Vote
	byDay    map[string][]model.Vote // YYYY-MM-DD -> votes
	synth    int                     // running count feeding synthesized IDs
	sim      SimilarityFunc
	log      zerolog.Logger
}

func New(log zerolog.Logger) *Tracker {
	return &Tracker{
		profiles: make(map[string]*model.RepresentativeProfile),
		byCase:   make(map[string][]model.Vote),
		byDay:    make(map[string][]model.Vote),
		sim:      Similarity,
		log:      log,
	}
}

// SetSimilarity swaps the string scorer used for fuzzy resolution.
func (t *Tracker) SetSimilarity(fn SimilarityFunc) {
	if fn != nil {
		t.sim = fn
	}
}

// AddVotingRecord derives votes from one extracted record and aggregates
// them. A record lacking both a case identifier and a movant+result pair
// carries nothing attributable and is skipped with a warning, not an error.
func (t *Tracker) AddVotingRecord(rec model.VotingRecord) bool {
	if rec.CaseNumber == "" && !rec.HasMotion() {
		t.log.Warn().Str("movant", rec.Movant).Msg("skipping voting record with no case number and no movant/result pair")
		return false
	}

	caseNumber := rec.CaseNumber
	if caseNumber == "" {
		caseNumber = t.synthesizeCaseNumber(rec)
	}
	t.records = append(t.records, rec)

	description := rec.Subject
	if description == "" {
		description = rec.ZoningRequest
	}
	category := model.Categorize(description + " " + rec.ZoningRequest + " " + rec.RezoningAction)
	date := parseDay(rec.Date)

	added := false
	if rec.Movant != "" {
		added = t.addVote(model.Vote{
			CaseNumber:     caseNumber,
			Representative: rec.Movant,
			District:       rec.District,
			Type:           model.VoteMovant,
			Date:           date,
			Description:    description,
			Category:       category,
		}) || added
	}
	if rec.Second != "" {
		added = t.addVote(model.Vote{
			CaseNumber:     caseNumber,
			Representative: rec.Second,
			Type:           model.VoteSecond,
			Date:           date,
			Description:    description,
			Category:       category,
		}) || added
	}
	return added
}

// synthesizeCaseNumber builds a deterministic identifier for a record that
// carries a motion but no case number, so the vote is not silently dropped.
// The hash covers the movant, result, and a running count; it is stable
// within one tracker lifetime only.
func (t *Tracker) synthesizeCaseNumber(rec model.VotingRecord) string {
	t.synth++
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%s|%d",
		strings.ToLower(strings.TrimSpace(rec.Movant)), rec.Result, t.synth))
	return "SYNTH-" + hex.EncodeToString(sum[:4])
}

func (t *Tracker) addVote(vote model.Vote) bool {
	name := strings.TrimSpace(vote.Representative)
	if !validName(name) {
		t.log.Warn().Str("name", name).Msg("skipping vote with invalid representative name")
		return false
	}
	vote.Representative = name

	key := strings.ToLower(name)
	profile, ok := t.profiles[key]
	if !ok {
		profile = &model.RepresentativeProfile{Name: name}
		t.profiles[key] = profile
	}
	if profile.District == "" && vote.District != "" {
		profile.District = vote.District
	}

	profile.VoteHistory = append(profile.VoteHistory, vote)
	profile.TotalVotes++
	switch vote.Type {
	case model.VoteMovant:
		profile.MotionsMade++
	case model.VoteSecond:
		profile.SecondsGiven++
	case model.VoteFor:
		profile.VotesFor++
	case model.VoteAgainst:
		profile.VotesAgainst++
	case model.VoteAbstain:
		profile.Abstentions++
	}

	t.byCase[vote.CaseNumber] = append(t.byCase[vote.CaseNumber], vote)
	if vote.Date != nil {
		day := vote.Date.Format("2006-01-02")
		t.byDay[day] = append(t.byDay[day], vote)
	}
	return true
}

// labelArtifacts are extraction leaks that show up where a name belongs.
var labelArtifacts = map[string]bool{
	"MOVANT:": true, "SECOND:": true, "AYES:": true, "NAYS:": true,
	"MOTION": true, "VOTE": true, "NONE": true, "N/A": true,
}

func validName(name string) bool {
	if len(name) < 2 {
		return false
	}
	if strings.Contains(name, ":") {
		return false
	}
	if labelArtifacts[strings.ToUpper(name)] {
		return false
	}
	// All-uppercase with bracket punctuation is parser noise, not a person.
	if name == strings.ToUpper(name) && strings.ContainsAny(name, "()[]{}") {
		return false
	}
	return true
}

// GetRepresentative resolves a query to a profile. Cheap unambiguous
// strategies run first; fuzzy matching is the last resort because it can
// merge distinct people.
func (t *Tracker) GetRepresentative(query string, fuzzyThreshold int) *model.RepresentativeProfile {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	lower := strings.ToLower(query)

	if profile, ok := t.profiles[lower]; ok {
		return profile
	}

	for _, profile := range t.sortedProfiles() {
		if profile.District != "" && strings.EqualFold(profile.District, query) {
			return profile
		}
	}

	for _, profile := range t.sortedProfiles() {
		name := strings.ToLower(profile.Name)
		if strings.Contains(name, lower) || strings.Contains(lower, name) {
			return profile
		}
	}

	queryTokens := strings.Fields(lower)
	if len(queryTokens) > 0 {
		surname := queryTokens[len(queryTokens)-1]
		for _, profile := range t.sortedProfiles() {
			nameTokens := strings.Fields(strings.ToLower(profile.Name))
			if len(nameTokens) > 0 && nameTokens[len(nameTokens)-1] == surname {
				return profile
			}
		}
	}

	if best, score := t.bestBy(query, func(p *model.RepresentativeProfile) string { return p.Name }); best != nil && score >= fuzzyThreshold {
		return best
	}
	if best, score := t.bestBy(query, func(p *model.RepresentativeProfile) string { return p.District }); best != nil && score >= fuzzyThreshold {
		return best
	}
	return nil
}

func (t *Tracker) bestBy(query string, field func(*model.RepresentativeProfile) string) (*model.RepresentativeProfile, int) {
	var best *model.RepresentativeProfile
	bestScore := 0
	for _, profile := range t.sortedProfiles() {
		value := field(profile)
		if value == "" {
			continue
		}
		if score := t.sim(query, value); score > bestScore {
			best = profile
			bestScore = score
		}
	}
	return best, bestScore
}

// Candidate is one fuzzy-match suggestion.
type Candidate struct {
	Profile *model.RepresentativeProfile
	Score   int
}

// SimilarRepresentatives returns ranked fuzzy candidates for "did you mean"
// surfaces. It has no side effects.
func (t *Tracker) SimilarRepresentatives(query string, limit int) []Candidate {
	if limit <= 0 {
		limit = 5
	}

	candidates := make([]Candidate, 0, len(t.profiles))
	for _, profile := range t.sortedProfiles() {
		candidates = append(candidates, Candidate{Profile: profile, Score: t.sim(query, profile.Name)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// ConsolidateDuplicates merges profiles whose names score at or above the
// threshold, folding the smaller history into the larger. It is the only
// operation that rewrites counters, so it runs only when asked for.
// It returns the number of merges performed.
func (t *Tracker) ConsolidateDuplicates(threshold int) int {
	if threshold <= 0 {
		threshold = DefaultConsolidateThreshold
	}

	merges := 0
	for {
		key1, key2 := t.findMergePair(threshold)
		if key1 == "" {
			break
		}
		t.merge(key1, key2)
		merges++
	}
	return merges
}

func (t *Tracker) findMergePair(threshold int) (keep, fold string) {
	keys := make([]string, 0, len(t.profiles))
	for k := range t.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			a, b := t.profiles[keys[i]], t.profiles[keys[j]]
			if t.sim(a.Name, b.Name) < threshold {
				continue
			}
			// Districts that disagree mean two people who happen to share
			// a similar name; never merge across districts.
			if a.District != "" && b.District != "" && !strings.EqualFold(a.District, b.District) {
				continue
			}
			if a.TotalVotes >= b.TotalVotes {
				return keys[i], keys[j]
			}
			return keys[j], keys[i]
		}
	}
	return "", ""
}

func (t *Tracker) merge(keepKey, foldKey string) {
	keep, fold := t.profiles[keepKey], t.profiles[foldKey]
	t.log.Info().Str("into", keep.Name).Str("from", fold.Name).Msg("consolidating duplicate representative profiles")

	keep.VoteHistory = append(keep.VoteHistory, fold.VoteHistory...)
	keep.TotalVotes += fold.TotalVotes
	keep.VotesFor += fold.VotesFor
	keep.VotesAgainst += fold.VotesAgainst
	keep.Abstentions += fold.Abstentions
	keep.MotionsMade += fold.MotionsMade
	keep.SecondsGiven += fold.SecondsGiven
	if keep.District == "" {
		keep.District = fold.District
	}
	delete(t.profiles, foldKey)
}

func (t *Tracker) sortedProfiles() []*model.RepresentativeProfile {
	keys := make([]string, 0, len(t.profiles))
	for k := range t.profiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]*model.RepresentativeProfile, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.profiles[k])
	}
	return out
}

func parseDay(s string) *time.Time {
	if s == "" {
		return nil
	}
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &day
}
