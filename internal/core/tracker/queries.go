package tracker

import (
	"sort"
	"strings"

	"github.com/agenthands/rollcall/internal/core/model"
)

// Representatives returns every profile ordered by name.
func (t *Tracker) Representatives() []*model.RepresentativeProfile {
	profiles := t.sortedProfiles()
	sort.SliceStable(profiles, func(i, j int) bool {
		return strings.ToLower(profiles[i].Name) < strings.ToLower(profiles[j].Name)
	})
	return profiles
}

// ByDistrict groups profiles under their district label; profiles with no
// known district fall under "unassigned".
func (t *Tracker) ByDistrict() map[string][]*model.RepresentativeProfile {
	groups := make(map[string][]*model.RepresentativeProfile)
	for _, profile := range t.sortedProfiles() {
		district := profile.District
		if district == "" {
			district = "unassigned"
		}
		groups[district] = append(groups[district], profile)
	}
	return groups
}

// VotesInRange returns all dated votes inside the window. Undated votes are
// excluded: a vote with no date cannot be placed in any time slice.
func (t *Tracker) VotesInRange(window model.DateWindow) []model.Vote {
	var votes []model.Vote
	days := make([]string, 0, len(t.byDay))
	for day := range t.byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	for _, day := range days {
		dayVotes := t.byDay[day]
		if len(dayVotes) == 0 || dayVotes[0].Date == nil || !window.Contains(*dayVotes[0].Date) {
			continue
		}
		votes = append(votes, dayVotes...)
	}
	return votes
}

// VotesForCase returns the votes recorded under one case identifier.
func (t *Tracker) VotesForCase(caseNumber string) []model.Vote {
	return t.byCase[caseNumber]
}

// Comparison summarizes the shared-case participation of the compared
// representatives.
type Comparison struct {
	Profiles    []*model.RepresentativeProfile `json:"profiles"`
	SharedCases []string                       `json:"shared_cases"`
	NotFound    []string                       `json:"not_found,omitempty"`
}

// Compare resolves each name and reports the cases every one of them
// participated in. Names that resolve nowhere are listed, not fatal.
func (t *Tracker) Compare(names ...string) Comparison {
	var cmp Comparison
	for _, name := range names {
		profile := t.GetRepresentative(name, DefaultFuzzyThreshold)
		if profile == nil {
			cmp.NotFound = append(cmp.NotFound, name)
			continue
		}
		cmp.Profiles = append(cmp.Profiles, profile)
	}
	if len(cmp.Profiles) < 2 {
		return cmp
	}

	counts := make(map[string]int)
	for _, profile := range cmp.Profiles {
		seen := make(map[string]bool)
		for _, vote := range profile.VoteHistory {
			if !seen[vote.CaseNumber] {
				seen[vote.CaseNumber] = true
				counts[vote.CaseNumber]++
			}
		}
	}
	for caseNumber, n := range counts {
		if n == len(cmp.Profiles) {
			cmp.SharedCases = append(cmp.SharedCases, caseNumber)
		}
	}
	sort.Strings(cmp.SharedCases)
	return cmp
}

// Summary holds corpus-wide aggregate statistics.
type Summary struct {
	Representatives int    `json:"representatives"`
	TotalVotes      int    `json:"total_votes"`
	TotalCases      int    `json:"total_cases"`
	MostActive      string `json:"most_active,omitempty"`
	MostMotions     string `json:"most_motions,omitempty"`
}

// Summarize computes the aggregate view over everything tracked so far.
func (t *Tracker) Summarize() Summary {
	s := Summary{
		Representatives: len(t.profiles),
		TotalCases:      len(t.byCase),
	}

	maxVotes, maxMotions := 0, 0
	for _, profile := range t.sortedProfiles() {
		s.TotalVotes += profile.TotalVotes
		if profile.TotalVotes > maxVotes {
			maxVotes = profile.TotalVotes
			s.MostActive = profile.Name
		}
		if profile.MotionsMade > maxMotions {
			maxMotions = profile.MotionsMade
			s.MostMotions = profile.Name
		}
	}
	return s
}
