package model

import (
	"strings"
	"time"
)

// VoteType tags the role a representative played on a single vote fact.
type VoteType string

const (
	VoteMovant  VoteType = "movant"
	VoteSecond  VoteType = "second"
	VoteFor     VoteType = "for"
	VoteAgainst VoteType = "against"
	VoteAbstain VoteType = "abstain"
)

// Category buckets a vote by subject matter for aggregate queries.
type Category string

const (
	CategoryRezoning  Category = "rezoning"
	CategoryOrdinance Category = "ordinance"
	CategoryBudget    Category = "budget"
	CategoryOther     Category = "other"
)

// Categorize derives a category tag from free text describing a vote.
func Categorize(text string) Category {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "rezon") || strings.Contains(lower, "zoning"):
		return CategoryRezoning
	case strings.Contains(lower, "ordinance"):
		return CategoryOrdinance
	case strings.Contains(lower, "budget") || strings.Contains(lower, "appropriation"):
		return CategoryBudget
	default:
		return CategoryOther
	}
}

// Vote is a normalized, single-person, single-role fact derived from a
// VotingRecord.
type Vote struct {
	CaseNumber     string     `json:"case_number"`
	Representative string     `json:"representative"`
	District       string     `json:"district,omitempty"`
	Type           VoteType   `json:"type"`
	Date           *time.Time `json:"date,omitempty"`
	Description    string     `json:"description,omitempty"`
	Category       Category   `json:"category"`
}

// RepresentativeProfile is the aggregate state per resolved identity.
// Counters are only ever incremented; TotalVotes always equals
// len(VoteHistory) outside of an explicit consolidation pass.
type RepresentativeProfile struct {
	Name         string `json:"name"`
	District     string `json:"district,omitempty"`
	TotalVotes   int    `json:"total_votes"`
	VotesFor     int    `json:"votes_for"`
	VotesAgainst int    `json:"votes_against"`
	Abstentions  int    `json:"abstentions"`
	MotionsMade  int    `json:"motions_made"`
	SecondsGiven int    `json:"seconds_given"`
	VoteHistory  []Vote `json:"vote_history"`
}

// DateWindow is a concrete time interval resolved from a query expression.
// Both ends are inclusive.
type DateWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w DateWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Months returns the number of calendar months the window touches,
// at least 1. Acquisition uses it to estimate one sitting per month.
func (w DateWindow) Months() int {
	if w.End.Before(w.Start) {
		return 1
	}
	months := (w.End.Year()-w.Start.Year())*12 + int(w.End.Month()) - int(w.Start.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}
