package model

import "strings"

// Result is the outcome of a motion as recorded in the minutes.
type Result string

const (
	ResultApproved  Result = "APPROVED"
	ResultDenied    Result = "DENIED"
	ResultPassed    Result = "PASSED"
	ResultFailed    Result = "FAILED"
	ResultTabled    Result = "TABLED"
	ResultWithdrawn Result = "WITHDRAWN"
	ResultUnanimous Result = "UNANIMOUS"
	ResultUnknown   Result = ""
)

// ParseResult normalizes a raw result token from document text.
// DEFERRED shows up in portal-style minutes and means the same thing as TABLED.
func ParseResult(raw string) Result {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "APPROVED":
		return ResultApproved
	case "DENIED":
		return ResultDenied
	case "PASSED", "CARRIED":
		return ResultPassed
	case "FAILED":
		return ResultFailed
	case "TABLED", "DEFERRED":
		return ResultTabled
	case "WITHDRAWN":
		return ResultWithdrawn
	case "UNANIMOUS":
		return ResultUnanimous
	default:
		return ResultUnknown
	}
}

// Dialect identifies one of the recognized minutes layout families.
type Dialect string

const (
	DialectPortal    Dialect = "portal"
	DialectAction    Dialect = "action"
	DialectNarrative Dialect = "narrative"
	DialectUnknown   Dialect = "unknown"
)

// Method records which extraction path produced a result.
type Method string

const (
	MethodPattern Method = "pattern"
	MethodAI      Method = "ai"
	MethodHybrid  Method = "hybrid"
	MethodNone    Method = "none"
)

// VotingRecord is one row of raw extracted information from one document
// passage. It is created by an extractor and immutable once produced.
type VotingRecord struct {
	CaseNumber     string `json:"case_number,omitempty"`
	District       string `json:"district,omitempty"`
	Representative string `json:"representative,omitempty"`
	Movant         string `json:"movant,omitempty"`
	Second         string `json:"second,omitempty"`
	Result         Result `json:"result,omitempty"`
	Ayes           string `json:"ayes,omitempty"`
	Nays           string `json:"nays,omitempty"`
	Abstain        string `json:"abstain,omitempty"`
	Absent         string `json:"absent,omitempty"`
	Subject        string `json:"subject,omitempty"`

	// Zoning-case fields looked up by label when the source carries them.
	Location            string `json:"location,omitempty"`
	Acres               string `json:"acres,omitempty"`
	Owner               string `json:"owner,omitempty"`
	Applicant           string `json:"applicant,omitempty"`
	PCDate              string `json:"pc_date,omitempty"`
	StaffRecommendation string `json:"staff_recommendation,omitempty"`
	PCRecommendation    string `json:"pc_recommendation,omitempty"`
	ZoningRequest       string `json:"zoning_request,omitempty"`
	RezoningAction      string `json:"rezoning_action,omitempty"`

	Date string `json:"date,omitempty"` // YYYY-MM-DD when known
}

// HasMotion reports whether the record carries the minimum movant+result
// pair needed to derive votes when no case number is present.
func (r VotingRecord) HasMotion() bool {
	return r.Movant != "" && r.Result != ResultUnknown
}

// ExtractionResult is the output of parsing one document.
type ExtractionResult struct {
	Records   []VotingRecord `json:"records"`
	Format    Dialect        `json:"format"`
	Method    Method         `json:"method"`
	Reasoning string         `json:"reasoning,omitempty"`
	Warnings  []string       `json:"warnings,omitempty"`
}
