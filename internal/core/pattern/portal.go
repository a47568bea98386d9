package pattern

import (
	"regexp"
	"strings"

	"github.com/agenthands/rollcall/internal/core/model"
)

// portalLookahead is how many lines past a result keyword the extractor
// searches for the labels belonging to that result.
const portalLookahead = 20

var portalLabelRe = regexp.MustCompile(`(?i)^\s*([A-Z][A-Z .]+?):\s*(.*)$`)

// portalFields maps a label as it appears in portal-style minutes to a
// setter on the record. DefaultPortalFields lists the labels scanned when a
// source config does not narrow the set.
var portalFields = map[string]func(*model.VotingRecord, string){
	"MOVANT":               func(r *model.VotingRecord, v string) { r.Movant = cleanName(v) },
	"SECOND":               func(r *model.VotingRecord, v string) { r.Second = cleanName(v) },
	"AYES":                 func(r *model.VotingRecord, v string) { r.Ayes = v },
	"NAYS":                 func(r *model.VotingRecord, v string) { r.Nays = v },
	"ABSTAIN":              func(r *model.VotingRecord, v string) { r.Abstain = v },
	"ABSENT":               func(r *model.VotingRecord, v string) { r.Absent = v },
	"CASE NUMBER":          func(r *model.VotingRecord, v string) { r.CaseNumber = strings.TrimSpace(v) },
	"CASE":                 func(r *model.VotingRecord, v string) { r.CaseNumber = strings.TrimSpace(v) },
	"DISTRICT":             func(r *model.VotingRecord, v string) { r.District = strings.TrimSpace(v) },
	"LOCATION":             func(r *model.VotingRecord, v string) { r.Location = strings.TrimSpace(v) },
	"ACRES":                func(r *model.VotingRecord, v string) { r.Acres = strings.TrimSpace(v) },
	"OWNER":                func(r *model.VotingRecord, v string) { r.Owner = strings.TrimSpace(v) },
	"APPLICANT":            func(r *model.VotingRecord, v string) { r.Applicant = strings.TrimSpace(v) },
	"PC DATE":              func(r *model.VotingRecord, v string) { r.PCDate = strings.TrimSpace(v) },
	"STAFF RECOMMENDATION": func(r *model.VotingRecord, v string) { r.StaffRecommendation = strings.TrimSpace(v) },
	"PC RECOMMENDATION":    func(r *model.VotingRecord, v string) { r.PCRecommendation = strings.TrimSpace(v) },
	"ZONING REQUEST":       func(r *model.VotingRecord, v string) { r.ZoningRequest = strings.TrimSpace(v) },
	"REZONING ACTION":      func(r *model.VotingRecord, v string) { r.RezoningAction = strings.TrimSpace(v) },
}

// DefaultPortalFields returns the full label set in a stable order.
func DefaultPortalFields() []string {
	return []string{
		"MOVANT", "SECOND", "AYES", "NAYS", "ABSTAIN", "ABSENT",
		"CASE NUMBER", "CASE", "DISTRICT", "LOCATION", "ACRES", "OWNER",
		"APPLICANT", "PC DATE", "STAFF RECOMMENDATION", "PC RECOMMENDATION",
		"ZONING REQUEST", "REZONING ACTION",
	}
}

// ExtractPortal scans label-based minutes line by line. A result keyword
// anchors a record; the labels inside the lookahead window attach to it.
func ExtractPortal(text string) []model.VotingRecord {
	return ExtractPortalFields(text, nil)
}

// ExtractPortalFields is ExtractPortal restricted to the given labels.
// A nil or empty list means the full default set.
func ExtractPortalFields(text string, fields []string) []model.VotingRecord {
	allowed := make(map[string]bool)
	if len(fields) == 0 {
		fields = DefaultPortalFields()
	}
	for _, f := range fields {
		allowed[strings.ToUpper(strings.TrimSpace(f))] = true
	}

	lines := strings.Split(text, "\n")

	var hits []int
	for i, line := range lines {
		if findResult(line) != model.ResultUnknown {
			hits = append(hits, i)
		}
	}

	// A label line attaches to exactly one record. Without this, adjacent
	// motion blocks inside one window would overwrite each other's
	// movant and seconder.
	claimed := make(map[int]bool)

	var records []model.VotingRecord
	for k, i := range hits {
		rec := model.VotingRecord{Result: findResult(lines[i])}

		// The window is centered on the hit because labels may precede the
		// result line in some portal exports, but it never crosses a
		// neighboring result line.
		back := i - portalLookahead
		if back < 0 {
			back = 0
		}
		if k > 0 && hits[k-1]+1 > back {
			back = hits[k-1] + 1
		}
		limit := i + portalLookahead
		if limit > len(lines) {
			limit = len(lines)
		}
		if k+1 < len(hits) && hits[k+1] < limit {
			limit = hits[k+1]
		}

		// Backward first: the nearest preceding label wins, and a field is
		// never overwritten once set.
		assigned := make(map[string]bool)
		for j := i; j >= back; j-- {
			applyPortalLabel(&rec, lines[j], j, allowed, assigned, claimed)
		}
		for j := i + 1; j < limit; j++ {
			applyPortalLabel(&rec, lines[j], j, allowed, assigned, claimed)
		}

		// One motion block can repeat its result keyword (for example in a
		// "request was APPROVED as presented" recap line); a repeat carries
		// no labels of its own, so collapse it instead of double-counting.
		if n := len(records); n > 0 && bareRepeat(records[n-1], rec) {
			continue
		}
		records = append(records, rec)
	}

	return records
}

func applyPortalLabel(rec *model.VotingRecord, line string, lineNum int, allowed, assigned map[string]bool, claimed map[int]bool) {
	if claimed[lineNum] {
		return
	}
	m := portalLabelRe.FindStringSubmatch(line)
	if m == nil {
		return
	}
	label := strings.ToUpper(strings.TrimSpace(m[1]))
	if !allowed[label] || assigned[label] {
		return
	}
	set, ok := portalFields[label]
	if !ok {
		return
	}
	set(rec, m[2])
	assigned[label] = true
	claimed[lineNum] = true
}

func bareRepeat(prev, rec model.VotingRecord) bool {
	return rec.Result == prev.Result && rec == (model.VotingRecord{Result: rec.Result})
}
