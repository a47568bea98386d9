package pattern

import (
	"regexp"
	"strings"

	"github.com/agenthands/rollcall/internal/core/model"
)

var (
	actionSplitRe = regexp.MustCompile(`(?i)\bAction:`)
	blankLineRe   = regexp.MustCompile(`\n[ \t]*\n`)
	motionByRe    = regexp.MustCompile(`(?i)Motion\s+By:\s*([^\n,;]+)`)
	secondedByRe  = regexp.MustCompile(`(?i)Second(?:ed)?\s+By:\s*([^\n,;]+)`)
	actionAyesRe  = regexp.MustCompile(`(?i)(?:Ayes|Voting\s+Aye):\s*([^\n]+)`)
	actionNaysRe  = regexp.MustCompile(`(?i)(?:Nays|Voting\s+Nay):\s*([^\n]+)`)
	actionCaseRe  = regexp.MustCompile(`(?i)(?:Case|Item)\s*(?:No\.?|Number)?\s*[:#]?\s*([A-Z]{0,3}[-\s]?\d[\d-]*)`)
	actionSubjRe  = regexp.MustCompile(`(?i)(?:Subject|Re):\s*([^\n]+)`)
	actionDistRe  = regexp.MustCompile(`(?i)District\s*[:#]?\s*(\d+|[A-Z])\b`)
)

// ExtractAction handles structured-action minutes. Every "Action:" marker
// closes one agenda item: the header paragraph before the marker names the
// motion maker and seconder, the text after it carries the result and any
// roll call. Segments never bleed into the next item's header.
func ExtractAction(text string) []model.VotingRecord {
	locs := actionSplitRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	// headerStarts[i] is where item i's header paragraph begins; it also
	// caps item i-1's body.
	headerStarts := make([]int, len(locs))
	for i, loc := range locs {
		floor := 0
		if i > 0 {
			floor = locs[i-1][1]
		}
		headerStarts[i] = paragraphStart(text, loc[0], floor)
	}

	var records []model.VotingRecord
	for i, loc := range locs {
		header := text[headerStarts[i]:loc[0]]
		bodyEnd := len(text)
		if i+1 < len(locs) {
			bodyEnd = headerStarts[i+1]
		}
		body := text[loc[1]:bodyEnd]

		result := findResult(body)
		if result == model.ResultUnknown {
			continue
		}

		rec := model.VotingRecord{Result: result}
		if m := motionByRe.FindStringSubmatch(header); m != nil {
			rec.Movant = cleanName(m[1])
		}
		if m := secondedByRe.FindStringSubmatch(header); m != nil {
			rec.Second = cleanName(m[1])
		}
		if m := actionAyesRe.FindStringSubmatch(body); m != nil {
			rec.Ayes = strings.TrimSpace(m[1])
		}
		if m := actionNaysRe.FindStringSubmatch(body); m != nil {
			rec.Nays = strings.TrimSpace(m[1])
		}
		if m := actionCaseRe.FindStringSubmatch(header); m != nil {
			rec.CaseNumber = strings.TrimSpace(m[1])
		}
		if m := actionSubjRe.FindStringSubmatch(header); m != nil {
			rec.Subject = strings.TrimSpace(m[1])
		}
		if m := actionDistRe.FindStringSubmatch(header); m != nil {
			rec.District = strings.TrimSpace(m[1])
		}
		records = append(records, rec)
	}

	return records
}

// paragraphStart returns the start of the paragraph containing upto,
// never earlier than floor.
func paragraphStart(text string, upto, floor int) int {
	segment := text[floor:upto]
	breaks := blankLineRe.FindAllStringIndex(segment, -1)
	if len(breaks) == 0 {
		return floor
	}
	return floor + breaks[len(breaks)-1][1]
}
