package pattern

import (
	"regexp"
	"strings"

	"github.com/agenthands/rollcall/internal/core/model"
)

// nameRe matches "Commissioner Smith", "Council Member Jane Doe", or a bare
// capitalized name of up to four words.
const nameRe = `((?:Commissioner|Councilmember|Council\s+Member|Mayor|Mr\.|Ms\.|Mrs\.|Dr\.)?\s*[A-Z][A-Za-z'-]+(?:\s+[A-Z][A-Za-z'-]+){0,3})`

// The motion phrases are matched case-insensitively but the captured name is
// not, so a lowercase clause after the name ("to approve the request") never
// bleeds into the capture.
var (
	movedByRe     = regexp.MustCompile(`(?i:moved\s+by)\s+` + nameRe)
	movedSuffixRe = regexp.MustCompile(nameRe + `\s+(?i:moved)\b`)
	narrSecondRe  = regexp.MustCompile(`(?i:seconded\s+by)\s+` + nameRe)
	narrResultRe  = regexp.MustCompile(`(?i)\bMOTION\s+(CARRIED|PASSED|FAILED|APPROVED|DENIED|TABLED|WITHDRAWN)\b`)
	narrAyesRe    = regexp.MustCompile(`(?i)Ayes?:\s*([^\n.]+)`)
	narrNaysRe    = regexp.MustCompile(`(?i)Nays?:\s*([^\n.]+)`)
	titlePrefixRe = regexp.MustCompile(`(?i)^(Commissioner|Councilmember|Council\s+Member|Mayor|Mr\.|Ms\.|Mrs\.|Dr\.)\s+`)
)

// ExtractNarrative handles prose minutes. A paragraph block qualifies only
// when it contains both a motion phrase and a result phrase; a result alone
// is likely a reference to an earlier item, and a motion alone was never
// voted on.
func ExtractNarrative(text string) []model.VotingRecord {
	var records []model.VotingRecord

	for _, block := range splitBlocks(text) {
		movant := narrativeMovant(block)
		if movant == "" {
			continue
		}
		result := narrativeResult(block)
		if result == model.ResultUnknown {
			continue
		}

		rec := model.VotingRecord{
			Movant: movant,
			Result: result,
		}
		if m := narrSecondRe.FindStringSubmatch(block); m != nil {
			rec.Second = stripTitle(cleanName(m[1]))
		}
		if m := narrAyesRe.FindStringSubmatch(block); m != nil {
			rec.Ayes = strings.TrimSpace(m[1])
		}
		if m := narrNaysRe.FindStringSubmatch(block); m != nil {
			rec.Nays = strings.TrimSpace(m[1])
		}
		records = append(records, rec)
	}

	return records
}

func splitBlocks(text string) []string {
	var blocks []string
	for _, block := range regexp.MustCompile(`\n\s*\n`).Split(text, -1) {
		if strings.TrimSpace(block) != "" {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func narrativeMovant(block string) string {
	if m := movedByRe.FindStringSubmatch(block); m != nil {
		return stripTitle(cleanName(m[1]))
	}
	if m := movedSuffixRe.FindStringSubmatch(block); m != nil {
		return stripTitle(cleanName(m[1]))
	}
	return ""
}

func narrativeResult(block string) model.Result {
	if m := narrResultRe.FindStringSubmatch(block); m != nil {
		return model.ParseResult(m[1])
	}
	return findResult(block)
}

// stripTitle drops the honorific so "Commissioner Hall" and "Hall" resolve
// to the same identity downstream.
func stripTitle(name string) string {
	return strings.TrimSpace(titlePrefixRe.ReplaceAllString(name, ""))
}
