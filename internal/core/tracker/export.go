package tracker

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/agenthands/rollcall/internal/core/model"
)

// exportColumns is the fixed CSV column set; consumers depend on the order.
var exportColumns = []string{
	"case_number", "district", "representative", "acres", "owner", "location",
	"applicant", "pc_date", "staff_recommendation", "pc_recommendation",
	"zoning_request", "rezoning_action", "movant", "second",
}

// Records returns the raw voting records accepted so far, in arrival order.
func (t *Tracker) Records() []model.VotingRecord {
	return t.records
}

// ExportCSV writes one row per accepted voting record.
func (t *Tracker) ExportCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportColumns); err != nil {
		return err
	}
	for _, rec := range t.records {
		row := []string{
			rec.CaseNumber, rec.District, rec.Representative, rec.Acres,
			rec.Owner, rec.Location, rec.Applicant, rec.PCDate,
			rec.StaffRecommendation, rec.PCRecommendation,
			rec.ZoningRequest, rec.RezoningAction, rec.Movant, rec.Second,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportJSON writes the accepted voting records as a JSON array.
func (t *Tracker) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	records := t.records
	if records == nil {
		records = []model.VotingRecord{}
	}
	return enc.Encode(records)
}
