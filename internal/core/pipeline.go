// Package core wires document acquisition, parsing, and representative
// tracking into a single query-driven pipeline.
package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agenthands/rollcall/internal/acquire"
	"github.com/agenthands/rollcall/internal/core/model"
	"github.com/agenthands/rollcall/internal/core/parse"
	"github.com/agenthands/rollcall/internal/core/timeparse"
	"github.com/agenthands/rollcall/internal/core/tracker"
	"github.com/agenthands/rollcall/internal/docs"
)

type Pipeline struct {
	Source  *acquire.Source
	Parser  *parse.Parser
	Tracker *tracker.Tracker
	Workers int
	Log     zerolog.Logger
}

// Report summarizes one pipeline run.
type Report struct {
	BatchID              string           `json:"batch_id"`
	Query                string           `json:"query"`
	Window               model.DateWindow `json:"window"`
	DocumentsProcessed   int              `json:"documents_processed"`
	DocumentsFailed      int              `json:"documents_failed"`
	RecordsExtracted     int              `json:"records_extracted"`
	RepresentativesFound int              `json:"representatives_found"`
	Warnings             []string         `json:"warnings,omitempty"`
}

type docResult struct {
	meta    docs.Metadata
	result  model.ExtractionResult
	loadErr error
}

// Run resolves the natural-language query to a date window, acquires the
// documents for that window, parses them concurrently, and feeds every
// extracted record into the tracker. A document that fails to load or yields
// nothing is reported in the warnings; it never fails the run.
func (p *Pipeline) Run(ctx context.Context, query string, force bool) (*Report, error) {
	report := &Report{
		BatchID: uuid.New().String(),
		Query:   query,
	}

	window, ok := timeparse.Parse(query)
	if !ok {
		report.Warnings = append(report.Warnings,
			"no time expression recognized in query, defaulting to the last 6 months")
	}
	report.Window = window

	p.Log.Info().
		Str("batch_id", report.BatchID).
		Time("start", window.Start).
		Time("end", window.End).
		Msg("pipeline run started")

	if err := p.acquireWindow(ctx, window, force, report); err != nil {
		return nil, err
	}

	found, err := p.Source.Discover(window)
	if err != nil {
		return nil, fmt.Errorf("document discovery failed: %w", err)
	}
	if len(found) == 0 {
		report.Warnings = append(report.Warnings, "no documents found for the requested window")
		report.RepresentativesFound = len(p.Tracker.Representatives())
		return report, nil
	}

	for _, r := range p.parseAll(ctx, found) {
		if r.loadErr != nil {
			report.DocumentsFailed++
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("%s: %v", r.meta.Path, r.loadErr))
			continue
		}
		report.DocumentsProcessed++
		report.Warnings = append(report.Warnings, r.result.Warnings...)

		day := r.meta.Date
		for _, record := range r.result.Records {
			if record.Date == "" {
				record.Date = day.Format("2006-01-02")
			}
			if p.Tracker.AddVotingRecord(record) {
				report.RecordsExtracted++
			}
		}
	}

	report.RepresentativesFound = len(p.Tracker.Representatives())

	p.Log.Info().
		Str("batch_id", report.BatchID).
		Int("documents", report.DocumentsProcessed).
		Int("failed", report.DocumentsFailed).
		Int("records", report.RecordsExtracted).
		Msg("pipeline run finished")
	return report, nil
}

func (p *Pipeline) acquireWindow(ctx context.Context, window model.DateWindow, force bool, report *Report) error {
	missing := p.Source.EstimateMissingIDs(p.Source.KnownIDs(), window)
	if len(missing) == 0 {
		return nil
	}

	for _, r := range p.Source.Fetch(ctx, missing, force) {
		if r.Err != nil {
			// Probed IDs often do not exist; log and move on.
			p.Log.Debug().Int("id", r.ID).Err(r.Err).Msg("candidate fetch failed")
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// parseAll loads and parses documents under a bounded worker pool. Tracker
// aggregation stays on the caller's goroutine, keeping results ordered by
// document date.
func (p *Pipeline) parseAll(ctx context.Context, found []docs.Metadata) []docResult {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(found) {
		workers = len(found)
	}

	jobs := make(chan int)
	results := make([]docResult, len(found))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				meta := found[i]
				text, err := docs.Load(meta.Path)
				if err != nil {
					results[i] = docResult{meta: meta, loadErr: err}
					continue
				}
				results[i] = docResult{meta: meta, result: p.Parser.Parse(ctx, text)}
			}
		}()
	}

	for i := range found {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}
