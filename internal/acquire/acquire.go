// Package acquire finds the minutes documents already on disk and downloads
// the ones estimated to be missing, under bounded concurrency with pacing
// and retry so the source server is never hammered.
package acquire

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/rs/zerolog"

	"github.com/agenthands/rollcall/internal/config"
	"github.com/agenthands/rollcall/internal/core/model"
	"github.com/agenthands/rollcall/internal/docs"
)

type Source struct {
	cfg         config.SourceConfig
	namePattern *regexp.Regexp
	client      httpDoer
	log         zerolog.Logger
}

// New validates the source configuration and builds the acquirer.
// Configuration mistakes are raised; they are operator errors.
func New(cfg config.SourceConfig, log zerolog.Logger) (*Source, error) {
	if cfg.FilenamePattern == "" {
		return nil, fmt.Errorf("source %q has no filename_pattern configured", cfg.Name)
	}
	pattern, err := regexp.Compile(cfg.FilenamePattern)
	if err != nil {
		return nil, fmt.Errorf("source %q has an invalid filename_pattern: %w", cfg.Name, err)
	}

	return &Source{
		cfg:         cfg,
		namePattern: pattern,
		client:      newHTTPClient(),
		log:         log,
	}, nil
}

// Discover returns metadata for the on-disk documents whose filename-embedded
// date falls inside the window.
func (s *Source) Discover(window model.DateWindow) ([]docs.Metadata, error) {
	entries, err := os.ReadDir(s.cfg.DocumentsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read documents dir %s: %w", s.cfg.DocumentsDir, err)
	}

	var found []docs.Metadata
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		meta, ok := docs.ParseFilename(filepath.Join(s.cfg.DocumentsDir, entry.Name()), s.namePattern, s.cfg.DateFormat)
		if !ok {
			continue
		}
		if window.Contains(meta.Date) {
			found = append(found, meta)
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Date.Before(found[j].Date) })
	return found, nil
}

// KnownIDs collects every numeric document ID present on disk, regardless
// of date, since IDs are assigned corpus-wide.
func (s *Source) KnownIDs() []int {
	entries, err := os.ReadDir(s.cfg.DocumentsDir)
	if err != nil {
		return nil
	}

	var ids []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		meta, ok := docs.ParseFilename(entry.Name(), s.namePattern, s.cfg.DateFormat)
		if ok && meta.ID >= 0 {
			ids = append(ids, meta.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// EstimateMissingIDs proposes candidate document IDs to download. Gaps
// inside the known range come first; when they fall short of the expected
// number of sittings in the window (roughly one per month), the probe
// extends past the highest known ID by a bounded batch. The total is capped
// so one run can never trigger an unbounded crawl.
func (s *Source) EstimateMissingIDs(existing []int, window model.DateWindow) []int {
	if len(existing) == 0 {
		count := s.cfg.StartBatch
		if count > s.cfg.MaxCandidates {
			count = s.cfg.MaxCandidates
		}
		ids := make([]int, 0, count)
		for i := 0; i < count; i++ {
			ids = append(ids, s.cfg.StartID+i)
		}
		return ids
	}

	known := make(map[int]bool, len(existing))
	minID, maxID := existing[0], existing[0]
	for _, id := range existing {
		known[id] = true
		if id < minID {
			minID = id
		}
		if id > maxID {
			maxID = id
		}
	}

	var candidates []int
	for id := minID + 1; id < maxID; id++ {
		if !known[id] {
			candidates = append(candidates, id)
		}
	}

	expected := window.Months()
	if len(candidates) < expected {
		extend := expected - len(candidates)
		if extend > s.cfg.ExtendBatch {
			extend = s.cfg.ExtendBatch
		}
		for i := 1; i <= extend; i++ {
			candidates = append(candidates, maxID+i)
		}
	}

	if len(candidates) > s.cfg.MaxCandidates {
		candidates = candidates[:s.cfg.MaxCandidates]
	}
	return candidates
}
