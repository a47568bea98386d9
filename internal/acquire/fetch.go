package acquire

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// The name probe only reads headers, so it gets a much tighter deadline
// than the transfer itself.
const (
	fetchTimeout = 60 * time.Second
	headTimeout  = 10 * time.Second
	maxAttempts  = 3
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

// FetchResult reports the outcome for one candidate ID.
type FetchResult struct {
	ID      int
	Path    string
	Skipped bool
	Err     error
}

// Fetch downloads the documents for the given IDs into the documents
// directory. At most Concurrency downloads run at once, dispatches are paced
// by PaceMillis, and each download is retried with backoff. A candidate whose
// document is already on disk is skipped unless force is set. Individual
// failures are reported per ID, never as a whole-batch error.
func (s *Source) Fetch(ctx context.Context, ids []int, force bool) []FetchResult {
	if len(ids) == 0 {
		return nil
	}
	if err := os.MkdirAll(s.cfg.DocumentsDir, 0o755); err != nil {
		results := make([]FetchResult, len(ids))
		for i, id := range ids {
			results[i] = FetchResult{ID: id, Err: err}
		}
		return results
	}

	results := make([]FetchResult, len(ids))
	semaphore := make(chan struct{}, s.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, id := range ids {
		select {
		case <-ctx.Done():
			results[i] = FetchResult{ID: id, Err: ctx.Err()}
			continue
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			defer func() { <-semaphore }()
			results[i] = s.fetchOne(ctx, id, force)
		}(i, id)

		if s.cfg.PaceMillis > 0 {
			time.Sleep(time.Duration(s.cfg.PaceMillis) * time.Millisecond)
		}
	}

	wg.Wait()
	return results
}

func (s *Source) fetchOne(ctx context.Context, id int, force bool) FetchResult {
	if !force {
		if path, ok := s.existingDocument(id); ok {
			s.log.Debug().Int("id", id).Str("path", path).Msg("document already on disk")
			return FetchResult{ID: id, Path: path, Skipped: true}
		}
	}

	url := fmt.Sprintf(s.cfg.URLTemplate, id)
	filename := s.remoteFilename(ctx, url, id)
	dest := filepath.Join(s.cfg.DocumentsDir, filename)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := time.Duration(attempt*attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return FetchResult{ID: id, Err: ctx.Err()}
			case <-time.After(backoff):
			}
		}

		if err := s.download(ctx, url, dest); err != nil {
			lastErr = err
			s.log.Warn().Int("id", id).Int("attempt", attempt).Err(err).Msg("download failed")
			continue
		}

		s.log.Info().Int("id", id).Str("path", dest).Msg("document downloaded")
		return FetchResult{ID: id, Path: dest}
	}

	return FetchResult{ID: id, Err: fmt.Errorf("document %d: %w", id, lastErr)}
}

// existingDocument reports whether a valid file for the ID is already in
// the documents dir.
func (s *Source) existingDocument(id int) (string, bool) {
	entries, err := os.ReadDir(s.cfg.DocumentsDir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		fileID, ok := s.filenameID(entry.Name())
		if !ok || fileID != id {
			continue
		}
		path := filepath.Join(s.cfg.DocumentsDir, entry.Name())
		if s.validFile(path) == nil {
			return path, true
		}
	}
	return "", false
}

func (s *Source) filenameID(name string) (int, bool) {
	match := s.namePattern.FindStringSubmatch(name)
	if match == nil {
		return 0, false
	}
	idx := s.namePattern.SubexpIndex("id")
	if idx < 0 || match[idx] == "" {
		return 0, false
	}
	id, err := strconv.Atoi(match[idx])
	if err != nil {
		return 0, false
	}
	return id, true
}

// remoteFilename asks the server for its Content-Disposition name so the
// stored file carries the date the discovery pass keys on. Falls back to a
// synthetic name when the server does not say.
func (s *Source) remoteFilename(ctx context.Context, url string, id int) string {
	ctx, cancel := context.WithTimeout(ctx, headTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Sprintf("document_%d.pdf", id)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Sprintf("document_%d.pdf", id)
	}
	defer resp.Body.Close()

	if disposition := resp.Header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := filepath.Base(params["filename"]); name != "" && name != "." {
				return name
			}
		}
	}
	return fmt.Sprintf("document_%d.pdf", id)
}

func (s *Source) download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// Write to a temp file first so a torn download never masquerades as
	// a real document on the next run.
	tmp, err := os.CreateTemp(s.cfg.DocumentsDir, ".download-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_, copyErr := io.Copy(tmp, resp.Body)
	closeErr := tmp.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(tmpPath)
		if copyErr != nil {
			return copyErr
		}
		return closeErr
	}

	if err := s.validFile(tmpPath); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, dest)
}

// validFile checks that the file is large enough to be a real document and,
// when it claims to be a PDF, actually starts with the PDF signature.
// Error pages served with a 200 fail both checks.
func (s *Source) validFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() < int64(s.cfg.MinFileBytes) {
		return fmt.Errorf("file too small (%d bytes), likely an error page", info.Size())
	}

	if strings.EqualFold(filepath.Ext(path), ".pdf") || filepath.Ext(path) == "" || strings.HasPrefix(filepath.Base(path), ".download-") {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		header := make([]byte, 5)
		if _, err := io.ReadFull(f, header); err != nil {
			return err
		}
		if !strings.HasPrefix(string(header), "%PDF") {
			return fmt.Errorf("file does not carry a PDF signature")
		}
	}
	return nil
}
