package acquire

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/rollcall/internal/config"
	"github.com/agenthands/rollcall/internal/core/model"
)

func testSource(t *testing.T, dir string) *Source {
	t.Helper()
	cfg := config.SourceConfig{
		Name:            "test",
		DocumentsDir:    dir,
		FilenamePattern: `(?i)(?P<date>\d{2}-\d{2}-\d{4})\s+Minutes(?:\s*\((?P<id>\d+)\))?`,
		DateFormat:      "01-02-2006",
		StartID:         100,
		StartBatch:      10,
		ExtendBatch:     20,
		MaxCandidates:   50,
		Concurrency:     3,
		MinFileBytes:    16,
	}
	s, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestNewRejectsBadPattern(t *testing.T) {
	_, err := New(config.SourceConfig{Name: "bad", FilenamePattern: `([unclosed`}, zerolog.Nop())
	assert.Error(t, err)
}

func TestDiscoverFiltersByWindow(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "01-10-2023 Minutes (5).pdf", "x")
	writeDoc(t, dir, "03-14-2023 Minutes (6).pdf", "x")
	writeDoc(t, dir, "09-28-2023 Minutes (7).pdf", "x")
	writeDoc(t, dir, "notes.txt", "x")

	window := model.DateWindow{
		Start: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	s := testSource(t, dir)
	found, err := s.Discover(window)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, 6, found[0].ID)
}

func TestDiscoverMissingDirIsEmpty(t *testing.T) {
	s := testSource(t, filepath.Join(t.TempDir(), "nope"))
	found, err := s.Discover(model.DateWindow{End: time.Now()})
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestEstimateMissingIDsFillsGapsThenExtends(t *testing.T) {
	s := testSource(t, t.TempDir())

	// Three expected sittings, one gap inside the known range: the gap is
	// filled first and the remainder probes past the highest known ID.
	window := model.DateWindow{
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	require.Equal(t, 3, window.Months())

	ids := s.EstimateMissingIDs([]int{10, 12}, window)
	assert.Equal(t, []int{11, 13, 14}, ids)
}

func TestEstimateMissingIDsEmptyStartsFromConfiguredID(t *testing.T) {
	s := testSource(t, t.TempDir())
	ids := s.EstimateMissingIDs(nil, model.DateWindow{End: time.Now()})
	require.Len(t, ids, 10)
	assert.Equal(t, 100, ids[0])
	assert.Equal(t, 109, ids[9])
}

func TestEstimateMissingIDsCapped(t *testing.T) {
	s := testSource(t, t.TempDir())
	// A huge gap must not produce more candidates than the cap.
	window := model.DateWindow{
		Start: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	ids := s.EstimateMissingIDs([]int{1, 500}, window)
	assert.Len(t, ids, 50)
	assert.Equal(t, 2, ids[0])
}

func pdfBody(size int) []byte {
	body := append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte("a"), size)...)
	return body
}

func TestFetchDownloadsAndValidates(t *testing.T) {
	dir := t.TempDir()
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Disposition", `attachment; filename="04-11-2023 Minutes (42).pdf"`)
			return
		}
		requests++
		w.Write(pdfBody(64))
	}))
	defer server.Close()

	s := testSource(t, dir)
	s.cfg.URLTemplate = server.URL + "/doc?id=%d"

	results := s.Fetch(context.Background(), []int{42}, false)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, filepath.Join(dir, "04-11-2023 Minutes (42).pdf"), results[0].Path)
	assert.False(t, results[0].Skipped)

	data, err := os.ReadFile(results[0].Path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, 1, requests)
}

func TestFetchSkipsExistingUnlessForced(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "04-11-2023 Minutes (42).pdf", string(pdfBody(64)))

	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			requests++
		}
		w.Write(pdfBody(64))
	}))
	defer server.Close()

	s := testSource(t, dir)
	s.cfg.URLTemplate = server.URL + "/doc?id=%d"

	results := s.Fetch(context.Background(), []int{42}, false)
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
	assert.Equal(t, 0, requests)

	results = s.Fetch(context.Background(), []int{42}, true)
	require.Len(t, results, 1)
	assert.False(t, results[0].Skipped)
	assert.Equal(t, 1, requests)
}

func TestFetchRejectsErrorPage(t *testing.T) {
	dir := t.TempDir()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not found</html>")
	}))
	defer server.Close()

	s := testSource(t, dir)
	s.cfg.URLTemplate = server.URL + "/doc?id=%d"

	results := s.Fetch(context.Background(), []int{7}, false)
	require.Len(t, results, 1)
	require.Error(t, results[0].Err)
	assert.Contains(t, results[0].Err.Error(), "PDF signature")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial file should survive a failed download")
}

func TestRemoteFilenameDeadlineFallsBack(t *testing.T) {
	// A name probe that cannot complete in time must not block the
	// transfer; the synthetic name is good enough.
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	s := testSource(t, t.TempDir())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	name := s.remoteFilename(ctx, server.URL, 7)
	assert.Equal(t, "document_7.pdf", name)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	dir := t.TempDir()
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write(pdfBody(64))
	}))
	defer server.Close()

	s := testSource(t, dir)
	s.cfg.URLTemplate = server.URL + "/doc?id=%d"

	results := s.Fetch(context.Background(), []int{9}, false)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, 2, attempts)
}
