package docs

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var minutesPattern = regexp.MustCompile(`(?i)(?P<date>\d{2}-\d{2}-\d{4})\s+(?P<tag>minutes|agenda)(?:\s*\((?P<id>\d+)\))?`)

func TestParseFilename(t *testing.T) {
	meta, ok := ParseFilename("documents/03-21-2023 Minutes (1457).pdf", minutesPattern, "01-02-2006")
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 3, 21, 0, 0, 0, 0, time.UTC), meta.Date)
	assert.Equal(t, 1457, meta.ID)
	assert.Equal(t, []string{"minutes"}, meta.Tags)
}

func TestParseFilenameWithoutID(t *testing.T) {
	meta, ok := ParseFilename("07-04-2022 Agenda.pdf", minutesPattern, "01-02-2006")
	require.True(t, ok)
	assert.Equal(t, -1, meta.ID)
	assert.Equal(t, []string{"agenda"}, meta.Tags)
}

func TestParseFilenameNoMatch(t *testing.T) {
	_, ok := ParseFilename("README.md", minutesPattern, "01-02-2006")
	assert.False(t, ok)
}

func TestParseFilenameBadDate(t *testing.T) {
	_, ok := ParseFilename("13-45-2023 Minutes.pdf", minutesPattern, "01-02-2006")
	assert.False(t, ok)
}

func TestLoadPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minutes.txt")
	require.NoError(t, os.WriteFile(path, []byte("MOVANT: Jane Doe\nAPPROVED"), 0o644))

	text, err := Load(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}
