// Package docs turns files on disk into document text and metadata. The
// filename convention (embedded date, numeric ID, classification tags) is
// configured per source, never hardcoded.
package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// Metadata is what a filename tells us about a document before reading it.
type Metadata struct {
	Path string
	Date time.Time
	ID   int
	Tags []string
}

// ParseFilename extracts metadata through the configured pattern. The
// pattern uses named groups: "date" (required, in dateFormat), "id", and
// "tag". A filename that does not match carries no usable metadata.
func ParseFilename(path string, pattern *regexp.Regexp, dateFormat string) (Metadata, bool) {
	name := filepath.Base(path)
	match := pattern.FindStringSubmatch(name)
	if match == nil {
		return Metadata{}, false
	}

	meta := Metadata{Path: path, ID: -1}
	for i, group := range pattern.SubexpNames() {
		if i >= len(match) || match[i] == "" {
			continue
		}
		switch group {
		case "date":
			date, err := time.Parse(dateFormat, match[i])
			if err != nil {
				return Metadata{}, false
			}
			meta.Date = date
		case "id":
			id, err := strconv.Atoi(match[i])
			if err == nil {
				meta.ID = id
			}
		case "tag":
			meta.Tags = append(meta.Tags, strings.ToLower(match[i]))
		}
	}

	if meta.Date.IsZero() {
		return Metadata{}, false
	}
	return meta, true
}

// Load reads a document as plain text. PDFs go through text extraction;
// anything else is assumed to already be text.
func Load(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return loadPDF(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read document %s: %w", path, err)
	}
	return string(data), nil
}

func loadPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not discard the rest of
			// the document.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no extractable text in PDF %s", path)
	}
	return sb.String(), nil
}
