// Package source turns interview sheets (CSV, XLSX or JSON) into raw rows.
//
// Tabular inputs are mapped by header name, so column order does not matter
// and unknown columns are ignored. Cell values are passed through untouched;
// all parsing happens in the normalizer.
package source

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/okian/scorecard/internal/domain/model"
)

// Format identifies an input encoding.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormat maps a user supplied name onto a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// FormatFromContentType picks a format from an HTTP Content-Type. An empty
// content type means JSON.
func FormatFromContentType(ct string) (Format, error) {
	if strings.TrimSpace(ct) == "" {
		return FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnknownFormat, err)
	}
	switch mt {
	case "application/json":
		return FormatJSON, nil
	case "text/csv", "application/csv":
		return FormatCSV, nil
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, mt)
	}
}

// Option configures Read.
type Option func(*settings)

type settings struct {
	sheet string
}

// WithSheet reads the named worksheet instead of the first one. Only used
// for XLSX input.
func WithSheet(name string) Option {
	return func(s *settings) {
		s.sheet = strings.TrimSpace(name)
	}
}

// Read decodes every row of r in the given format.
func Read(r io.Reader, f Format, opts ...Option) ([]model.RawRecord, error) {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	switch f {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r, s.sheet)
	case FormatJSON:
		return readJSON(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func readJSON(r io.Reader) ([]model.RawRecord, error) {
	var rows []model.RawRecord
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return rows, nil
}
