package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/scorecard/internal/adapters/export"
	"github.com/okian/scorecard/internal/domain/types"
)

// Output formats for rendered reports.
const (
	outputJSON = "json"
	outputYAML = "yaml"
	outputXLSX = "xlsx"
)

// writeReport renders env to w in format.
func writeReport(w io.Writer, env types.ReportEnvelope, format string) error { //nolint:gocritic // hugeParam: read-only
	switch strings.ToLower(format) {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(env)
	case outputYAML:
		// Route through JSON so YAML keys match the JSON field names.
		raw, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case outputXLSX:
		return export.WriteXLSX(w, env)
	default:
		return checkFormat(format)
	}
}

func checkFormat(format string) error {
	switch strings.ToLower(format) {
	case outputJSON, outputYAML, outputXLSX:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json, yaml or xlsx)", format)
	}
}

// openOutput returns stdout for an empty path or "-", else a new file.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}
