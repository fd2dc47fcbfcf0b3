package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/okian/scorecard/internal/adapters/source"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/sample"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a synthetic interview sheet",
	RunE:  runSample,
}

var (
	sampleCfg    = sample.DefaultConfig()
	sampleFormat string
	sampleOutput string
)

func init() {
	f := sampleCmd.Flags()
	f.IntVarP(&sampleCfg.Candidates, "candidates", "n", sampleCfg.Candidates, "Number of candidates")
	f.IntVar(&sampleCfg.PanelSize, "panel", sampleCfg.PanelSize, "Interviews per candidate")
	f.Float64Var(&sampleCfg.SubmitRate, "submit-rate", sampleCfg.SubmitRate, "Probability a scorecard is submitted")
	f.Float64Var(&sampleCfg.MalformedRate, "malformed-rate", sampleCfg.MalformedRate, "Probability a score cell is garbage")
	f.Uint64Var(&sampleCfg.Seed, "seed", sampleCfg.Seed, "Random seed")
	f.StringVarP(&sampleFormat, "format", "f", string(source.FormatCSV), "Sheet format: csv, xlsx or json")
	f.StringVarP(&sampleOutput, "output", "o", "", "Output path (default stdout)")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, _ []string) error {
	format, err := source.ParseFormat(sampleFormat)
	if err != nil {
		return err
	}
	rows, err := sample.Generate(sampleCfg)
	if err != nil {
		return err
	}
	w, closeOut, err := openOutput(sampleOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := writeSheet(w, rows, format); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}

var sheetHeader = []string{ //nolint:gochecknoglobals // column order of written sheets
	"candidate_id", "department", "recruiter", "interviewer_id", "interview_slot", "raw_score", "submitted",
	"interviewed_at", "submitted_at", "reference_score", "performance_review", "promoted",
	"education_score", "interpersonal_score",
}

func sheetRow(r *model.RawRecord) []string {
	return []string{
		r.CandidateID.String(), r.Department.String(), r.Recruiter.String(), r.InterviewerID.String(),
		r.InterviewSlot.String(), r.Score.String(), r.Submitted.String(), r.InterviewedAt.String(),
		r.SubmittedAt.String(), r.ReferenceScore.String(), r.PerformanceReview.String(), r.Promoted.String(),
		r.EducationScore.String(), r.InterpersonalScore.String(),
	}
}

// writeSheet writes rows in a layout source.Read accepts.
func writeSheet(w io.Writer, rows []model.RawRecord, format source.Format) error {
	switch format {
	case source.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case source.FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(sheetHeader); err != nil {
			return err
		}
		for i := range rows {
			if err := cw.Write(sheetRow(&rows[i])); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	case source.FormatXLSX:
		f := excelize.NewFile()
		defer func() { _ = f.Close() }()
		sw, err := f.NewStreamWriter("Sheet1")
		if err != nil {
			return fmt.Errorf("stream writer: %w", err)
		}
		if err := sw.SetRow("A1", cells(sheetHeader)); err != nil {
			return err
		}
		for i := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := sw.SetRow(cell, cells(sheetRow(&rows[i]))); err != nil {
				return err
			}
		}
		if err := sw.Flush(); err != nil {
			return err
		}
		return f.Write(w)
	default:
		return fmt.Errorf("%w: %q", source.ErrUnknownFormat, format)
	}
}

func cells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
