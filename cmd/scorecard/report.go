package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/scorecard/internal/adapters/source"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/types"
	"github.com/okian/scorecard/pkg/logger"
	"github.com/okian/scorecard/pkg/metrics"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from a CSV, XLSX or JSON sheet",
	Long: "Reads an interview sheet, classifies every candidate, scores quality of hire, " +
		"rolls up departments and interviewers, and lists outstanding scorecards.",
	RunE: runReport,
}

var (
	reportInput        string
	reportSheet        string
	reportFormat       string
	reportOutput       string
	reportQuery        model.Query
	reportStatus       string
	reportIssuesStderr bool
)

func init() {
	f := reportCmd.Flags()
	f.StringVarP(&reportInput, "input", "i", "", "Path to the interview sheet (.csv, .xlsx or .json) (required)")
	f.StringVar(&reportSheet, "sheet", "", "Worksheet name for XLSX input (default first sheet)")
	f.StringVarP(&reportFormat, "format", "f", outputJSON, "Output format: json, yaml or xlsx")
	f.StringVarP(&reportOutput, "output", "o", "", "Output path (default stdout)")

	f.StringVar(&reportQuery.Candidates.Recruiter, "recruiter", "", "Only show candidates owned by this recruiter")
	f.StringSliceVar(&reportQuery.Candidates.Departments, "department", nil, "Only show candidates in these departments")
	f.StringVar(&reportStatus, "status", "all", "Candidate status: all, complete or pending")
	f.StringVar(&reportQuery.Departments.Search, "department-search", "", "Substring filter on department names")
	f.StringSliceVar(&reportQuery.Departments.Members, "department-member", nil, "Only roll up these departments")
	f.StringVar(&reportQuery.Interviewers.Search, "interviewer-search", "", "Substring filter on interviewer ids")
	f.StringSliceVar(&reportQuery.Interviewers.Members, "interviewer", nil, "Only roll up these interviewers")
	f.StringSliceVar(&reportQuery.Interviewers.Departments, "interviewer-department", nil, "Scope interviewer stats to these departments")
	f.BoolVar(&reportIssuesStderr, "issues", false, "Log every malformed field to stderr")

	if err := reportCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logger.Get().Named("report")
	if err := checkFormat(reportFormat); err != nil {
		return err
	}

	format, err := source.FormatFromPath(reportInput)
	if err != nil {
		return err
	}
	in, err := os.Open(reportInput)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = in.Close() }()

	rows, err := source.Read(in, format, source.WithSheet(reportSheet))
	if err != nil {
		return fmt.Errorf("read %s: %w", reportInput, err)
	}

	p, err := cfg.Pipeline()
	if err != nil {
		return err
	}
	q := reportQuery
	q.Candidates.Status = model.Status(reportStatus)

	start := time.Now()
	report, err := p.Run(rows, q)
	metrics.RecordPipelineDuration(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		return err
	}
	log.Info(ctx, "report generated",
		logger.String("input", reportInput),
		logger.Int("rows", report.Ingest.Rows),
		logger.Int("rejected", report.Ingest.Rejected),
		logger.Int("candidates", len(report.Candidates)),
		logger.Int("reminders", len(report.Reminders)),
	)
	if reportIssuesStderr {
		for _, is := range report.Issues {
			log.Warn(ctx, "malformed field", logger.Int("row", is.Row), logger.String("field", is.Field), logger.String("value", is.Value))
		}
	}

	w, closeOut, err := openOutput(reportOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	env := types.ReportEnvelope{ID: uuid.NewString(), GeneratedAt: time.Now().UTC(), Query: q, Report: report}
	if err := writeReport(w, env, reportFormat); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}
