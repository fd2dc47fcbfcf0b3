package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/scorecard/internal/adapters/source"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/sample"
	"github.com/okian/scorecard/pkg/logger"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Send a sheet to a running server and wait for its report",
	Long: "Posts a sheet (or a generated sample when --input is omitted) to POST /reports?async=true, " +
		"polls until the report is ready, and prints it.",
	RunE: runSubmit,
}

var (
	submitURL     string
	submitInput   string
	submitFormat  string
	submitOutput  string
	submitTimeout time.Duration
)

func init() {
	f := submitCmd.Flags()
	f.StringVar(&submitURL, "url", "http://localhost:9080", "Base URL of the scorecard server")
	f.StringVarP(&submitInput, "input", "i", "", "Sheet to submit (default: a generated sample)")
	f.StringVarP(&submitFormat, "format", "f", outputJSON, "Output format: json, yaml or xlsx")
	f.StringVarP(&submitOutput, "output", "o", "", "Output path (default stdout)")
	f.DurationVar(&submitTimeout, "timeout", time.Minute, "How long to wait for the report")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(submitFormat); err != nil {
		return err
	}
	rows, err := submitRows()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), submitTimeout)
	defer cancel()

	client := sample.NewClient(submitURL)
	id, err := client.Submit(ctx, rows, model.Query{})
	if err != nil {
		return err
	}
	env, err := client.Wait(ctx, id)
	if err != nil {
		return err
	}
	logger.Get().Named("submit").Info(ctx, "report ready",
		logger.String("id", id), logger.Int("candidates", len(env.Report.Candidates)))

	w, closeOut, err := openOutput(submitOutput, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := writeReport(w, env, submitFormat); err != nil {
		_ = closeOut()
		return err
	}
	return closeOut()
}

func submitRows() ([]model.RawRecord, error) {
	if submitInput == "" {
		return sample.Generate(sample.DefaultConfig())
	}
	format, err := source.FormatFromPath(submitInput)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(submitInput)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer func() { _ = in.Close() }()
	return source.Read(in, format)
}
