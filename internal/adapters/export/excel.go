// Package export renders generated reports as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/types"
)

// Sheet names, in workbook order.
const (
	SheetCandidates   = "Candidates"
	SheetDepartments  = "Departments"
	SheetInterviewers = "Interviewers"
	SheetReminders    = "Reminders"
)

// decisionFill colours a candidate row by its decision.
var decisionFill = map[model.Decision]string{ //nolint:gochecknoglobals // static palette
	model.DecisionAutoReject:      "FFC7CE",
	model.DecisionHMReview:        "C6EFCE",
	model.DecisionNeedsDiscussion: "FFEB9C",
}

const attentionFill = "FFC7CE"

// WriteXLSX writes env as a workbook to w.
func WriteXLSX(w io.Writer, env types.ReportEnvelope) error { //nolint:gocritic // hugeParam: read-only
	f, err := Workbook(env)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Workbook builds one sheet per report table. The caller closes the file.
func Workbook(env types.ReportEnvelope) (*excelize.File, error) { //nolint:gocritic // hugeParam: read-only
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetCandidates); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetDepartments, SheetInterviewers, SheetReminders} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	b, err := newBuilder(f)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	steps := []func() error{
		func() error { return b.candidates(env.Report.Candidates) },
		func() error { return b.cohorts(SheetDepartments, "Department", env.Report.Departments) },
		func() error { return b.cohorts(SheetInterviewers, "Interviewer", env.Report.Interviewers) },
		func() error { return b.reminders(env.Report.Reminders) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

type builder struct {
	f      *excelize.File
	header int
	fills  map[string]int
}

func newBuilder(f *excelize.File) (*builder, error) {
	header, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	b := &builder{f: f, header: header, fills: make(map[string]int)}
	return b, nil
}

func (b *builder) fill(color string) (int, error) {
	if id, ok := b.fills[color]; ok {
		return id, nil
	}
	id, err := b.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("fill style: %w", err)
	}
	b.fills[color] = id
	return id, nil
}

// table writes a styled header, the rows, a frozen header pane and an
// auto filter.
func (b *builder) table(sheet string, header []any, rows [][]any) error {
	if err := b.f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := b.f.SetCellStyle(sheet, "A1", last+"1", b.header); err != nil {
		return fmt.Errorf("%s header style: %w", sheet, err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := b.f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	if err := b.f.SetColWidth(sheet, "A", last, 18); err != nil {
		return err
	}
	if err := b.f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("%s panes: %w", sheet, err)
	}
	if len(rows) > 0 {
		if err := b.f.AutoFilter(sheet, fmt.Sprintf("A1:%s%d", last, len(rows)+1), nil); err != nil {
			return fmt.Errorf("%s filter: %w", sheet, err)
		}
	}
	return nil
}

func (b *builder) shade(sheet string, row, cols int, color string) error {
	id, err := b.fill(color)
	if err != nil {
		return err
	}
	last, _ := excelize.ColumnNumberToName(cols)
	return b.f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", last, row), id)
}

func (b *builder) candidates(cs []model.CandidateSummary) error {
	header := []any{"Candidate", "Department", "Recruiter", "Average Score", "Submitted", "Total", "Decision", "QoH Score"}
	rows := make([][]any, len(cs))
	for i := range cs {
		c := &cs[i]
		rows[i] = []any{c.CandidateID, c.Department, c.Recruiter, num(c.AverageScore),
			c.SubmittedCount, c.TotalCount, string(c.Decision), num(c.QoHScore)}
	}
	if err := b.table(SheetCandidates, header, rows); err != nil {
		return err
	}
	for i := range cs {
		if color, ok := decisionFill[cs[i].Decision]; ok {
			if err := b.shade(SheetCandidates, i+2, len(header), color); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) cohorts(sheet, label string, cs []model.CohortSummary) error {
	header := []any{label, "Interviews", "Submitted", "Average Score", "Completion %", "Avg Latency (h)", "Needs Attention"}
	rows := make([][]any, len(cs))
	for i := range cs {
		c := &cs[i]
		rows[i] = []any{c.Name, c.InterviewsConducted, c.ScorecardsSubmitted, num(c.AverageScore),
			num(c.CompletionRate), num(c.AvgSubmissionLatencyHours), yesNo(c.NeedsAttention)}
	}
	if err := b.table(sheet, header, rows); err != nil {
		return err
	}
	for i := range cs {
		if cs[i].NeedsAttention {
			if err := b.shade(sheet, i+2, len(header), attentionFill); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) reminders(rs []model.Reminder) error {
	header := []any{"Candidate", "Interviewer", "Slot", "Department", "Recruiter"}
	rows := make([][]any, len(rs))
	for i, r := range rs {
		rows[i] = []any{r.CandidateID, r.InterviewerID, r.InterviewSlot, r.Department, r.Recruiter}
	}
	return b.table(SheetReminders, header, rows)
}

// num leaves the cell empty for a null value.
func num(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
