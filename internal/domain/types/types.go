// Package types contains common types used across the application
package types

import (
	"time"

	"github.com/okian/scorecard/internal/domain/model"
)

// ReportEnvelope wraps a generated report with the identity and query it was
// produced under. The report itself carries no timestamps so that identical
// inputs yield identical reports; GeneratedAt lives here instead.
type ReportEnvelope struct {
	ID          string       `json:"id"`
	GeneratedAt time.Time    `json:"generated_at"`
	Query       model.Query  `json:"query"`
	Report      model.Report `json:"report"`
}

// ReportInfo is the short listing form of a stored report.
type ReportInfo struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Candidates  int       `json:"candidates"`
	Reminders   int       `json:"reminders"`
}

// Info returns the listing form of e.
func (e ReportEnvelope) Info() ReportInfo {
	return ReportInfo{
		ID:          e.ID,
		GeneratedAt: e.GeneratedAt,
		Candidates:  len(e.Report.Candidates),
		Reminders:   len(e.Report.Reminders),
	}
}
