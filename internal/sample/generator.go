// Package sample produces synthetic scorecard sheets and drives a running
// scorecard server with them. It backs the CLI's sample and submit commands.
package sample

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/scorecard/internal/domain/model"
)

// Config shapes a generated sheet.
type Config struct {
	Candidates   int
	PanelSize    int
	Departments  []string
	Recruiters   []string
	Interviewers []string
	// SubmitRate is the probability that a scorecard has been submitted.
	SubmitRate float64
	// MalformedRate is the probability that a score cell is garbage.
	MalformedRate float64
	Seed          uint64
	Start         time.Time
}

// DefaultConfig returns a small, realistic sheet shape.
func DefaultConfig() Config {
	return Config{
		Candidates:    20,
		PanelSize:     4,
		Departments:   []string{"Engineering", "Sales", "Operations"},
		Recruiters:    []string{"grace", "linus", "ada"},
		Interviewers:  []string{"ana", "ben", "cho", "dee", "eli", "fay"},
		SubmitRate:    0.85,
		MalformedRate: 0.02,
		Seed:          1,
		Start:         time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC),
	}
}

var slots = []string{"Phone Screen", "Technical", "System Design", "Culture", "Hiring Manager"} //nolint:gochecknoglobals // static

// Generate builds rows for cfg. The same config always yields the same rows.
func Generate(cfg Config) ([]model.RawRecord, error) { //nolint:gocritic // hugeParam: config passed by value
	switch {
	case cfg.Candidates < 0:
		return nil, fmt.Errorf("%w: candidates %d", ErrInvalidConfig, cfg.Candidates)
	case cfg.PanelSize < 1:
		return nil, fmt.Errorf("%w: panel size %d", ErrInvalidConfig, cfg.PanelSize)
	case len(cfg.Departments) == 0 || len(cfg.Recruiters) == 0:
		return nil, fmt.Errorf("%w: departments and recruiters are required", ErrInvalidConfig)
	case len(cfg.Interviewers) < cfg.PanelSize:
		return nil, fmt.Errorf("%w: %d interviewers cannot staff a panel of %d", ErrInvalidConfig, len(cfg.Interviewers), cfg.PanelSize)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // synthetic data
	rows := make([]model.RawRecord, 0, cfg.Candidates*cfg.PanelSize)
	for c := 0; c < cfg.Candidates; c++ {
		id := fmt.Sprintf("cand-%04d", c+1)
		dept := cfg.Departments[rng.IntN(len(cfg.Departments))]
		recruiter := cfg.Recruiters[rng.IntN(len(cfg.Recruiters))]
		// Each candidate has an underlying quality the panel scores around.
		quality := 1.5 + rng.Float64()*3.5
		promoted := rng.Float64() < 0.3
		signals := [4]float64{jitter(rng, quality), jitter(rng, quality), jitter(rng, quality), jitter(rng, quality)}

		panel := rng.Perm(len(cfg.Interviewers))[:cfg.PanelSize]
		day := cfg.Start.AddDate(0, 0, c)
		for i, who := range panel {
			at := day.Add(time.Duration(i) * time.Hour)
			row := model.RawRecord{
				CandidateID:        model.Cell(id),
				Department:         model.Cell(dept),
				Recruiter:          model.Cell(recruiter),
				InterviewerID:      model.Cell(cfg.Interviewers[who]),
				InterviewSlot:      model.Cell(slots[i%len(slots)]),
				InterviewedAt:      model.Cell(at.Format(time.RFC3339)),
				ReferenceScore:     cell(signals[0]),
				PerformanceReview:  cell(signals[1]),
				Promoted:           model.Cell(strconv.FormatBool(promoted)),
				EducationScore:     cell(signals[2]),
				InterpersonalScore: cell(signals[3]),
			}
			if rng.Float64() < cfg.SubmitRate {
				row.Submitted = "Yes"
				row.Score = cell(jitter(rng, quality))
				row.SubmittedAt = model.Cell(at.Add(time.Duration(1+rng.IntN(48)) * time.Hour).Format(time.RFC3339))
			} else {
				row.Submitted = "No"
			}
			if rng.Float64() < cfg.MalformedRate {
				row.Score = "n/a"
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// jitter spreads v by up to one point and clamps it to the 1-5 scale.
func jitter(rng *rand.Rand, v float64) float64 {
	v += rng.Float64()*2 - 1
	return min(5, max(1, model.Round1(v)))
}

func cell(v float64) model.Cell {
	return model.Cell(strconv.FormatFloat(v, 'f', 1, 64))
}
