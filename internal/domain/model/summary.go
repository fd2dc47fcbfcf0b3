package model

// Decision is the hiring recommendation attached to a candidate.
type Decision string

// Decision labels, in classifier priority order.
const (
	DecisionWaiting         Decision = "WAITING"
	DecisionAutoReject      Decision = "AUTO_REJECT"
	DecisionHMReview        Decision = "HM_REVIEW"
	DecisionNeedsDiscussion Decision = "NEEDS_DISCUSSION"
)

// Decisions lists every label in priority order.
var Decisions = []Decision{
	DecisionWaiting,
	DecisionAutoReject,
	DecisionHMReview,
	DecisionNeedsDiscussion,
}

// CandidateSummary is the per-candidate roll-up of interview records.
type CandidateSummary struct {
	CandidateID    string   `json:"candidate_id"`
	Department     string   `json:"department"`
	Recruiter      string   `json:"recruiter"`
	AverageScore   *float64 `json:"average_score"`
	SubmittedCount int      `json:"submitted_count"`
	TotalCount     int      `json:"total_count"`
	Decision       Decision `json:"decision"`
	QoHScore       *float64 `json:"qoh_score"`
	Signals        Signals  `json:"signals"`
}

// CohortKey selects the dimension a cohort rollup groups by.
type CohortKey string

// Supported cohort keys.
const (
	KeyDepartment  CohortKey = "department"
	KeyInterviewer CohortKey = "interviewer"
)

// CohortSummary is one row of a department or interviewer rollup.
// CompletionRate and AverageScore are nil when there is no data to compute
// them from; NoData marks a cohort with zero attributable records.
type CohortSummary struct {
	Name                      string   `json:"name"`
	InterviewsConducted       int      `json:"interviews_conducted"`
	ScorecardsSubmitted       int      `json:"scorecards_submitted"`
	AverageScore              *float64 `json:"average_score"`
	CompletionRate            *float64 `json:"completion_rate"`
	AvgSubmissionLatencyHours *float64 `json:"avg_submission_latency_hours"`
	NeedsAttention            bool     `json:"needs_attention"`
	NoData                    bool     `json:"no_data"`
}

// Reminder is an outstanding scorecard for a (candidate, interviewer) pair.
type Reminder struct {
	CandidateID   string `json:"candidate_id"`
	InterviewerID string `json:"interviewer_id"`
	InterviewSlot string `json:"interview_slot"`
	Department    string `json:"department"`
	Recruiter     string `json:"recruiter"`
}

// IngestStats summarizes what the normalizer did with the input rows.
type IngestStats struct {
	Rows            int            `json:"rows"`
	Accepted        int            `json:"accepted"`
	Rejected        int            `json:"rejected"`
	MalformedFields map[string]int `json:"malformed_fields"`
}

// Report bundles every table produced by one pipeline run.
type Report struct {
	Candidates   []CandidateSummary `json:"candidates"`
	Departments  []CohortSummary    `json:"departments"`
	Interviewers []CohortSummary    `json:"interviewers"`
	Reminders    []Reminder         `json:"reminders"`
	Ingest       IngestStats        `json:"ingest"`
	Issues       []Issue            `json:"issues"`
}
