package cohort_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/scorecard/internal/domain/aggregate"
	"github.com/okian/scorecard/internal/domain/cohort"
	"github.com/okian/scorecard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// department builds n records for dept with the first submitted ones scored 4.
func department(dept string, n, submitted int) []model.Record {
	out := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		r := model.Record{
			CandidateID:   fmt.Sprintf("%s-cand-%d", dept, i/2),
			Department:    dept,
			InterviewerID: fmt.Sprintf("int-%d", i%3),
		}
		if i < submitted {
			r.Submitted = true
			r.Score = model.Float(4.0)
		}
		out = append(out, r)
	}
	return out
}

func byName(rows []model.CohortSummary) map[string]model.CohortSummary {
	m := make(map[string]model.CohortSummary, len(rows))
	for _, r := range rows {
		m[r.Name] = r
	}
	return m
}

func TestCompletionRate(t *testing.T) {
	Convey("Given departments with ten interviews each", t, func() {
		records := append(department("Eng", 10, 9), department("Ops", 10, 8)...)
		roller, err := cohort.New()
		So(err, ShouldBeNil)

		rows, err := roller.Rollup(records, aggregate.Summarize(records), model.KeyDepartment, model.CohortFilter{})
		So(err, ShouldBeNil)
		got := byName(rows)

		Convey("Then nine submitted is exactly 90.0 and does not need attention", func() {
			So(*got["Eng"].CompletionRate, ShouldEqual, 90.0)
			So(got["Eng"].NeedsAttention, ShouldBeFalse)
			So(got["Eng"].InterviewsConducted, ShouldEqual, 10)
			So(got["Eng"].ScorecardsSubmitted, ShouldEqual, 9)
		})

		Convey("Then eight submitted is 80.0 and needs attention", func() {
			So(*got["Ops"].CompletionRate, ShouldEqual, 80.0)
			So(got["Ops"].NeedsAttention, ShouldBeTrue)
		})

		Convey("Then rows are sorted by name", func() {
			So(rows[0].Name, ShouldEqual, "Eng")
			So(rows[1].Name, ShouldEqual, "Ops")
		})
	})

	Convey("Given fractional rates", t, func() {
		So(cohort.CompletionRate(2, 3), ShouldEqual, 66.7)
		So(cohort.CompletionRate(1, 3), ShouldEqual, 33.3)
	})
}

func TestDepartmentAverage(t *testing.T) {
	Convey("Given one candidate with many interviews and one with few", t, func() {
		records := []model.Record{
			{CandidateID: "a", Department: "Eng", InterviewerID: "x", Submitted: true, Score: model.Float(2.0)},
			{CandidateID: "a", Department: "Eng", InterviewerID: "y", Submitted: true, Score: model.Float(2.0)},
			{CandidateID: "a", Department: "Eng", InterviewerID: "z", Submitted: true, Score: model.Float(2.0)},
			{CandidateID: "b", Department: "Eng", InterviewerID: "x", Submitted: true, Score: model.Float(4.0)},
		}
		roller, _ := cohort.New()

		rows, err := roller.Rollup(records, aggregate.Summarize(records), model.KeyDepartment, model.CohortFilter{})
		So(err, ShouldBeNil)

		Convey("Then the department average is taken over candidate averages", func() {
			So(*rows[0].AverageScore, ShouldEqual, 3.0)
		})

		Convey("And the interviewer average is taken over records", func() {
			rows, err := roller.Rollup(records, nil, model.KeyInterviewer, model.CohortFilter{})
			So(err, ShouldBeNil)
			So(*byName(rows)["x"].AverageScore, ShouldEqual, 3.0)
		})
	})
}

func TestMissingKeys(t *testing.T) {
	Convey("Given records missing a grouping dimension", t, func() {
		records := []model.Record{
			{CandidateID: "a", Department: "", InterviewerID: "x", Submitted: true, Score: model.Float(4.0)},
			{CandidateID: "a", Department: "Eng", InterviewerID: "", Submitted: true, Score: model.Float(4.0)},
		}
		roller, _ := cohort.New()

		Convey("Then they are left out of that dimension only", func() {
			depts, _ := roller.Rollup(records, aggregate.Summarize(records), model.KeyDepartment, model.CohortFilter{})
			So(len(depts), ShouldEqual, 1)
			So(depts[0].InterviewsConducted, ShouldEqual, 1)

			ints, _ := roller.Rollup(records, nil, model.KeyInterviewer, model.CohortFilter{})
			So(len(ints), ShouldEqual, 1)
			So(ints[0].Name, ShouldEqual, "x")
		})
	})
}

func TestEmptyCohort(t *testing.T) {
	Convey("Given a member filter naming an interviewer without records", t, func() {
		records := department("Eng", 4, 4)
		roller, _ := cohort.New()

		rows, err := roller.Rollup(records, nil, model.KeyInterviewer, model.CohortFilter{Members: []string{"int-0", "ghost"}})
		So(err, ShouldBeNil)
		got := byName(rows)

		Convey("Then the empty cohort is reported as no data instead of zero", func() {
			So(len(rows), ShouldEqual, 2)
			So(got["ghost"].NoData, ShouldBeTrue)
			So(got["ghost"].CompletionRate, ShouldBeNil)
			So(got["ghost"].AverageScore, ShouldBeNil)
			So(got["ghost"].NeedsAttention, ShouldBeFalse)
			So(got["int-0"].NoData, ShouldBeFalse)
		})
	})
}

func TestLatency(t *testing.T) {
	Convey("Given interviewers with timing data", t, func() {
		at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		slow, fast := at.Add(30*time.Hour), at.Add(2*time.Hour)
		records := []model.Record{
			{CandidateID: "a", Department: "Eng", InterviewerID: "slow", Submitted: true, Score: model.Float(4), InterviewedAt: &at, SubmittedAt: &slow},
			{CandidateID: "a", Department: "Eng", InterviewerID: "fast", Submitted: true, Score: model.Float(4), InterviewedAt: &at, SubmittedAt: &fast},
		}
		roller, _ := cohort.New()

		rows, err := roller.Rollup(records, nil, model.KeyInterviewer, model.CohortFilter{})
		So(err, ShouldBeNil)
		got := byName(rows)

		Convey("Then slow submitters need attention despite full completion", func() {
			So(*got["slow"].CompletionRate, ShouldEqual, 100.0)
			So(*got["slow"].AvgSubmissionLatencyHours, ShouldEqual, 30.0)
			So(got["slow"].NeedsAttention, ShouldBeTrue)
			So(got["fast"].NeedsAttention, ShouldBeFalse)
		})

		Convey("And a looser threshold clears them", func() {
			loose, err := cohort.New(cohort.WithLatencyThreshold(48 * time.Hour))
			So(err, ShouldBeNil)
			rows, _ := loose.Rollup(records, nil, model.KeyInterviewer, model.CohortFilter{})
			So(byName(rows)["slow"].NeedsAttention, ShouldBeFalse)
		})
	})
}

func TestFilterComposition(t *testing.T) {
	Convey("Given records across departments and interviewers", t, func() {
		records := []model.Record{
			{CandidateID: "a", Department: "Eng", InterviewerID: "Alice", Submitted: true, Score: model.Float(4)},
			{CandidateID: "a", Department: "Eng", InterviewerID: "Bob", Submitted: false},
			{CandidateID: "b", Department: "Ops", InterviewerID: "alicia", Submitted: true, Score: model.Float(2)},
			{CandidateID: "b", Department: "Ops", InterviewerID: "Alice", Submitted: true, Score: model.Float(5)},
			{CandidateID: "c", Department: "Sales", InterviewerID: "Carol", Submitted: true, Score: model.Float(3)},
		}
		roller, _ := cohort.New()
		depts := []string{"Eng", "Sales"}

		Convey("When the department scope is applied before the name search", func() {
			scoped := cohort.ScopeRecords(records, depts)
			first, err := roller.Rollup(scoped, nil, model.KeyInterviewer, model.CohortFilter{Search: "ALI"})
			So(err, ShouldBeNil)

			Convey("Then it equals the name search applied before the department scope", func() {
				named := make([]model.Record, 0)
				for _, r := range records {
					if cohort.Matches(r.InterviewerID, "ALI") {
						named = append(named, r)
					}
				}
				second, err := roller.Rollup(named, nil, model.KeyInterviewer, model.CohortFilter{Departments: depts})
				So(err, ShouldBeNil)
				So(second, ShouldResemble, first)

				combined, err := roller.Rollup(records, nil, model.KeyInterviewer, model.CohortFilter{Departments: depts, Search: "ali"})
				So(err, ShouldBeNil)
				So(combined, ShouldResemble, first)
			})

			Convey("And interviewers who only worked in excluded departments drop out", func() {
				So(len(first), ShouldEqual, 1)
				So(first[0].Name, ShouldEqual, "Alice")
				So(first[0].InterviewsConducted, ShouldEqual, 1)
			})
		})
	})
}

func TestRollupErrors(t *testing.T) {
	Convey("Given invalid parameters", t, func() {
		roller, _ := cohort.New()
		_, err := roller.Rollup(nil, nil, "recruiter", model.CohortFilter{})
		So(errors.Is(err, cohort.ErrUnknownKey), ShouldBeTrue)

		_, err = cohort.New(cohort.WithCompletionThreshold(0))
		So(errors.Is(err, cohort.ErrInvalidThreshold), ShouldBeTrue)

		_, err = cohort.New(cohort.WithLatencyThreshold(-time.Hour))
		So(errors.Is(err, cohort.ErrInvalidThreshold), ShouldBeTrue)
	})
}
