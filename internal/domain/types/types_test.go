package types_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/scorecard/internal/domain/model"
	types "github.com/okian/scorecard/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestReportEnvelope(t *testing.T) {
	Convey("Given a report envelope", t, func() {
		at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		env := types.ReportEnvelope{
			ID:          "r-1",
			GeneratedAt: at,
			Report: model.Report{
				Candidates: []model.CandidateSummary{{CandidateID: "a"}, {CandidateID: "b"}},
				Reminders:  []model.Reminder{{CandidateID: "b", InterviewerID: "x"}},
			},
		}

		Convey("When taking its listing form", func() {
			info := env.Info()

			Convey("Then counts are derived from the report", func() {
				So(info.ID, ShouldEqual, "r-1")
				So(info.GeneratedAt.Equal(at), ShouldBeTrue)
				So(info.Candidates, ShouldEqual, 2)
				So(info.Reminders, ShouldEqual, 1)
			})
		})

		Convey("When encoding to JSON", func() {
			b, err := json.Marshal(env)
			So(err, ShouldBeNil)

			var decoded map[string]any
			So(json.Unmarshal(b, &decoded), ShouldBeNil)

			Convey("Then null averages stay null instead of zero", func() {
				report := decoded["report"].(map[string]any)
				cands := report["candidates"].([]any)
				So(cands[0].(map[string]any)["average_score"], ShouldBeNil)
				So(decoded["generated_at"], ShouldEqual, "2025-03-01T12:00:00Z")
			})
		})
	})
}
