package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/okian/scorecard/internal/adapters/http/api"
	"github.com/okian/scorecard/internal/adapters/repository"
	service "github.com/okian/scorecard/internal/app"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/internal/domain/types"
	"github.com/okian/scorecard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

// mockDependencies records calls and returns canned results.
type mockDependencies struct {
	mu        sync.Mutex
	rows      []model.RawRecord
	query     model.Query
	submitErr error
	reportErr error
	reports   map[string]types.ReportEnvelope
}

func newMock() *mockDependencies {
	return &mockDependencies{reports: make(map[string]types.ReportEnvelope)}
}

func (m *mockDependencies) Generate(_ context.Context, rows []model.RawRecord, q model.Query) (types.ReportEnvelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := model.ParseStatus(string(q.Candidates.Status)); err != nil {
		return types.ReportEnvelope{}, err
	}
	m.rows, m.query = rows, q
	env := types.ReportEnvelope{ID: fmt.Sprintf("r%d", len(m.reports)+1), Query: q}
	env.Report.Ingest.Rows = len(rows)
	m.reports[env.ID] = env
	return env, nil
}

func (m *mockDependencies) Submit(_ context.Context, rows []model.RawRecord, q model.Query) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitErr != nil {
		return "", m.submitErr
	}
	m.rows, m.query = rows, q
	return "job-1", nil
}

func (m *mockDependencies) Report(_ context.Context, id string) (types.ReportEnvelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reportErr != nil {
		return types.ReportEnvelope{}, m.reportErr
	}
	env, ok := m.reports[id]
	if !ok {
		return types.ReportEnvelope{}, repository.ErrNotFound
	}
	return env, nil
}

func (m *mockDependencies) Reminders(ctx context.Context, id string) ([]model.Reminder, error) {
	env, err := m.Report(ctx, id)
	if err != nil {
		return nil, err
	}
	return env.Report.Reminders, nil
}

func (m *mockDependencies) List(_ context.Context, limit int) ([]types.ReportInfo, error) {
	if limit <= 0 {
		return nil, repository.ErrInvalidLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.ReportInfo, 0, len(m.reports))
	for _, env := range m.reports {
		out = append(out, env.Info())
	}
	return out, nil
}

type mockStatsProvider struct{}

func (mockStatsProvider) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newMux(deps api.Dependencies, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStatsProvider{}, opts...).Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, target, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	return v
}

const jsonBody = `{"rows":[{"candidate_id":"c1","raw_score":4,"submitted":true},{"candidate_id":"c1","raw_score":"3.5","submitted":"yes"}],
"query":{"candidates":{"recruiter":"grace","status":"pending"}}}`

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newMock())

		Convey("Then the health endpoint serves metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "", http.NoBody)
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint returns JSON", func() {
			w := do(mux, http.MethodGet, "/stats", "", http.NoBody)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[map[string]any](w)["started"], ShouldEqual, true)
		})

		Convey("Then unknown methods are refused", func() {
			w := do(mux, http.MethodDelete, "/reports", "", http.NoBody)
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestReportsHandler_Create(t *testing.T) {
	Convey("Given a reports endpoint", t, func() {
		deps := newMock()
		mux := newMux(deps)

		Convey("When a JSON table is posted", func() {
			w := do(mux, http.MethodPost, "/reports", "application/json", strings.NewReader(jsonBody))

			Convey("Then the report is created with the body query", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(w.Header().Get("Location"), ShouldEqual, "/reports/r1")
				env := decode[types.ReportEnvelope](w)
				So(env.ID, ShouldEqual, "r1")
				So(env.Report.Ingest.Rows, ShouldEqual, 2)
				So(deps.query.Candidates.Recruiter, ShouldEqual, "grace")
				So(deps.rows[0].Score, ShouldEqual, model.Cell("4"))
			})
		})

		Convey("When a CSV table is posted with URL filters", func() {
			body := "candidate_id,interviewer_id,raw_score,submitted\nc1,ana,4,yes\n"
			target := "/reports?recruiter=linus&department=Eng,Ops&interviewer_search=an&interviewer_department=Eng"
			w := do(mux, http.MethodPost, target, "text/csv", strings.NewReader(body))

			Convey("Then rows come from the sheet and the query from the URL", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(len(deps.rows), ShouldEqual, 1)
				So(deps.query.Candidates.Recruiter, ShouldEqual, "linus")
				So(deps.query.Candidates.Departments, ShouldResemble, []string{"Eng", "Ops"})
				So(deps.query.Interviewers.Search, ShouldEqual, "an")
				So(deps.query.Interviewers.Departments, ShouldResemble, []string{"Eng"})
			})
		})

		Convey("When the status filter is unknown", func() {
			body := `{"rows":[],"query":{"candidates":{"status":"done"}}}`
			w := do(mux, http.MethodPost, "/reports", "application/json", strings.NewReader(body))

			Convey("Then it is a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode[map[string]string](w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When the body is malformed", func() {
			for _, body := range []string{`{"rows":`, `{"query":{}}`, `{"rows":[],"extra":1}`} {
				w := do(mux, http.MethodPost, "/reports", "application/json", strings.NewReader(body))
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When the media type is unsupported", func() {
			w := do(mux, http.MethodPost, "/reports", "image/png", bytes.NewReader([]byte{1, 2}))
			So(w.Code, ShouldEqual, http.StatusUnsupportedMediaType)
		})

		Convey("When the body exceeds the limit", func() {
			small := newMux(deps, api.WithMaxBodyBytes(16))
			w := do(small, http.MethodPost, "/reports", "application/json", strings.NewReader(jsonBody))
			So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
		})
	})
}

func TestReportsHandler_Async(t *testing.T) {
	Convey("Given a reports endpoint", t, func() {
		deps := newMock()
		mux := newMux(deps)

		Convey("When a table is submitted asynchronously", func() {
			w := do(mux, http.MethodPost, "/reports?async=true", "application/json", strings.NewReader(jsonBody))

			Convey("Then the job id is returned with 202", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(w.Header().Get("Location"), ShouldEqual, "/reports/job-1")
				So(decode[map[string]string](w)["status"], ShouldEqual, "pending")
			})
		})

		Convey("When the queue is full", func() {
			deps.submitErr = service.ErrQueueFull
			w := do(mux, http.MethodPost, "/reports?async=1", "application/json", strings.NewReader(jsonBody))
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(decode[map[string]string](w)["code"], ShouldEqual, "backpressure")
		})

		Convey("When a pending job is read", func() {
			deps.reportErr = service.ErrReportPending
			w := do(mux, http.MethodGet, "/reports/job-1", "", http.NoBody)
			So(w.Code, ShouldEqual, http.StatusAccepted)
			So(decode[map[string]string](w)["id"], ShouldEqual, "job-1")
		})

		Convey("When a failed job is read", func() {
			deps.reportErr = fmt.Errorf("%w: boom", service.ErrReportFailed)
			w := do(mux, http.MethodGet, "/reports/job-1", "", http.NoBody)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decode[map[string]string](w)["code"], ShouldEqual, "report_failed")
		})
	})
}

func TestReportsHandler_Read(t *testing.T) {
	Convey("Given a stored report", t, func() {
		deps := newMock()
		mux := newMux(deps)
		env, _ := deps.Generate(context.Background(), nil, model.Query{})
		deps.reports[env.ID] = types.ReportEnvelope{
			ID: env.ID,
			Report: model.Report{
				Reminders: []model.Reminder{{CandidateID: "c2", InterviewerID: "ben"}},
			},
		}

		Convey("Then it is served as JSON", func() {
			w := do(mux, http.MethodGet, "/reports/"+env.ID, "", http.NoBody)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode[types.ReportEnvelope](w).ID, ShouldEqual, env.ID)
		})

		Convey("Then it is served as a workbook", func() {
			w := do(mux, http.MethodGet, "/reports/"+env.ID+"?format=xlsx", "", http.NoBody)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "spreadsheetml")
			So(w.Body.Len(), ShouldBeGreaterThan, 0)
		})

		Convey("Then an unknown format is refused", func() {
			w := do(mux, http.MethodGet, "/reports/"+env.ID+"?format=pdf", "", http.NoBody)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then its reminders are listed", func() {
			w := do(mux, http.MethodGet, "/reports/"+env.ID+"/reminders", "", http.NoBody)
			So(w.Code, ShouldEqual, http.StatusOK)
			body := decode[struct {
				ID        string           `json:"id"`
				Reminders []model.Reminder `json:"reminders"`
			}](w)
			So(body.ID, ShouldEqual, env.ID)
			So(len(body.Reminders), ShouldEqual, 1)
			So(body.Reminders[0].InterviewerID, ShouldEqual, "ben")
		})

		Convey("Then the listing includes it", func() {
			w := do(mux, http.MethodGet, "/reports?limit=5", "", http.NoBody)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(len(decode[[]types.ReportInfo](w)), ShouldEqual, 1)
		})

		Convey("Then bad limits are refused", func() {
			So(do(mux, http.MethodGet, "/reports?limit=x", "", http.NoBody).Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/reports?limit=0", "", http.NoBody).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then an unknown id is not found", func() {
			w := do(mux, http.MethodGet, "/reports/missing/reminders", "", http.NoBody)
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(decode[map[string]string](w)["code"], ShouldEqual, "not_found")
		})
	})
}

func TestRateLimit(t *testing.T) {
	Convey("Given a server limited to a burst of two", t, func() {
		mux := newMux(newMock(), api.WithRateLimit(0.001, 2))

		Convey("When one client posts three times", func() {
			var codes []int
			for i := 0; i < 3; i++ {
				codes = append(codes, do(mux, http.MethodPost, "/reports", "application/json", strings.NewReader(`{"rows":[]}`)).Code)
			}

			Convey("Then the third request is rejected", func() {
				So(codes, ShouldResemble, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests})
			})
		})

		Convey("When a different client posts", func() {
			for i := 0; i < 2; i++ {
				do(mux, http.MethodPost, "/reports", "application/json", strings.NewReader(`{"rows":[]}`))
			}
			req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(`{"rows":[]}`))
			req.RemoteAddr = "198.51.100.7:4100"
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it has its own bucket", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
			})
		})

		Convey("When one client rotates X-Forwarded-For", func() {
			var codes []int
			for i := 0; i < 3; i++ {
				req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(`{"rows":[]}`))
				req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i+1))
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)
				codes = append(codes, w.Code)
			}

			Convey("Then the header is ignored and the socket address is limited", func() {
				So(codes, ShouldResemble, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests})
			})
		})
	})

	Convey("Given a server behind a trusted proxy", t, func() {
		// httptest requests come from 192.0.2.1.
		mux := newMux(newMock(), api.WithRateLimit(0.001, 1), api.WithTrustedProxies("192.0.2.1"))
		post := func(xff string) int {
			req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(`{"rows":[]}`))
			req.Header.Set("X-Forwarded-For", xff)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			return w.Code
		}

		Convey("When two clients arrive through the proxy", func() {
			first := post("203.0.113.5")
			second := post("203.0.113.6")
			spoofed := post("10.9.9.9, 203.0.113.5")

			Convey("Then each forwarded client has its own bucket", func() {
				So(first, ShouldEqual, http.StatusCreated)
				So(second, ShouldEqual, http.StatusCreated)
			})

			Convey("Then a prepended hop does not escape the real client's bucket", func() {
				So(spoofed, ShouldEqual, http.StatusTooManyRequests)
			})
		})
	})
}

func TestQueryFromValues(t *testing.T) {
	Convey("Given URL parameters", t, func() {
		v := url.Values{
			"status":            {"complete"},
			"department":        {"Eng", " Ops ,"},
			"department_search": {"en"},
			"department_member": {"Eng"},
			"interviewer":       {"ana,ben"},
		}
		q := api.QueryFromValues(v)

		Convey("Then lists are split and trimmed", func() {
			So(q.Candidates.Status, ShouldEqual, model.StatusComplete)
			So(q.Candidates.Departments, ShouldResemble, []string{"Eng", "Ops"})
			So(q.Departments.Search, ShouldEqual, "en")
			So(q.Departments.Members, ShouldResemble, []string{"Eng"})
			So(q.Interviewers.Members, ShouldResemble, []string{"ana", "ben"})
			So(q.Interviewers.Departments, ShouldBeNil)
		})
	})
}
