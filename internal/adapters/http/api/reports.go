package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/scorecard/internal/adapters/export"
	"github.com/okian/scorecard/internal/adapters/repository"
	"github.com/okian/scorecard/internal/adapters/source"
	service "github.com/okian/scorecard/internal/app"
	"github.com/okian/scorecard/internal/domain/model"
	"github.com/okian/scorecard/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportRequest mirrors the OpenAPI schema for a JSON POST /reports body.
type reportRequest struct {
	Rows  []model.RawRecord `json:"rows"`
	Query model.Query       `json:"query"`
}

type acceptedResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type remindersResponse struct {
	ID        string           `json:"id"`
	Reminders []model.Reminder `json:"reminders"`
}

// ReportsHandler serves report generation and reads.
type ReportsHandler struct {
	deps    Dependencies
	maxBody int64
	logger  logger.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps Dependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps, maxBody: defaultMaxBodyBytes}
}

// HandleCreate handles POST /reports. JSON bodies carry rows and query;
// CSV and XLSX bodies take the query from URL parameters. With async=true
// the report is queued and 202 is returned.
func (h *ReportsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_report"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	rows, q, err := decodeReport(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
		case errors.Is(err, source.ErrUnknownFormat):
			writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", WrapKind(op, ErrUnsupported, err))
		default:
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		}
		return
	}

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		id, err := h.deps.Submit(r.Context(), rows, q)
		if err != nil {
			h.fail(w, r, op, err)
			return
		}
		w.Header().Set("Location", "/reports/"+id)
		writeJSON(w, http.StatusAccepted, acceptedResponse{ID: id, Status: string(service.JobPending)})
		return
	}

	env, err := h.deps.Generate(r.Context(), rows, q)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	w.Header().Set("Location", "/reports/"+env.ID)
	writeJSON(w, http.StatusCreated, env)
}

func decodeReport(r *http.Request) ([]model.RawRecord, model.Query, error) {
	f, err := source.FormatFromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, model.Query{}, err
	}
	if f == source.FormatJSON {
		var req reportRequest
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return nil, model.Query{}, err
		}
		if req.Rows == nil {
			return nil, model.Query{}, errors.New("missing rows")
		}
		return req.Rows, req.Query, nil
	}
	rows, err := source.Read(r.Body, f, source.WithSheet(r.URL.Query().Get("sheet")))
	if err != nil {
		return nil, model.Query{}, err
	}
	return rows, QueryFromValues(r.URL.Query()), nil
}

// HandleGet handles GET /reports/{id}. format=xlsx returns a workbook.
func (h *ReportsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	id := r.PathValue("id")
	env, err := h.deps.Report(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}

	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "json":
		writeJSON(w, http.StatusOK, env)
	case "xlsx":
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "scorecard-"+id+".xlsx"))
		if err := export.WriteXLSX(w, env); err != nil {
			h.logger.Error(r.Context(), "export failed", logger.String("id", id), logger.Error(err))
		}
	default:
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("format must be json or xlsx")))
	}
}

// HandleReminders handles GET /reports/{id}/reminders.
func (h *ReportsHandler) HandleReminders(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_reminders"
	id := r.PathValue("id")
	reminders, err := h.deps.Reminders(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	if reminders == nil {
		reminders = []model.Reminder{}
	}
	writeJSON(w, http.StatusOK, remindersResponse{ID: id, Reminders: reminders})
}

// HandleList handles GET /reports?limit=N.
func (h *ReportsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_reports"
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		limit = n
	}
	infos, err := h.deps.List(r.Context(), limit)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

// fail maps service and store errors onto HTTP responses.
func (h *ReportsHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, service.ErrReportPending):
		writeJSON(w, http.StatusAccepted, acceptedResponse{ID: r.PathValue("id"), Status: string(service.JobPending)})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, model.ErrInvalidStatus), errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrQueueFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrInternal, err))
	case errors.Is(err, service.ErrReportFailed):
		h.logger.Warn(r.Context(), "report job failed", logger.String("id", r.PathValue("id")), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "report_failed", WrapKind(op, ErrInternal, err))
	default:
		h.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrInternal, err))
	}
}
