package api

import (
	"net/url"
	"strings"

	"github.com/okian/scorecard/internal/domain/model"
)

// Query string parameters understood by POST /reports for CSV and XLSX
// bodies. List parameters may repeat or hold comma separated values.
const (
	paramRecruiter             = "recruiter"
	paramDepartment            = "department"
	paramStatus                = "status"
	paramDepartmentSearch      = "department_search"
	paramDepartmentMember      = "department_member"
	paramInterviewer           = "interviewer"
	paramInterviewerSearch     = "interviewer_search"
	paramInterviewerDepartment = "interviewer_department"
)

// QueryFromValues builds a report query from URL parameters.
func QueryFromValues(v url.Values) model.Query {
	return model.Query{
		Candidates: model.CandidateQuery{
			Recruiter:   strings.TrimSpace(v.Get(paramRecruiter)),
			Departments: list(v[paramDepartment]),
			Status:      model.Status(v.Get(paramStatus)),
		},
		Departments: model.CohortFilter{
			Search:  strings.TrimSpace(v.Get(paramDepartmentSearch)),
			Members: list(v[paramDepartmentMember]),
		},
		Interviewers: model.CohortFilter{
			Search:      strings.TrimSpace(v.Get(paramInterviewerSearch)),
			Members:     list(v[paramInterviewer]),
			Departments: list(v[paramInterviewerDepartment]),
		},
	}
}

func list(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
