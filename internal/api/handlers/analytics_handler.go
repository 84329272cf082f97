package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shayan56/StudentSync/internal/analytics"
	"github.com/Shayan56/StudentSync/internal/api/util"
	"github.com/Shayan56/StudentSync/internal/report"
	"github.com/Shayan56/StudentSync/internal/shared"
	"github.com/Shayan56/StudentSync/internal/store"
)

// AnalyticsHandler exposes derived views: per-student analytics, the
// defaulter list, and the PDF report. All metrics are recomputed on demand
// from the raw entity lists; nothing derived is persisted.
type AnalyticsHandler struct {
	Stores *store.Stores
	Config shared.AnalyticsConfig
}

// StudentAnalytics handles GET /students/{id}/analytics
// Query Params: policy (letter|simple, optional), groupBy (semester|subject, optional)
func (h *AnalyticsHandler) StudentAnalytics(w http.ResponseWriter, r *http.Request) {
	// 1. Resolve Student
	id := chi.URLParam(r, "id")
	studentRec, err := h.Stores.Students.GetByID(r.Context(), id)
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 2. Resolve Options
	policy, err := h.policyFromRequest(r)
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}
	grouping := groupingFromRequest(r)

	// 3. Load Raw Entity Lists
	studentMarks, err := h.Stores.Marks.Find(r.Context(), store.MarkFilter{StudentID: id})
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}
	records, err := h.Stores.Attendance.Find(r.Context(), store.AttendanceFilter{StudentID: id})
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 4. Aggregate and Respond
	result := analytics.BuildStudentAnalytics(studentMarks, records, grouping, policy)
	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"student":           studentRec,
		"attendanceByGroup": result.AttendanceByGroup,
		"grades":            result.Grades,
		"gpa":               result.GPA,
		"policy":            result.Policy,
	})
}

// Defaulters handles GET /students/defaulters
// Query Params: groupBy (semester|subject, optional)
func (h *AnalyticsHandler) Defaulters(w http.ResponseWriter, r *http.Request) {
	// 1. Load Raw Entity Lists
	students, err := h.Stores.Students.Find(r.Context(), store.StudentFilter{})
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}
	records, err := h.Stores.Attendance.Find(r.Context(), store.AttendanceFilter{})
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 2. Classify and Respond
	cfg := analytics.Config{DefaulterThreshold: h.Config.DefaulterThreshold}
	defaulters := analytics.Defaulters(students, records, groupingFromRequest(r), cfg)

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"threshold":  h.Config.DefaulterThreshold,
		"defaulters": defaulters,
	})
}

// StudentReport handles GET /students/{id}/report
// Streams the rendered PDF with a per-student download filename.
func (h *AnalyticsHandler) StudentReport(w http.ResponseWriter, r *http.Request) {
	// 1. Resolve Student
	id := chi.URLParam(r, "id")
	studentRec, err := h.Stores.Students.GetByID(r.Context(), id)
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 2. Resolve Options and Load Raw Entity Lists
	policy, err := h.policyFromRequest(r)
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}
	studentMarks, err := h.Stores.Marks.Find(r.Context(), store.MarkFilter{StudentID: id})
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}
	records, err := h.Stores.Attendance.Find(r.Context(), store.AttendanceFilter{StudentID: id})
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 3. Aggregate and Render
	result := analytics.BuildStudentAnalytics(studentMarks, records, groupingFromRequest(r), policy)
	pdf, err := report.Render(studentRec, result)
	if err != nil {
		util.WriteJSONError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	// 4. Stream PDF
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+report.Filename(studentRec))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		// Client went away mid-download; nothing to recover.
		return
	}
}

func (h *AnalyticsHandler) policyFromRequest(r *http.Request) (analytics.GradingPolicy, error) {
	name := r.URL.Query().Get("policy")
	if name == "" {
		name = h.Config.DefaultPolicy
	}
	return analytics.ParsePolicy(name)
}

func groupingFromRequest(r *http.Request) analytics.Grouping {
	if r.URL.Query().Get("groupBy") == "subject" {
		return analytics.GroupBySubject
	}
	return analytics.GroupBySemester
}
