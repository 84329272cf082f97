package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Shayan56/StudentSync/internal/api/util"
	"github.com/Shayan56/StudentSync/internal/attendance"
	"github.com/Shayan56/StudentSync/internal/store"
)

// AttendanceHandler exposes attendance entry and lookup over HTTP.
type AttendanceHandler struct {
	Service *attendance.Service
}

// createAttendanceRequest mirrors the JSON input for POST /attendance.
// Date accepts RFC 3339 or plain YYYY-MM-DD.
type createAttendanceRequest struct {
	StudentID string `json:"studentId"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	Semester  string `json:"semester"`
	Subject   string `json:"subject,omitempty"`
}

// ListAttendance handles GET /attendance
// Query Params: studentId, semester, subject (all optional)
func (h *AttendanceHandler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	// 1. Extract Query Parameters
	query := r.URL.Query()
	filter := store.AttendanceFilter{
		StudentID: query.Get("studentId"),
		Semester:  query.Get("semester"),
		Subject:   query.Get("subject"),
	}

	// 2. Fetch
	records, err := h.Service.List(r.Context(), filter)
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 3. Respond
	util.WriteJSON(w, http.StatusOK, records)
}

// CreateAttendance handles POST /attendance
func (h *AttendanceHandler) CreateAttendance(w http.ResponseWriter, r *http.Request) {
	// 1. Decode Body
	var req createAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// 2. Parse Date
	date, err := parseDate(req.Date)
	if err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid date: expected RFC 3339 or YYYY-MM-DD")
		return
	}

	// 3. Create
	created, err := h.Service.Create(r.Context(), attendance.CreateInput{
		StudentID: req.StudentID,
		Date:      date,
		Status:    req.Status,
		Semester:  req.Semester,
		Subject:   req.Subject,
	})
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 4. Respond
	util.WriteJSON(w, http.StatusCreated, created)
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
