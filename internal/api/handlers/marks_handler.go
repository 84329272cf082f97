package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Shayan56/StudentSync/internal/api/util"
	"github.com/Shayan56/StudentSync/internal/marks"
	"github.com/Shayan56/StudentSync/internal/store"
)

// MarksHandler exposes mark entry and lookup over HTTP.
type MarksHandler struct {
	Service *marks.Service
}

// ListMarks handles GET /marks
// Query Params: studentId, semester, subject (all optional)
func (h *MarksHandler) ListMarks(w http.ResponseWriter, r *http.Request) {
	// 1. Extract Query Parameters
	query := r.URL.Query()
	filter := store.MarkFilter{
		StudentID: query.Get("studentId"),
		Semester:  query.Get("semester"),
		Subject:   query.Get("subject"),
	}

	// 2. Fetch
	result, err := h.Service.List(r.Context(), filter)
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 3. Respond
	util.WriteJSON(w, http.StatusOK, result)
}

// CreateMark handles POST /marks
func (h *MarksHandler) CreateMark(w http.ResponseWriter, r *http.Request) {
	// 1. Decode Body
	var input marks.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// 2. Create
	created, err := h.Service.Create(r.Context(), input)
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 3. Respond
	util.WriteJSON(w, http.StatusCreated, created)
}
