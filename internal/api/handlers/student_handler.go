package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Shayan56/StudentSync/internal/api/util"
	"github.com/Shayan56/StudentSync/internal/store"
	"github.com/Shayan56/StudentSync/internal/student"
)

// StudentHandler exposes student CRUD over HTTP.
type StudentHandler struct {
	Service *student.Service
}

// ListStudents handles GET /students
// Query Params: rollNumber, name, batch, semester (all optional)
func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	// 1. Extract Query Parameters
	query := r.URL.Query()
	filter := store.StudentFilter{
		RollNumber: query.Get("rollNumber"),
		Name:       query.Get("name"),
		Batch:      query.Get("batch"),
		Semester:   query.Get("semester"),
	}

	// 2. Fetch
	students, err := h.Service.List(r.Context(), filter)
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 3. Respond
	util.WriteJSON(w, http.StatusOK, students)
}

// CreateStudent handles POST /students
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	// 1. Decode Body
	var input student.CreateInput
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

// UpdateStudent handles PUT /students/{id}
// Empty fields keep their current values.
func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	// 1. Extract Path Variable
	id := chi.URLParam(r, "id")

	// 2. Decode Body
	var input student.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// 3. Update
	updated, err := h.Service.Update(r.Context(), id, input)
	if err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 4. Respond
	util.WriteJSON(w, http.StatusOK, updated)
}

// DeleteStudent handles DELETE /students/{id}
// Deleting a student cascades to its marks and attendance records.
func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	// 1. Extract Path Variable
	id := chi.URLParam(r, "id")

	// 2. Delete (cascade)
	if err := h.Service.Delete(r.Context(), id); err != nil {
		util.HandleDomainError(w, err)
		return
	}

	// 3. Respond
	util.WriteJSONMessage(w, http.StatusOK, "Student and related data deleted")
}
