// Package marks implements mark entry rules: score range validation and the
// referential check that the target student exists.
package marks

import (
	"context"
	"log"
	"time"

	"github.com/Shayan56/StudentSync/internal/shared"
	"github.com/Shayan56/StudentSync/internal/store"
)

// Service coordinates mark operations.
type Service struct {
	students store.StudentStore
	marks    store.MarkStore
}

// NewService creates a marks Service over the given stores.
func NewService(stores *store.Stores) *Service {
	return &Service{
		students: stores.Students,
		marks:    stores.Marks,
	}
}

// CreateInput carries the fields for a new mark. All are required.
type CreateInput struct {
	StudentID string   `json:"studentId"`
	Subject   string   `json:"subject"`
	Score     *float64 `json:"score"` // pointer so a missing score is distinguishable from 0
	Semester  string   `json:"semester"`
}

// List returns marks matching the filter.
func (s *Service) List(ctx context.Context, filter store.MarkFilter) ([]shared.Mark, error) {
	return s.marks.Find(ctx, filter)
}

// Create inserts a new mark after validating the score range and that the
// referenced student exists. An unknown student fails with ErrNotFound.
func (s *Service) Create(ctx context.Context, input CreateInput) (*shared.Mark, error) {
	if input.StudentID == "" {
		return nil, shared.NewValidationError("studentId", input.StudentID, "required")
	}
	if input.Subject == "" {
		return nil, shared.NewValidationError("subject", input.Subject, "required")
	}
	if input.Semester == "" {
		return nil, shared.NewValidationError("semester", input.Semester, "required")
	}
	if input.Score == nil {
		return nil, shared.NewValidationError("score", nil, "required")
	}
	if !shared.IsValidScore(*input.Score) {
		return nil, shared.NewValidationError("score", *input.Score, "must be between 0 and 100")
	}

	student, err := s.students.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}

	mark := &shared.Mark{
		ID:        shared.NewDocumentID(),
		StudentID: input.StudentID,
		Subject:   input.Subject,
		Score:     *input.Score,
		Semester:  input.Semester,
		CreatedAt: time.Now(),
	}

	if err := s.marks.Insert(ctx, mark); err != nil {
		return nil, err
	}

	log.Printf("INFO: Created mark for student %s (%s: %.0f)", student.RollNumber, mark.Subject, mark.Score)
	return mark, nil
}
