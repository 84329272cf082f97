// Package student implements CRUD rules for student identity records:
// roll-number uniqueness on create and update, and cascade deletion of the
// marks and attendance rows a student owns.
package student

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/Shayan56/StudentSync/internal/shared"
	"github.com/Shayan56/StudentSync/internal/store"
)

// Service coordinates student operations across the entity stores.
type Service struct {
	students   store.StudentStore
	marks      store.MarkStore
	attendance store.AttendanceStore
}

// NewService creates a student Service over the given stores.
func NewService(stores *store.Stores) *Service {
	return &Service{
		students:   stores.Students,
		marks:      stores.Marks,
		attendance: stores.Attendance,
	}
}

// CreateInput carries the fields for a new student. All are required.
type CreateInput struct {
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	Batch      string `json:"batch"`
	Semester   string `json:"semester"`
}

// UpdateInput carries a partial student update. Empty fields keep their
// current values.
type UpdateInput struct {
	Name       string `json:"name"`
	RollNumber string `json:"rollNumber"`
	Batch      string `json:"batch"`
	Semester   string `json:"semester"`
}

// List returns students matching the filter.
func (s *Service) List(ctx context.Context, filter store.StudentFilter) ([]shared.Student, error) {
	return s.students.Find(ctx, filter)
}

// Get returns one student by store identity.
func (s *Service) Get(ctx context.Context, id string) (*shared.Student, error) {
	return s.students.GetByID(ctx, id)
}

// Create inserts a new student. An existing roll number fails with a
// DuplicateKeyError; a missing field fails with a ValidationError.
func (s *Service) Create(ctx context.Context, input CreateInput) (*shared.Student, error) {
	if err := validateRequired(input); err != nil {
		return nil, err
	}

	if _, err := s.students.GetByRollNumber(ctx, input.RollNumber); err == nil {
		return nil, &shared.DuplicateKeyError{Keys: []string{input.RollNumber}}
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	student := &shared.Student{
		ID:         shared.NewDocumentID(),
		Name:       input.Name,
		RollNumber: input.RollNumber,
		Batch:      input.Batch,
		Semester:   input.Semester,
		CreatedAt:  time.Now(),
	}

	if err := s.students.Insert(ctx, student); err != nil {
		return nil, err
	}

	log.Printf("INFO: Created student %s", student.RollNumber)
	return student, nil
}

// Update applies a partial update. A roll number change is re-checked for
// uniqueness against other students.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*shared.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.RollNumber != "" && input.RollNumber != student.RollNumber {
		existing, err := s.students.GetByRollNumber(ctx, input.RollNumber)
		if err == nil && existing.ID != id {
			return nil, &shared.DuplicateKeyError{Keys: []string{input.RollNumber}}
		}
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		student.RollNumber = input.RollNumber
	}

	if input.Name != "" {
		student.Name = input.Name
	}
	if input.Batch != "" {
		student.Batch = input.Batch
	}
	if input.Semester != "" {
		student.Semester = input.Semester
	}
	student.UpdatedAt = time.Now()

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}

	log.Printf("INFO: Updated student %s", student.RollNumber)
	return student, nil
}

// Delete removes a student and every mark and attendance row referencing it.
// The cascade is not transactional: children are removed first and the
// student document last, so a crash mid-way leaves the student visible and a
// re-run of the delete clears the remainder (at-least-once delete).
func (s *Service) Delete(ctx context.Context, id string) error {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return err
	}

	marksDeleted, err := s.marks.DeleteByStudent(ctx, id)
	if err != nil {
		return err
	}

	attendanceDeleted, err := s.attendance.DeleteByStudent(ctx, id)
	if err != nil {
		return err
	}

	if err := s.students.DeleteByID(ctx, id); err != nil {
		return err
	}

	log.Printf("INFO: Deleted student %s (%d marks, %d attendance records)",
		student.RollNumber, marksDeleted, attendanceDeleted)
	return nil
}

func validateRequired(input CreateInput) error {
	fields := map[string]string{
		"name":       input.Name,
		"rollNumber": input.RollNumber,
		"batch":      input.Batch,
		"semester":   input.Semester,
	}
	for field, value := range fields {
		if value == "" {
			return shared.NewValidationError(field, value, "required")
		}
	}
	return nil
}
