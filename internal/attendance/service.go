// Package attendance implements attendance entry rules: status enum
// validation and the referential check that the target student exists.
package attendance

import (
	"context"
	"log"
	"time"

	"github.com/Shayan56/StudentSync/internal/shared"
	"github.com/Shayan56/StudentSync/internal/store"
)

// Service coordinates attendance operations.
type Service struct {
	students   store.StudentStore
	attendance store.AttendanceStore
}

// NewService creates an attendance Service over the given stores.
func NewService(stores *store.Stores) *Service {
	return &Service{
		students:   stores.Students,
		attendance: stores.Attendance,
	}
}

// CreateInput carries the fields for a new attendance record. Subject is
// optional; when set the record can be aggregated per subject.
type CreateInput struct {
	StudentID string    `json:"studentId"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	Semester  string    `json:"semester"`
	Subject   string    `json:"subject,omitempty"`
}

// List returns attendance records matching the filter.
func (s *Service) List(ctx context.Context, filter store.AttendanceFilter) ([]shared.AttendanceRecord, error) {
	return s.attendance.Find(ctx, filter)
}

// Create inserts a new attendance record after validating the status enum
// and that the referenced student exists.
func (s *Service) Create(ctx context.Context, input CreateInput) (*shared.AttendanceRecord, error) {
	if input.StudentID == "" {
		return nil, shared.NewValidationError("studentId", input.StudentID, "required")
	}
	if input.Date.IsZero() {
		return nil, shared.NewValidationError("date", input.Date, "required")
	}
	if !shared.IsValidAttendanceStatus(input.Status) {
		return nil, shared.NewValidationError("status", input.Status, "must be Present or Absent")
	}
	if input.Semester == "" {
		return nil, shared.NewValidationError("semester", input.Semester, "required")
	}

	student, err := s.students.GetByID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}

	record := &shared.AttendanceRecord{
		ID:        shared.NewDocumentID(),
		StudentID: input.StudentID,
		Date:      input.Date,
		Status:    input.Status,
		Semester:  input.Semester,
		Subject:   input.Subject,
		CreatedAt: time.Now(),
	}

	if err := s.attendance.Insert(ctx, record); err != nil {
		return nil, err
	}

	log.Printf("INFO: Created attendance for student %s (%s)", student.RollNumber, record.Status)
	return record, nil
}
