// Package store defines the record store boundary for StudentSync entities.
// Two backends implement it: MongoDB for production and an in-memory map
// store used by tests.
package store

import (
	"context"

	"github.com/Shayan56/StudentSync/internal/shared"
)

// StudentFilter narrows student lookups. Zero-value fields are ignored.
// Name matches as a case-insensitive substring; the rest match exactly.
type StudentFilter struct {
	RollNumber string
	Name       string
	Batch      string
	Semester   string
}

// MarkFilter narrows mark lookups. Zero-value fields are ignored.
type MarkFilter struct {
	StudentID string
	Semester  string
	Subject   string
}

// AttendanceFilter narrows attendance lookups. Zero-value fields are ignored.
type AttendanceFilter struct {
	StudentID string
	Semester  string
	Subject   string
}

// StudentStore persists student identity records.
// GetByID and GetByRollNumber return shared.ErrNotFound for missing records.
type StudentStore interface {
	Find(ctx context.Context, filter StudentFilter) ([]shared.Student, error)
	GetByID(ctx context.Context, id string) (*shared.Student, error)
	GetByRollNumber(ctx context.Context, rollNumber string) (*shared.Student, error)
	Insert(ctx context.Context, student *shared.Student) error
	Update(ctx context.Context, student *shared.Student) error

	// UpsertByRollNumber overwrites name, batch, and semester of the student
	// with the same roll number, or inserts a new record when none exists.
	UpsertByRollNumber(ctx context.Context, student *shared.Student) error

	DeleteByID(ctx context.Context, id string) error
}

// MarkStore persists subject scores.
type MarkStore interface {
	Find(ctx context.Context, filter MarkFilter) ([]shared.Mark, error)
	Insert(ctx context.Context, mark *shared.Mark) error

	// UpsertByKey overwrites the score of the mark with the same
	// (student_id, subject, semester), or inserts a new record.
	UpsertByKey(ctx context.Context, mark *shared.Mark) error

	// DeleteByStudent removes every mark referencing the student and reports
	// how many were removed.
	DeleteByStudent(ctx context.Context, studentID string) (int64, error)
}

// AttendanceStore persists daily presence records. Aggregation treats them
// as read-only input; there is no update operation.
type AttendanceStore interface {
	Find(ctx context.Context, filter AttendanceFilter) ([]shared.AttendanceRecord, error)
	Insert(ctx context.Context, record *shared.AttendanceRecord) error
	DeleteByStudent(ctx context.Context, studentID string) (int64, error)
}

// Stores bundles the per-entity stores a backend provides.
type Stores struct {
	Students   StudentStore
	Marks      MarkStore
	Attendance AttendanceStore
}
