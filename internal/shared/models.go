// ============================================================================
// internal/shared/models.go
// Data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"time"
)

// ============================================================================
// Collection Names
// ============================================================================

const (
	CollectionStudents   = "students"
	CollectionMarks      = "marks"
	CollectionAttendance = "attendance"
)

// ============================================================================
// Student Models
// ============================================================================

// Student represents a student identity record.
// RollNumber is the natural key: unique across all students and used for
// upsert matching during bulk ingestion.
type Student struct {
	ID         string    `bson:"_id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	RollNumber string    `bson:"roll_number" json:"rollNumber"`
	Batch      string    `bson:"batch" json:"batch"`
	Semester   string    `bson:"semester" json:"semester"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ============================================================================
// Mark Models
// ============================================================================

// Mark represents one subject score for one student in one semester.
// Natural key for upsert: (StudentID, Subject, Semester).
type Mark struct {
	ID        string    `bson:"_id" json:"id"`
	StudentID string    `bson:"student_id" json:"studentId"`
	Subject   string    `bson:"subject" json:"subject"`
	Score     float64   `bson:"score" json:"score"` // 0-100 inclusive
	Semester  string    `bson:"semester" json:"semester"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ============================================================================
// Attendance Models
// ============================================================================

// Attendance status values
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// AttendanceRecord represents one day's presence status for one student.
// Subject is optional; when set, attendance can be aggregated per subject
// instead of per semester.
type AttendanceRecord struct {
	ID        string    `bson:"_id" json:"id"`
	StudentID string    `bson:"student_id" json:"studentId"`
	Date      time.Time `bson:"date" json:"date"`
	Status    string    `bson:"status" json:"status"` // Present, Absent
	Semester  string    `bson:"semester" json:"semester"`
	Subject   string    `bson:"subject,omitempty" json:"subject,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// ============================================================================
// Validation Helpers
// ============================================================================

// IsValidAttendanceStatus checks if attendance status is valid according to schema
func IsValidAttendanceStatus(status string) bool {
	validStatuses := map[string]bool{
		StatusPresent: true,
		StatusAbsent:  true,
	}
	return validStatuses[status]
}

// IsValidScore checks if a mark score is within the allowed range
func IsValidScore(score float64) bool {
	return score >= 0 && score <= 100
}
