package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Shayan56/StudentSync/internal/shared"
)

// NewMemoryStores builds an in-memory store set with the same semantics as
// the MongoDB backend. Used by tests; safe for concurrent use.
func NewMemoryStores() *Stores {
	return &Stores{
		Students:   &memStudents{byID: make(map[string]shared.Student)},
		Marks:      &memMarks{byID: make(map[string]shared.Mark)},
		Attendance: &memAttendance{byID: make(map[string]shared.AttendanceRecord)},
	}
}

// ============================================================================
// Student Store
// ============================================================================

type memStudents struct {
	mu   sync.RWMutex
	byID map[string]shared.Student
}

func (s *memStudents) Find(_ context.Context, filter StudentFilter) ([]shared.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	students := []shared.Student{}
	for _, student := range s.byID {
		if filter.RollNumber != "" && student.RollNumber != filter.RollNumber {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(student.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Batch != "" && student.Batch != filter.Batch {
			continue
		}
		if filter.Semester != "" && student.Semester != filter.Semester {
			continue
		}
		students = append(students, student)
	}

	sortStudents(students)
	return students, nil
}

func (s *memStudents) GetByID(_ context.Context, id string) (*shared.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	student, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &student, nil
}

func (s *memStudents) GetByRollNumber(_ context.Context, rollNumber string) (*shared.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, student := range s.byID {
		if student.RollNumber == rollNumber {
			return &student, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *memStudents) Insert(_ context.Context, student *shared.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if existing.RollNumber == student.RollNumber {
			return &shared.DuplicateKeyError{Keys: []string{student.RollNumber}}
		}
	}

	s.byID[student.ID] = *student
	return nil
}

func (s *memStudents) Update(_ context.Context, student *shared.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[student.ID]; !ok {
		return shared.ErrNotFound
	}
	for id, existing := range s.byID {
		if id != student.ID && existing.RollNumber == student.RollNumber {
			return &shared.DuplicateKeyError{Keys: []string{student.RollNumber}}
		}
	}

	s.byID[student.ID] = *student
	return nil
}

func (s *memStudents) UpsertByRollNumber(_ context.Context, student *shared.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, existing := range s.byID {
		if existing.RollNumber == student.RollNumber {
			existing.Name = student.Name
			existing.Batch = student.Batch
			existing.Semester = student.Semester
			existing.UpdatedAt = now
			s.byID[id] = existing
			return nil
		}
	}

	inserted := *student
	if inserted.ID == "" {
		inserted.ID = shared.NewDocumentID()
	}
	inserted.CreatedAt = now
	s.byID[inserted.ID] = inserted
	return nil
}

func (s *memStudents) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// ============================================================================
// Mark Store
// ============================================================================

type memMarks struct {
	mu   sync.RWMutex
	byID map[string]shared.Mark
}

func (s *memMarks) Find(_ context.Context, filter MarkFilter) ([]shared.Mark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	marks := []shared.Mark{}
	for _, mark := range s.byID {
		if filter.StudentID != "" && mark.StudentID != filter.StudentID {
			continue
		}
		if filter.Semester != "" && mark.Semester != filter.Semester {
			continue
		}
		if filter.Subject != "" && mark.Subject != filter.Subject {
			continue
		}
		marks = append(marks, mark)
	}

	sortMarks(marks)
	return marks, nil
}

func (s *memMarks) Insert(_ context.Context, mark *shared.Mark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[mark.ID] = *mark
	return nil
}

func (s *memMarks) UpsertByKey(_ context.Context, mark *shared.Mark) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, existing := range s.byID {
		if existing.StudentID == mark.StudentID &&
			existing.Subject == mark.Subject &&
			existing.Semester == mark.Semester {
			existing.Score = mark.Score
			existing.UpdatedAt = now
			s.byID[id] = existing
			return nil
		}
	}

	inserted := *mark
	if inserted.ID == "" {
		inserted.ID = shared.NewDocumentID()
	}
	inserted.CreatedAt = now
	s.byID[inserted.ID] = inserted
	return nil
}

func (s *memMarks) DeleteByStudent(_ context.Context, studentID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, mark := range s.byID {
		if mark.StudentID == studentID {
			delete(s.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

// ============================================================================
// Attendance Store
// ============================================================================

type memAttendance struct {
	mu   sync.RWMutex
	byID map[string]shared.AttendanceRecord
}

func (s *memAttendance) Find(_ context.Context, filter AttendanceFilter) ([]shared.AttendanceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []shared.AttendanceRecord{}
	for _, record := range s.byID {
		if filter.StudentID != "" && record.StudentID != filter.StudentID {
			continue
		}
		if filter.Semester != "" && record.Semester != filter.Semester {
			continue
		}
		if filter.Subject != "" && record.Subject != filter.Subject {
			continue
		}
		records = append(records, record)
	}

	sortAttendance(records)
	return records, nil
}

func (s *memAttendance) Insert(_ context.Context, record *shared.AttendanceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[record.ID] = *record
	return nil
}

func (s *memAttendance) DeleteByStudent(_ context.Context, studentID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, record := range s.byID {
		if record.StudentID == studentID {
			delete(s.byID, id)
			deleted++
		}
	}
	return deleted, nil
}

// ============================================================================
// Sorting Helpers (match the Mongo backend's sort orders)
// ============================================================================

func sortStudents(students []shared.Student) {
	sort.Slice(students, func(i, j int) bool {
		return students[i].RollNumber < students[j].RollNumber
	})
}

func sortMarks(marks []shared.Mark) {
	sort.Slice(marks, func(i, j int) bool {
		if marks[i].Semester != marks[j].Semester {
			return marks[i].Semester < marks[j].Semester
		}
		return marks[i].Subject < marks[j].Subject
	})
}

func sortAttendance(records []shared.AttendanceRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
}
