package ingest

import (
	"context"
	"log"
	"sort"

	"github.com/Shayan56/StudentSync/internal/shared"
	"github.com/Shayan56/StudentSync/internal/store"
)

// Reconciler applies normalized entity records against the record store,
// matching by natural key: roll number for students and
// (student, subject, semester) for marks.
type Reconciler struct {
	students store.StudentStore
	marks    store.MarkStore
}

// NewReconciler creates a Reconciler over the given stores.
func NewReconciler(stores *store.Stores) *Reconciler {
	return &Reconciler{
		students: stores.Students,
		marks:    stores.Marks,
	}
}

// Result reports how much of a batch was applied. Application is not atomic:
// on a store failure Applied < Total and the records before the failure
// remain written.
type Result struct {
	Total   int `json:"total"`
	Applied int `json:"applied"`
}

// ApplyStudents upserts student records by roll number. When two records in
// the batch share a roll number the entire batch is rejected with a
// DuplicateKeyError listing the colliding keys, and nothing is written.
func (r *Reconciler) ApplyStudents(ctx context.Context, records []StudentRecord) (Result, error) {
	result := Result{Total: len(records)}

	if dup := duplicateRollNumbers(records); len(dup) > 0 {
		return result, &shared.DuplicateKeyError{Keys: dup}
	}

	for _, record := range records {
		student := &shared.Student{
			Name:       record.Name,
			RollNumber: record.RollNumber,
			Batch:      record.Batch,
			Semester:   record.Semester,
		}
		if err := r.students.UpsertByRollNumber(ctx, student); err != nil {
			return result, err
		}
		result.Applied++
	}

	log.Printf("INFO: Reconciled %d student records", result.Applied)
	return result, nil
}

// ApplyMarks upserts mark records by (student, subject, semester). Later
// records in the batch win over earlier ones with the same key, matching the
// store's upsert semantics.
func (r *Reconciler) ApplyMarks(ctx context.Context, records []MarkRecord) (Result, error) {
	result := Result{Total: len(records)}

	for _, record := range records {
		mark := &shared.Mark{
			StudentID: record.StudentID,
			Subject:   record.Subject,
			Score:     record.Score,
			Semester:  record.Semester,
		}
		if err := r.marks.UpsertByKey(ctx, mark); err != nil {
			return result, err
		}
		result.Applied++
	}

	log.Printf("INFO: Reconciled %d mark records", result.Applied)
	return result, nil
}

// duplicateRollNumbers returns the sorted set of roll numbers appearing more
// than once in the batch.
func duplicateRollNumbers(records []StudentRecord) []string {
	seen := make(map[string]int)
	for _, record := range records {
		seen[record.RollNumber]++
	}

	var dup []string
	for roll, count := range seen {
		if count > 1 {
			dup = append(dup, roll)
		}
	}

	sort.Strings(dup)
	return dup
}
