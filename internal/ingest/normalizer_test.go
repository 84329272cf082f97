package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/Shayan56/StudentSync/internal/shared"
	"github.com/Shayan56/StudentSync/internal/store"
)

func seedStudents(t *testing.T, stores *store.Stores, rolls ...string) {
	t.Helper()
	ctx := context.Background()
	for _, roll := range rolls {
		err := stores.Students.Insert(ctx, &shared.Student{
			ID:         shared.NewDocumentID(),
			Name:       "Student " + roll,
			RollNumber: roll,
			Batch:      "2024",
			Semester:   "1",
		})
		if err != nil {
			t.Fatalf("seed student %s: %v", roll, err)
		}
	}
}

func TestNormalizeStudents(t *testing.T) {
	t.Run("Valid Rows In Input Order", func(t *testing.T) {
		dataset := Dataset{
			{ColName: "Alice", ColRollNumber: "R2", ColBatch: "2024", ColSemester: "1"},
			{ColName: "Bob", ColRollNumber: "R1", ColBatch: "2024", ColSemester: "2"},
		}

		records, err := NormalizeStudents(dataset)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].RollNumber != "R2" || records[1].RollNumber != "R1" {
			t.Errorf("input order not preserved: %+v", records)
		}
	})

	t.Run("Missing Field Fails With Row Context", func(t *testing.T) {
		dataset := Dataset{
			{ColName: "Alice", ColRollNumber: "R1", ColBatch: "2024", ColSemester: "1"},
			{ColName: "Bob", ColBatch: "2024", ColSemester: "1"}, // no roll number
		}

		_, err := NormalizeStudents(dataset)
		var validationErr *shared.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if validationErr.Row != 2 {
			t.Errorf("expected row 2, got %d", validationErr.Row)
		}
		if validationErr.Field != ColRollNumber {
			t.Errorf("expected field %q, got %q", ColRollNumber, validationErr.Field)
		}
	})

	t.Run("Empty Dataset Is Valid", func(t *testing.T) {
		records, err := NormalizeStudents(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})
}

func TestNormalizeMarks(t *testing.T) {
	ctx := context.Background()

	t.Run("Resolves Roll Numbers To Student Identity", func(t *testing.T) {
		stores := store.NewMemoryStores()
		seedStudents(t, stores, "R1")

		dataset := Dataset{
			{ColRollNumber: "R1", ColSubject: "Math", ColScore: "95", ColSemester: "1"},
			{ColRollNumber: "R1", ColSubject: "Physics", ColScore: "80.5", ColSemester: "1"},
		}

		records, err := NormalizeMarks(ctx, dataset, stores.Students)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}

		seeded, err := stores.Students.GetByRollNumber(ctx, "R1")
		if err != nil {
			t.Fatalf("lookup seeded student: %v", err)
		}
		for _, record := range records {
			if record.StudentID != seeded.ID {
				t.Errorf("expected student id %s, got %s", seeded.ID, record.StudentID)
			}
		}
		if records[1].Score != 80.5 {
			t.Errorf("expected parsed score 80.5, got %v", records[1].Score)
		}
	})

	t.Run("Unknown Roll Number Fails With ReferenceNotFound", func(t *testing.T) {
		stores := store.NewMemoryStores()
		seedStudents(t, stores, "R1")

		dataset := Dataset{
			{ColRollNumber: "R1", ColSubject: "Math", ColScore: "95", ColSemester: "1"},
			{ColRollNumber: "R9", ColSubject: "Math", ColScore: "50", ColSemester: "1"},
		}

		_, err := NormalizeMarks(ctx, dataset, stores.Students)
		var referenceErr *shared.ReferenceNotFoundError
		if !errors.As(err, &referenceErr) {
			t.Fatalf("expected ReferenceNotFoundError, got %v", err)
		}
		if referenceErr.Row != 2 || referenceErr.Key != "R9" {
			t.Errorf("unexpected error context: row=%d key=%s", referenceErr.Row, referenceErr.Key)
		}
	})

	t.Run("Out Of Range Score Fails With ValidationError", func(t *testing.T) {
		stores := store.NewMemoryStores()
		seedStudents(t, stores, "R1")

		dataset := Dataset{
			{ColRollNumber: "R1", ColSubject: "Math", ColScore: "101", ColSemester: "1"},
		}

		_, err := NormalizeMarks(ctx, dataset, stores.Students)
		var validationErr *shared.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if validationErr.Row != 1 || validationErr.Field != ColScore {
			t.Errorf("unexpected error context: row=%d field=%s", validationErr.Row, validationErr.Field)
		}
	})

	t.Run("Non Numeric Score Fails With ValidationError", func(t *testing.T) {
		stores := store.NewMemoryStores()
		seedStudents(t, stores, "R1")

		dataset := Dataset{
			{ColRollNumber: "R1", ColSubject: "Math", ColScore: "ninety", ColSemester: "1"},
		}

		_, err := NormalizeMarks(ctx, dataset, stores.Students)
		var validationErr *shared.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("Zero Score Is Valid", func(t *testing.T) {
		stores := store.NewMemoryStores()
		seedStudents(t, stores, "R1")

		dataset := Dataset{
			{ColRollNumber: "R1", ColSubject: "Math", ColScore: "0", ColSemester: "1"},
		}

		records, err := NormalizeMarks(ctx, dataset, stores.Students)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if records[0].Score != 0 {
			t.Errorf("expected score 0, got %v", records[0].Score)
		}
	})
}
