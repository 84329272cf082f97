package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/Shayan56/StudentSync/internal/shared"
	"github.com/Shayan56/StudentSync/internal/store"
)

func TestApplyStudents(t *testing.T) {
	ctx := context.Background()

	batch := []StudentRecord{
		{Name: "Alice", RollNumber: "R1", Batch: "2024", Semester: "1"},
		{Name: "Bob", RollNumber: "R2", Batch: "2024", Semester: "1"},
	}

	t.Run("Inserts New Students", func(t *testing.T) {
		stores := store.NewMemoryStores()
		reconciler := NewReconciler(stores)

		result, err := reconciler.ApplyStudents(ctx, batch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Applied != 2 || result.Total != 2 {
			t.Errorf("unexpected result: %+v", result)
		}

		students, _ := stores.Students.Find(ctx, store.StudentFilter{})
		if len(students) != 2 {
			t.Errorf("expected 2 students stored, got %d", len(students))
		}
	})

	t.Run("Reapplying The Same Batch Is Idempotent", func(t *testing.T) {
		stores := store.NewMemoryStores()
		reconciler := NewReconciler(stores)

		if _, err := reconciler.ApplyStudents(ctx, batch); err != nil {
			t.Fatalf("first apply: %v", err)
		}
		first, _ := stores.Students.Find(ctx, store.StudentFilter{})

		if _, err := reconciler.ApplyStudents(ctx, batch); err != nil {
			t.Fatalf("second apply: %v", err)
		}
		second, _ := stores.Students.Find(ctx, store.StudentFilter{})

		if len(second) != len(first) {
			t.Fatalf("student count changed: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if second[i].ID != first[i].ID {
				t.Errorf("identity changed on reapply: %s vs %s", first[i].ID, second[i].ID)
			}
			if second[i].Name != first[i].Name || second[i].RollNumber != first[i].RollNumber {
				t.Errorf("record changed on reapply: %+v vs %+v", first[i], second[i])
			}
		}
	})

	t.Run("Upsert Overwrites Mutable Fields", func(t *testing.T) {
		stores := store.NewMemoryStores()
		reconciler := NewReconciler(stores)

		if _, err := reconciler.ApplyStudents(ctx, batch); err != nil {
			t.Fatalf("first apply: %v", err)
		}

		updated := []StudentRecord{{Name: "Alice Smith", RollNumber: "R1", Batch: "2025", Semester: "2"}}
		if _, err := reconciler.ApplyStudents(ctx, updated); err != nil {
			t.Fatalf("second apply: %v", err)
		}

		student, err := stores.Students.GetByRollNumber(ctx, "R1")
		if err != nil {
			t.Fatalf("lookup: %v", err)
		}
		if student.Name != "Alice Smith" || student.Batch != "2025" || student.Semester != "2" {
			t.Errorf("fields not overwritten: %+v", student)
		}
	})

	t.Run("In-Batch Duplicates Reject The Whole Batch", func(t *testing.T) {
		stores := store.NewMemoryStores()
		reconciler := NewReconciler(stores)

		colliding := []StudentRecord{
			{Name: "Alice", RollNumber: "R1", Batch: "2024", Semester: "1"},
			{Name: "Bob", RollNumber: "R2", Batch: "2024", Semester: "1"},
			{Name: "Alice Again", RollNumber: "R1", Batch: "2024", Semester: "1"},
		}

		result, err := reconciler.ApplyStudents(ctx, colliding)
		var duplicateErr *shared.DuplicateKeyError
		if !errors.As(err, &duplicateErr) {
			t.Fatalf("expected DuplicateKeyError, got %v", err)
		}
		if len(duplicateErr.Keys) != 1 || duplicateErr.Keys[0] != "R1" {
			t.Errorf("unexpected colliding keys: %v", duplicateErr.Keys)
		}
		if result.Applied != 0 {
			t.Errorf("expected nothing applied, got %d", result.Applied)
		}

		students, _ := stores.Students.Find(ctx, store.StudentFilter{})
		if len(students) != 0 {
			t.Errorf("expected empty store after rejected batch, got %d students", len(students))
		}
	})
}

func TestApplyMarks(t *testing.T) {
	ctx := context.Background()

	t.Run("Upserts By Composite Key", func(t *testing.T) {
		stores := store.NewMemoryStores()
		reconciler := NewReconciler(stores)
		seedStudents(t, stores, "R1")
		student, _ := stores.Students.GetByRollNumber(ctx, "R1")

		first := []MarkRecord{
			{StudentID: student.ID, RollNumber: "R1", Subject: "Math", Score: 70, Semester: "1"},
		}
		if _, err := reconciler.ApplyMarks(ctx, first); err != nil {
			t.Fatalf("first apply: %v", err)
		}

		// Same key, new score: overwritten, not duplicated.
		second := []MarkRecord{
			{StudentID: student.ID, RollNumber: "R1", Subject: "Math", Score: 95, Semester: "1"},
		}
		if _, err := reconciler.ApplyMarks(ctx, second); err != nil {
			t.Fatalf("second apply: %v", err)
		}

		marks, _ := stores.Marks.Find(ctx, store.MarkFilter{StudentID: student.ID})
		if len(marks) != 1 {
			t.Fatalf("expected 1 mark, got %d", len(marks))
		}
		if marks[0].Score != 95 {
			t.Errorf("expected overwritten score 95, got %v", marks[0].Score)
		}
	})

	t.Run("Distinct Semesters Are Distinct Keys", func(t *testing.T) {
		stores := store.NewMemoryStores()
		reconciler := NewReconciler(stores)
		seedStudents(t, stores, "R1")
		student, _ := stores.Students.GetByRollNumber(ctx, "R1")

		records := []MarkRecord{
			{StudentID: student.ID, RollNumber: "R1", Subject: "Math", Score: 70, Semester: "1"},
			{StudentID: student.ID, RollNumber: "R1", Subject: "Math", Score: 85, Semester: "2"},
		}
		result, err := reconciler.ApplyMarks(ctx, records)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Applied != 2 {
			t.Errorf("expected 2 applied, got %d", result.Applied)
		}

		marks, _ := stores.Marks.Find(ctx, store.MarkFilter{StudentID: student.ID})
		if len(marks) != 2 {
			t.Errorf("expected 2 marks, got %d", len(marks))
		}
	})
}
