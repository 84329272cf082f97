package analytics

import (
	"testing"
	"time"

	"github.com/Shayan56/StudentSync/internal/shared"
)

func attendanceRecords(studentID, semester string, statuses ...string) []shared.AttendanceRecord {
	records := make([]shared.AttendanceRecord, 0, len(statuses))
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, status := range statuses {
		records = append(records, shared.AttendanceRecord{
			ID:        shared.NewDocumentID(),
			StudentID: studentID,
			Date:      day.AddDate(0, 0, i),
			Status:    status,
			Semester:  semester,
		})
	}
	return records
}

func TestTallyPercentage(t *testing.T) {
	t.Run("Empty Records Yield Zero", func(t *testing.T) {
		tally := Count(nil)
		if tally.Total != 0 {
			t.Fatalf("expected total 0, got %d", tally.Total)
		}
		if pct := tally.Percentage(); pct != 0 {
			t.Errorf("expected percentage 0 for empty records, got %v", pct)
		}
	})

	t.Run("All Absent Distinguishable From No Data Via Total", func(t *testing.T) {
		records := attendanceRecords("s1", "1", shared.StatusAbsent, shared.StatusAbsent)
		tally := Count(records)
		if pct := tally.Percentage(); pct != 0 {
			t.Errorf("expected percentage 0, got %v", pct)
		}
		if tally.Total != 2 {
			t.Errorf("expected total 2, got %d", tally.Total)
		}
	})

	t.Run("Rounds To Two Decimal Places", func(t *testing.T) {
		records := attendanceRecords("s1", "1", shared.StatusPresent, shared.StatusAbsent, shared.StatusAbsent)
		if pct := Count(records).Percentage(); pct != 33.33 {
			t.Errorf("expected 33.33, got %v", pct)
		}
	})
}

func TestGroupPercentages(t *testing.T) {
	records := append(
		attendanceRecords("s1", "1", shared.StatusPresent, shared.StatusPresent),
		attendanceRecords("s1", "2", shared.StatusPresent, shared.StatusAbsent)...,
	)

	groups := GroupPercentages(records, GroupBySemester)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Group != "1" || groups[0].Percentage != 100 {
		t.Errorf("unexpected first group: %+v", groups[0])
	}
	if groups[1].Group != "2" || groups[1].Percentage != 50 {
		t.Errorf("unexpected second group: %+v", groups[1])
	}

	t.Run("Deterministic", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			again := GroupPercentages(records, GroupBySemester)
			if len(again) != len(groups) {
				t.Fatalf("group count changed between runs")
			}
			for j := range again {
				if again[j] != groups[j] {
					t.Fatalf("run %d: group %d differs: %+v vs %+v", i, j, again[j], groups[j])
				}
			}
		}
	})

	t.Run("Group By Subject", func(t *testing.T) {
		subjectRecords := []shared.AttendanceRecord{
			{StudentID: "s1", Semester: "1", Subject: "Math", Status: shared.StatusPresent},
			{StudentID: "s1", Semester: "1", Subject: "Physics", Status: shared.StatusAbsent},
		}
		subjectGroups := GroupPercentages(subjectRecords, GroupBySubject)
		if len(subjectGroups) != 2 {
			t.Fatalf("expected 2 subject groups, got %d", len(subjectGroups))
		}
		if subjectGroups[0].Group != "Math / 1" {
			t.Errorf("unexpected subject group key: %q", subjectGroups[0].Group)
		}
	})
}

func TestLetterGrade(t *testing.T) {
	cases := []struct {
		score  float64
		grade  string
		points float64
	}{
		{95, "A+", 10},
		{90, "A+", 10},
		{85, "A", 9},
		{75, "B", 8},
		{65, "C", 7},
		{59.9, "F", 0},
		{0, "F", 0},
	}

	for _, tc := range cases {
		grade, points := LetterGrade(tc.score)
		if grade != tc.grade || points != tc.points {
			t.Errorf("LetterGrade(%v) = (%s, %v), expected (%s, %v)", tc.score, grade, points, tc.grade, tc.points)
		}
	}
}

func TestGPA(t *testing.T) {
	t.Run("Undefined For Empty Marks", func(t *testing.T) {
		if _, ok := GPA(nil, PolicyLetter); ok {
			t.Error("expected GPA undefined for empty marks under letter policy")
		}
		if _, ok := GPA(nil, PolicySimple); ok {
			t.Error("expected GPA undefined for empty marks under simple policy")
		}
	})

	t.Run("Letter Policy", func(t *testing.T) {
		marks := []shared.Mark{
			{Subject: "Math", Score: 95, Semester: "1"},
			{Subject: "Physics", Score: 85, Semester: "1"},
		}
		gpa, ok := GPA(marks, PolicyLetter)
		if !ok {
			t.Fatal("expected GPA to be defined")
		}
		if gpa != 9.5 {
			t.Errorf("expected 9.5, got %v", gpa)
		}
	})

	t.Run("Single Top Score Yields Ten", func(t *testing.T) {
		gpa, ok := GPA([]shared.Mark{{Subject: "Math", Score: 95, Semester: "1"}}, PolicyLetter)
		if !ok || gpa != 10 {
			t.Errorf("expected GPA 10, got %v (ok=%t)", gpa, ok)
		}
	})

	t.Run("Simple Policy Bands Average Score", func(t *testing.T) {
		cases := []struct {
			scores   []float64
			expected float64
		}{
			{[]float64{95, 93}, 4.0},
			{[]float64{85, 80}, 3.5},
			{[]float64{70, 74}, 3.0},
			{[]float64{60, 65}, 2.5},
			{[]float64{10, 20}, 2.0},
		}
		for _, tc := range cases {
			marks := make([]shared.Mark, 0, len(tc.scores))
			for _, score := range tc.scores {
				marks = append(marks, shared.Mark{Subject: "X", Score: score, Semester: "1"})
			}
			gpa, ok := GPA(marks, PolicySimple)
			if !ok || gpa != tc.expected {
				t.Errorf("scores %v: expected %v, got %v (ok=%t)", tc.scores, tc.expected, gpa, ok)
			}
		}
	})

	t.Run("Within Policy Range", func(t *testing.T) {
		marks := []shared.Mark{
			{Subject: "A", Score: 0}, {Subject: "B", Score: 55},
			{Subject: "C", Score: 77}, {Subject: "D", Score: 100},
		}
		if gpa, _ := GPA(marks, PolicyLetter); gpa < 0 || gpa > 10 {
			t.Errorf("letter GPA out of range: %v", gpa)
		}
		if gpa, _ := GPA(marks, PolicySimple); gpa < 2.0 || gpa > 4.0 {
			t.Errorf("simple GPA out of range: %v", gpa)
		}
	})
}

func TestParsePolicy(t *testing.T) {
	if _, err := ParsePolicy("letter"); err != nil {
		t.Errorf("unexpected error for letter policy: %v", err)
	}
	if _, err := ParsePolicy("simple"); err != nil {
		t.Errorf("unexpected error for simple policy: %v", err)
	}
	if _, err := ParsePolicy("curved"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestDefaulters(t *testing.T) {
	students := []shared.Student{
		{ID: "s1", Name: "Alice", RollNumber: "R1"},
		{ID: "s2", Name: "Bob", RollNumber: "R2"},
	}

	t.Run("Reports Only Below Threshold Groups", func(t *testing.T) {
		// s1: semester 1 at 80%, semester 2 at 60% -> only semester 2 flagged.
		records := append(
			attendanceRecords("s1", "1",
				shared.StatusPresent, shared.StatusPresent, shared.StatusPresent, shared.StatusPresent, shared.StatusAbsent),
			attendanceRecords("s1", "2",
				shared.StatusPresent, shared.StatusPresent, shared.StatusPresent, shared.StatusAbsent, shared.StatusAbsent)...,
		)

		defaulters := Defaulters(students, records, GroupBySemester, DefaultConfig())
		if len(defaulters) != 1 {
			t.Fatalf("expected 1 defaulter, got %d", len(defaulters))
		}
		entry := defaulters[0]
		if entry.RollNumber != "R1" {
			t.Errorf("expected R1, got %s", entry.RollNumber)
		}
		if len(entry.LowAttendance) != 1 {
			t.Fatalf("expected exactly the below-threshold group, got %+v", entry.LowAttendance)
		}
		if entry.LowAttendance[0].Group != "2" || entry.LowAttendance[0].Percentage != 60 {
			t.Errorf("unexpected flagged group: %+v", entry.LowAttendance[0])
		}
	})

	t.Run("Threshold Is Strict", func(t *testing.T) {
		// Exactly 75% is not a defaulter.
		records := attendanceRecords("s1", "1",
			shared.StatusPresent, shared.StatusPresent, shared.StatusPresent, shared.StatusAbsent)

		defaulters := Defaulters(students, records, GroupBySemester, DefaultConfig())
		if len(defaulters) != 0 {
			t.Errorf("expected no defaulters at exactly 75%%, got %+v", defaulters)
		}
	})

	t.Run("Configurable Threshold", func(t *testing.T) {
		records := attendanceRecords("s1", "1",
			shared.StatusPresent, shared.StatusPresent, shared.StatusPresent, shared.StatusAbsent)

		defaulters := Defaulters(students, records, GroupBySemester, Config{DefaulterThreshold: 80})
		if len(defaulters) != 1 {
			t.Fatalf("expected 1 defaulter at raised threshold, got %d", len(defaulters))
		}
	})

	t.Run("No Attendance Means No Flag", func(t *testing.T) {
		defaulters := Defaulters(students, nil, GroupBySemester, DefaultConfig())
		if len(defaulters) != 0 {
			t.Errorf("expected no defaulters without attendance data, got %+v", defaulters)
		}
	})
}

func TestBuildStudentAnalytics(t *testing.T) {
	marks := []shared.Mark{{Subject: "Math", Score: 95, Semester: "1"}}
	records := attendanceRecords("s1", "1", shared.StatusPresent, shared.StatusAbsent, shared.StatusAbsent)

	result := BuildStudentAnalytics(marks, records, GroupBySemester, PolicyLetter)

	if result.GPA == nil || *result.GPA != 10 {
		t.Errorf("expected GPA 10, got %v", result.GPA)
	}
	if len(result.Grades) != 1 || result.Grades[0].Grade != "A+" {
		t.Errorf("unexpected grades: %+v", result.Grades)
	}
	if len(result.AttendanceByGroup) != 1 || result.AttendanceByGroup[0].Percentage != 33.33 {
		t.Errorf("unexpected attendance groups: %+v", result.AttendanceByGroup)
	}

	t.Run("No Marks Leaves GPA Nil", func(t *testing.T) {
		empty := BuildStudentAnalytics(nil, records, GroupBySemester, PolicyLetter)
		if empty.GPA != nil {
			t.Errorf("expected nil GPA, got %v", *empty.GPA)
		}
	})
}
