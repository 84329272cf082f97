// Package analytics computes derived metrics over entity lists already
// loaded from the store: attendance percentages, GPA, and defaulter
// classification. Every function is deterministic and side-effect free;
// empty input is a valid state and never produces an error.
package analytics

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/Shayan56/StudentSync/internal/shared"
)

// DefaultDefaulterThreshold is the attendance percentage below which a
// student is classified as a defaulter, unless overridden by configuration.
const DefaultDefaulterThreshold = 75.0

// Config carries aggregation thresholds. Thresholds are passed in
// explicitly; the engine holds no global state.
type Config struct {
	DefaulterThreshold float64
}

// DefaultConfig returns the stock aggregation configuration.
func DefaultConfig() Config {
	return Config{DefaulterThreshold: DefaultDefaulterThreshold}
}

// ============================================================================
// Attendance Percentage
// ============================================================================

// Grouping selects the bucket attendance records are partitioned into.
type Grouping int

const (
	// GroupBySemester buckets attendance per semester.
	GroupBySemester Grouping = iota
	// GroupBySubject buckets attendance per subject within a semester.
	// Records without a subject fall back to their semester bucket.
	GroupBySubject
)

// Tally counts presence within one group.
type Tally struct {
	Present int
	Total   int
}

// Percentage returns present/total*100 rounded to 2 decimal places.
// A zero Total yields 0 as a floor value, not a "no data" sentinel;
// callers that need to tell the cases apart check Total.
func (t Tally) Percentage() float64 {
	if t.Total == 0 {
		return 0
	}
	pct, _ := stats.Round(float64(t.Present)/float64(t.Total)*100, 2)
	return pct
}

// GroupPercentage is the attendance percentage of one group.
type GroupPercentage struct {
	Group      string  `json:"group"`
	Percentage float64 `json:"percentage"`
	Present    int     `json:"present"`
	Total      int     `json:"total"`
}

// Count tallies presence across all records regardless of group.
func Count(records []shared.AttendanceRecord) Tally {
	var t Tally
	for _, r := range records {
		t.Total++
		if r.Status == shared.StatusPresent {
			t.Present++
		}
	}
	return t
}

// GroupPercentages partitions attendance records by group and computes the
// percentage per group. Output is sorted by group name for determinism.
func GroupPercentages(records []shared.AttendanceRecord, grouping Grouping) []GroupPercentage {
	tallies := make(map[string]*Tally)
	for _, r := range records {
		key := groupKey(r, grouping)
		if tallies[key] == nil {
			tallies[key] = &Tally{}
		}
		tallies[key].Total++
		if r.Status == shared.StatusPresent {
			tallies[key].Present++
		}
	}

	groups := make([]GroupPercentage, 0, len(tallies))
	for key, t := range tallies {
		groups = append(groups, GroupPercentage{
			Group:      key,
			Percentage: t.Percentage(),
			Present:    t.Present,
			Total:      t.Total,
		})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })
	return groups
}

func groupKey(r shared.AttendanceRecord, grouping Grouping) string {
	if grouping == GroupBySubject && r.Subject != "" {
		return r.Subject + " / " + r.Semester
	}
	return r.Semester
}

// ============================================================================
// Grading Policies
// ============================================================================

// GradingPolicy selects one of the two grade schemes the system supports.
// Both are kept as distinct, independently selectable policies.
type GradingPolicy string

const (
	// PolicyLetter maps each score to a letter grade with 10-point scale
	// grade points and averages the points. Range 0-10.
	PolicyLetter GradingPolicy = "letter"
	// PolicySimple bands the average score onto a 4.0 scale. Range 2.0-4.0.
	PolicySimple GradingPolicy = "simple"
)

// ParsePolicy validates a policy name from configuration or a request.
func ParsePolicy(name string) (GradingPolicy, error) {
	switch GradingPolicy(name) {
	case PolicyLetter:
		return PolicyLetter, nil
	case PolicySimple:
		return PolicySimple, nil
	}
	return "", shared.NewValidationError("policy", name, fmt.Sprintf("must be %q or %q", PolicyLetter, PolicySimple))
}

// LetterGrade maps a score to its letter grade and grade points.
func LetterGrade(score float64) (string, float64) {
	switch {
	case score >= 90:
		return "A+", 10
	case score >= 80:
		return "A", 9
	case score >= 70:
		return "B", 8
	case score >= 60:
		return "C", 7
	default:
		return "F", 0
	}
}

// SubjectGrade is one graded subject in a student's analytics output.
type SubjectGrade struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
	Grade   string  `json:"grade"`
}

// Grades converts marks to letter-graded subjects, preserving input order.
func Grades(marks []shared.Mark) []SubjectGrade {
	grades := make([]SubjectGrade, 0, len(marks))
	for _, m := range marks {
		grade, _ := LetterGrade(m.Score)
		grades = append(grades, SubjectGrade{Subject: m.Subject, Score: m.Score, Grade: grade})
	}
	return grades
}

// GPA computes the grade point average under the given policy. The second
// return value is false when the mark list is empty: GPA is undefined then,
// not zero.
func GPA(marks []shared.Mark, policy GradingPolicy) (float64, bool) {
	if len(marks) == 0 {
		return 0, false
	}

	scores := make([]float64, 0, len(marks))
	for _, m := range marks {
		scores = append(scores, m.Score)
	}

	switch policy {
	case PolicySimple:
		avg, _ := stats.Mean(scores)
		return simpleBand(avg), true
	default:
		points := make([]float64, 0, len(marks))
		for _, score := range scores {
			_, p := LetterGrade(score)
			points = append(points, p)
		}
		mean, _ := stats.Mean(points)
		gpa, _ := stats.Round(mean, 2)
		return gpa, true
	}
}

func simpleBand(avg float64) float64 {
	switch {
	case avg >= 90:
		return 4.0
	case avg >= 80:
		return 3.5
	case avg >= 70:
		return 3.0
	case avg >= 60:
		return 2.5
	default:
		return 2.0
	}
}

// ============================================================================
// Defaulter Classification
// ============================================================================

// DefaulterEntry is a derived, never-persisted record flagging a student
// whose attendance fell below the threshold in at least one group. Only the
// below-threshold groups are listed.
type DefaulterEntry struct {
	StudentID     string            `json:"studentId"`
	Name          string            `json:"name"`
	RollNumber    string            `json:"rollNumber"`
	LowAttendance []GroupPercentage `json:"lowAttendance"`
}

// Defaulters classifies students whose attendance percentage in ANY group is
// strictly below cfg.DefaulterThreshold. Attendance records are matched to
// students by StudentID; records for unknown students are ignored.
func Defaulters(students []shared.Student, records []shared.AttendanceRecord, grouping Grouping, cfg Config) []DefaulterEntry {
	byStudent := make(map[string][]shared.AttendanceRecord)
	for _, r := range records {
		byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
	}

	defaulters := []DefaulterEntry{}
	for _, student := range students {
		groups := GroupPercentages(byStudent[student.ID], grouping)

		var low []GroupPercentage
		for _, g := range groups {
			if g.Percentage < cfg.DefaulterThreshold {
				low = append(low, g)
			}
		}

		if len(low) > 0 {
			defaulters = append(defaulters, DefaulterEntry{
				StudentID:     student.ID,
				Name:          student.Name,
				RollNumber:    student.RollNumber,
				LowAttendance: low,
			})
		}
	}

	return defaulters
}

// ============================================================================
// Student Analytics Summary
// ============================================================================

// StudentAnalytics is the aggregation output consumed by the UI and the
// report exporter. GPA is nil when the student has no marks.
type StudentAnalytics struct {
	AttendanceByGroup []GroupPercentage `json:"attendanceByGroup"`
	Grades            []SubjectGrade    `json:"grades"`
	GPA               *float64          `json:"gpa"`
	Policy            GradingPolicy     `json:"policy"`
}

// BuildStudentAnalytics assembles the full analytics view for one student.
func BuildStudentAnalytics(marks []shared.Mark, attendance []shared.AttendanceRecord, grouping Grouping, policy GradingPolicy) StudentAnalytics {
	result := StudentAnalytics{
		AttendanceByGroup: GroupPercentages(attendance, grouping),
		Grades:            Grades(marks),
		Policy:            policy,
	}

	if gpa, ok := GPA(marks, policy); ok {
		result.GPA = &gpa
	}

	return result
}
