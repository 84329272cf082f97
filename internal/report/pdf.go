// Package report renders aggregation results into a printable PDF student
// report. It consumes the analytics output as-is and never re-derives
// percentages or grades.
package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/Shayan56/StudentSync/internal/analytics"
	"github.com/Shayan56/StudentSync/internal/shared"
)

// Filename returns the download filename for a student's report.
func Filename(student *shared.Student) string {
	return fmt.Sprintf("%s_report.pdf", student.RollNumber)
}

// Render builds the fixed-layout report: title, identity block, a
// subject/score/grade table, per-group attendance, and a GPA summary line.
func Render(student *shared.Student, result analytics.StudentAnalytics) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Title
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, "Student Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Identity block
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Name: %s", student.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Roll Number: %s", student.RollNumber), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Batch: %s", student.Batch), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Semester: %s", student.Semester), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Marks table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Marks", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Subject", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Score", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, "Grade", "1", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	if len(result.Grades) == 0 {
		pdf.CellFormat(160, 8, "No marks recorded", "1", 1, "C", false, 0, "")
	}
	for _, g := range result.Grades {
		pdf.CellFormat(80, 8, g.Subject, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", g.Score), "1", 0, "R", false, 0, "")
		pdf.CellFormat(40, 8, g.Grade, "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	// Attendance summary
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Attendance", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	if len(result.AttendanceByGroup) == 0 {
		pdf.CellFormat(0, 7, "No attendance recorded", "", 1, "L", false, 0, "")
	}
	for _, group := range result.AttendanceByGroup {
		pdf.CellFormat(0, 7, fmt.Sprintf("Semester %s: %.2f%%", group.Group, group.Percentage), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Summary line
	pdf.SetFont("Arial", "B", 12)
	if result.GPA != nil {
		pdf.CellFormat(0, 8, fmt.Sprintf("GPA: %.2f", *result.GPA), "", 1, "L", false, 0, "")
	} else {
		pdf.CellFormat(0, 8, "GPA: no data", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	return buf.Bytes(), nil
}
