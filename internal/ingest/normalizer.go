// Package ingest converts uploaded tabular datasets into validated entity
// records and reconciles them against the record store by natural key.
package ingest

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Shayan56/StudentSync/internal/shared"
	"github.com/Shayan56/StudentSync/internal/store"
)

// Spreadsheet column names for each entity kind.
const (
	ColName       = "name"
	ColRollNumber = "rollNumber"
	ColBatch      = "batch"
	ColSemester   = "semester"
	ColSubject    = "subject"
	ColScore      = "score"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report the spreadsheet column name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("col"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// StudentRecord is a normalized student row, keyed by roll number.
type StudentRecord struct {
	Name       string `col:"name" validate:"required"`
	RollNumber string `col:"rollNumber" validate:"required"`
	Batch      string `col:"batch" validate:"required"`
	Semester   string `col:"semester" validate:"required"`
}

// MarkRecord is a normalized mark row. RollNumber is the natural reference
// from the spreadsheet; StudentID is the resolved store identity.
type MarkRecord struct {
	StudentID  string  `col:"-"`
	RollNumber string  `col:"rollNumber" validate:"required"`
	Subject    string  `col:"subject" validate:"required"`
	Score      float64 `col:"score" validate:"min=0,max=100"`
	Semester   string  `col:"semester" validate:"required"`
}

// NormalizeStudents validates student rows and returns them in input order.
// Processing stops at the first invalid row; the returned error identifies
// the 1-based data row and the offending field.
func NormalizeStudents(dataset Dataset) ([]StudentRecord, error) {
	records := make([]StudentRecord, 0, len(dataset))

	for i, row := range dataset {
		record := StudentRecord{
			Name:       row[ColName],
			RollNumber: row[ColRollNumber],
			Batch:      row[ColBatch],
			Semester:   row[ColSemester],
		}

		if err := validate.Struct(record); err != nil {
			return nil, rowValidationError(i+1, row, err)
		}

		records = append(records, record)
	}

	return records, nil
}

// NormalizeMarks validates mark rows and resolves each roll number to an
// existing student. A row whose roll number does not resolve fails with a
// ReferenceNotFoundError; an out-of-range score fails with a
// ValidationError. Nothing is written to the store.
func NormalizeMarks(ctx context.Context, dataset Dataset, students store.StudentStore) ([]MarkRecord, error) {
	records := make([]MarkRecord, 0, len(dataset))
	resolved := make(map[string]string) // roll number -> student id

	for i, row := range dataset {
		rowNum := i + 1

		score, err := parseScore(rowNum, row)
		if err != nil {
			return nil, err
		}

		record := MarkRecord{
			RollNumber: row[ColRollNumber],
			Subject:    row[ColSubject],
			Score:      score,
			Semester:   row[ColSemester],
		}

		if err := validate.Struct(record); err != nil {
			return nil, rowValidationError(rowNum, row, err)
		}

		studentID, ok := resolved[record.RollNumber]
		if !ok {
			student, err := students.GetByRollNumber(ctx, record.RollNumber)
			if errors.Is(err, shared.ErrNotFound) {
				return nil, &shared.ReferenceNotFoundError{Row: rowNum, Key: record.RollNumber}
			}
			if err != nil {
				return nil, err
			}
			studentID = student.ID
			resolved[record.RollNumber] = studentID
		}
		record.StudentID = studentID

		records = append(records, record)
	}

	return records, nil
}

func parseScore(rowNum int, row Row) (float64, error) {
	raw, ok := row[ColScore]
	if !ok {
		return 0, &shared.ValidationError{Row: rowNum, Field: ColScore, Value: "", Reason: "required"}
	}

	score, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &shared.ValidationError{Row: rowNum, Field: ColScore, Value: raw, Reason: "not a number"}
	}

	return score, nil
}

// rowValidationError converts the first validator failure into a domain
// ValidationError carrying the source row.
func rowValidationError(rowNum int, row Row, err error) error {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return &shared.ValidationError{Row: rowNum, Field: "row", Value: "", Reason: err.Error()}
	}

	fe := fieldErrors[0]
	reason := "required"
	if fe.Tag() == "min" || fe.Tag() == "max" {
		reason = "must be between 0 and 100"
	}

	return &shared.ValidationError{
		Row:    rowNum,
		Field:  fe.Field(),
		Value:  row[fe.Field()],
		Reason: reason,
	}
}
