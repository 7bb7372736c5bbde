package export

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet names of a grade workbook.
const (
	GradesSheet  = "Grades"
	SummarySheet = "Summary"
)

var gradeHeader = []interface{}{
	"Student Number", "Student Name", "Activity", "Score", "Total", "Percentage", "Point Grade", "Letter Grade",
}

// GradeRow is one graded (student, activity) pair.
type GradeRow struct {
	StudentNumber string
	StudentName   string
	Activity      string
	Score         int
	Total         int
	Percentage    float64
	Point         float64
	Letter        string
}

// SummaryItem is a label/value line of the summary sheet.
type SummaryItem struct {
	Label string
	Value interface{}
}

// WriteGrades renders rows and summary into an xlsx workbook.
func WriteGrades(w io.Writer, rows []GradeRow, summary []SummaryItem) error {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", GradesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := file.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	header, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := file.SetSheetRow(GradesSheet, "A1", &gradeHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := file.SetCellStyle(GradesSheet, "A1", "H1", header); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.StudentNumber, row.StudentName, row.Activity,
			row.Score, row.Total, row.Percentage, row.Point, row.Letter,
		}
		if err := file.SetSheetRow(GradesSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := file.SetColWidth(GradesSheet, "A", "C", 24); err != nil {
		return err
	}

	for i, item := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := []interface{}{item.Label, item.Value}
		if err := file.SetSheetRow(SummarySheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write summary line %d: %w", i+1, err)
		}
	}
	if err := file.SetColWidth(SummarySheet, "A", "A", 28); err != nil {
		return err
	}

	_, err = file.WriteTo(w)
	return err
}

// ReadGrades parses the grades sheet of a workbook written by WriteGrades.
func ReadGrades(data []byte) ([]GradeRow, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer file.Close()

	rows, err := file.GetRows(GradesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	grades := make([]GradeRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < len(gradeHeader) {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", i+2, len(gradeHeader), len(row))
		}
		parsed, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		grades = append(grades, parsed)
	}
	return grades, nil
}

func parseRow(row []string) (GradeRow, error) {
	score, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return GradeRow{}, fmt.Errorf("invalid score: %s", row[3])
	}
	total, err := strconv.Atoi(strings.TrimSpace(row[4]))
	if err != nil {
		return GradeRow{}, fmt.Errorf("invalid total: %s", row[4])
	}
	percentage, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
	if err != nil {
		return GradeRow{}, fmt.Errorf("invalid percentage: %s", row[5])
	}
	point, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
	if err != nil {
		return GradeRow{}, fmt.Errorf("invalid point grade: %s", row[6])
	}

	return GradeRow{
		StudentNumber: strings.TrimSpace(row[0]),
		StudentName:   strings.TrimSpace(row[1]),
		Activity:      strings.TrimSpace(row[2]),
		Score:         score,
		Total:         total,
		Percentage:    percentage,
		Point:         point,
		Letter:        strings.TrimSpace(row[7]),
	}, nil
}
