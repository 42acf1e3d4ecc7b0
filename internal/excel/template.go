package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Employees"

// TemplateFileName is the suggested download name for the import template.
const TemplateFileName = "employee-template.xlsx"

var templateHeaders = []string{
	"Employee ID",
	"Name*",
	"Email*",
	"Role*",
	"Department*",
	"Designation*",
	"Qualification*",
	"Mobile Number*",
	"Date of Birth*",
	"Date of Joining",
}

var templateNotes = []string{
	"Optional",
	"* Required",
	"* Required",
	"* admin, hod, or employee",
	"* Required",
	"* Required",
	"* Required",
	"* 10 digits",
	"* DD-MM-YYYY format",
	"DD-MM-YYYY format (optional)",
}

var templateSample = []string{
	"MIC20250001",
	"John Doe",
	"john.doe@mic.edu",
	"employee",
	"Computer Science & Engineering (CSE)",
	"Assistant Professor",
	"M.Tech",
	"9876543210",
	"15-01-1990",
	"01-06-2022",
}

var templateWidths = []float64{20, 25, 30, 15, 25, 20, 20, 15, 20, 20}

// BuildTemplate generates the import template workbook: labeled header row,
// required/optional marker row, and one sample row.
func BuildTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(templateSheet)
	if err != nil {
		return nil, fmt.Errorf("create template sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for i, rowValues := range [][]string{templateHeaders, templateNotes, templateSample} {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(templateSheet, cell, &rowValues); err != nil {
			return nil, fmt.Errorf("write template row %d: %w", i+1, err)
		}
	}

	for i, width := range templateWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(templateSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(columnCount)
	if err := f.SetCellStyle(templateSheet, "A1", lastCol+"1", boldStyle); err != nil {
		return nil, fmt.Errorf("style header row: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize template: %w", err)
	}
	return buf.Bytes(), nil
}
