package excel

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/repository/repositorytest"
)

// buildWorkbook produces workbook bytes with the template layout: header row,
// note row, then the given data rows.
func buildWorkbook(t *testing.T, dataRows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &templateHeaders))
	note := []interface{}{"note row, ignored by the importer"}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &note))
	for i, row := range dataRows {
		cell := fmt.Sprintf("A%d", dataStartRow+i)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func validRow(employeeID, name, email string) []interface{} {
	return []interface{}{
		employeeID, name, email, "employee",
		"Computer Science & Engineering (CSE)",
		"Assistant Professor", "M.Tech", "9876543210",
		"15-01-1990", "01-08-2020",
	}
}

func TestImportCreatesValidRows(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	im := NewImporter(users, nil, 4)

	data := buildWorkbook(t, [][]interface{}{
		validRow("MIC20250001", "John Doe", "john.doe@mic.edu"),
		validRow("MIC20250002", "Jane Roe", "jane.roe@mic.edu"),
	})

	result, err := im.Import(context.Background(), data)
	require.NoError(t, err)

	assert.False(t, result.HasErrors())
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, "Successfully imported 2 employees", result.Message)
	assert.NotEmpty(t, result.ProcessingTime)
	assert.Equal(t, 2, users.Count())

	u, err := users.GetByEmail(context.Background(), "john.doe@mic.edu")
	require.NoError(t, err)
	assert.Equal(t, "MIC20250001", u.EmployeeID)
	assert.Equal(t, domain.RoleEmployee, u.Role)
	assert.Equal(t, "9876543210", u.MobileNo)
	assert.Equal(t, time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC), u.DateOfBirth)
	assert.True(t, u.IsActive)
	assert.Equal(t, domain.DefaultLeaveBalance(), u.LeaveBalance)
}

func TestImportDefaultPasswordFromEmail(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	im := NewImporter(users, nil, 1)

	data := buildWorkbook(t, [][]interface{}{
		validRow("MIC20250001", "John Doe", "john.doe@mic.edu"),
	})

	_, err := im.Import(context.Background(), data)
	require.NoError(t, err)

	row := parseRow(dataStartRow, []string{
		"MIC20250001", "John Doe", "john.doe@mic.edu", "employee",
		"Computer Science & Engineering (CSE)", "Assistant Professor",
		"M.Tech", "9876543210", "15-01-1990", "",
	})
	assert.Empty(t, row.Errors)
	assert.Equal(t, "john.doe123", row.DefaultPassword)
}

func TestImportCollectsRowErrors(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	im := NewImporter(users, nil, 4)

	data := buildWorkbook(t, [][]interface{}{
		validRow("MIC20250001", "John Doe", "john.doe@mic.edu"),
		{"MIC20250002", "", "jane.roe@mic.edu", "manager",
			"Computer Science & Engineering (CSE)", "Professor", "PhD",
			"12345", "31-02-1990", ""},
	})

	result, err := im.Import(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, 1, result.Successful)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 4, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Errors, "Name is required")
	assert.Contains(t, result.Errors[0].Errors, "Role must be 'admin', 'hod', or 'employee'")
	assert.Contains(t, result.Errors[0].Errors, "Mobile number must be 10 digits")
	assert.Contains(t, result.Errors[0].Errors, "Date of Birth format is invalid")
	assert.Equal(t, "Processed 2 rows with 1 errors", result.Message)

	// The valid row is still applied.
	assert.Equal(t, 1, users.Count())
}

func TestImportDuplicateEmailExactlyOneWinner(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	im := NewImporter(users, nil, 8)

	rows := make([][]interface{}, 6)
	for i := range rows {
		rows[i] = validRow(fmt.Sprintf("MIC2025%04d", i+1), "John Doe", "john.doe@mic.edu")
	}
	data := buildWorkbook(t, rows)

	result, err := im.Import(context.Background(), data)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Successful)
	assert.Len(t, result.Errors, 5)
	for _, re := range result.Errors {
		assert.Contains(t, re.Errors, domain.ErrEmailExists.Error())
	}
	assert.Equal(t, 1, users.Count())
}

func TestImportSkipsEmptyRows(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	im := NewImporter(users, nil, 2)

	data := buildWorkbook(t, [][]interface{}{
		validRow("MIC20250001", "John Doe", "john.doe@mic.edu"),
		{"", "", "", "", "", "", "", "", "", ""},
		validRow("MIC20250002", "Jane Roe", "jane.roe@mic.edu"),
	})

	result, err := im.Import(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, 2, result.Successful)
}

func TestImportRejectsGarbageBytes(t *testing.T) {
	im := NewImporter(repositorytest.NewFakeUserRepo(), nil, 2)

	_, err := im.Import(context.Background(), []byte("not a workbook"))
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Could not parse Excel file data", ve.Message)
}

func TestImportMobileNormalization(t *testing.T) {
	row := validRow("MIC20250001", "John Doe", "john.doe@mic.edu")
	row[colMobileNo] = "987-654-3210"

	users := repositorytest.NewFakeUserRepo()
	im := NewImporter(users, nil, 1)

	result, err := im.Import(context.Background(), buildWorkbook(t, [][]interface{}{row}))
	require.NoError(t, err)
	require.Equal(t, 1, result.Successful)

	u, err := users.GetByEmail(context.Background(), "john.doe@mic.edu")
	require.NoError(t, err)
	assert.Equal(t, "9876543210", u.MobileNo)
}

func TestParseCellDate(t *testing.T) {
	tests := []struct {
		value   string
		want    time.Time
		wantErr bool
	}{
		{value: "15-01-1990", want: time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)},
		{value: "05.06.24", want: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)},
		{value: "05.06.2024", want: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)},
		{value: " 15-01-1990 ", want: time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC)},
		// Excel serial for 1970-01-01.
		{value: "25569", want: time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)},
		{value: "31-02-2020", wantErr: true},
		{value: "15-01-199", wantErr: true},
		{value: "15/01/1990", wantErr: true},
		{value: "someday", wantErr: true},
		{value: "15-01", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := parseCellDate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
