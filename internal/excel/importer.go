package excel

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/sync/errgroup"

	"github.com/micollege/elms/internal/auth"
	"github.com/micollege/elms/internal/database"
	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/logger"
	"github.com/micollege/elms/internal/service"
)

// Column layout of the import template. Row 1 is the header, row 2 an
// instructional note; data starts at row 3.
const (
	colEmployeeID = iota
	colName
	colEmail
	colRole
	colDepartment
	colDesignation
	colQualification
	colMobileNo
	colDateOfBirth
	colDateOfJoining
	columnCount
)

const dataStartRow = 3

// defaultPasswordSuffix is appended to the email local part to derive the
// initial password of imported accounts.
const defaultPasswordSuffix = "123"

// ImportRow is the ephemeral parsed representation of one spreadsheet row.
type ImportRow struct {
	Row             int
	EmployeeID      string
	Name            string
	Email           string
	Role            domain.Role
	Department      string
	Designation     string
	Qualification   string
	MobileNo        string
	DateOfBirth     time.Time
	DateOfJoining   time.Time
	DefaultPassword string
	Errors          []string
}

// RowError attributes a list of error messages to one spreadsheet row.
type RowError struct {
	Row    int      `json:"row"`
	Errors []string `json:"errors"`
}

// Result is the outcome of one import batch.
type Result struct {
	Message        string     `json:"message"`
	Errors         []RowError `json:"errors,omitempty"`
	RowCount       int        `json:"rowCount"`
	Successful     int        `json:"successful"`
	ProcessingTime string     `json:"processingTime,omitempty"`
}

// HasErrors reports whether any row failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// Importer runs the spreadsheet bulk-import pipeline.
type Importer struct {
	users       domain.UserRepository
	search      *database.ElasticSearchClient
	concurrency int
}

// NewImporter creates an Importer. search may be nil; concurrency bounds the
// number of in-flight record creations per batch.
func NewImporter(users domain.UserRepository, search *database.ElasticSearchClient, concurrency int) *Importer {
	if concurrency <= 0 {
		concurrency = 8
	}
	return &Importer{users: users, search: search, concurrency: concurrency}
}

// Import parses the workbook, validates and normalizes each data row, and
// creates records for the valid ones concurrently. Row failures never abort
// the batch; independently-successful rows are still applied.
func (im *Importer) Import(ctx context.Context, data []byte) (*Result, error) {
	start := time.Now()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, domain.Validationf("Could not parse Excel file data")
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, domain.Validationf("Invalid Excel file: no worksheet found")
	}

	// Raw values keep date cells as serial numbers and rich-text cells as
	// plain strings, so one normalization path covers both.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, domain.Validationf("Invalid Excel file: no worksheet found")
	}

	result := &Result{}
	var valid []*ImportRow
	for i, cells := range rows {
		rowNumber := i + 1
		if rowNumber < dataStartRow {
			continue
		}
		if rowEmpty(cells) {
			continue
		}
		result.RowCount++

		row := parseRow(rowNumber, cells)
		if len(row.Errors) > 0 {
			result.Errors = append(result.Errors, RowError{Row: row.Row, Errors: row.Errors})
			continue
		}
		valid = append(valid, row)
	}

	created := im.createAll(ctx, valid, result)

	if im.search.Enabled() && len(created) > 0 {
		docs := make([]database.UserDoc, 0, len(created))
		for _, u := range created {
			docs = append(docs, database.NewUserDoc(u))
		}
		if err := im.search.BulkIndexUsers(ctx, docs); err != nil {
			logger.WarnLog(ctx, "failed to index imported users: %v", err)
		}
	}

	if result.HasErrors() {
		result.Message = fmt.Sprintf("Processed %d rows with %d errors", result.RowCount, len(result.Errors))
	} else {
		result.Message = fmt.Sprintf("Successfully imported %d employees", result.Successful)
		result.ProcessingTime = fmt.Sprintf("%.2f seconds", time.Since(start).Seconds())
	}
	return result, nil
}

// createAll dispatches record creation for every valid row through a bounded
// group and joins before returning. Dispatched rows run to completion even if
// the request context is cancelled; the store's uniqueness constraint is the
// sole arbiter between rows racing on one email.
func (im *Importer) createAll(ctx context.Context, rows []*ImportRow, result *Result) []*domain.User {
	detached := context.WithoutCancel(ctx)

	var (
		mu      sync.Mutex
		created []*domain.User
	)

	var g errgroup.Group
	g.SetLimit(im.concurrency)
	for _, row := range rows {
		row := row
		g.Go(func() error {
			user, err := im.createOne(detached, row)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, RowError{Row: row.Row, Errors: []string{importErrorMessage(err)}})
				return nil
			}
			result.Successful++
			created = append(created, user)
			return nil
		})
	}
	_ = g.Wait()
	return created
}

func (im *Importer) createOne(ctx context.Context, row *ImportRow) (*domain.User, error) {
	hash, err := auth.HashPassword(row.DefaultPassword)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		EmployeeID:    row.EmployeeID,
		Name:          row.Name,
		Email:         row.Email,
		PasswordHash:  hash,
		Role:          row.Role,
		Department:    row.Department,
		Designation:   row.Designation,
		Qualification: row.Qualification,
		MobileNo:      row.MobileNo,
		DateOfBirth:   row.DateOfBirth,
		DateOfJoining: row.DateOfJoining,
		IsActive:      true,
		LeaveBalance:  domain.DefaultLeaveBalance(),
	}
	if err := im.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func importErrorMessage(err error) string {
	if domain.IsConflict(err) {
		return err.Error()
	}
	return "Error creating user"
}

// parseRow extracts, validates, and normalizes the ten positional fields.
func parseRow(rowNumber int, cells []string) *ImportRow {
	row := &ImportRow{
		Row:           rowNumber,
		EmployeeID:    cellValue(cells, colEmployeeID),
		Name:          cellValue(cells, colName),
		Email:         strings.ToLower(cellValue(cells, colEmail)),
		Department:    cellValue(cells, colDepartment),
		Designation:   cellValue(cells, colDesignation),
		Qualification: cellValue(cells, colQualification),
	}

	addErr := func(msg string) { row.Errors = append(row.Errors, msg) }

	if row.Name == "" {
		addErr("Name is required")
	}
	if row.Email == "" {
		addErr("Email is required")
	} else {
		row.DefaultPassword = emailLocalPart(row.Email) + defaultPasswordSuffix
	}
	if row.Department == "" {
		addErr("Department is required")
	}
	if row.Designation == "" {
		addErr("Designation is required")
	}
	if row.Qualification == "" {
		addErr("Qualification is required")
	}

	roleValue := cellValue(cells, colRole)
	if roleValue == "" {
		addErr("Role is required")
	} else if role, ok := domain.ParseRole(roleValue); ok {
		row.Role = role
	} else {
		addErr("Role must be 'admin', 'hod', or 'employee'")
	}

	mobileValue := cellValue(cells, colMobileNo)
	if mobileValue == "" {
		addErr("Mobile number is required")
	} else {
		mobile := service.NormalizeMobile(mobileValue)
		if len(mobile) != 10 {
			addErr("Mobile number must be 10 digits")
		} else {
			row.MobileNo = mobile
		}
	}

	dobValue := cellValue(cells, colDateOfBirth)
	if dobValue == "" {
		addErr("Date of birth is required")
	} else if dob, err := parseCellDate(dobValue); err != nil {
		addErr("Date of Birth format is invalid")
	} else {
		row.DateOfBirth = dob
	}

	if dojValue := cellValue(cells, colDateOfJoining); dojValue != "" {
		if doj, err := parseCellDate(dojValue); err != nil {
			addErr("Date of Joining format is invalid")
		} else {
			row.DateOfJoining = doj
		}
	}

	return row
}

// parseCellDate normalizes the heterogeneous date formats found in
// spreadsheets: DD-MM-YYYY, DD.MM.YY (mapped to 2000+YY), DD.MM.YYYY, and
// the raw serial numbers Excel stores for native date cells.
func parseCellDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid serial date %q", value)
		}
		return t.UTC().Truncate(24 * time.Hour), nil
	}

	var sep string
	switch {
	case strings.Contains(value, "-"):
		sep = "-"
	case strings.Contains(value, "."):
		sep = "."
	default:
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}

	parts := strings.Split(value, sep)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}
	if len(parts[2]) == 2 {
		year += 2000
	} else if len(parts[2]) != 4 {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components; a mismatch means the
	// original values were not a real calendar date.
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, fmt.Errorf("invalid calendar date %q", value)
	}
	return t, nil
}

func cellValue(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func rowEmpty(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at >= 0 {
		return email[:at]
	}
	return email
}
