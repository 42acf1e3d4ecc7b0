package domain

import (
	"strings"
	"time"
)

// Role is the fixed set of access roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHOD      Role = "hod"
	RoleEmployee Role = "employee"
)

// ParseRole maps a free-form cell or request value to a Role, case-insensitively.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleHOD:
		return RoleHOD, true
	case RoleEmployee:
		return RoleEmployee, true
	}
	return "", false
}

// Departments is the closed set of institutional departments.
var Departments = []string{
	"Bachelor of Education (BED)",
	"Civil Engineering (CIVIL)",
	"Computer Science & Engineering (CSE)",
	"Artificial Intelligence Data Science & Machine Learning (AIDS & ML)",
	"Information Technology & Master of Computer Applications (IT & MCA)",
	"Electronics & Communication Engineering (ECE)",
	"Electrical & Electronics Engineering (EEE)",
	"Mechanical Engineering (MECH)",
}

// ValidDepartment reports whether dept is one of the closed set.
func ValidDepartment(dept string) bool {
	for _, d := range Departments {
		if d == dept {
			return true
		}
	}
	return false
}

// LeaveType identifies one of the named leave-balance counters.
type LeaveType string

const (
	LeaveCasual        LeaveType = "cl"  // casual leave
	LeaveSpecialCasual LeaveType = "scl" // special casual leave
	LeaveEarned        LeaveType = "el"  // earned leave
	LeaveHalfPay       LeaveType = "hpl" // half pay leave
	LeaveChildCare     LeaveType = "ccl" // child care leave
)

// ParseLeaveType maps a request value to a LeaveType.
func ParseLeaveType(s string) (LeaveType, bool) {
	switch LeaveType(strings.ToLower(strings.TrimSpace(s))) {
	case LeaveCasual:
		return LeaveCasual, true
	case LeaveSpecialCasual:
		return LeaveSpecialCasual, true
	case LeaveEarned:
		return LeaveEarned, true
	case LeaveHalfPay:
		return LeaveHalfPay, true
	case LeaveChildCare:
		return LeaveChildCare, true
	}
	return "", false
}

// LeaveBalance holds the per-type leave counters of one user.
type LeaveBalance struct {
	CL  int `datastore:"CL" json:"cl"`
	SCL int `datastore:"SCL" json:"scl"`
	EL  int `datastore:"EL" json:"el"`
	HPL int `datastore:"HPL" json:"hpl"`
	CCL int `datastore:"CCL" json:"ccl"`
}

// DefaultLeaveBalance returns the yearly allocation granted to a new user.
func DefaultLeaveBalance() LeaveBalance {
	return LeaveBalance{CL: 12, SCL: 8, EL: 15, HPL: 10, CCL: 7}
}

// Get returns the counter for one leave type.
func (b LeaveBalance) Get(t LeaveType) int {
	switch t {
	case LeaveCasual:
		return b.CL
	case LeaveSpecialCasual:
		return b.SCL
	case LeaveEarned:
		return b.EL
	case LeaveHalfPay:
		return b.HPL
	case LeaveChildCare:
		return b.CCL
	}
	return 0
}

// Deduct subtracts days from the counter for one leave type.
func (b *LeaveBalance) Deduct(t LeaveType, days int) {
	switch t {
	case LeaveCasual:
		b.CL -= days
	case LeaveSpecialCasual:
		b.SCL -= days
	case LeaveEarned:
		b.EL -= days
	case LeaveHalfPay:
		b.HPL -= days
	case LeaveChildCare:
		b.CCL -= days
	}
}

// User represents the user/employee document in the record store.
// ID mirrors the datastore key and is never stored as a property.
type User struct {
	ID            int64        `datastore:"-" json:"id"`
	EmployeeID    string       `datastore:"EmployeeID" json:"employeeId,omitempty"`
	Name          string       `datastore:"Name" json:"name"`
	Email         string       `datastore:"Email" json:"email"`
	PasswordHash  string       `datastore:"PasswordHash,noindex" json:"-"`
	Role          Role         `datastore:"Role" json:"role"`
	Department    string       `datastore:"Department" json:"department"`
	Designation   string       `datastore:"Designation,noindex" json:"designation"`
	Qualification string       `datastore:"Qualification,noindex" json:"qualification"`
	MobileNo      string       `datastore:"MobileNo,noindex" json:"mobileNo"`
	DateOfBirth   time.Time    `datastore:"DateOfBirth,noindex" json:"dateOfBirth"`
	DateOfJoining time.Time    `datastore:"DateOfJoining" json:"dateOfJoining"`
	IsActive      bool         `datastore:"IsActive" json:"isActive"`
	LastLogin     time.Time    `datastore:"LastLogin,noindex" json:"lastLogin,omitempty"`
	LeaveBalance  LeaveBalance `datastore:"LeaveBalance,flatten" json:"leaveBalance"`
	CreatedAt     time.Time    `datastore:"CreatedAt" json:"createdAt"`
	UpdatedAt     time.Time    `datastore:"UpdatedAt,noindex" json:"updatedAt"`
}

// UserFilter defines criteria for listing users.
type UserFilter struct {
	Department string
	Role       Role
	Limit      int
	Offset     int
}

// LeaveStatus is the lifecycle state of a leave request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
)

// LeaveRequest represents one leave application document. Department is
// denormalized from the applicant so department heads can list without a join.
type LeaveRequest struct {
	ID         int64       `datastore:"-" json:"id"`
	UserID     int64       `datastore:"UserID" json:"userId"`
	Department string      `datastore:"Department" json:"department"`
	LeaveType  LeaveType   `datastore:"LeaveType" json:"leaveType"`
	FromDate   time.Time   `datastore:"FromDate" json:"fromDate"`
	ToDate     time.Time   `datastore:"ToDate" json:"toDate"`
	Days       int         `datastore:"Days,noindex" json:"days"`
	Reason     string      `datastore:"Reason,noindex" json:"reason"`
	Status     LeaveStatus `datastore:"Status" json:"status"`
	DecidedBy  int64       `datastore:"DecidedBy,noindex" json:"decidedBy,omitempty"`
	DecidedAt  time.Time   `datastore:"DecidedAt,noindex" json:"decidedAt,omitempty"`
	Remark     string      `datastore:"Remark,noindex" json:"remark,omitempty"`
	CreatedAt  time.Time   `datastore:"CreatedAt" json:"createdAt"`
}

// LeaveFilter defines criteria for listing leave requests.
type LeaveFilter struct {
	UserID     int64
	Department string
	Status     LeaveStatus
	Limit      int
}

// DepartmentSummary aggregates headcount and leave load for one department.
type DepartmentSummary struct {
	Department    string `json:"department"`
	TotalUsers    int    `json:"totalUsers"`
	ActiveUsers   int    `json:"activeUsers"`
	PendingLeaves int    `json:"pendingLeaves"`
}

// DashboardStats is the admin/hod rollup served by the dashboard endpoints.
type DashboardStats struct {
	TotalUsers     int                 `json:"totalUsers"`
	ActiveUsers    int                 `json:"activeUsers"`
	UsersByRole    map[Role]int        `json:"usersByRole"`
	Departments    []DepartmentSummary `json:"departments"`
	PendingLeaves  int                 `json:"pendingLeaves"`
	ApprovedLeaves int                 `json:"approvedLeaves"`
	RejectedLeaves int                 `json:"rejectedLeaves"`
}
