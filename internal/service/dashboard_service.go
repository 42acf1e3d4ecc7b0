package service

import (
	"context"

	"github.com/micollege/elms/internal/domain"
)

// DashboardService computes the aggregation endpoints from the sibling
// collections. Volumes are institutional-scale, so the rollup is a single
// pass over both listings.
type DashboardService struct {
	users  domain.UserRepository
	leaves domain.LeaveRepository
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(users domain.UserRepository, leaves domain.LeaveRepository) *DashboardService {
	return &DashboardService{users: users, leaves: leaves}
}

// Stats builds the rollup. A non-empty department restricts every figure to
// that department (the department-head view).
func (s *DashboardService) Stats(ctx context.Context, department string) (*domain.DashboardStats, error) {
	users, err := s.users.List(ctx, domain.UserFilter{Department: department})
	if err != nil {
		return nil, err
	}
	leaves, err := s.leaves.List(ctx, domain.LeaveFilter{Department: department})
	if err != nil {
		return nil, err
	}

	stats := &domain.DashboardStats{
		UsersByRole: map[domain.Role]int{},
	}

	byDept := map[string]*domain.DepartmentSummary{}
	deptList := domain.Departments
	if department != "" {
		deptList = []string{department}
	}
	for _, d := range deptList {
		byDept[d] = &domain.DepartmentSummary{Department: d}
	}

	for i := range users {
		u := &users[i]
		stats.TotalUsers++
		stats.UsersByRole[u.Role]++
		if u.IsActive {
			stats.ActiveUsers++
		}
		if sum, ok := byDept[u.Department]; ok {
			sum.TotalUsers++
			if u.IsActive {
				sum.ActiveUsers++
			}
		}
	}

	for i := range leaves {
		lr := &leaves[i]
		switch lr.Status {
		case domain.LeavePending:
			stats.PendingLeaves++
			if sum, ok := byDept[lr.Department]; ok {
				sum.PendingLeaves++
			}
		case domain.LeaveApproved:
			stats.ApprovedLeaves++
		case domain.LeaveRejected:
			stats.RejectedLeaves++
		}
	}

	for _, d := range deptList {
		stats.Departments = append(stats.Departments, *byDept[d])
	}
	return stats, nil
}

// DepartmentSummary builds the rollup for a single department.
func (s *DashboardService) DepartmentSummary(ctx context.Context, department string) (*domain.DepartmentSummary, error) {
	if !domain.ValidDepartment(department) {
		return nil, domain.ErrNotFound
	}
	stats, err := s.Stats(ctx, department)
	if err != nil {
		return nil, err
	}
	return &stats.Departments[0], nil
}

// MySummary is the employee's own dashboard: current balances plus the
// status counts of their requests.
type MySummary struct {
	LeaveBalance domain.LeaveBalance `json:"leaveBalance"`
	Pending      int                 `json:"pending"`
	Approved     int                 `json:"approved"`
	Rejected     int                 `json:"rejected"`
}

// My returns the per-user dashboard summary.
func (s *DashboardService) My(ctx context.Context, userID int64) (*MySummary, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	leaves, err := s.leaves.List(ctx, domain.LeaveFilter{UserID: userID})
	if err != nil {
		return nil, err
	}

	sum := &MySummary{LeaveBalance: user.LeaveBalance}
	for _, lr := range leaves {
		switch lr.Status {
		case domain.LeavePending:
			sum.Pending++
		case domain.LeaveApproved:
			sum.Approved++
		case domain.LeaveRejected:
			sum.Rejected++
		}
	}
	return sum, nil
}
