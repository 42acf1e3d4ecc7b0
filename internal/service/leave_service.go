package service

import (
	"context"
	"time"

	"github.com/micollege/elms/internal/domain"
)

// LeaveService implements leave-request workflows.
type LeaveService struct {
	leaves domain.LeaveRepository
	users  domain.UserRepository
}

// NewLeaveService creates a LeaveService.
func NewLeaveService(leaves domain.LeaveRepository, users domain.UserRepository) *LeaveService {
	return &LeaveService{leaves: leaves, users: users}
}

// ApplyInput is the request shape for a new leave application.
type ApplyInput struct {
	LeaveType string `json:"leaveType"`
	FromDate  string `json:"fromDate"`
	ToDate    string `json:"toDate"`
	Reason    string `json:"reason"`
}

// Apply files a new leave request for the given user.
func (s *LeaveService) Apply(ctx context.Context, userID int64, in ApplyInput) (*domain.LeaveRequest, error) {
	leaveType, ok := domain.ParseLeaveType(in.LeaveType)
	if !ok {
		return nil, domain.NewValidationError(domain.FieldError{Field: "leaveType", Message: "Invalid leave type"})
	}
	from, err := ParseISODate(in.FromDate)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldError{Field: "fromDate", Message: "Please provide a valid from date"})
	}
	to, err := ParseISODate(in.ToDate)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldError{Field: "toDate", Message: "Please provide a valid to date"})
	}
	if to.Before(from) {
		return nil, domain.NewValidationError(domain.FieldError{Field: "toDate", Message: "To date must not be before from date"})
	}

	days := int(to.Sub(from).Hours()/24) + 1

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.LeaveBalance.Get(leaveType) < days {
		return nil, domain.Validationf("Insufficient %s balance", leaveType)
	}

	lr := &domain.LeaveRequest{
		UserID:     userID,
		Department: user.Department,
		LeaveType:  leaveType,
		FromDate:   from,
		ToDate:     to,
		Days:       days,
		Reason:     in.Reason,
		Status:     domain.LeavePending,
	}
	if err := s.leaves.Create(ctx, lr); err != nil {
		return nil, err
	}
	return lr, nil
}

// ListMine returns the requesting user's own leave requests.
func (s *LeaveService) ListMine(ctx context.Context, userID int64) ([]domain.LeaveRequest, error) {
	return s.leaves.List(ctx, domain.LeaveFilter{UserID: userID})
}

// List returns leave requests matching the filter.
func (s *LeaveService) List(ctx context.Context, filter domain.LeaveFilter) ([]domain.LeaveRequest, error) {
	return s.leaves.List(ctx, filter)
}

// Get returns one leave request.
func (s *LeaveService) Get(ctx context.Context, id int64) (*domain.LeaveRequest, error) {
	return s.leaves.GetByID(ctx, id)
}

// Decide approves or rejects a pending request. Approval deducts the
// request's days from the applicant's matching balance counter.
func (s *LeaveService) Decide(ctx context.Context, id, deciderID int64, approve bool, remark string) (*domain.LeaveRequest, error) {
	lr, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lr.Status != domain.LeavePending {
		return nil, domain.Validationf("Leave request has already been %s", lr.Status)
	}

	if approve {
		user, err := s.users.GetByID(ctx, lr.UserID)
		if err != nil {
			return nil, err
		}
		if user.LeaveBalance.Get(lr.LeaveType) < lr.Days {
			return nil, domain.Validationf("Applicant has insufficient %s balance", lr.LeaveType)
		}
		user.LeaveBalance.Deduct(lr.LeaveType, lr.Days)
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		lr.Status = domain.LeaveApproved
	} else {
		lr.Status = domain.LeaveRejected
	}

	lr.DecidedBy = deciderID
	lr.DecidedAt = time.Now().UTC()
	lr.Remark = remark
	if err := s.leaves.Update(ctx, lr); err != nil {
		return nil, err
	}
	return lr, nil
}

// Withdraw deletes the owner's own request while still pending.
func (s *LeaveService) Withdraw(ctx context.Context, id, userID int64) error {
	lr, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if lr.UserID != userID {
		return domain.ErrForbidden
	}
	if lr.Status != domain.LeavePending {
		return domain.Validationf("Only pending leave requests can be withdrawn")
	}
	return s.leaves.Delete(ctx, id)
}
