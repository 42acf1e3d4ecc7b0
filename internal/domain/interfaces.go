package domain

import "context"

// UserRepository defines the interface for user/employee data access.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter UserFilter) ([]User, error)
}

// LeaveRepository defines the interface for leave-request data access.
type LeaveRepository interface {
	Create(ctx context.Context, lr *LeaveRequest) error
	GetByID(ctx context.Context, id int64) (*LeaveRequest, error)
	Update(ctx context.Context, lr *LeaveRequest) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter LeaveFilter) ([]LeaveRequest, error)
}
