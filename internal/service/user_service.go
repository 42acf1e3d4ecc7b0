package service

import (
	"context"
	"strings"

	"github.com/micollege/elms/internal/database"
	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/logger"
)

// UserService implements user/employee record management.
type UserService struct {
	users  domain.UserRepository
	search *database.ElasticSearchClient
}

// NewUserService creates a UserService. search may be nil (indexing disabled).
func NewUserService(users domain.UserRepository, search *database.ElasticSearchClient) *UserService {
	return &UserService{users: users, search: search}
}

// Get returns one user record.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns user records matching the filter.
func (s *UserService) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	return s.users.List(ctx, filter)
}

// UpdateInput is the mutable subset of a user record for profile updates.
type UpdateInput struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Role          string `json:"role"`
	Department    string `json:"department"`
	Designation   string `json:"designation"`
	Qualification string `json:"qualification"`
	MobileNo      string `json:"mobileNo"`
	IsActive      *bool  `json:"isActive"`
}

// Update applies a profile update to an existing record.
func (s *UserService) Update(ctx context.Context, id int64, in UpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var fields []domain.FieldError
	if in.Name != "" {
		if n := len(strings.TrimSpace(in.Name)); n < 2 || n > 50 {
			fields = append(fields, domain.FieldError{Field: "name", Message: "Name must be between 2 and 50 characters"})
		} else {
			user.Name = strings.TrimSpace(in.Name)
		}
	}
	if in.Email != "" {
		if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
			fields = append(fields, domain.FieldError{Field: "email", Message: "Please provide a valid email"})
		} else {
			user.Email = strings.ToLower(strings.TrimSpace(in.Email))
		}
	}
	if in.Role != "" {
		role, ok := domain.ParseRole(in.Role)
		if !ok {
			fields = append(fields, domain.FieldError{Field: "role", Message: "Invalid role"})
		} else {
			user.Role = role
		}
	}
	if in.Department != "" {
		if !domain.ValidDepartment(in.Department) {
			fields = append(fields, domain.FieldError{Field: "department", Message: "Invalid department"})
		} else {
			user.Department = in.Department
		}
	}
	if in.Designation != "" {
		user.Designation = strings.TrimSpace(in.Designation)
	}
	if in.Qualification != "" {
		user.Qualification = strings.TrimSpace(in.Qualification)
	}
	if in.MobileNo != "" {
		mobile := NormalizeMobile(in.MobileNo)
		if !mobilePattern.MatchString(mobile) {
			fields = append(fields, domain.FieldError{Field: "mobileNo", Message: "Please provide a valid 10-digit mobile number"})
		} else {
			user.MobileNo = mobile
		}
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.reindex(ctx, user)
	return user, nil
}

// Delete removes a user record and its index entry.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.search.RemoveUser(ctx, id); err != nil {
		logger.WarnLog(ctx, "failed to remove user %d from search index: %v", id, err)
	}
	return nil
}

// Search queries the directory index, optionally scoped to one department.
func (s *UserService) Search(ctx context.Context, q, department string) ([]database.UserDoc, error) {
	if !s.search.Enabled() {
		return nil, domain.Validationf("Directory search is not configured")
	}
	return s.search.SearchUsers(ctx, q, department)
}

// Index adds or refreshes a user's directory index entry.
func (s *UserService) Index(ctx context.Context, u *domain.User) {
	s.reindex(ctx, u)
}

func (s *UserService) reindex(ctx context.Context, u *domain.User) {
	if err := s.search.IndexUser(ctx, database.NewUserDoc(u)); err != nil {
		logger.WarnLog(ctx, "failed to index user %d: %v", u.ID, err)
	}
}
