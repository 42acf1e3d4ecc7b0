package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/micollege/elms/internal/auth"
	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/logger"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// AuthService implements login, registration, and password management.
type AuthService struct {
	users  domain.UserRepository
	tokens *auth.TokenIssuer
}

// NewAuthService creates an AuthService.
func NewAuthService(users domain.UserRepository, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Authenticate verifies an email/password pair. On success it refreshes the
// user's last-login timestamp and returns the user with a fresh token.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !user.IsActive {
		return nil, "", domain.ErrAccountDeactivated
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", domain.ErrInvalidCredentials
	}

	user.LastLogin = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		// Login still succeeds when the timestamp refresh loses a race.
		logger.WarnLog(ctx, "failed to update last login for %s: %v", user.Email, err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// RegisterInput is the request shape for admin-driven registration.
type RegisterInput struct {
	EmployeeID    string `json:"employeeId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	Department    string `json:"department"`
	Designation   string `json:"designation"`
	Qualification string `json:"qualification"`
	MobileNo      string `json:"mobileNo"`
	DateOfBirth   string `json:"dateOfBirth"`
	DateOfJoining string `json:"dateOfJoining"`
}

// Validate applies the declarative per-field rules.
func (in *RegisterInput) Validate() error {
	var fields []domain.FieldError
	add := func(field, msg string) {
		fields = append(fields, domain.FieldError{Field: field, Message: msg})
	}

	if in.EmployeeID != "" && len(strings.TrimSpace(in.EmployeeID)) < 5 {
		add("employeeId", "If provided, employee ID must be at least 5 characters")
	}
	if n := len(strings.TrimSpace(in.Name)); n < 2 || n > 50 {
		add("name", "Name must be between 2 and 50 characters")
	}
	if !emailPattern.MatchString(strings.TrimSpace(in.Email)) {
		add("email", "Please provide a valid email")
	}
	if len(in.Password) < 6 {
		add("password", "Password must be at least 6 characters")
	}
	if _, ok := domain.ParseRole(in.Role); !ok {
		add("role", "Invalid role")
	}
	if !domain.ValidDepartment(in.Department) {
		add("department", "Invalid department")
	}
	if n := len(strings.TrimSpace(in.Designation)); n < 2 || n > 100 {
		add("designation", "Designation must be between 2 and 100 characters")
	}
	if n := len(strings.TrimSpace(in.Qualification)); n < 2 || n > 200 {
		add("qualification", "Qualification must be between 2 and 200 characters")
	}
	if !mobilePattern.MatchString(NormalizeMobile(in.MobileNo)) {
		add("mobileNo", "Please provide a valid 10-digit mobile number")
	}
	if _, err := ParseISODate(in.DateOfBirth); err != nil {
		add("dateOfBirth", "Please provide a valid date of birth")
	}
	if in.DateOfJoining != "" {
		if _, err := ParseISODate(in.DateOfJoining); err != nil {
			add("dateOfJoining", "Please provide a valid date of joining")
		}
	}

	if len(fields) > 0 {
		return domain.NewValidationError(fields...)
	}
	return nil
}

// Register creates a user record on behalf of an administrator.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	if err := in.Validate(); err != nil {
		return nil, "", err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, "", err
	}

	role, _ := domain.ParseRole(in.Role)
	dob, _ := ParseISODate(in.DateOfBirth)

	user := &domain.User{
		EmployeeID:    strings.TrimSpace(in.EmployeeID),
		Name:          strings.TrimSpace(in.Name),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:  hash,
		Role:          role,
		Department:    in.Department,
		Designation:   strings.TrimSpace(in.Designation),
		Qualification: strings.TrimSpace(in.Qualification),
		MobileNo:      NormalizeMobile(in.MobileNo),
		DateOfBirth:   dob,
		IsActive:      true,
		LeaveBalance:  domain.DefaultLeaveBalance(),
	}
	if in.DateOfJoining != "" {
		user.DateOfJoining, _ = ParseISODate(in.DateOfJoining)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if len(next) < 6 {
		return domain.NewValidationError(domain.FieldError{
			Field: "newPassword", Message: "New password must be at least 6 characters",
		})
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.PasswordHash, current) {
		return domain.Validationf("Current password is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// NormalizeMobile strips every non-digit rune from a phone value.
func NormalizeMobile(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseISODate accepts YYYY-MM-DD or a full RFC3339 timestamp.
func ParseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
