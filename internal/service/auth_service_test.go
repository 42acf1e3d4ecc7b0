package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micollege/elms/internal/auth"
	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/repository/repositorytest"
)

const cseDept = "Computer Science & Engineering (CSE)"

func newTestIssuer(t *testing.T) *auth.TokenIssuer {
	t.Helper()
	issuer, err := auth.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	return issuer
}

func seedUser(t *testing.T, users *repositorytest.FakeUserRepo, email, password string, active bool) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return users.Seed(domain.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleEmployee,
		Department:   cseDept,
		IsActive:     active,
		LeaveBalance: domain.DefaultLeaveBalance(),
	})
}

func TestAuthenticate(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	seedUser(t, users, "john@mic.edu", "secret1", true)
	seedUser(t, users, "gone@mic.edu", "secret1", false)

	svc := NewAuthService(users, newTestIssuer(t))

	t.Run("success", func(t *testing.T) {
		user, token, err := svc.Authenticate(context.Background(), "john@mic.edu", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "john@mic.edu", user.Email)
		assert.False(t, user.LastLogin.IsZero())
	})

	t.Run("case insensitive email", func(t *testing.T) {
		_, _, err := svc.Authenticate(context.Background(), "John@MIC.edu", "secret1")
		assert.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Authenticate(context.Background(), "john@mic.edu", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Authenticate(context.Background(), "nobody@mic.edu", "secret1")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		_, _, err := svc.Authenticate(context.Background(), "gone@mic.edu", "secret1")
		assert.ErrorIs(t, err, domain.ErrAccountDeactivated)
	})
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		EmployeeID:    "MIC20250001",
		Name:          "John Doe",
		Email:         "John.Doe@mic.edu",
		Password:      "secret1",
		Role:          "employee",
		Department:    cseDept,
		Designation:   "Assistant Professor",
		Qualification: "M.Tech",
		MobileNo:      "987-654-3210",
		DateOfBirth:   "1990-01-15",
	}
}

func TestRegister(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	svc := NewAuthService(users, newTestIssuer(t))

	user, token, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "john.doe@mic.edu", user.Email)
	assert.Equal(t, "9876543210", user.MobileNo)
	assert.Equal(t, domain.DefaultLeaveBalance(), user.LeaveBalance)
	assert.True(t, user.IsActive)
	assert.NotZero(t, user.ID)

	// The hash is stored, never the plaintext.
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.True(t, auth.CheckPassword(user.PasswordHash, "secret1"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	svc := NewAuthService(users, newTestIssuer(t))

	_, _, err := svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	in := validRegisterInput()
	in.EmployeeID = "MIC20250002"
	_, _, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegisterInput)
		field   string
		message string
	}{
		{
			name:    "short name",
			mutate:  func(in *RegisterInput) { in.Name = "J" },
			field:   "name",
			message: "Name must be between 2 and 50 characters",
		},
		{
			name:    "bad email",
			mutate:  func(in *RegisterInput) { in.Email = "not-an-email" },
			field:   "email",
			message: "Please provide a valid email",
		},
		{
			name:    "short password",
			mutate:  func(in *RegisterInput) { in.Password = "abc" },
			field:   "password",
			message: "Password must be at least 6 characters",
		},
		{
			name:    "unknown role",
			mutate:  func(in *RegisterInput) { in.Role = "manager" },
			field:   "role",
			message: "Invalid role",
		},
		{
			name:    "unknown department",
			mutate:  func(in *RegisterInput) { in.Department = "Astrology" },
			field:   "department",
			message: "Invalid department",
		},
		{
			name:    "short mobile",
			mutate:  func(in *RegisterInput) { in.MobileNo = "12345" },
			field:   "mobileNo",
			message: "Please provide a valid 10-digit mobile number",
		},
		{
			name:    "short employee id",
			mutate:  func(in *RegisterInput) { in.EmployeeID = "X1" },
			field:   "employeeId",
			message: "If provided, employee ID must be at least 5 characters",
		},
		{
			name:    "bad date of birth",
			mutate:  func(in *RegisterInput) { in.DateOfBirth = "15-01-1990" },
			field:   "dateOfBirth",
			message: "Please provide a valid date of birth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegisterInput()
			tt.mutate(&in)

			err := in.Validate()
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Len(t, ve.Fields, 1)
			assert.Equal(t, tt.field, ve.Fields[0].Field)
			assert.Equal(t, tt.message, ve.Fields[0].Message)
		})
	}
}

func TestChangePassword(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	u := seedUser(t, users, "john@mic.edu", "secret1", true)
	svc := NewAuthService(users, newTestIssuer(t))

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), u.ID, "nope", "newsecret")
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Current password is incorrect", ve.Message)
	})

	t.Run("short new password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), u.ID, "secret1", "abc")
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, svc.ChangePassword(context.Background(), u.ID, "secret1", "newsecret"))

		_, _, err := svc.Authenticate(context.Background(), "john@mic.edu", "newsecret")
		assert.NoError(t, err)
		_, _, err = svc.Authenticate(context.Background(), "john@mic.edu", "secret1")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestNormalizeMobile(t *testing.T) {
	assert.Equal(t, "9876543210", NormalizeMobile("987-654-3210"))
	assert.Equal(t, "9876543210", NormalizeMobile("+98 765 43210"))
	assert.Equal(t, "", NormalizeMobile("n/a"))
}

func TestParseISODate(t *testing.T) {
	got, err := ParseISODate("1990-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseISODate("15-01-1990")
	assert.Error(t, err)
}
