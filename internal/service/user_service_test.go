package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/repository/repositorytest"
)

func TestUserServiceUpdate(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	u := users.Seed(domain.User{
		Name:       "John Doe",
		Email:      "john@mic.edu",
		Role:       domain.RoleEmployee,
		Department: cseDept,
		IsActive:   true,
	})
	svc := NewUserService(users, nil)

	t.Run("partial update keeps other fields", func(t *testing.T) {
		updated, err := svc.Update(context.Background(), u.ID, UpdateInput{
			Designation: "Associate Professor",
			MobileNo:    "987 654 3210",
		})
		require.NoError(t, err)
		assert.Equal(t, "Associate Professor", updated.Designation)
		assert.Equal(t, "9876543210", updated.MobileNo)
		assert.Equal(t, "John Doe", updated.Name)
		assert.Equal(t, cseDept, updated.Department)
	})

	t.Run("deactivation", func(t *testing.T) {
		inactive := false
		updated, err := svc.Update(context.Background(), u.ID, UpdateInput{IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
	})

	t.Run("invalid fields rejected without applying", func(t *testing.T) {
		_, err := svc.Update(context.Background(), u.ID, UpdateInput{
			Name: "X",
			Role: "manager",
		})
		var ve *domain.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Len(t, ve.Fields, 2)

		current, err := svc.Get(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, "John Doe", current.Name)
		assert.Equal(t, domain.RoleEmployee, current.Role)
	})

	t.Run("email change collision", func(t *testing.T) {
		users.Seed(domain.User{Email: "taken@mic.edu", Role: domain.RoleEmployee, Department: cseDept, IsActive: true})
		_, err := svc.Update(context.Background(), u.ID, UpdateInput{Email: "taken@mic.edu"})
		assert.ErrorIs(t, err, domain.ErrEmailExists)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := svc.Update(context.Background(), 9999, UpdateInput{Name: "Nobody"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserServiceDelete(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	u := users.Seed(domain.User{Email: "john@mic.edu", Role: domain.RoleEmployee, Department: cseDept, IsActive: true})
	svc := NewUserService(users, nil)

	require.NoError(t, svc.Delete(context.Background(), u.ID))
	_, err := svc.Get(context.Background(), u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), u.ID), domain.ErrNotFound)
}

func TestUserServiceSearchDisabled(t *testing.T) {
	svc := NewUserService(repositorytest.NewFakeUserRepo(), nil)

	_, err := svc.Search(context.Background(), "doe", "")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Directory search is not configured", ve.Message)
}

func TestUserServiceListFilter(t *testing.T) {
	users := repositorytest.NewFakeUserRepo()
	users.Seed(domain.User{Email: "a@mic.edu", Role: domain.RoleEmployee, Department: cseDept, IsActive: true})
	users.Seed(domain.User{Email: "b@mic.edu", Role: domain.RoleHOD, Department: cseDept, IsActive: true})
	users.Seed(domain.User{Email: "c@mic.edu", Role: domain.RoleEmployee, Department: eceDept, IsActive: true})
	svc := NewUserService(users, nil)

	list, err := svc.List(context.Background(), domain.UserFilter{Department: cseDept})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = svc.List(context.Background(), domain.UserFilter{Role: domain.RoleEmployee})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
