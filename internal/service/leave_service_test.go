package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micollege/elms/internal/domain"
	"github.com/micollege/elms/internal/repository/repositorytest"
)

func newLeaveFixture(t *testing.T) (*LeaveService, *repositorytest.FakeUserRepo, *repositorytest.FakeLeaveRepo, *domain.User) {
	t.Helper()
	users := repositorytest.NewFakeUserRepo()
	leaves := repositorytest.NewFakeLeaveRepo()
	applicant := users.Seed(domain.User{
		Name:         "John Doe",
		Email:        "john@mic.edu",
		Role:         domain.RoleEmployee,
		Department:   cseDept,
		IsActive:     true,
		LeaveBalance: domain.DefaultLeaveBalance(),
	})
	return NewLeaveService(leaves, users), users, leaves, applicant
}

func TestApply(t *testing.T) {
	svc, _, _, applicant := newLeaveFixture(t)

	lr, err := svc.Apply(context.Background(), applicant.ID, ApplyInput{
		LeaveType: "cl",
		FromDate:  "2026-09-07",
		ToDate:    "2026-09-09",
		Reason:    "family function",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LeavePending, lr.Status)
	assert.Equal(t, 3, lr.Days)
	assert.Equal(t, cseDept, lr.Department)
	assert.Equal(t, applicant.ID, lr.UserID)
	assert.NotZero(t, lr.ID)
}

func TestApplySingleDay(t *testing.T) {
	svc, _, _, applicant := newLeaveFixture(t)

	lr, err := svc.Apply(context.Background(), applicant.ID, ApplyInput{
		LeaveType: "el",
		FromDate:  "2026-09-07",
		ToDate:    "2026-09-07",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, lr.Days)
}

func TestApplyValidation(t *testing.T) {
	svc, _, _, applicant := newLeaveFixture(t)

	tests := []struct {
		name string
		in   ApplyInput
	}{
		{"unknown leave type", ApplyInput{LeaveType: "vacation", FromDate: "2026-09-07", ToDate: "2026-09-08"}},
		{"bad from date", ApplyInput{LeaveType: "cl", FromDate: "07-09-2026", ToDate: "2026-09-08"}},
		{"bad to date", ApplyInput{LeaveType: "cl", FromDate: "2026-09-07", ToDate: "soon"}},
		{"reversed range", ApplyInput{LeaveType: "cl", FromDate: "2026-09-08", ToDate: "2026-09-07"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Apply(context.Background(), applicant.ID, tt.in)
			var ve *domain.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestApplyInsufficientBalance(t *testing.T) {
	svc, _, _, applicant := newLeaveFixture(t)

	// ccl allocation is 7 days; ask for 8.
	_, err := svc.Apply(context.Background(), applicant.ID, ApplyInput{
		LeaveType: "ccl",
		FromDate:  "2026-09-01",
		ToDate:    "2026-09-08",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Insufficient ccl balance", ve.Message)
}

func TestDecideApproveDeductsBalance(t *testing.T) {
	svc, users, _, applicant := newLeaveFixture(t)

	lr, err := svc.Apply(context.Background(), applicant.ID, ApplyInput{
		LeaveType: "cl",
		FromDate:  "2026-09-07",
		ToDate:    "2026-09-09",
	})
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), lr.ID, 99, true, "enjoy")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveApproved, decided.Status)
	assert.Equal(t, int64(99), decided.DecidedBy)
	assert.Equal(t, "enjoy", decided.Remark)
	assert.False(t, decided.DecidedAt.IsZero())

	updated, err := users.GetByID(context.Background(), applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLeaveBalance().CL-3, updated.LeaveBalance.CL)
}

func TestDecideRejectKeepsBalance(t *testing.T) {
	svc, users, _, applicant := newLeaveFixture(t)

	lr, err := svc.Apply(context.Background(), applicant.ID, ApplyInput{
		LeaveType: "cl",
		FromDate:  "2026-09-07",
		ToDate:    "2026-09-09",
	})
	require.NoError(t, err)

	decided, err := svc.Decide(context.Background(), lr.ID, 99, false, "coverage gap")
	require.NoError(t, err)
	assert.Equal(t, domain.LeaveRejected, decided.Status)

	updated, err := users.GetByID(context.Background(), applicant.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultLeaveBalance(), updated.LeaveBalance)
}

func TestDecideOnlyPending(t *testing.T) {
	svc, _, _, applicant := newLeaveFixture(t)

	lr, err := svc.Apply(context.Background(), applicant.ID, ApplyInput{
		LeaveType: "cl",
		FromDate:  "2026-09-07",
		ToDate:    "2026-09-07",
	})
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), lr.ID, 99, false, "")
	require.NoError(t, err)

	_, err = svc.Decide(context.Background(), lr.ID, 99, true, "")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Leave request has already been rejected", ve.Message)
}

func TestWithdraw(t *testing.T) {
	svc, _, leaves, applicant := newLeaveFixture(t)

	lr, err := svc.Apply(context.Background(), applicant.ID, ApplyInput{
		LeaveType: "cl",
		FromDate:  "2026-09-07",
		ToDate:    "2026-09-07",
	})
	require.NoError(t, err)

	t.Run("not the owner", func(t *testing.T) {
		err := svc.Withdraw(context.Background(), lr.ID, applicant.ID+1)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("owner withdraws pending", func(t *testing.T) {
		require.NoError(t, svc.Withdraw(context.Background(), lr.ID, applicant.ID))
		_, err := leaves.GetByID(context.Background(), lr.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing request", func(t *testing.T) {
		err := svc.Withdraw(context.Background(), lr.ID, applicant.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("decided request", func(t *testing.T) {
		lr2, err := svc.Apply(context.Background(), applicant.ID, ApplyInput{
			LeaveType: "cl",
			FromDate:  "2026-09-08",
			ToDate:    "2026-09-08",
		})
		require.NoError(t, err)
		_, err = svc.Decide(context.Background(), lr2.ID, 99, true, "")
		require.NoError(t, err)

		err = svc.Withdraw(context.Background(), lr2.ID, applicant.ID)
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}
