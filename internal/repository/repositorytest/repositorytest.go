// Package repositorytest provides in-memory repository fakes mirroring the
// record store's uniqueness semantics, for use in service and handler tests.
package repositorytest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/micollege/elms/internal/domain"
)

// FakeUserRepo is an in-memory domain.UserRepository. Email uniqueness is
// enforced atomically under one mutex, mirroring the store arbitrating
// concurrent inserts.
type FakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
	emails map[string]int64
}

// NewFakeUserRepo creates an empty fake.
func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		nextID: 1,
		byID:   map[int64]*domain.User{},
		emails: map[string]int64{},
	}
}

// Seed inserts a user directly, bypassing validation. Returns the stored copy.
func (f *FakeUserRepo) Seed(u domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.Email = strings.ToLower(u.Email)
	u.ID = f.nextID
	f.nextID++
	f.byID[u.ID] = &u
	f.emails[u.Email] = u.ID
	return &u
}

func (f *FakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if _, exists := f.emails[u.Email]; exists {
		return domain.ErrEmailExists
	}
	if u.EmployeeID != "" {
		for _, other := range f.byID {
			if other.EmployeeID == u.EmployeeID {
				return domain.ErrEmployeeIDExists
			}
		}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.DateOfJoining.IsZero() {
		u.DateOfJoining = now
	}
	u.ID = f.nextID
	f.nextID++

	stored := *u
	f.byID[u.ID] = &stored
	f.emails[u.Email] = u.ID
	return nil
}

func (f *FakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *FakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.emails[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *f.byID[id]
	return &copied, nil
}

func (f *FakeUserRepo) GetByEmployeeID(_ context.Context, employeeID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.EmployeeID == employeeID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *FakeUserRepo) Update(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.byID[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Email != existing.Email {
		if _, taken := f.emails[u.Email]; taken {
			return domain.ErrEmailExists
		}
		delete(f.emails, existing.Email)
		f.emails[u.Email] = u.ID
	}
	u.UpdatedAt = time.Now().UTC()
	stored := *u
	f.byID[u.ID] = &stored
	return nil
}

func (f *FakeUserRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(f.emails, u.Email)
	delete(f.byID, id)
	return nil
}

func (f *FakeUserRepo) List(_ context.Context, filter domain.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.byID {
		if filter.Department != "" && u.Department != filter.Department {
			continue
		}
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

// Count returns the number of stored users.
func (f *FakeUserRepo) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

// FakeLeaveRepo is an in-memory domain.LeaveRepository.
type FakeLeaveRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.LeaveRequest
}

// NewFakeLeaveRepo creates an empty fake.
func NewFakeLeaveRepo() *FakeLeaveRepo {
	return &FakeLeaveRepo{nextID: 1, byID: map[int64]*domain.LeaveRequest{}}
}

func (f *FakeLeaveRepo) Create(_ context.Context, lr *domain.LeaveRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lr.CreatedAt = time.Now().UTC()
	if lr.Status == "" {
		lr.Status = domain.LeavePending
	}
	lr.ID = f.nextID
	f.nextID++
	stored := *lr
	f.byID[lr.ID] = &stored
	return nil
}

func (f *FakeLeaveRepo) GetByID(_ context.Context, id int64) (*domain.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	lr, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *lr
	return &copied, nil
}

func (f *FakeLeaveRepo) Update(_ context.Context, lr *domain.LeaveRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[lr.ID]; !ok {
		return domain.ErrNotFound
	}
	stored := *lr
	f.byID[lr.ID] = &stored
	return nil
}

func (f *FakeLeaveRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *FakeLeaveRepo) List(_ context.Context, filter domain.LeaveFilter) ([]domain.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.LeaveRequest
	for _, lr := range f.byID {
		if filter.UserID != 0 && lr.UserID != filter.UserID {
			continue
		}
		if filter.Department != "" && lr.Department != filter.Department {
			continue
		}
		if filter.Status != "" && lr.Status != filter.Status {
			continue
		}
		out = append(out, *lr)
	}
	return out, nil
}
