package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"

	"github.com/micollege/elms/internal/domain"
)

const kindLeave = "LeaveRequest"

type leaveRepository struct {
	client *datastore.Client
}

// NewLeaveRepository creates a Datastore-backed LeaveRepository.
func NewLeaveRepository(client *datastore.Client) domain.LeaveRepository {
	return &leaveRepository{client: client}
}

func (r *leaveRepository) Create(ctx context.Context, lr *domain.LeaveRequest) error {
	lr.CreatedAt = time.Now().UTC()
	if lr.Status == "" {
		lr.Status = domain.LeavePending
	}

	key, err := r.client.Put(ctx, datastore.IncompleteKey(kindLeave, nil), lr)
	if err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	lr.ID = key.ID
	return nil
}

func (r *leaveRepository) GetByID(ctx context.Context, id int64) (*domain.LeaveRequest, error) {
	var lr domain.LeaveRequest
	if err := r.client.Get(ctx, datastore.IDKey(kindLeave, id, nil), &lr); err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get leave request %d: %w", id, err)
	}
	lr.ID = id
	return &lr, nil
}

func (r *leaveRepository) Update(ctx context.Context, lr *domain.LeaveRequest) error {
	if lr.ID == 0 {
		return domain.ErrNotFound
	}
	key := datastore.IDKey(kindLeave, lr.ID, nil)

	_, err := r.client.Mutate(ctx, datastore.NewUpdate(key, lr))
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update leave request %d: %w", lr.ID, err)
	}
	return nil
}

func (r *leaveRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.client.Mutate(ctx, datastore.NewDelete(datastore.IDKey(kindLeave, id, nil)))
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete leave request %d: %w", id, err)
	}
	return nil
}

func (r *leaveRepository) List(ctx context.Context, filter domain.LeaveFilter) ([]domain.LeaveRequest, error) {
	q := datastore.NewQuery(kindLeave)
	if filter.UserID != 0 {
		q = q.Filter("UserID =", filter.UserID)
	}
	if filter.Department != "" {
		q = q.Filter("Department =", filter.Department)
	}
	if filter.Status != "" {
		q = q.Filter("Status =", string(filter.Status))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var leaves []domain.LeaveRequest
	keys, err := r.client.GetAll(ctx, q, &leaves)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	for i := range leaves {
		leaves[i].ID = keys[i].ID
	}
	return leaves, nil
}
