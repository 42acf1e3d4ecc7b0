package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/datastore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/micollege/elms/internal/domain"
)

const (
	kindUser      = "User"
	kindUserEmail = "UserEmail"
)

// emailRef is the uniqueness sentinel keyed by lowercased email. Inserting it
// in the same transaction as the user makes the store the sole arbiter when
// two writers race on one address.
type emailRef struct {
	UserID int64 `datastore:"UserID"`
}

type userRepository struct {
	client *datastore.Client
}

// NewUserRepository creates a Datastore-backed UserRepository.
func NewUserRepository(client *datastore.Client) domain.UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.DateOfJoining.IsZero() {
		u.DateOfJoining = now
	}

	// Employee codes get a best-effort pre-check query; email remains
	// transactionally guarded below.
	if u.EmployeeID != "" {
		if _, err := r.GetByEmployeeID(ctx, u.EmployeeID); err == nil {
			return domain.ErrEmployeeIDExists
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
	}

	keys, err := r.client.AllocateIDs(ctx, []*datastore.Key{datastore.IncompleteKey(kindUser, nil)})
	if err != nil {
		return fmt.Errorf("allocate user id: %w", err)
	}
	userKey := keys[0]

	_, err = r.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		emailKey := datastore.NameKey(kindUserEmail, u.Email, nil)
		_, err := tx.Mutate(
			datastore.NewInsert(emailKey, &emailRef{UserID: userKey.ID}),
			datastore.NewInsert(userKey, u),
		)
		return err
	})
	if err != nil {
		if isAlreadyExists(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	u.ID = userKey.ID
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	key := datastore.IDKey(kindUser, id, nil)
	if err := r.client.Get(ctx, key, &u); err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	u.ID = id
	return &u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var ref emailRef
	if err := r.client.Get(ctx, datastore.NameKey(kindUserEmail, email, nil), &ref); err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get email ref %q: %w", email, err)
	}
	return r.GetByID(ctx, ref.UserID)
}

func (r *userRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*domain.User, error) {
	q := datastore.NewQuery(kindUser).
		Filter("EmployeeID =", employeeID).
		Limit(1)

	var users []domain.User
	keys, err := r.client.GetAll(ctx, q, &users)
	if err != nil {
		return nil, fmt.Errorf("query employee id %q: %w", employeeID, err)
	}
	if len(users) == 0 {
		return nil, domain.ErrNotFound
	}
	users[0].ID = keys[0].ID
	return &users[0], nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	if u.ID == 0 {
		return domain.ErrNotFound
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.UpdatedAt = time.Now().UTC()
	userKey := datastore.IDKey(kindUser, u.ID, nil)

	_, err := r.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var existing domain.User
		if err := tx.Get(userKey, &existing); err != nil {
			return err
		}

		muts := []*datastore.Mutation{datastore.NewUpdate(userKey, u)}
		if existing.Email != u.Email {
			// Re-point the uniqueness sentinel when the address changes.
			muts = append(muts,
				datastore.NewDelete(datastore.NameKey(kindUserEmail, existing.Email, nil)),
				datastore.NewInsert(datastore.NameKey(kindUserEmail, u.Email, nil), &emailRef{UserID: u.ID}),
			)
		}
		_, err := tx.Mutate(muts...)
		return err
	})
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return domain.ErrNotFound
		}
		if isAlreadyExists(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	userKey := datastore.IDKey(kindUser, id, nil)

	_, err := r.client.RunInTransaction(ctx, func(tx *datastore.Transaction) error {
		var existing domain.User
		if err := tx.Get(userKey, &existing); err != nil {
			return err
		}
		_, err := tx.Mutate(
			datastore.NewDelete(userKey),
			datastore.NewDelete(datastore.NameKey(kindUserEmail, existing.Email, nil)),
		)
		return err
	})
	if err != nil {
		if errors.Is(err, datastore.ErrNoSuchEntity) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	q := datastore.NewQuery(kindUser)
	if filter.Department != "" {
		q = q.Filter("Department =", filter.Department)
	}
	if filter.Role != "" {
		q = q.Filter("Role =", string(filter.Role))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var users []domain.User
	keys, err := r.client.GetAll(ctx, q, &users)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i].ID = keys[i].ID
	}
	return users, nil
}

// isAlreadyExists unwraps the store's insert-conflict signal, including the
// MultiError shape returned for batched mutations.
func isAlreadyExists(err error) bool {
	if err == nil {
		return false
	}
	var merr datastore.MultiError
	if errors.As(err, &merr) {
		for _, e := range merr {
			if e != nil && status.Code(e) == codes.AlreadyExists {
				return true
			}
		}
	}
	return status.Code(err) == codes.AlreadyExists
}
