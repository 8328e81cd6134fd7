package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/carmarket/internal/core/access"
	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/ports"
	"github.com/vncsmyrnk/carmarket/internal/core/query"
)

type userService struct {
	pool   ports.Pool
	hasher ports.Hasher
}

func NewUserService(pool ports.Pool, hasher ports.Hasher) ports.UserService {
	return &userService{
		pool:   pool,
		hasher: hasher,
	}
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	users, err := sess.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, who domain.Identity, id int64) (*domain.User, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	return ownedUser(ctx, sess.Users(), who, id)
}

func (s *userService) Update(ctx context.Context, who domain.Identity, id int64, conds []query.Condition) (*domain.User, error) {
	conds, err := s.hashPassword(conds)
	if err != nil {
		return nil, err
	}

	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	users := sess.Users()
	if _, err := ownedUser(ctx, users, who, id); err != nil {
		return nil, err
	}

	user, err := users.Update(ctx, id, conds)
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, who domain.Identity, id int64) (*domain.User, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	users := sess.Users()
	if _, err := ownedUser(ctx, users, who, id); err != nil {
		return nil, err
	}

	user, err := users.Delete(ctx, id)
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}

// SetRole changes a user's role without an authenticated caller. It backs
// the admin command line tool, which is how the first admin is created.
func (s *userService) SetRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.Invalid("Please Provide a Valid Role!")
	}

	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	users := sess.Users()
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		return nil, userError(err)
	}

	user, err = users.Update(ctx, user.ID, []query.Condition{query.Eq("role", string(role))})
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}

// hashPassword replaces a plaintext password condition with its digest.
func (s *userService) hashPassword(conds []query.Condition) ([]query.Condition, error) {
	out := make([]query.Condition, len(conds))
	copy(out, conds)
	for i, c := range out {
		if c.Column != "password" {
			continue
		}
		plain, _ := c.Value.(string)
		digest, err := s.hasher.Hash(plain)
		if err != nil {
			return nil, err
		}
		out[i].Value = digest
	}
	return out, nil
}

func findUser(ctx context.Context, users ports.UserRepository, id int64) (*domain.User, error) {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}

func ownedUser(ctx context.Context, users ports.UserRepository, who domain.Identity, id int64) (*domain.User, error) {
	user, err := findUser(ctx, users, id)
	if err != nil {
		return nil, err
	}
	if !access.CanMutate(user.ID, who) {
		return nil, domain.Forbidden("Forbidden!")
	}
	return user, nil
}

func userError(err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return domain.NotFound("User Not Found!")
	case errors.Is(err, domain.ErrDuplicateEmail):
		return domain.Conflict("User With This Email Address Already Exists!")
	case errors.Is(err, domain.ErrDuplicatePhone):
		return domain.Conflict("User With This Phone Number Already Exists!")
	}
	return fmt.Errorf("failed to access user: %w", err)
}
