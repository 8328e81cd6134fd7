package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/ports"
	"github.com/vncsmyrnk/carmarket/internal/core/query"
)

const userColumns = `id, name, email, password, phone_number, role, refresh_token, created_at`

type userRepository struct {
	q Querier
}

func NewUserRepository(q Querier) ports.UserRepository {
	return &userRepository{q: q}
}

func scanUser(row scanner) (*domain.User, error) {
	user := &domain.User{}
	var role string
	var refresh sql.NullString
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.Password,
		&user.PhoneNumber, &role, &refresh, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Role = domain.Role(role)
	if refresh.Valid {
		user.RefreshToken = &refresh.String
	}
	return user, nil
}

func (r *userRepository) one(ctx context.Context, stmt string, args ...any) (*domain.User, error) {
	user, err := scanUser(r.q.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, mapError(err)
	}
	return user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE phone_number = $1`, phone)
}

func (r *userRepository) GetByRefreshToken(ctx context.Context, token string) (*domain.User, error) {
	return r.one(ctx, `SELECT `+userColumns+` FROM users WHERE refresh_token = $1`, token)
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	stmt := `
		INSERT INTO users (name, email, password, phone_number, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.q.QueryRowContext(ctx, stmt,
		user.Name, user.Email, user.Password, user.PhoneNumber, string(user.Role),
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", mapError(err))
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, id int64, conds []query.Condition) (*domain.User, error) {
	stmt, args, err := query.UpdateStatement("users", userColumns, conds, id)
	if err != nil {
		return nil, err
	}
	return r.one(ctx, stmt, args...)
}

func (r *userRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	return r.one(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id)
}

func (r *userRepository) SetRefreshToken(ctx context.Context, id int64, token *string) error {
	res, err := r.q.ExecContext(ctx, `UPDATE users SET refresh_token = $1 WHERE id = $2`, token, id)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) ClearRefreshToken(ctx context.Context, token string) error {
	_, err := r.q.ExecContext(ctx, `UPDATE users SET refresh_token = NULL WHERE refresh_token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}
	return nil
}
