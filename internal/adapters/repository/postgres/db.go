package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/ports"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func Open(ctx context.Context, dsn string, maxOpenConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

type Pool struct {
	db *sql.DB
}

func NewPool(db *sql.DB) ports.Pool {
	return &Pool{db: db}
}

// Acquire blocks until a connection is free or ctx is done.
func (p *Pool) Acquire(ctx context.Context) (ports.Session, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &session{conn: conn}, nil
}

func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

type session struct {
	conn *sql.Conn
}

func (s *session) Cars() ports.CarRepository {
	return NewCarRepository(s.conn)
}

func (s *session) Users() ports.UserRepository {
	return NewUserRepository(s.conn)
}

func (s *session) Release() {
	_ = s.conn.Close()
}

// Constraint names come from the migrations.
const (
	usersEmailKey = "users_email_key"
	usersPhoneKey = "users_phone_number_key"
)

// mapError turns constraint violations into domain errors.
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case "23505":
		switch pqErr.Constraint {
		case usersEmailKey:
			return domain.ErrDuplicateEmail
		case usersPhoneKey:
			return domain.ErrDuplicatePhone
		}
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pqErr.Constraint)
	case "23503":
		return fmt.Errorf("%w: %s", domain.ErrInvalidReference, pqErr.Constraint)
	}
	return err
}
