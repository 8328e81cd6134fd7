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

const carColumns = `id, name, brand, model, color, year, mileage, price, description, status, user_id, created_at`

type carRepository struct {
	q Querier
}

func NewCarRepository(q Querier) ports.CarRepository {
	return &carRepository{q: q}
}

func scanCar(row scanner) (*domain.Car, error) {
	car := &domain.Car{}
	var desc sql.NullString
	var status string
	err := row.Scan(
		&car.ID, &car.Name, &car.Brand, &car.Model, &car.Color, &car.Year,
		&car.Mileage, &car.Price, &desc, &status, &car.UserID, &car.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		car.Description = &desc.String
	}
	car.Status = domain.CarStatus(status)
	return car, nil
}

func (r *carRepository) list(ctx context.Context, stmt string, args ...any) ([]domain.Car, error) {
	rows, err := r.q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cars: %w", err)
	}
	defer rows.Close()

	cars := []domain.Car{}
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan car: %w", err)
		}
		cars = append(cars, *car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cars: %w", err)
	}
	return cars, nil
}

func (r *carRepository) one(ctx context.Context, stmt string, args ...any) (*domain.Car, error) {
	car, err := scanCar(r.q.QueryRowContext(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCarNotFound
		}
		return nil, mapError(err)
	}
	return car, nil
}

func (r *carRepository) List(ctx context.Context) ([]domain.Car, error) {
	return r.list(ctx, `SELECT `+carColumns+` FROM cars ORDER BY created_at, id`)
}

func (r *carRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	return r.one(ctx, `SELECT `+carColumns+` FROM cars WHERE id = $1`, id)
}

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	stmt := `
		INSERT INTO cars (name, brand, model, color, year, mileage, price, description, status, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	err := r.q.QueryRowContext(ctx, stmt,
		car.Name, car.Brand, car.Model, car.Color, car.Year,
		car.Mileage, car.Price, car.Description, string(car.Status), car.UserID,
	).Scan(&car.ID, &car.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert car: %w", mapError(err))
	}
	return nil
}

func (r *carRepository) Update(ctx context.Context, id int64, conds []query.Condition) (*domain.Car, error) {
	stmt, args, err := query.UpdateStatement("cars", carColumns, conds, id)
	if err != nil {
		return nil, err
	}
	return r.one(ctx, stmt, args...)
}

func (r *carRepository) Delete(ctx context.Context, id int64) (*domain.Car, error) {
	return r.one(ctx, `DELETE FROM cars WHERE id = $1 RETURNING `+carColumns, id)
}

func (r *carRepository) Search(ctx context.Context, s query.Search) ([]domain.Car, error) {
	stmt, args, err := query.SearchStatement("cars", carColumns, s)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, stmt, args...)
}

func (r *carRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Car, error) {
	return r.list(ctx, `SELECT `+carColumns+` FROM cars WHERE user_id = $1 ORDER BY created_at, id`, userID)
}
