package ports

import (
	"context"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/query"
)

type CarRepository interface {
	List(ctx context.Context) ([]domain.Car, error)
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	Create(ctx context.Context, car *domain.Car) error
	Update(ctx context.Context, id int64, conds []query.Condition) (*domain.Car, error)
	Delete(ctx context.Context, id int64) (*domain.Car, error)
	Search(ctx context.Context, s query.Search) ([]domain.Car, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Car, error)
}

type CarService interface {
	List(ctx context.Context) ([]domain.Car, error)
	Get(ctx context.Context, id int64) (*domain.Car, error)
	Create(ctx context.Context, who domain.Identity, car *domain.Car) (*domain.Car, error)
	Update(ctx context.Context, who domain.Identity, id int64, conds []query.Condition) (*domain.Car, error)
	Delete(ctx context.Context, who domain.Identity, id int64) (*domain.Car, error)
	Search(ctx context.Context, s query.Search) ([]domain.Car, error)
	ListByUser(ctx context.Context, who domain.Identity, userID int64) ([]domain.Car, error)
}
