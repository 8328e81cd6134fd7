package ports

import (
	"context"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/query"
)

type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, id int64, conds []query.Condition) (*domain.User, error)
	Delete(ctx context.Context, id int64) (*domain.User, error)
	// SetRefreshToken stores token as the user's only refresh token; nil clears it.
	SetRefreshToken(ctx context.Context, id int64, token *string) error
	ClearRefreshToken(ctx context.Context, token string) error
}

type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, who domain.Identity, id int64) (*domain.User, error)
	Update(ctx context.Context, who domain.Identity, id int64, conds []query.Condition) (*domain.User, error)
	Delete(ctx context.Context, who domain.Identity, id int64) (*domain.User, error)
	SetRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)
}
