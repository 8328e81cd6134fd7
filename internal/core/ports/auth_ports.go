package ports

import (
	"context"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
)

type Hasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) (bool, error)
}

// TokenVerifier returns domain.ErrTokenExpired or domain.ErrTokenInvalid
// (possibly wrapped) when a token is rejected.
type TokenVerifier interface {
	VerifyAccess(token string) (domain.Identity, error)
	VerifyRefresh(token string) (domain.Identity, error)
}

type TokenIssuer interface {
	TokenVerifier
	IssueAccess(who domain.Identity) (string, error)
	IssueRefresh(who domain.Identity) (string, error)
}

type AuthService interface {
	Register(ctx context.Context, user *domain.User) (*domain.User, domain.TokenPair, error)
	Login(ctx context.Context, creds domain.Credentials) (*domain.User, domain.TokenPair, error)
	// Refresh returns a new access token for the holder of refreshToken.
	Refresh(ctx context.Context, refreshToken string) (*domain.User, string, error)
	Logout(ctx context.Context, refreshToken string) error
}
