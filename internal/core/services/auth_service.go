package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/carmarket/internal/core/domain"
	"github.com/vncsmyrnk/carmarket/internal/core/ports"
)

const invalidCredentials = "Invalid Credentials!"

type authService struct {
	pool   ports.Pool
	hasher ports.Hasher
	tokens ports.TokenIssuer
}

func NewAuthService(pool ports.Pool, hasher ports.Hasher, tokens ports.TokenIssuer) ports.AuthService {
	return &authService{
		pool:   pool,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *authService) Register(ctx context.Context, user *domain.User) (*domain.User, domain.TokenPair, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}
	defer sess.Release()

	users := sess.Users()
	if err := ensureAbsent(users.GetByEmail(ctx, user.Email)); err != nil {
		if errors.Is(err, errTaken) {
			return nil, domain.TokenPair{}, userError(domain.ErrDuplicateEmail)
		}
		return nil, domain.TokenPair{}, err
	}
	if err := ensureAbsent(users.GetByPhone(ctx, user.PhoneNumber)); err != nil {
		if errors.Is(err, errTaken) {
			return nil, domain.TokenPair{}, userError(domain.ErrDuplicatePhone)
		}
		return nil, domain.TokenPair{}, err
	}

	digest, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}
	user.Password = digest
	user.Role = domain.RoleUser

	// The pre-checks race with concurrent registrations; the unique
	// constraints settle it.
	if err := users.Create(ctx, user); err != nil {
		return nil, domain.TokenPair{}, userError(err)
	}

	pair, err := s.issue(ctx, users, user)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}
	return user, pair, nil
}

// Login answers a missing account and a wrong password the same way.
func (s *authService) Login(ctx context.Context, creds domain.Credentials) (*domain.User, domain.TokenPair, error) {
	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}
	defer sess.Release()

	users := sess.Users()
	var user *domain.User
	switch creds.Method {
	case domain.LoginByEmail:
		user, err = users.GetByEmail(ctx, creds.Identifier)
	case domain.LoginByPhone:
		user, err = users.GetByPhone(ctx, creds.Identifier)
	default:
		return nil, domain.TokenPair{}, domain.Invalid("Invalid Login Method!")
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.TokenPair{}, domain.Unauthorized(invalidCredentials)
		}
		return nil, domain.TokenPair{}, fmt.Errorf("failed to find user: %w", err)
	}

	ok, err := s.hasher.Compare(creds.Password, user.Password)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}
	if !ok {
		return nil, domain.TokenPair{}, domain.Unauthorized(invalidCredentials)
	}

	pair, err := s.issue(ctx, users, user)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh only accepts the refresh token currently stored for the user, so
// a token superseded by a later login fails even before it expires.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.User, string, error) {
	if refreshToken == "" {
		return nil, "", domain.Unauthorized("Refresh Token Not Found!")
	}

	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, "", err
	}
	defer sess.Release()

	user, err := sess.Users().GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.Unauthorized("Invalid Refresh Token!")
		}
		return nil, "", fmt.Errorf("failed to find refresh token: %w", err)
	}

	who, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrTokenExpired) {
			return nil, "", domain.Unauthorized("Refresh Token Expired!")
		}
		return nil, "", domain.Unauthorized("Invalid Refresh Token!")
	}
	if who.UserID != user.ID {
		return nil, "", domain.Forbidden("Token Mismatch!")
	}

	// The stored role wins over the one in the token so role changes apply
	// from the next refresh.
	accessToken, err := s.tokens.IssueAccess(domain.Identity{UserID: user.ID, Role: user.Role})
	if err != nil {
		return nil, "", err
	}
	return user, accessToken, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	sess, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer sess.Release()

	return sess.Users().ClearRefreshToken(ctx, refreshToken)
}

// issue mints a token pair and stores the refresh token as the user's only
// valid one.
func (s *authService) issue(ctx context.Context, users ports.UserRepository, user *domain.User) (domain.TokenPair, error) {
	who := domain.Identity{UserID: user.ID, Role: user.Role}

	access, err := s.tokens.IssueAccess(who)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefresh(who)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := users.SetRefreshToken(ctx, user.ID, &refresh); err != nil {
		return domain.TokenPair{}, fmt.Errorf("failed to store refresh token: %w", err)
	}
	user.RefreshToken = &refresh

	return domain.TokenPair{Access: access, Refresh: refresh}, nil
}

var errTaken = errors.New("already taken")

// ensureAbsent turns a lookup result into nil when no row was found.
func ensureAbsent(_ *domain.User, err error) error {
	switch {
	case err == nil:
		return errTaken
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	}
	return fmt.Errorf("failed to check existing user: %w", err)
}
