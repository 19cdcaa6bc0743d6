package service

import (
	"context"
	"errors"
	"time"

	"github.com/dhkim93/session-auth/internal/core/domain"
	"github.com/dhkim93/session-auth/internal/core/ports"
	"github.com/dhkim93/session-auth/internal/core/token"
)

// AuthService implements registration, login and access-token refresh over
// a dual-token session: a short-lived access token and a long-lived refresh
// token, each signed by its own codec. It holds no per-session state; every
// call is a function of its inputs, the user store and the wall clock.
type AuthService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	access  *token.Codec
	refresh *token.Codec
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, access, refresh *token.Codec) *AuthService {
	return &AuthService{users: users, hasher: hasher, access: access, refresh: refresh}
}

// Register creates a new account and issues a session token pair, behaving
// identically to Login on success. A duplicate email yields
// domain.ErrEmailTaken whether it is caught by the pre-check or by the
// store's unique index.
func (s *AuthService) Register(ctx context.Context, fullname, email, password string) (*domain.User, domain.TokenPair, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.TokenPair{}, err
	}
	if existing != nil {
		return nil, domain.TokenPair{}, domain.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Fullname:     fullname,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, domain.TokenPair{}, err
	}

	pair, err := s.issueTokens(created)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}
	return created, pair, nil
}

// Login verifies credentials and issues a session token pair. Unknown email
// and wrong password both surface as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error) {
	user, err := s.verifyCredentials(ctx, email, password)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}
	if user == nil {
		return nil, domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, domain.TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh mints a replacement access token from a valid refresh token. The
// original claims payload is re-signed with a fresh expiry; the refresh
// token itself is left untouched. Account deletion takes effect here: the
// subject is re-looked-up on every refresh.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, *domain.User, error) {
	if refreshToken == "" {
		return "", nil, domain.ErrRefreshTokenMissing
	}

	claims, err := s.refresh.Verify(refreshToken)
	if err != nil {
		return "", nil, domain.ErrRefreshTokenInvalid
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrUserGone
		}
		return "", nil, err
	}

	accessToken, err := s.access.Renew(claims)
	if err != nil {
		return "", nil, err
	}
	return accessToken, user, nil
}

func (s *AuthService) FindUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// verifyCredentials returns (nil, nil) for both an unknown email and a wrong
// password, so callers cannot distinguish the two cases. Store faults other
// than a missing account propagate as errors.
func (s *AuthService) verifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Compare(password, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *domain.User) (domain.TokenPair, error) {
	accessToken, err := s.access.Issue(user.ID, user.Fullname)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refreshToken, err := s.refresh.Issue(user.ID, user.Fullname)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
