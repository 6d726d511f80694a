package usecase

import (
	"context"
	"errors"

	"skill-pulse/internal/domain/org"
	"skill-pulse/internal/pkg/jwt"
	"skill-pulse/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthTokens struct {
	AccessToken  string
	RefreshToken string
}

type AuthUsecase interface {
	Login(ctx context.Context, email, password string) (AuthTokens, error)
	Refresh(ctx context.Context, refreshToken string) (AuthTokens, error)
}

type Auth struct {
	orgs repository.OrgRepository
	jwt  jwt.Service
}

func NewAuthUsecase(orgs repository.OrgRepository, jwtSvc jwt.Service) *Auth {
	return &Auth{orgs: orgs, jwt: jwtSvc}
}

func (u *Auth) Login(ctx context.Context, email, password string) (AuthTokens, error) {
	p, err := u.orgs.FindProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return AuthTokens{}, ErrInvalidCredentials
		}
		return AuthTokens{}, ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(password)) != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	return u.issue(p)
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := u.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	// Re-read the profile so a role change invalidates old scopes at refresh.
	p, err := u.orgs.FindProfileByID(ctx, claims.ProfileID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return AuthTokens{}, ErrInvalidCredentials
		}
		return AuthTokens{}, ErrInternal
	}

	return u.issue(p)
}

func (u *Auth) issue(p repository.Profile) (AuthTokens, error) {
	role := org.Role(p.Role)

	access, err := u.jwt.GenerateAccessToken(p.ID, p.Email, role)
	if err != nil {
		return AuthTokens{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(p.ID, role)
	if err != nil {
		return AuthTokens{}, ErrInternal
	}
	return AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}
