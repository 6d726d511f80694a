package jwt

import (
	"errors"
	"time"

	"skill-pulse/internal/domain/org"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carry the acting profile and its role; every authorization decision
// downstream keys off these two fields.
type Claims struct {
	ProfileID uuid.UUID `json:"profile_id"`
	Email     string    `json:"email,omitempty"`
	Role      org.Role  `json:"role"`
	TokenType string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateAccessToken(profileID uuid.UUID, email string, role org.Role) (string, error)
	GenerateRefreshToken(profileID uuid.UUID, role org.Role) (string, error)
	ValidateAccessToken(tokenString string) (Claims, error)
	ValidateRefreshToken(tokenString string) (Claims, error)
}

type HMACService struct {
	accessSecret  []byte
	refreshSecret []byte

	accessExpiresIn  time.Duration
	refreshExpiresIn time.Duration

	now func() time.Time
}

func NewHMACService(accessSecret, refreshSecret string, accessExpiresIn, refreshExpiresIn time.Duration) *HMACService {
	return &HMACService{
		accessSecret:     []byte(accessSecret),
		refreshSecret:    []byte(refreshSecret),
		accessExpiresIn:  accessExpiresIn,
		refreshExpiresIn: refreshExpiresIn,
		now:              time.Now,
	}
}

func (s *HMACService) GenerateAccessToken(profileID uuid.UUID, email string, role org.Role) (string, error) {
	return s.generate(TokenTypeAccess, profileID, email, role, s.accessSecret, s.accessExpiresIn)
}

func (s *HMACService) GenerateRefreshToken(profileID uuid.UUID, role org.Role) (string, error) {
	return s.generate(TokenTypeRefresh, profileID, "", role, s.refreshSecret, s.refreshExpiresIn)
}

func (s *HMACService) ValidateAccessToken(tokenString string) (Claims, error) {
	c, err := s.validateWithSecret(tokenString, s.accessSecret)
	if err != nil {
		return Claims{}, err
	}
	if c.TokenType != TokenTypeAccess {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

func (s *HMACService) ValidateRefreshToken(tokenString string) (Claims, error) {
	c, err := s.validateWithSecret(tokenString, s.refreshSecret)
	if err != nil {
		return Claims{}, err
	}
	if c.TokenType != TokenTypeRefresh {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

func (s *HMACService) generate(tokenType string, profileID uuid.UUID, email string, role org.Role, secret []byte, expIn time.Duration) (string, error) {
	if len(secret) == 0 || expIn <= 0 {
		return "", ErrTokenInvalid
	}

	now := s.now().UTC()
	c := Claims{
		ProfileID: profileID,
		Email:     email,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(expIn)),
			Subject:   profileID.String(),
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(secret)
}

func (s *HMACService) validateWithSecret(tokenString string, secret []byte) (Claims, error) {
	p := jwtlib.NewParser(jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if !c.Role.Valid() {
		return Claims{}, ErrTokenInvalid
	}

	return c, nil
}
