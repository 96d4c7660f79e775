package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
	TokenTypeReset   = "reset"
)

const resetExpiresIn = 15 * time.Minute

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type Claims struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	TokenType string `json:"token_type"`

	jwtlib.RegisteredClaims
}

// Subject is the identity a token is issued for.
type Subject struct {
	UserID string
	Email  string
	Role   string
}

type Service interface {
	GenerateAccessToken(sub Subject) (string, error)
	GenerateRefreshToken(sub Subject) (string, error)
	GenerateResetToken(sub Subject) (string, error)
	ValidateToken(tokenString string) (Claims, error)
	IsRefreshToken(claims Claims) bool
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

// WithClock replaces the time source.
func (s *HMACService) WithClock(now func() time.Time) *HMACService {
	s.now = now
	return s
}

func (s *HMACService) GenerateAccessToken(sub Subject) (string, error) {
	return s.generate(TokenTypeAccess, sub)
}

func (s *HMACService) GenerateRefreshToken(sub Subject) (string, error) {
	return s.generate(TokenTypeRefresh, Subject{UserID: sub.UserID})
}

// GenerateResetToken issues a short-lived token for a password reset. It is
// signed with the refresh secret.
func (s *HMACService) GenerateResetToken(sub Subject) (string, error) {
	return s.generate(TokenTypeReset, Subject{UserID: sub.UserID, Email: sub.Email})
}

func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	var lastErr error

	claims, err := s.validateWithSecret(tokenString, s.accessSecret)
	if err == nil {
		return claims, nil
	}
	lastErr = err

	claims, err = s.validateWithSecret(tokenString, s.refreshSecret)
	if err == nil {
		return claims, nil
	}

	if errors.Is(lastErr, ErrTokenExpired) || errors.Is(err, ErrTokenExpired) {
		return Claims{}, ErrTokenExpired
	}
	return Claims{}, ErrTokenInvalid
}

func (s *HMACService) IsRefreshToken(claims Claims) bool {
	return claims.TokenType == TokenTypeRefresh
}

func (s *HMACService) generate(tokenType string, sub Subject) (string, error) {
	if sub.UserID == "" {
		return "", ErrTokenInvalid
	}
	now := s.now().UTC()
	secret, expIn, err := s.secretAndExpiry(tokenType)
	if err != nil {
		return "", err
	}

	c := Claims{
		UserID:    sub.UserID,
		Email:     sub.Email,
		Role:      sub.Role,
		TokenType: tokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(expIn)),
			Subject:   sub.UserID,
		},
	}

	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(secret)
}

func (s *HMACService) validateWithSecret(tokenString string, secret []byte) (Claims, error) {
	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithTimeFunc(s.now),
	)

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

	switch c.TokenType {
	case TokenTypeAccess, TokenTypeRefresh, TokenTypeReset:
	default:
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

func (s *HMACService) secretAndExpiry(tokenType string) ([]byte, time.Duration, error) {
	switch tokenType {
	case TokenTypeAccess:
		if len(s.accessSecret) == 0 || s.accessExpiresIn <= 0 {
			return nil, 0, ErrTokenInvalid
		}
		return s.accessSecret, s.accessExpiresIn, nil
	case TokenTypeRefresh:
		if len(s.refreshSecret) == 0 || s.refreshExpiresIn <= 0 {
			return nil, 0, ErrTokenInvalid
		}
		return s.refreshSecret, s.refreshExpiresIn, nil
	case TokenTypeReset:
		if len(s.refreshSecret) == 0 {
			return nil, 0, ErrTokenInvalid
		}
		return s.refreshSecret, resetExpiresIn, nil
	default:
		return nil, 0, ErrTokenInvalid
	}
}
