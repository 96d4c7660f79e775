package auth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/pkg/validate"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrInternal               = errors.New("internal error")
)

type RegisterInput struct {
	Name     string    `json:"name" validate:"required"`
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required,min=8"`
	Role     user.Role `json:"role" validate:"required,oneof=candidate employer"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is what a successful sign-in hands back to the caller.
type Session struct {
	User         user.User `json:"user"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
}

type Tokens struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (Session, error)
	Login(ctx context.Context, in LoginInput) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Tokens, error)
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type Service struct {
	users     user.Repository
	tokens    jwt.Service
	validator *validate.Validator
	logger    *log.Logger
	now       func() time.Time
}

func NewService(users user.Repository, tokens jwt.Service, v *validate.Validator, logger *log.Logger) *Service {
	if v == nil {
		v = validate.New()
	}
	return &Service{users: users, tokens: tokens, validator: v, logger: logger, now: time.Now}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return Session{}, errors.Join(ErrInvalidInput, err)
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return Session{}, ErrEmailAlreadyRegistered
	} else if !errors.Is(err, user.ErrNotFound) {
		return Session{}, ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, ErrInternal
	}

	now := s.now().UTC()
	a := user.Account{
		User: user.User{
			ID:        uuid.NewString(),
			Name:      in.Name,
			Email:     in.Email,
			Role:      in.Role,
			CreatedAt: &now,
			UpdatedAt: &now,
		},
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, a); err != nil {
		if errors.Is(err, user.ErrEmailInUse) {
			return Session{}, ErrEmailAlreadyRegistered
		}
		return Session{}, ErrInternal
	}
	s.logf("[Auth] Registered user_id=%s role=%s", a.ID, a.Role)
	return s.issue(a.User)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Session{}, ErrInvalidCredentials
	}

	a, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, ErrInternal
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(in.Password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(a.User)
}

// Refresh exchanges a refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	claims, err := s.tokens.ValidateToken(strings.TrimSpace(refreshToken))
	if err != nil || !s.tokens.IsRefreshToken(claims) {
		return Tokens{}, ErrInvalidToken
	}
	a, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Tokens{}, ErrInvalidToken
		}
		return Tokens{}, ErrInternal
	}
	sess, err := s.issue(a.User)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{Token: sess.Token, RefreshToken: sess.RefreshToken}, nil
}

// RequestPasswordReset issues a reset token for a known email. An unknown
// email yields an empty token and no error so callers cannot probe accounts.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", ErrInvalidInput
	}
	a, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.logf("[Auth] Password reset requested for unknown email")
			return "", nil
		}
		return "", ErrInternal
	}
	tok, err := s.tokens.GenerateResetToken(jwt.Subject{UserID: a.ID, Email: a.Email})
	if err != nil {
		return "", ErrInternal
	}
	s.logf("[Auth] Password reset issued user_id=%s", a.ID)
	return tok, nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(strings.TrimSpace(newPassword)) < 8 {
		return ErrInvalidInput
	}
	claims, err := s.tokens.ValidateToken(strings.TrimSpace(token))
	if err != nil || claims.TokenType != jwt.TokenTypeReset {
		return ErrInvalidToken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrInternal
	}
	if err := s.users.UpdatePasswordHash(ctx, claims.UserID, string(hash)); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidToken
		}
		return ErrInternal
	}
	s.logf("[Auth] Password reset user_id=%s", claims.UserID)
	return nil
}

func (s *Service) issue(u user.User) (Session, error) {
	sub := jwt.Subject{UserID: u.ID, Email: u.Email, Role: string(u.Role)}
	access, err := s.tokens.GenerateAccessToken(sub)
	if err != nil {
		return Session{}, ErrInternal
	}
	refresh, err := s.tokens.GenerateRefreshToken(sub)
	if err != nil {
		return Session{}, ErrInternal
	}
	return Session{User: u, Token: access, RefreshToken: refresh}, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
