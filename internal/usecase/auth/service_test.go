package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/memory"
	"jobboard/internal/pkg/jwt"
)

func newTestService() *Service {
	tokens := jwt.NewHMACService("access", "refresh", time.Minute, time.Hour)
	return NewService(memory.NewUsers(), tokens, nil, nil)
}

func register(t *testing.T, s *Service, email string, role user.Role) Session {
	t.Helper()
	sess, err := s.Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)
	return sess
}

func TestService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	sess := register(t, s, " HR@Acme.io ", user.RoleEmployer)
	assert.Equal(t, "hr@acme.io", sess.User.Email)
	assert.Equal(t, user.RoleEmployer, sess.User.Role)
	assert.NotEmpty(t, sess.User.ID)
	assert.NotEmpty(t, sess.Token)
	assert.NotEmpty(t, sess.RefreshToken)

	got, err := s.Login(ctx, LoginInput{Email: "hr@acme.io", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, got.User.ID)

	_, err = s.Login(ctx, LoginInput{Email: "hr@acme.io", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, LoginInput{Email: "nobody@acme.io", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, LoginInput{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_RegisterRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	register(t, s, "a@b.com", user.RoleCandidate)

	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"duplicate", RegisterInput{Name: "x", Email: "A@b.com", Password: "password123", Role: user.RoleCandidate}, ErrEmailAlreadyRegistered},
		{"short password", RegisterInput{Name: "x", Email: "c@b.com", Password: "short", Role: user.RoleCandidate}, ErrInvalidInput},
		{"bad email", RegisterInput{Name: "x", Email: "not-an-email", Password: "password123", Role: user.RoleCandidate}, ErrInvalidInput},
		{"admin not self-service", RegisterInput{Name: "x", Email: "d@b.com", Password: "password123", Role: user.RoleAdmin}, ErrInvalidInput},
		{"missing name", RegisterInput{Email: "e@b.com", Password: "password123", Role: user.RoleCandidate}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	sess := register(t, s, "a@b.com", user.RoleCandidate)

	toks, err := s.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, toks.Token)
	assert.NotEmpty(t, toks.RefreshToken)

	_, err = s.Refresh(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = s.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	register(t, s, "a@b.com", user.RoleCandidate)

	tok, err := s.RequestPasswordReset(ctx, "a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	require.ErrorIs(t, s.ResetPassword(ctx, tok, "short"), ErrInvalidInput)
	require.NoError(t, s.ResetPassword(ctx, tok, "brand-new-password"))

	_, err = s.Login(ctx, LoginInput{Email: "a@b.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, LoginInput{Email: "a@b.com", Password: "brand-new-password"})
	assert.NoError(t, err)

	unknown, err := s.RequestPasswordReset(ctx, "ghost@b.com")
	require.NoError(t, err)
	assert.Empty(t, unknown)

	sess, err := s.Login(ctx, LoginInput{Email: "a@b.com", Password: "brand-new-password"})
	require.NoError(t, err)
	assert.ErrorIs(t, s.ResetPassword(ctx, sess.Token, "another-password"), ErrInvalidToken)
}
