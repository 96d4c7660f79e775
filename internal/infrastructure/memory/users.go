package memory

import (
	"context"
	"strings"
	"sync"

	"jobboard/internal/domain/user"
)

// Users indexes accounts by id and by lower-cased email.
type Users struct {
	mu      sync.RWMutex
	byID    map[string]user.Account
	byEmail map[string]string
}

func NewUsers() *Users {
	return &Users{
		byID:    make(map[string]user.Account),
		byEmail: make(map[string]string),
	}
}

func (u *Users) Create(_ context.Context, a user.Account) error {
	email := strings.ToLower(strings.TrimSpace(a.Email))
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.byEmail[email]; ok {
		return user.ErrEmailInUse
	}
	a.Email = email
	u.byID[a.ID] = a
	u.byEmail[email] = a.ID
	return nil
}

func (u *Users) GetByID(_ context.Context, id string) (user.Account, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	a, ok := u.byID[id]
	if !ok {
		return user.Account{}, user.ErrNotFound
	}
	return a, nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (user.Account, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	id, ok := u.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return user.Account{}, user.ErrNotFound
	}
	return u.byID[id], nil
}

func (u *Users) UpdatePasswordHash(_ context.Context, id, hash string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	a, ok := u.byID[id]
	if !ok {
		return user.ErrNotFound
	}
	a.PasswordHash = hash
	u.byID[id] = a
	return nil
}

var _ user.Repository = (*Users)(nil)
