// Package session owns the client's authenticated identity.
//
//	anonymous ──login/register──► authenticating ──ok──► authenticated
//	    ▲                               │                     │
//	    └────────── failure (Error set) ┘                     │
//	    └──────────────────────── logout ─────────────────────┘
//
// Concurrent submissions are not serialized: whichever resolves last decides
// the final state, unless WithSingleFlight is set.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/persistence"
)

var ErrNoClient = errors.New("no auth client configured")

type Credentials struct {
	User         user.User `json:"user"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken"`
}

type Tokens struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type RegisterInput struct {
	Name     string    `json:"name" validate:"required"`
	Email    string    `json:"email" validate:"required,email"`
	Password string    `json:"password" validate:"required,min=8"`
	Role     user.Role `json:"role" validate:"required,oneof=candidate employer"`
}

// Client is the network collaborator for identity.
type Client interface {
	Login(ctx context.Context, email, password string) (Credentials, error)
	Register(ctx context.Context, in RegisterInput) (Credentials, error)
	Refresh(ctx context.Context, refreshToken string) (Tokens, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// State is a snapshot of the session. An empty Token means no credential.
type State struct {
	User            *user.User `json:"user"`
	Token           string     `json:"token"`
	RefreshToken    string     `json:"refreshToken"`
	IsAuthenticated bool       `json:"isAuthenticated"`
	IsLoading       bool       `json:"isLoading"`
	Error           *AuthError `json:"error"`
}

// Persisted is the subset written to storage. Loading flags and errors are
// never persisted.
type Persisted struct {
	User            *user.User `json:"user"`
	Token           string     `json:"token"`
	RefreshToken    string     `json:"refreshToken"`
	IsAuthenticated bool       `json:"isAuthenticated"`
}

type Listener func(State)

type Store struct {
	mu    sync.Mutex
	state State

	client  Client
	storage persistence.Storage[Persisted]
	logger  *log.Logger

	singleFlight bool
	group        singleflight.Group

	listenerMu sync.RWMutex
	listeners  map[int]Listener
	nextID     int
}

type Option func(*Store)

func WithClient(c Client) Option { return func(s *Store) { s.client = c } }

func WithStorage(st persistence.Storage[Persisted]) Option {
	return func(s *Store) { s.storage = st }
}

func WithLogger(l *log.Logger) Option { return func(s *Store) { s.logger = l } }

// WithSingleFlight collapses concurrent identical submissions (same
// operation, same email) into one collaborator call.
func WithSingleFlight() Option { return func(s *Store) { s.singleFlight = true } }

func New(opts ...Option) *Store {
	s := &Store{listeners: make(map[int]Listener)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Subscribe(fn Listener) func() {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

// Login authenticates against the client. On failure the previous identity
// is left as it was and the returned error is also stored in State.Error.
func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.run(submissionKey("login", email, password), func() error {
		s.begin(true)
		if s.client == nil {
			return s.fail(translate(ErrInvalidCredentials, ErrNoClient))
		}
		creds, err := s.client.Login(ctx, email, password)
		if err == nil && creds.Token == "" {
			err = errors.New("empty token")
		}
		if err != nil {
			s.logf("[Auth] Login failed email=%s err=%v", email, err)
			return s.fail(translate(ErrInvalidCredentials, err))
		}
		s.authenticate(creds)
		s.logf("[Auth] Login ok user_id=%s", creds.User.ID)
		return nil
	})
}

// Register creates an account and signs it in. The resulting user always
// carries the requested role.
func (s *Store) Register(ctx context.Context, in RegisterInput) error {
	return s.run(submissionKey("register", in.Name, in.Email, in.Password, string(in.Role)), func() error {
		s.begin(true)
		if s.client == nil {
			return s.fail(translate(ErrRegistrationFailed, ErrNoClient))
		}
		creds, err := s.client.Register(ctx, in)
		if err == nil && creds.Token == "" {
			err = errors.New("empty token")
		}
		if err != nil {
			s.logf("[Auth] Register failed email=%s err=%v", in.Email, err)
			return s.fail(translate(ErrRegistrationFailed, err))
		}
		creds.User.Role = in.Role
		s.authenticate(creds)
		s.logf("[Auth] Register ok user_id=%s role=%s", creds.User.ID, in.Role)
		return nil
	})
}

// Logout clears the identity. Loading and error state are left alone and an
// in-flight login is not cancelled.
func (s *Store) Logout() State {
	return s.update(func(st *State) {
		st.User = nil
		st.Token = ""
		st.RefreshToken = ""
		st.IsAuthenticated = false
	})
}

// RefreshAuthToken exchanges the refresh token for a new access token. The
// previous error is not cleared first.
func (s *Store) RefreshAuthToken(ctx context.Context) error {
	return s.run("refresh", func() error {
		s.begin(false)
		rt := s.Snapshot().RefreshToken
		if rt == "" {
			return s.fail(translate(ErrSessionExpired, errors.New("no refresh token")))
		}
		if s.client == nil {
			return s.fail(translate(ErrSessionExpired, ErrNoClient))
		}
		toks, err := s.client.Refresh(ctx, rt)
		if err == nil && toks.Token == "" {
			err = errors.New("empty token")
		}
		if err != nil {
			s.logf("[Auth] Refresh failed err=%v", err)
			return s.fail(translate(ErrSessionExpired, err))
		}
		s.update(func(st *State) {
			st.Token = toks.Token
			if toks.RefreshToken != "" {
				st.RefreshToken = toks.RefreshToken
			}
			st.IsAuthenticated = st.User != nil && st.Token != ""
			st.IsLoading = false
		})
		return nil
	})
}

func (s *Store) RequestPasswordReset(ctx context.Context, email string) error {
	return s.run("forgot:"+email, func() error {
		s.begin(true)
		if s.client == nil {
			return s.fail(translate(ErrPasswordResetRequestFailed, ErrNoClient))
		}
		if err := s.client.RequestPasswordReset(ctx, email); err != nil {
			s.logf("[Auth] Password reset request failed email=%s err=%v", email, err)
			return s.fail(translate(ErrPasswordResetRequestFailed, err))
		}
		s.update(func(st *State) { st.IsLoading = false })
		return nil
	})
}

func (s *Store) ResetPassword(ctx context.Context, token, newPassword string) error {
	return s.run("reset:"+token, func() error {
		s.begin(true)
		if s.client == nil {
			return s.fail(translate(ErrPasswordResetFailed, ErrNoClient))
		}
		if err := s.client.ResetPassword(ctx, token, newPassword); err != nil {
			s.logf("[Auth] Password reset failed err=%v", err)
			return s.fail(translate(ErrPasswordResetFailed, err))
		}
		s.update(func(st *State) { st.IsLoading = false })
		return nil
	})
}

// UpdateUser merges p into the current user. Without a user it does nothing.
func (s *Store) UpdateUser(p user.Patch) State {
	return s.update(func(st *State) {
		if st.User == nil {
			return
		}
		u := st.User.Apply(p)
		st.User = &u
	})
}

func (s *Store) SetLoading(loading bool) State {
	return s.update(func(st *State) { st.IsLoading = loading })
}

func (s *Store) SetError(err *AuthError) State {
	return s.update(func(st *State) { st.Error = err.clone() })
}

// Restore loads the persisted session. IsAuthenticated is recomputed from
// the restored user and token.
func (s *Store) Restore(ctx context.Context) (State, error) {
	if s.storage == nil {
		return s.Snapshot(), nil
	}
	p, ok, err := s.storage.Load(ctx)
	if err != nil {
		s.logf("[Persist] Auth restore error err=%v", err)
		return s.Snapshot(), err
	}
	if !ok {
		return s.Snapshot(), nil
	}

	s.mu.Lock()
	s.state.User = copyUser(p.User)
	s.state.Token = p.Token
	s.state.RefreshToken = p.RefreshToken
	s.state.IsAuthenticated = p.User != nil && p.Token != ""
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.logf("[Persist] Auth restored authenticated=%t", snap.IsAuthenticated)
	s.notify(snap)
	return snap, nil
}

func (s *Store) run(key string, fn func() error) error {
	if !s.singleFlight {
		return fn()
	}
	_, err, _ := s.group.Do(key, func() (any, error) {
		return nil, fn()
	})
	return err
}

// submissionKey identifies a submit by every field it carries. Secrets are
// hashed so they never sit in the group's key map.
func submissionKey(op string, fields ...string) string {
	h := sha256.New()
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return op + ":" + hex.EncodeToString(h.Sum(nil))
}

func (s *Store) begin(clearError bool) {
	s.update(func(st *State) {
		st.IsLoading = true
		if clearError {
			st.Error = nil
		}
	})
}

func (s *Store) fail(ae *AuthError) error {
	s.update(func(st *State) {
		st.Error = ae
		st.IsLoading = false
	})
	return ae
}

func (s *Store) authenticate(c Credentials) {
	u := c.User
	s.update(func(st *State) {
		st.User = &u
		st.Token = c.Token
		st.RefreshToken = c.RefreshToken
		st.IsAuthenticated = true
		st.IsLoading = false
	})
}

func (s *Store) update(fn func(st *State)) State {
	s.mu.Lock()
	fn(&s.state)
	snap := s.snapshotLocked()
	s.persistLocked()
	s.mu.Unlock()

	s.notify(snap)
	return snap
}

func (s *Store) persistLocked() {
	if s.storage == nil {
		return
	}
	p := Persisted{
		User:            copyUser(s.state.User),
		Token:           s.state.Token,
		RefreshToken:    s.state.RefreshToken,
		IsAuthenticated: s.state.IsAuthenticated,
	}
	if err := s.storage.Save(context.Background(), p); err != nil {
		s.logf("[Persist] Auth save error err=%v", err)
	}
}

func (s *Store) notify(snap State) {
	s.listenerMu.RLock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.listenerMu.RUnlock()

	for _, l := range ls {
		l(snap)
	}
}

func (s *Store) snapshotLocked() State {
	st := s.state
	st.User = copyUser(s.state.User)
	st.Error = s.state.Error.clone()
	return st
}

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

func copyUser(u *user.User) *user.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
