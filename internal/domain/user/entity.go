package user

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
	RoleAdmin     Role = "admin"
)

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	switch r {
	case RoleCandidate, RoleEmployer, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanPostJobs reports whether the role may publish postings.
func (r Role) CanPostJobs() bool {
	return r == RoleEmployer || r == RoleAdmin
}

type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Avatar    string     `json:"avatar,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Patch is a partial update of a User. Nil fields are left untouched.
type Patch struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Role   *Role   `json:"role,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

func (u User) Apply(p Patch) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	return u
}

// Account is the server-side record behind a User.
type Account struct {
	User
	PasswordHash string `json:"-"`
}
