// Package auth verifies login credentials and maps them to a role.
//
// Authentication here only selects which client view to show. Nothing issues
// sessions or tokens, and roles are not re-checked on later requests.
// Handlers depend on the Authenticator interface so a real identity provider
// can replace the static table without touching transport code.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Role is the dashboard a user is routed to after login.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// ErrUnauthorized is returned for any unknown username or wrong password.
var ErrUnauthorized = errors.New("invalid credentials")

// Authenticator checks a username/password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Role, error)
}

// Credential is one static login entry.
type Credential struct {
	Username string
	Password string
	Role     Role
}

// DefaultCredentials are the two built-in accounts.
func DefaultCredentials() []Credential {
	return []Credential{
		{Username: "doctor", Password: "doctor", Role: RoleDoctor},
		{Username: "patient", Password: "patient", Role: RolePatient},
	}
}

type entry struct {
	hash []byte
	role Role
}

// StaticAuthenticator holds a fixed credential table. Passwords are kept only
// as bcrypt hashes.
type StaticAuthenticator struct {
	entries map[string]entry
	dummy   []byte
}

var _ Authenticator = (*StaticAuthenticator)(nil)

// NewStaticAuthenticator hashes creds with the given bcrypt cost. Cost values
// outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewStaticAuthenticator(creds []Credential, cost int) (*StaticAuthenticator, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	a := &StaticAuthenticator{entries: make(map[string]entry, len(creds))}
	for _, c := range creds {
		if c.Username == "" || c.Role == "" {
			return nil, fmt.Errorf("auth: credential needs username and role")
		}
		if _, dup := a.entries[c.Username]; dup {
			return nil, fmt.Errorf("auth: duplicate username %q", c.Username)
		}
		h, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("auth: hash %q: %w", c.Username, err)
		}
		a.entries[c.Username] = entry{hash: h, role: c.Role}
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash dummy: %w", err)
	}
	a.dummy = dummy
	return a, nil
}

// Authenticate returns the role for a matching pair or ErrUnauthorized.
// Unknown usernames still pay for one bcrypt comparison.
func (a *StaticAuthenticator) Authenticate(ctx context.Context, username, password string) (Role, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	e, ok := a.entries[username]
	hash := e.hash
	if !ok {
		hash = a.dummy
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil || !ok {
		return "", ErrUnauthorized
	}
	return e.role, nil
}
