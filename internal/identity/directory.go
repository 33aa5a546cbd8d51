// Package identity maintains the user directory and the persisted session
// pointer. Authentication is a directory lookup: the password is accepted on
// signup and login but never stored or compared. The Directory interface
// boundary exists so a real credential check can replace this later without
// touching callers.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"opengov/api/internal/kv"
	"opengov/api/internal/util"
)

type Role string

const (
	RoleCitizen   Role = "citizen"
	RoleAuthority Role = "authority"
)

// ValidRole reports whether role is one of the two supported roles.
func ValidRole(role Role) bool {
	return role == RoleCitizen || role == RoleAuthority
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrDuplicateUser      = errors.New("identity: user already exists")
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrInvalidInput       = errors.New("identity: invalid input")
)

const (
	usersKey   = "users"
	sessionKey = "session"
)

// Directory is the user registry plus the single current-session pointer.
// The users collection is read-modify-written whole under one key; the mutex
// serializes writers within this process only.
type Directory struct {
	store kv.Store
	mu    sync.Mutex
	now   func() time.Time
}

func NewDirectory(store kv.Store) *Directory {
	return &Directory{store: store, now: time.Now}
}

// Signup registers a new user and establishes it as the current session.
// The password is accepted for interface compatibility and discarded.
func (d *Directory) Signup(ctx context.Context, email, password, name string, role Role) (User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if name == "" {
		return User{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !ValidRole(role) {
		return User{}, fmt.Errorf("%w: role must be citizen or authority", ErrInvalidInput)
	}
	_ = password

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadUsers(ctx)
	if err != nil {
		return User{}, err
	}
	for _, existing := range users {
		if existing.Email == email {
			return User{}, ErrDuplicateUser
		}
	}

	user := User{
		ID:        util.NewID("usr"),
		Email:     email,
		Name:      name,
		Role:      role,
		CreatedAt: d.now().UTC(),
	}
	users = append(users, user)

	if err := d.saveUsers(ctx, users); err != nil {
		return User{}, err
	}
	if err := d.writeSession(ctx, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login looks up a user by email and role. No password comparison happens;
// the directory mirrors the original mock lookup.
func (d *Directory) Login(ctx context.Context, email, password string, role Role) (User, error) {
	email = strings.TrimSpace(email)
	_ = password

	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.loadUsers(ctx)
	if err != nil {
		return User{}, err
	}
	for _, user := range users {
		if user.Email == email && user.Role == role {
			if err := d.writeSession(ctx, &user); err != nil {
				return User{}, err
			}
			return user, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// Logout clears the session pointer. Idempotent.
func (d *Directory) Logout(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeSession(ctx, nil)
}

// CurrentSession returns the persisted session user, or nil when nobody is
// logged in. The pointer survives process restarts.
func (d *Directory) CurrentSession(ctx context.Context) (*User, error) {
	raw, ok, err := d.store.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var user *User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return user, nil
}

func (d *Directory) loadUsers(ctx context.Context) ([]User, error) {
	raw, ok, err := d.store.Get(ctx, usersKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var users []User
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (d *Directory) saveUsers(ctx context.Context, users []User) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return d.store.Set(ctx, usersKey, raw)
}

// writeSession persists user under the session key; nil writes JSON null so
// a cleared session is distinguishable from a never-written one only by the
// stored value, matching the original app's storage layout.
func (d *Directory) writeSession(ctx context.Context, user *User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return d.store.Set(ctx, sessionKey, raw)
}
