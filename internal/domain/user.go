package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Permission codes checked by privileged operations.
const (
	PermRSVPsRead    = "rsvps:read"
	PermEventsDelete = "events:delete"
)

// RoleAdmin holders pass every permission check.
const RoleAdmin = "admin"

// User represents a registered account
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is typically set by the repository on create.
func NewUser(email, name, lastName, passwordHash, salt string, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:        email,
		Name:         name,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Role represents an application role (e.g. admin, member)
type Role struct {
	ID   string `json:"id"`
	Code string `json:"code"`
}

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated identity.
// The email is the account email embedded at issue time, not a contact
// address supplied by a client.
type TokenVerifier interface {
	Verify(token string) (userID, email string, err error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	AssignRole(ctx context.Context, userID, roleID string) error
}

// RoleRepository defines the interface for role and permission storage
type RoleRepository interface {
	GetByCode(ctx context.Context, code string) (*Role, error)
	ListByUserID(ctx context.Context, userID string) ([]*Role, error)
	// ListPermissionsByUserID returns the permission codes granted to the
	// user through any of their roles.
	ListPermissionsByUserID(ctx context.Context, userID string) ([]string, error)
}

// Authorizer answers permission checks for privileged operations. Admins are
// allowed everything; otherwise the permission code must be granted through a
// role.
type Authorizer interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
	HasPermission(ctx context.Context, userID, permission string) (bool, error)
}

// UserService defines the business logic for signup, login, and profiles.
type UserService interface {
	SignUp(ctx context.Context, email, password, name, lastName string) (token string, user *User, err error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
	GetByID(ctx context.Context, id string) (*User, error)
}
