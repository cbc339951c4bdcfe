package domain

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin     = "admin"
	RoleUser      = "user"
	RoleModerator = "moderator"
)

var ErrEmailTaken = errors.New("email already registered")
var ErrUsernameTaken = errors.New("username already taken")
var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrAccountDeactivated = errors.New("account is deactivated")
var ErrInvalidRefreshToken = errors.New("invalid refresh token")
var ErrInvalidVerificationToken = errors.New("invalid verification token")
var ErrIncorrectPassword = errors.New("current password is incorrect")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidRole = errors.New("invalid role")

// ValidRole reports whether role is one of the enumerated user roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser || role == RoleModerator
}

// User models an account. PasswordHash is never serialized in API responses;
// repository reads exclude it unless a credential lookup is requested
// explicitly.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	FirstName    string     `json:"first_name,omitempty"`
	LastName     string     `json:"last_name,omitempty"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ComparePassword reports whether plain matches the stored hash.
func (u *User) ComparePassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}
