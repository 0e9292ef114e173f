package domain

import (
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role represents the access level of an account.
type Role string

const (
	RoleUser      Role = "user"
	RolePublisher Role = "publisher"
	RoleAdmin     Role = "admin"
)

// SelfAssignable reports whether a role may be chosen at registration time.
// Admin accounts are only created through the administrative surface.
func (r Role) SelfAssignable() bool {
	return r == RoleUser || r == RolePublisher
}

// Valid reports whether the role belongs to the known set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RolePublisher || r == RoleAdmin
}

const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Account is an authenticated identity in the directory.
//
// PasswordHash is excluded from repository reads unless the caller asks for
// credentials explicitly, and is never serialized to JSON. ResetTokenHash and
// ResetExpiresAt are either both set or both unset.
type Account struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	PasswordHash   string    `json:"-"`
	ResetTokenHash string    `json:"-"`
	ResetExpiresAt time.Time `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SetPassword hashes plaintext with a fresh per-record salt and stores the
// result on the account. Hashing happens here and nowhere else; there is no
// implicit persistence hook.
func (a *Account) SetPassword(plaintext string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hash)
	return nil
}

// MatchPassword reports whether plaintext matches the stored hash. Always
// false when no hash was loaded.
func (a *Account) MatchPassword(plaintext string) bool {
	if a.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(plaintext)) == nil
}
