package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	NameMinLen        = 2
	NameMaxLen        = 50
	StoredPasswordMin = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type User struct {
	ID           string
	Name         string
	Email        string // lowercase
	PasswordHash string // argon2id PHC string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Normalize trims the name and trims and lowercases the email.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
}

// Validate enforces the stored shape of a user. It runs after request
// validation, immediately before every write.
func (u User) Validate() error {
	switch n := utf8.RuneCountInString(u.Name); {
	case n == 0:
		return Validation("Name is required")
	case n < NameMinLen:
		return Validation("Name must be at least 2 characters")
	case n > NameMaxLen:
		return Validation("Name cannot exceed 50 characters")
	}
	switch {
	case u.Email == "":
		return Validation("Email is required")
	case !ValidEmail(u.Email):
		return Validation("Please provide a valid email")
	}
	if u.PasswordHash == "" {
		return Validation("Password is required")
	}
	return nil
}

// ValidateStoredPassword is the storage model's own password rule, checked
// on the raw password right before it is hashed.
func ValidateStoredPassword(raw string) error {
	switch {
	case raw == "":
		return Validation("Password is required")
	case utf8.RuneCountInString(raw) < StoredPasswordMin:
		return Validation("Password must be at least 6 characters")
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}
