// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode/utf8"

	"warbler/internal/models"
)

// Field bounds mirror the signup and profile-edit forms.
const (
	MaxUsernameLength = 20
	MinPasswordLength = 6
	MaxPasswordLength = 20
	MaxEmailLength    = 254
	MaxLocationLength = 20
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLength)
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must not exceed %d characters", MaxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword checks if a password meets length requirements.
// An empty password is rejected separately by the auth service before
// any other validation runs.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	}
	return nil
}

// ValidateImageURL checks an optional image URL field. Empty is fine; a
// non-empty value must parse as an absolute http(s) URL or an absolute path.
func ValidateImageURL(raw string) error {
	if raw == "" {
		return nil
	}
	if raw[0] == '/' {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid image URL")
	}
	return nil
}

// ValidateLocation checks the optional location field length.
func ValidateLocation(location string) error {
	if utf8.RuneCountInString(location) > MaxLocationLength {
		return fmt.Errorf("location must not exceed %d characters", MaxLocationLength)
	}
	return nil
}

// ValidateMessageText enforces the 1-140 character warble contract.
func ValidateMessageText(text string) error {
	if text == "" {
		return fmt.Errorf("text is required")
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		return fmt.Errorf("text must not exceed %d characters", models.MaxMessageLength)
	}
	return nil
}
