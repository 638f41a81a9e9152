// Package auth implements credential authorization, profile bootstrapping,
// session issuance, and the sign-up/sign-in/reset/update orchestrations.
package auth

import (
	"fmt"
	"regexp"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// User-facing validation and authorization messages. Sign-in failures share
// one message regardless of cause (anti-enumeration).
const (
	MsgEmailRequired            = "Email is required"
	MsgPasswordRequired         = "Password is required"
	MsgEmailAndPasswordRequired = "Email and password are required"
	MsgPasswordsDoNotMatch      = "Passwords do not match"
	MsgInvalidCredentials       = "Invalid email or password"
	MsgEmailAlreadyRegistered   = "Email already registered"
	MsgGenericError             = "An error occurred"
)

// MsgPasswordTooShort is the minimum-length validation message.
var MsgPasswordTooShort = fmt.Sprintf("Password must be at least %d characters", MinPasswordLength)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmailAndPassword checks that both fields are present.
// Returns an error message string, or "" when valid.
func ValidateEmailAndPassword(email, password string) string {
	if email == "" || password == "" {
		return MsgEmailAndPasswordRequired
	}
	return ""
}

// ValidateEmail checks that the email is present and plausibly formed.
func ValidateEmail(email string) string {
	if email == "" {
		return MsgEmailRequired
	}
	if len(email) > 254 || !emailRegex.MatchString(email) {
		return "Invalid email format"
	}
	return ""
}

// ValidatePasswordLength enforces the minimum length policy.
func ValidatePasswordLength(password string) string {
	if len(password) < MinPasswordLength {
		return MsgPasswordTooShort
	}
	return ""
}

// ValidatePasswordUpdate validates a new password with its confirmation:
// presence, minimum length, and equality, in that order.
func ValidatePasswordUpdate(password, confirmPassword string) string {
	if password == "" || confirmPassword == "" {
		return MsgPasswordRequired
	}
	if msg := ValidatePasswordLength(password); msg != "" {
		return msg
	}
	if password != confirmPassword {
		return MsgPasswordsDoNotMatch
	}
	return ""
}
