// Package validation provides field validators for account and post input.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ovaphlow/gophertalk/pkg/apperr"
)

const (
	MaxPostText  = 280
	MaxNameRunes = 30
	// MaxPasswordBytes is the most bcrypt will hash.
	MaxPasswordBytes = 72
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{5,30}$`)
	letterPattern   = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
	symbolPattern   = regexp.MustCompile(`[@$!%*?&]`)
)

// Username accepts 5-30 letters, digits or underscores, starting with a non-digit.
func Username(value string) error {
	if !usernamePattern.MatchString(value) {
		return apperr.Validation("user_name", "must be alphanumeric or underscore (5-30 characters)")
	}
	if value[0] >= '0' && value[0] <= '9' {
		return apperr.Validation("user_name", "must start with a letter")
	}
	return nil
}

// Password requires a letter, a digit and one of @$!%*?& within 5-30 characters.
func Password(value string) error {
	n := utf8.RuneCountInString(value)
	if n < 5 || n > 30 || strings.ContainsRune(value, '\n') {
		return apperr.Validation("password", "must be 5-30 characters")
	}
	if len(value) > MaxPasswordBytes {
		return apperr.Validation("password", "must be at most 72 bytes")
	}
	if !letterPattern.MatchString(value) || !digitPattern.MatchString(value) || !symbolPattern.MatchString(value) {
		return apperr.Validation("password", "must contain letter, number and special character")
	}
	return nil
}

// PasswordConfirm checks the confirmation field against the password.
func PasswordConfirm(password, confirm string) error {
	if password != confirm {
		return apperr.Validation("password_confirm", "passwords do not match")
	}
	return nil
}

// Name validates an optional person name. nil is accepted.
func Name(field string, value *string) error {
	if value == nil {
		return nil
	}
	n := utf8.RuneCountInString(*value)
	if n < 1 || n > MaxNameRunes {
		return apperr.Validation(field, "must be 1-30 characters")
	}
	for _, r := range *value {
		if !unicode.IsLetter(r) {
			return apperr.Validation(field, "only letters allowed")
		}
	}
	return nil
}

func PostText(value string) error {
	n := utf8.RuneCountInString(value)
	if n < 1 || n > MaxPostText {
		return apperr.Validation("text", "must be 1-280 characters")
	}
	return nil
}

// PositiveID rejects ids below 1.
func PositiveID(field string, id int64) error {
	if id < 1 {
		return apperr.Validation(field, "must be greater than or equal to 1")
	}
	return nil
}

// Page validates feed and listing pagination.
func Page(limit, offset int) error {
	if limit < 1 {
		return apperr.Validation("limit", "must be greater than or equal to 1")
	}
	if offset < 0 {
		return apperr.Validation("offset", "must be greater than or equal to 0")
	}
	return nil
}
