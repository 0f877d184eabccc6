package utils

import (
	"errors"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

var (
	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// ValidatePasswordStrong requires at least 8 characters with a lowercase
// letter, an uppercase letter, a digit and a special character.
func ValidatePasswordStrong(pw string) error {
	if len(pw) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if !lowerRe.MatchString(pw) {
		return errors.New("password must contain a lowercase letter (a-z)")
	}
	if !upperRe.MatchString(pw) {
		return errors.New("password must contain an uppercase letter (A-Z)")
	}
	if !digitRe.MatchString(pw) {
		return errors.New("password must contain a digit (0-9)")
	}
	if !specialRe.MatchString(pw) {
		return errors.New("password must contain a special character (e.g. !@#)")
	}
	return nil
}
