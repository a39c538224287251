package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrInvalidName     = errors.New("invalid full name")
	ErrInvalidPassword = errors.New("invalid password")
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

func ValidatePhone(phone string) error {
	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func ValidateFullName(name string) error {
	if len(name) < 2 || len(name) > 100 {
		return ErrInvalidName
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}
