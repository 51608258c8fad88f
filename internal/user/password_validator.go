package user

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	PasswordMinimumLength = 8
	PasswordMaximumLength = 16
)

var (
	ErrPasswordTooShort = fmt.Errorf("password should be at least %d characters", PasswordMinimumLength)
	ErrPasswordTooLong  = fmt.Errorf("password should be at most %d characters", PasswordMaximumLength)
	ErrPasswordBlank    = errors.New("password must not be blank")
)

func CheckPassword(password string) error {
	if !checkNotBlank(password) {
		return ErrPasswordBlank
	}
	n := utf8.RuneCountInString(password)
	if n < PasswordMinimumLength {
		return ErrPasswordTooShort
	}
	if n > PasswordMaximumLength {
		return ErrPasswordTooLong
	}
	return nil
}

func checkNotBlank(password string) bool {
	for _, c := range password {
		if c != ' ' && c != '\t' && c != '\n' {
			return true
		}
	}
	return false
}
