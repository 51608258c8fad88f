package utils

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type signupForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=16"`
	Role     string `validate:"omitempty,oneof=SYSTEM CUSTOMER ADMIN"`
}

func TestValidationMessages(t *testing.T) {
	err := validator.New().Struct(signupForm{Email: "nope", Password: "short", Role: "ROOT"})
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	got := ValidationMessages(err)
	want := map[string]string{
		"email":    "must be a valid email address",
		"password": "must be at least 8 characters",
		"role":     "must be one of: SYSTEM CUSTOMER ADMIN",
	}
	for field, msg := range want {
		if got[field] != msg {
			t.Errorf("field %q = %q, want %q", field, got[field], msg)
		}
	}
}

func TestValidationMessages_Required(t *testing.T) {
	err := validator.New().Struct(signupForm{})
	got := ValidationMessages(err)
	if got["email"] != "is required" || got["password"] != "is required" {
		t.Errorf("ValidationMessages() = %v", got)
	}
}

func TestValidationMessages_OtherErrors(t *testing.T) {
	if got := ValidationMessages(errors.New("unexpected EOF")); got != nil {
		t.Errorf("ValidationMessages(non-validation) = %v, want nil", got)
	}
}
