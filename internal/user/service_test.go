package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestService_Create(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "ada@example.com", "Ada", "password1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.Password == "password1" {
		t.Error("stored password should be a hash, not the plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password1")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if u.Role != Customer {
		t.Errorf("Role = %q, want CUSTOMER", u.Role)
	}
	if !u.IsActive {
		t.Error("new users should be active")
	}
}

func TestService_CreateRejects(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "taken@example.com", "Taken", "password1"); err != nil {
		t.Fatalf("seeding user: %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		want     error
	}{
		{"duplicate email", "taken@example.com", "password2", ErrEmailAlreadyExists},
		{"bad email", "not-an-email", "password1", ErrInvalidEmailFormat},
		{"short password", "short@example.com", "pw", ErrPasswordTooShort},
		{"long password", "long@example.com", strings.Repeat("x", 17), ErrPasswordTooLong},
		{"blank password", "blank@example.com", "          ", ErrPasswordBlank},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.email, "Name", tt.password); !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestService_FindByEmailAndID(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "ada@example.com", "Ada", "password1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	byEmail, err := svc.FindByEmail(ctx, "ada@example.com")
	if err != nil || byEmail.ID != created.ID {
		t.Errorf("FindByEmail() = %v, %v", byEmail, err)
	}
	byID, err := svc.FindByID(ctx, created.ID)
	if err != nil || byID.Email != created.Email {
		t.Errorf("FindByID() = %v, %v", byID, err)
	}
	if _, err := svc.FindByEmail(ctx, "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("FindByEmail(unknown) error = %v, want ErrUserNotFound", err)
	}
}

func TestService_UpdatePartial(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "ada@example.com", "Ada", "password1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	oldHash := u.Password

	updated, err := svc.Update(ctx, u.ID, UpdateFields{Name: ptr("Ada L."), Role: ptr(Admin)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Ada L." || updated.Role != Admin {
		t.Errorf("Update() = name %q role %q", updated.Name, updated.Role)
	}
	if updated.Email != "ada@example.com" || updated.Password != oldHash || !updated.IsActive {
		t.Error("fields absent from the update should be left untouched")
	}

	reloaded, err := svc.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if reloaded.Name != "Ada L." || reloaded.Role != Admin {
		t.Errorf("persisted = name %q role %q", reloaded.Name, reloaded.Role)
	}
}

func TestService_UpdatePasswordRehashes(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "ada@example.com", "Ada", "password1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.Update(ctx, u.ID, UpdateFields{Password: ptr("password2")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Password == "password2" {
		t.Fatal("updated password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("password2")); err != nil {
		t.Errorf("new hash does not verify: %v", err)
	}
}

func TestService_UpdateRejects(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "taken@example.com", "Taken", "password1"); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	u, err := svc.Create(ctx, "ada@example.com", "Ada", "password1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name   string
		id     string
		fields UpdateFields
		want   error
	}{
		{"unknown id", "00000000-0000-0000-0000-000000000000", UpdateFields{Name: ptr("x")}, ErrUserNotFound},
		{"bad role", u.ID, UpdateFields{Role: ptr(Role("ROOT"))}, ErrInvalidRole},
		{"bad email", u.ID, UpdateFields{Email: ptr("nope")}, ErrInvalidEmailFormat},
		{"taken email", u.ID, UpdateFields{Email: ptr("taken@example.com")}, ErrEmailAlreadyExists},
		{"short password", u.ID, UpdateFields{Password: ptr("pw")}, ErrPasswordTooShort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Update(ctx, tt.id, tt.fields); !errors.Is(err, tt.want) {
				t.Errorf("Update() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestService_DeactivateKeepsRow(t *testing.T) {
	svc, _ := testService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, "ada@example.com", "Ada", "password1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	deactivated, err := svc.Deactivate(ctx, u.ID)
	if err != nil {
		t.Fatalf("Deactivate() error = %v", err)
	}
	if deactivated.IsActive {
		t.Error("Deactivate() should return an inactive user")
	}

	got, err := svc.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("FindByID() after deactivate error = %v", err)
	}
	if got.IsActive {
		t.Error("deactivated user should still exist with isActive=false")
	}

	if _, err := svc.Deactivate(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Deactivate(unknown) error = %v, want ErrUserNotFound", err)
	}
}

func TestCheckPassword(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"password", nil},
		{"sixteen-chars-ok", nil},
		{"ságúçãõé", nil},
		{"short", ErrPasswordTooShort},
		{"seventeen-chars-x", ErrPasswordTooLong},
		{"", ErrPasswordBlank},
		{" \t\n ", ErrPasswordBlank},
	}
	for _, tt := range tests {
		if err := CheckPassword(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("CheckPassword(%q) = %v, want %v", tt.in, err, tt.want)
		}
	}
}
