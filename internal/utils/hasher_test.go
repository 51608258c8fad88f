package utils

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cretpass")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "s3cretpass" {
		t.Fatal("Hash() returned the plaintext")
	}
	if err := h.Compare(hash, "s3cretpass"); err != nil {
		t.Errorf("Compare() correct input error = %v", err)
	}
	if err := h.Compare(hash, "wrongpass"); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("Compare() wrong input error = %v, want ErrHashMismatch", err)
	}
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, _ := h.Hash("same-input")
	b, _ := h.Hash("same-input")
	if a == b {
		t.Error("hashing the same input twice should yield different salts")
	}
}

func TestBcryptHasher_LongInputs(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	// two inputs that only differ after the 72nd byte
	prefix := strings.Repeat("a", 100)
	first, second := prefix+"first", prefix+"second"

	hash, err := h.Hash(first)
	if err != nil {
		t.Fatalf("Hash() long input error = %v", err)
	}
	if err := h.Compare(hash, first); err != nil {
		t.Errorf("Compare() long input error = %v", err)
	}
	if err := h.Compare(hash, second); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("Compare() differing suffix error = %v, want ErrHashMismatch", err)
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	err := h.Compare("not-a-bcrypt-hash", "whatever")
	if err == nil {
		t.Fatal("Compare() against a malformed hash should fail")
	}
	if errors.Is(err, ErrHashMismatch) {
		t.Error("a malformed hash is not a mismatch")
	}
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, bcrypt.DefaultCost},
		{bcrypt.MaxCost + 1, bcrypt.DefaultCost},
		{bcrypt.MinCost, bcrypt.MinCost},
		{12, 12},
	}
	for _, tt := range tests {
		if got := NewBcryptHasher(tt.in).cost; got != tt.want {
			t.Errorf("NewBcryptHasher(%d).cost = %d, want %d", tt.in, got, tt.want)
		}
	}
}
