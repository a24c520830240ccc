package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("alice"); err != nil {
		t.Fatalf("valid name rejected: %v", err)
	}
	if err := ValidateUsername(""); !errors.Is(err, ErrUsernameEmpty) {
		t.Fatalf("expected ErrUsernameEmpty, got %v", err)
	}
	if err := ValidateUsername(strings.Repeat("x", MaxUsernameLen+1)); !errors.Is(err, ErrUsernameTooLong) {
		t.Fatalf("expected ErrUsernameTooLong, got %v", err)
	}
}

func TestNewUser(t *testing.T) {
	u, err := NewUser("sid-1", "alice")
	if err != nil {
		t.Fatalf("new user: %v", err)
	}
	if u.ID != "sid-1" || u.Username != "alice" || u.InCall {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := NewUser("sid-2", ""); err == nil {
		t.Fatalf("expected validation error")
	}
}
