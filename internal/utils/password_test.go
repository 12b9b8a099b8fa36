package utils

import (
	"strings"
	"testing"
)

func TestGeneratePassword(t *testing.T) {
	for range 50 {
		password := GeneratePassword()

		if len(password) != passwordLength {
			t.Fatalf("expected %d characters, got %d (%q)", passwordLength, len(password), password)
		}

		if !strings.ContainsAny(password, passwordLower) {
			t.Fatalf("password %q has no lowercase letter", password)
		}
		if !strings.ContainsAny(password, passwordUpper) {
			t.Fatalf("password %q has no uppercase letter", password)
		}
		if !strings.ContainsAny(password, passwordDigits) {
			t.Fatalf("password %q has no digit", password)
		}
		if !strings.ContainsAny(password, passwordSymbols) {
			t.Fatalf("password %q has no symbol", password)
		}

		all := passwordLower + passwordUpper + passwordDigits + passwordSymbols
		for _, c := range password {
			if !strings.ContainsRune(all, c) {
				t.Fatalf("password %q contains unexpected character %q", password, c)
			}
		}
	}
}

func TestGenerateOTP(t *testing.T) {
	for range 20 {
		code := GenerateOTP()
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("expected digits only, got %q", code)
			}
		}
	}
}

func TestGeneratePasswordVaries(t *testing.T) {
	seen := make(map[string]bool)
	for range 10 {
		seen[GeneratePassword()] = true
	}
	if len(seen) < 2 {
		t.Fatal("expected distinct passwords across generations")
	}
}
