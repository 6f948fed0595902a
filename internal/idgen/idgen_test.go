package idgen

import (
	"testing"
	"time"
)

func TestHashIDLengthAndAlphabet(t *testing.T) {
	id := HashID("Fix login bug", time.Now(), 0)
	if len(id) != Length {
		t.Fatalf("expected %d chars, got %d", Length, len(id))
	}
	if !Valid(id) {
		t.Errorf("generated id %q is not a valid token", id)
	}
}

func TestHashIDDeterministic(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := HashID("desc", ts, 0)
	b := HashID("desc", ts, 0)
	if a != b {
		t.Errorf("same inputs produced different ids: %q vs %q", a, b)
	}
}

func TestHashIDNonceChangesToken(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := HashID("desc", ts, 0)
	b := HashID("desc", ts, 1)
	if a == b {
		t.Errorf("nonce did not change the token: %q", a)
	}
}

func TestValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"full hex", HashID("x", time.Now(), 0), true},
		{"too short", "abc123", false},
		{"uppercase", "ABCDEF0123456789ABCDEF0123456789ABCDEF01", false},
		{"non-hex", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.in); got != tt.want {
				t.Errorf("Valid(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
