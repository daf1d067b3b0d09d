package session

import (
	"strings"
	"testing"
)

func TestNewIDFormat(t *testing.T) {
	id := NewID()
	if !strings.HasPrefix(id, "sess_") {
		t.Fatalf("expected sess_ prefix, got %q", id)
	}
	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		t.Fatalf("expected sess_<ts>_<rand>, got %q", id)
	}
	if len(parts[2]) != 9 {
		t.Fatalf("expected 9 random chars, got %q", parts[2])
	}
}

func TestNewRequestIDFormat(t *testing.T) {
	id := NewRequestID()
	if !strings.HasPrefix(id, "req_") {
		t.Fatalf("expected req_ prefix, got %q", id)
	}
}

func TestIDsAreDistinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = true
	}
}
