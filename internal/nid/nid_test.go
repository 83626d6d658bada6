// Tests for block ID generation.

package nid

import (
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		id := New()
		if !IsValid(id) {
			t.Errorf("New() = %q, not a valid block ID", id)
		}
		if len(id) != 14+1+7 {
			t.Errorf("expected length 22, got %d", len(id))
		}
	})

	t.Run("TimestampPrefix", func(t *testing.T) {
		at := time.Date(2023, 10, 5, 12, 30, 55, 0, time.Local)
		id := NewAt(at)
		if !strings.HasPrefix(id, "20231005123055-") {
			t.Errorf("NewAt() = %q, expected prefix 20231005123055-", id)
		}
	})

	t.Run("Distinct", func(t *testing.T) {
		at := time.Now()
		seen := make(map[string]struct{})
		for range 1000 {
			id := NewAt(at)
			if _, ok := seen[id]; ok {
				t.Fatalf("duplicate ID generated: %q", id)
			}
			seen[id] = struct{}{}
		}
	})
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"20231005123055-9ol2mop", true},
		{"20231005123055-9OL2MOP", false},
		{"20231005123055-9ol2mo", false},
		{"20231005123055_9ol2mop", false},
		{"", false},
		{"not-an-id", false},
	}
	for _, tt := range tests {
		if got := IsValid(tt.id); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
