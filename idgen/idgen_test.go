package idgen

import (
	"strings"
	"testing"
)

func TestNanoID_Length(t *testing.T) {
	for _, length := range []int{8, 12, 16, 24} {
		gen := NanoID(length)
		id := gen()
		if len(id) != length {
			t.Fatalf("NanoID(%d): got length %d", length, len(id))
		}
	}
}

func TestNanoID_Unique(t *testing.T) {
	gen := NanoID(16)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen()
		if seen[id] {
			t.Fatalf("duplicate ID after %d draws: %s", i, id)
		}
		seen[id] = true
	}
}

func TestUUIDv7_Format(t *testing.T) {
	id := UUIDv7()()
	if len(id) != 36 {
		t.Fatalf("UUIDv7 length: got %d", len(id))
	}
	if strings.Count(id, "-") != 4 {
		t.Fatalf("UUIDv7 format: %s", id)
	}
}

func TestPrefixed(t *testing.T) {
	gen := Prefixed("quic_", NanoID(8))
	id := gen()
	if !strings.HasPrefix(id, "quic_") {
		t.Fatalf("prefix missing: %s", id)
	}
	if len(id) != len("quic_")+8 {
		t.Fatalf("length: got %d", len(id))
	}
}
