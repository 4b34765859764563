package cache

import (
	"strings"
	"testing"
)

func TestKeyDeterministic(t *testing.T) {
	a := Key([]byte("narration audio bytes"))
	b := Key([]byte("narration audio bytes"))
	if a != b {
		t.Errorf("same bytes produced different keys: %q vs %q", a, b)
	}

	c := Key([]byte("different audio"))
	if a == c {
		t.Error("different bytes produced the same key")
	}

	if !strings.HasPrefix(a, "alignment:") {
		t.Errorf("key %q missing alignment: prefix", a)
	}
	// sha256 hex digest after the prefix
	if len(a) != len("alignment:")+64 {
		t.Errorf("key length = %d, want %d", len(a), len("alignment:")+64)
	}
}
