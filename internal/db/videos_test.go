package db

import (
	"reflect"
	"testing"
)

func TestFilterColumns(t *testing.T) {
	fields := map[string]interface{}{
		"status":            "assembling",
		"assembly_progress": 42,
		"render_quality":    "high", // not in the allowlist
		"owner_id":          "abc",
	}

	kept, dropped := filterColumns(fields)

	want := map[string]interface{}{
		"status":            "assembling",
		"assembly_progress": 42,
	}
	if !reflect.DeepEqual(kept, want) {
		t.Errorf("kept = %v, want %v", kept, want)
	}
	if !reflect.DeepEqual(dropped, []string{"owner_id", "render_quality"}) {
		t.Errorf("dropped = %v, want [owner_id render_quality]", dropped)
	}
}

func TestFilterColumnsAllDropped(t *testing.T) {
	kept, dropped := filterColumns(map[string]interface{}{"nonexistent": 1})
	if len(kept) != 0 {
		t.Errorf("kept = %v, want empty", kept)
	}
	if len(dropped) != 1 {
		t.Errorf("dropped = %v, want one entry", dropped)
	}
}
