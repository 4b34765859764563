package db

import (
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "assembly_jobs_active_video"}

	if !isUniqueViolation(dup) {
		t.Error("duplicate-key error not recognized")
	}
	if !isUniqueViolation(fmt.Errorf("insert failed: %w", dup)) {
		t.Error("wrapped duplicate-key error not recognized")
	}
	if isUniqueViolation(&pq.Error{Code: "40001"}) {
		t.Error("serialization failure misread as duplicate key")
	}
	if isUniqueViolation(fmt.Errorf("connection refused")) {
		t.Error("plain error misread as duplicate key")
	}
	if isUniqueViolation(nil) {
		t.Error("nil error misread as duplicate key")
	}
}
