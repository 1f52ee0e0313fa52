package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/alex-iam/smk/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	is1 := domain.NewInternedString("/src/main.c")
	is2 := domain.NewInternedString("/src/main.c")

	// Identical strings share the same handle.
	if is1.Value() != is2.Value() {
		t.Errorf("expected handles to be equal for identical strings, got %v and %v", is1.Value(), is2.Value())
	}

	if is1.String() != "/src/main.c" {
		t.Errorf("expected String() to return %q, got %q", "/src/main.c", is1.String())
	}
}

func TestInternedString_ZeroValue(t *testing.T) {
	var is domain.InternedString
	if is.String() != "" {
		t.Errorf("expected zero value String() to be empty, got %q", is.String())
	}
}

func TestInternedString_JSON(t *testing.T) {
	original := domain.NewInternedString("/src/a.h")

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("failed to marshal InternedString: %v", err)
	}
	if string(data) != `"/src/a.h"` {
		t.Errorf("expected JSON %q, got %q", `"/src/a.h"`, string(data))
	}

	var decoded domain.InternedString
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal InternedString: %v", err)
	}
	if decoded != original {
		t.Errorf("expected round-tripped value to equal original")
	}
}
