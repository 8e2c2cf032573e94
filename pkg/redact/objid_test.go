package redact

import (
	"errors"
	"testing"
)

func TestHashedObjID_Deterministic(t *testing.T) {
	a, err := HashedObjID("secret", 1000, 42)
	if err != nil {
		t.Fatalf("HashedObjID() error: %v", err)
	}
	b, err := HashedObjID("secret", 1000, 42)
	if err != nil {
		t.Fatalf("HashedObjID() error: %v", err)
	}
	if a != b {
		t.Errorf("HashedObjID() not deterministic: %d != %d", a, b)
	}
}

func TestHashedObjID_NonNegative(t *testing.T) {
	inputs := []struct {
		catID int32
		objID int64
	}{
		{1000, 0},
		{1000, 42},
		{2000, -42},
		{0, 1<<62 + 17},
		{-1, -(1<<62 + 17)},
	}

	for _, in := range inputs {
		got, err := HashedObjID("secret", in.catID, in.objID)
		if err != nil {
			t.Fatalf("HashedObjID(%d, %d) error: %v", in.catID, in.objID, err)
		}
		if got < 0 {
			t.Errorf("HashedObjID(%d, %d) = %d, want non-negative", in.catID, in.objID, got)
		}
	}
}

func TestHashedObjID_SaltAndInputsMatter(t *testing.T) {
	base, _ := HashedObjID("secret", 1000, 42)

	if other, _ := HashedObjID("different", 1000, 42); other == base {
		t.Errorf("different salts produced the same ID %d", base)
	}
	if other, _ := HashedObjID("secret", 1001, 42); other == base {
		t.Errorf("different catalog IDs produced the same ID %d", base)
	}
	if other, _ := HashedObjID("secret", 1000, 43); other == base {
		t.Errorf("different object IDs produced the same ID %d", base)
	}
}

func TestHashedObjID_EmptySalt(t *testing.T) {
	if _, err := HashedObjID("", 1000, 42); !errors.Is(err, ErrMissingSalt) {
		t.Errorf("HashedObjID with empty salt: got %v, want ErrMissingSalt", err)
	}
}
