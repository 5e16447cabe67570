package data

import (
	"errors"
	"testing"
	"time"
)

func TestBackup_SizeFromScalar(t *testing.T) {
	b := NewBackup(Fileset{ID: 1, Timestamp: time.Unix(0, 0)})

	if _, err := b.Size(); !errors.Is(err, ErrSizeUnknown) {
		t.Errorf("Expected ErrSizeUnknown, got %v", err)
	}

	b.SetSize(42)
	if size, err := b.Size(); err != nil || size != 42 {
		t.Errorf("Expected size 42, got %d (%v)", size, err)
	}
}

func TestBackup_TreeOverridesScalar(t *testing.T) {
	b := NewBackup(Fileset{ID: 2})
	b.SetSize(1000)

	tree := NewFileTree("b")
	tree.AddPath("/x", 1, 7)
	b.SetFileTree(tree)

	if size, _ := b.Size(); size != tree.Size() {
		t.Errorf("Expected size %d from tree, got %d", tree.Size(), size)
	}

	b.SetSize(5)
	if size, _ := b.Size(); size != 7 {
		t.Errorf("Expected SetSize to be ignored while materialized, got %d", size)
	}
}

func TestBackup_Evict(t *testing.T) {
	b := NewBackup(Fileset{ID: 3})
	if b.Evict() {
		t.Error("Expected Evict without tree to report false")
	}

	tree := NewFileTree("b")
	tree.AddPath("/x", 1, 7)
	tree.AddPath("/y", 2, 3)
	b.SetFileTree(tree)

	if !b.Evict() {
		t.Fatal("Expected Evict to report true")
	}
	if b.Materialized() {
		t.Error("Expected tree to be cleared")
	}
	if size, err := b.Size(); err != nil || size != 10 {
		t.Errorf("Expected scalar size 10 after eviction, got %d (%v)", size, err)
	}
}

func TestErrors_Taxonomy(t *testing.T) {
	cause := errors.New("disk on fire")
	err := NewConnectionError("/tmp/db.sqlite", cause)
	if !errors.Is(err, ErrConnection) || !errors.Is(err, cause) {
		t.Errorf("Expected ConnectionError to match both sentinel and cause: %v", err)
	}

	var verr error = &UnsupportedVersionError{Version: 3, Min: 12, Max: 16}
	if !errors.Is(verr, ErrUnsupportedVersion) {
		t.Errorf("Expected UnsupportedVersionError to match sentinel: %v", verr)
	}
}
