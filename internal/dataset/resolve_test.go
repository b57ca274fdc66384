package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/unicode/norm"
)

// TestResolveNFDEntry verifies that a file stored with a decomposed (NFD)
// name is found via the composed (NFC) literal used in code.
func TestResolveNFDEntry(t *testing.T) {
	dir := t.TempDir()

	target := "송도고_환경데이터.csv"
	stored := norm.NFD.String(target)
	if stored == target {
		t.Fatal("fixture name did not decompose; test would be vacuous")
	}
	if err := os.WriteFile(filepath.Join(dir, stored), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := Resolve(dir, target)
	if err != nil {
		t.Fatalf("Resolve failed for NFD-stored entry: %v", err)
	}
	if filepath.Base(path) != stored {
		t.Fatalf("expected resolved entry %q, got %q", stored, filepath.Base(path))
	}
}

// TestResolveNFCEntry covers the symmetric case: NFC-stored file, NFD target.
func TestResolveNFCEntry(t *testing.T) {
	dir := t.TempDir()

	stored := "하늘고_환경데이터.csv"
	if err := os.WriteFile(filepath.Join(dir, stored), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, err := Resolve(dir, norm.NFD.String(stored))
	if err != nil {
		t.Fatalf("Resolve failed for NFD target: %v", err)
	}
	if filepath.Base(path) != stored {
		t.Fatalf("expected resolved entry %q, got %q", stored, filepath.Base(path))
	}
}

func TestResolveNotFound(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "unrelated.csv"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Resolve(dir, "송도고_환경데이터.csv")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestResolveSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "아라고_환경데이터.csv"), 0o755); err != nil {
		t.Fatal(err)
	}

	_, err := Resolve(dir, "아라고_환경데이터.csv")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound for directory entry, got %v", err)
	}
}
