package localstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/skinfolio"
)

func TestBlobSHA(t *testing.T) {
	// git hash-object of an empty file and of "hello\n"
	tests := map[string]string{
		"":        "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391",
		"hello\n": "ce013625030ba8dba906f756967f9e9ca394464a",
	}
	for content, want := range tests {
		if got := BlobSHA([]byte(content)); got != want {
			t.Errorf("BlobSHA(%q) = %s, want %s", content, got, want)
		}
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir())

	_, _, found, err := s.Read(ctx, "data/transactions.csv")
	if err != nil || found {
		t.Fatalf("Read(missing) = %v, %v; want not found", found, err)
	}

	v1, err := s.Write(ctx, "data/transactions.csv", "hello\n", "", "create")
	if err != nil {
		t.Fatalf("Write(create) unexpected error: %v", err)
	}
	content, version, found, err := s.Read(ctx, "data/transactions.csv")
	if err != nil || !found || content != "hello\n" || version != v1 {
		t.Fatalf("Read() = %q, %q, %v, %v", content, version, found, err)
	}

	if _, err := s.Write(ctx, "data/transactions.csv", "again\n", "", "create"); !errors.Is(err, skinfolio.ErrConflict) {
		t.Errorf("Write(create existing) error = %v, want ErrConflict", err)
	}
	v2, err := s.Write(ctx, "data/transactions.csv", "world\n", v1, "update")
	if err != nil {
		t.Fatalf("Write(update) unexpected error: %v", err)
	}
	if _, err := s.Write(ctx, "data/transactions.csv", "stale\n", v1, "update"); !errors.Is(err, skinfolio.ErrConflict) {
		t.Errorf("Write(stale) error = %v, want ErrConflict", err)
	}
	if content, version, _, _ := s.Read(ctx, "data/transactions.csv"); content != "world\n" || version != v2 {
		t.Errorf("Read() after update = %q, %q", content, version)
	}

	entries, err := os.ReadDir(filepath.Join(s.Dir(), "data"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestStore_EscapingPath(t *testing.T) {
	s := New(t.TempDir())
	if _, _, _, err := s.Read(context.Background(), "../outside.csv"); !errors.Is(err, skinfolio.ErrInput) {
		t.Errorf("Read(../outside.csv) error = %v, want ErrInput", err)
	}
}
