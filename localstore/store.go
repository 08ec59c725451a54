// Package localstore stores portfolio files in a local directory.
//
// Versions are git blob hashes of the content, like the ones of a GitHub
// repository, so a directory checked out from git and the remote agree.
package localstore

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/etnz/skinfolio"
	"github.com/rs/zerolog/log"
)

// Store is a skinfolio.LedgerStore in a directory.
type Store struct {
	dir string
	mu  sync.Mutex // serializes check-and-write in this process
}

// New returns a store rooted at dir.
func New(dir string) *Store { return &Store{dir: dir} }

// Dir returns the root directory of the store.
func (s *Store) Dir() string { return s.dir }

// BlobSHA returns the git blob hash of content.
func BlobSHA(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (s *Store) path(name string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", fmt.Errorf("%w: path %q escapes the store", skinfolio.ErrInput, name)
	}
	return filepath.Join(s.dir, filepath.FromSlash(name)), nil
}

// Read implements skinfolio.LedgerStore.
func (s *Store) Read(ctx context.Context, name string) (content, version string, found bool, err error) {
	file, err := s.path(name)
	if err != nil {
		return "", "", false, err
	}
	b, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, err
	}
	return string(b), BlobSHA(b), true, nil
}

// Write implements skinfolio.LedgerStore. The file is replaced atomically.
func (s *Store) Write(ctx context.Context, name, content, version, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	file, err := s.path(name)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current := ""
	if b, err := os.ReadFile(file); err == nil {
		current = BlobSHA(b)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	if current != version {
		return "", fmt.Errorf("%s is at %q, not %q: %w", name, current, version, skinfolio.ErrConflict)
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return "", fmt.Errorf("could not create directory for %q: %w", name, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(file), "."+filepath.Base(file)+".*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), file); err != nil {
		return "", err
	}
	newVersion := BlobSHA([]byte(content))
	log.Info().Str("path", name).Str("sha", newVersion).Msg(message)
	return newVersion, nil
}
