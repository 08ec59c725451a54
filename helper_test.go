package skinfolio

import (
	"context"
	"fmt"
	"sync"

	"github.com/etnz/skinfolio/date"
)

const (
	AK   = "AK-47 | Redline (Field-Tested)"
	AWP  = "AWP | Asiimov (Field-Tested)"
	CASE = "Recoil Case"
)

// day is a helper for test to create dates from const.
func day(s string) date.Date { return date.MustParse(s) }

// memStore is an in-memory LedgerStore. Versions are "v1", "v2"...
type memStore struct {
	mu       sync.Mutex
	files    map[string]string
	versions map[string]string
	writes   []string // written paths, in order
	next     int
	readErr  error
}

func newMemStore(files map[string]string) *memStore {
	s := &memStore{files: make(map[string]string), versions: make(map[string]string)}
	for path, content := range files {
		s.next++
		s.files[path] = content
		s.versions[path] = fmt.Sprintf("v%d", s.next)
	}
	return s
}

func (s *memStore) Read(ctx context.Context, path string) (string, string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return "", "", false, s.readErr
	}
	content, ok := s.files[path]
	return content, s.versions[path], ok, nil
}

func (s *memStore) Write(ctx context.Context, path, content, version, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.versions[path] != version {
		return "", fmt.Errorf("%s at %q: %w", path, version, ErrConflict)
	}
	s.next++
	s.files[path] = content
	s.versions[path] = fmt.Sprintf("v%d", s.next)
	s.writes = append(s.writes, path)
	return s.versions[path], nil
}

// bump simulates a concurrent change of a file.
func (s *memStore) bump(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.versions[path] = fmt.Sprintf("v%d", s.next)
}

// fakeOracle answers prices from a map and counts calls.
type fakeOracle struct {
	mu     sync.Mutex
	prices map[string]Money
	icons  map[string]string
	errs   map[string]error
	calls  map[string]int
}

func newFakeOracle(prices map[string]Money) *fakeOracle {
	return &fakeOracle{prices: prices, icons: map[string]string{}, errs: map[string]error{}, calls: map[string]int{}}
}

func (o *fakeOracle) LowestAsk(ctx context.Context, item string) (Money, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls[item]++
	if err := o.errs[item]; err != nil {
		return Money{}, false, err
	}
	p, ok := o.prices[item]
	return p, ok, nil
}

func (o *fakeOracle) Icon(ctx context.Context, item string) (string, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	url, ok := o.icons[item]
	return url, ok, nil
}

func (o *fakeOracle) count(item string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls[item]
}
