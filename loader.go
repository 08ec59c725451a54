package skinfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Profile names the files of one portfolio in the store.
type Profile struct {
	Name     string
	Ledger   string // transactions file
	History  string // price history log
	Finance  string // deposits and withdrawals
	Holdings string // positions cache, regenerated after every ledger change
}

// DefaultProfile returns the profile with the conventional file layout.
func DefaultProfile() Profile {
	return Profile{
		Name:     "default",
		Ledger:   "data/transactions.csv",
		History:  "data/price_history.csv",
		Finance:  "data/finance.csv",
		Holdings: "data/holdings.csv",
	}
}

// Session gives access to the portfolio of a profile in a store.
type Session struct {
	store   LedgerStore
	oracle  PriceOracle
	profile Profile
	delay   time.Duration
	now     func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithDelay sets the pause between two oracle calls of a price fetch.
func WithDelay(d time.Duration) Option { return func(s *Session) { s.delay = d } }

// WithClock sets the clock used to timestamp fetched prices.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// NewSession returns a session on the profile's files. The oracle may be nil
// when live prices are not needed.
func NewSession(store LedgerStore, oracle PriceOracle, profile Profile, opts ...Option) *Session {
	s := &Session{
		store:   store,
		oracle:  oracle,
		profile: profile,
		delay:   300 * time.Millisecond,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profile returns the profile of the session.
func (s *Session) Profile() Profile { return s.profile }

// Book is a snapshot of the files of a profile.
type Book struct {
	Ledger       *Ledger
	Movements    []FinanceMovement
	Observations []PriceObservation

	LedgerVersion  string
	HistoryVersion string
	FinanceVersion string

	// Rejected lists the malformed rows left out, as *RowError wrapped with the file path.
	Rejected []error
}

// read returns the content of a file, empty if it does not exist.
func (s *Session) read(ctx context.Context, path string) (content, version string, err error) {
	content, version, found, err := s.store.Read(ctx, path)
	if err != nil {
		return "", "", fmt.Errorf("cannot read %q: %w", path, err)
	}
	if !found {
		log.Debug().Str("path", path).Msg("file not found, using an empty table")
		return "", "", nil
	}
	return content, version, nil
}

// rejections wraps every rejected row with the file path.
func rejections(path string, rejected []error) []error {
	errs := make([]error, 0, len(rejected))
	for _, err := range rejected {
		errs = append(errs, fmt.Errorf("%s: %w", path, err))
	}
	return errs
}

// Load reads the ledger, the price history and the finance files concurrently.
// A missing file is an empty table.
func (s *Session) Load(ctx context.Context) (*Book, error) {
	var book Book
	var txs []Transaction
	var txRejected, obsRejected, mvRejected []error
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		content, version, err := s.read(ctx, s.profile.Ledger)
		if err != nil {
			return err
		}
		book.LedgerVersion = version
		txs, txRejected, err = DecodeTransactions(strings.NewReader(content))
		if err != nil {
			return fmt.Errorf("cannot decode %q: %w", s.profile.Ledger, err)
		}
		return nil
	})
	g.Go(func() error {
		content, version, err := s.read(ctx, s.profile.History)
		if err != nil {
			return err
		}
		book.HistoryVersion = version
		book.Observations, obsRejected, err = DecodePriceHistory(strings.NewReader(content))
		if err != nil {
			return fmt.Errorf("cannot decode %q: %w", s.profile.History, err)
		}
		return nil
	})
	if s.profile.Finance != "" {
		g.Go(func() error {
			content, version, err := s.read(ctx, s.profile.Finance)
			if err != nil {
				return err
			}
			book.FinanceVersion = version
			book.Movements, mvRejected, err = DecodeMovements(strings.NewReader(content))
			if err != nil {
				return fmt.Errorf("cannot decode %q: %w", s.profile.Finance, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	book.Ledger = NewLedger(txs...)
	book.Rejected = append(book.Rejected, rejections(s.profile.Ledger, txRejected)...)
	book.Rejected = append(book.Rejected, rejections(s.profile.History, obsRejected)...)
	book.Rejected = append(book.Rejected, rejections(s.profile.Finance, mvRejected)...)
	for _, err := range book.Rejected {
		log.Warn().Err(err).Msg("row skipped")
	}
	return &book, nil
}
