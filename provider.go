package skinfolio

import "context"

// LedgerStore persists the CSV files of a portfolio.
//
// Every file has a version tag. Write succeeds only when the given version is
// the current one: a stale version fails with ErrConflict and the caller must
// Read again. An empty version creates the file and conflicts if it exists.
type LedgerStore interface {
	// Read returns the content and version of a file. A missing file is not
	// an error: found is false.
	Read(ctx context.Context, path string) (content, version string, found bool, err error)
	// Write replaces the content of a file and returns its new version.
	Write(ctx context.Context, path, content, version, message string) (newVersion string, err error)
}

// PriceOracle quotes the current market price of items.
//
// A missing answer is not an error: ok is false. Errors wrap ErrOracleUnavailable.
type PriceOracle interface {
	// LowestAsk returns the lowest listed price of an item.
	LowestAsk(ctx context.Context, item string) (price Money, ok bool, err error)
	// Icon returns an image url for an item.
	Icon(ctx context.Context, item string) (url string, ok bool, err error)
}
