// Package skinfolio provides the types and the accounting engine of a personal
// tracker for CS2 skins bought and sold on third-party marketplaces.
//
// The core functionalities include:
//   - Ledger Management: an append-only record of BUY and SELL transactions,
//     the single source of truth of the portfolio.
//   - Accounting: a stateless engine that replays the ledger to derive current
//     positions with their weighted-average cost, realized gains per sale,
//     valuations against the latest known prices, and a dense daily value
//     history built from sparse price observations.
//   - Persistence: CSV encodings of the ledger and of the price history, read
//     and written through a versioned LedgerStore so that a stale write is
//     rejected instead of silently overwriting newer data.
//   - Market Data: a PriceOracle abstraction over the marketplace, with a
//     short-lived cache that is emptied on every ledger change.
//
// Positions and valuations are never stored authoritatively: every query
// recomputes them from the full ledger.
package skinfolio
