// Package store defines interfaces for data persistence and caching.
// These interfaces abstract the underlying storage mechanisms from the
// application's core logic, keeping business rules independent of the
// database and cache technologies behind them.
package store
