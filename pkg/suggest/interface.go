// Package suggest wraps a prefix tree with tokenization for text and melodies,
// a query cache, and source loading.
package suggest

import (
	"errors"
	"io"
)

// Completer is what the server and CLI drive. Entries and queries are raw
// strings; each engine decides how they become prefix sequences.
type Completer interface {
	// Complete returns up to limit suggestions for query, heaviest first.
	// A limit <= 0 returns every match.
	Complete(query string, limit int) ([]Suggestion, error)

	// Add stores entry with weight, adding to its weight if already present.
	Add(entry string, weight float64) error

	// Remove deletes every stored entry whose prefix starts with query's.
	Remove(query string) error

	// Load reads a whole source in the engine's format.
	Load(r io.Reader) (LoadStats, error)

	// Len returns the number of distinct entries stored.
	Len() int

	// Stats returns counters about the tree and cache.
	Stats() map[string]int
}

// Suggestion is one ranked completion.
type Suggestion struct {
	Value  string
	Weight float64
}

// LoadStats counts what a Load call inserted and skipped.
type LoadStats struct {
	Inserted int
	Skipped  int
}

var (
	// ErrEmptyEntry is returned when nothing is left of an entry after sanitizing.
	ErrEmptyEntry = errors.New("entry has no letters or digits")
	// ErrInvalidQuery is returned when a query cannot be tokenized.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrFormatMismatch is returned when a source is not in the format the engine loads.
	ErrFormatMismatch = errors.New("source format does not match engine")
)
