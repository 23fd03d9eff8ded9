// Package prefixtree is the core, providing weighted prefix trees that rank stored values by weight for a given prefix sequence.
package prefixtree

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// NoLimit makes Autocomplete return every match.
const NoLimit = 0

// DefaultMaxDepth bounds the length of inserted prefix sequences.
const DefaultMaxDepth = 4096

var (
	// ErrInvalidWeight is returned when an inserted weight is not a positive finite number.
	ErrInvalidWeight = errors.New("weight must be a positive finite number")
	// ErrPrefixTooLong is returned when a prefix is longer than the tree's max depth.
	ErrPrefixTooLong = errors.New("prefix sequence too long")
	// ErrCorrupt is wrapped by every Validate failure.
	ErrCorrupt = errors.New("prefix tree invariant violated")
)

// Autocompleter defines the contract shared by both tree engines.
type Autocompleter[V comparable, S comparable] interface {
	// Len returns the number of distinct values stored.
	Len() int

	// Insert stores value under prefix. Inserting a known value again adds
	// weight to it. The value must not have been inserted under another prefix.
	Insert(value V, weight float64, prefix []S) error

	// Autocomplete returns up to limit values whose prefix starts with prefix,
	// by non-increasing weight. A limit <= 0 returns every match.
	Autocomplete(prefix []S, limit int) []Result[V]

	// Remove deletes every value whose prefix starts with prefix.
	Remove(prefix []S)
}

// Result is one ranked match.
type Result[V any] struct {
	Value  V
	Weight float64
}

// WeightMode decides how internal nodes aggregate the weights beneath them.
type WeightMode int

const (
	// Sum aggregates by adding leaf weights.
	Sum WeightMode = iota
	// Average aggregates by the arithmetic mean of leaf weights.
	Average
)

func (m WeightMode) String() string {
	switch m {
	case Sum:
		return "sum"
	case Average:
		return "average"
	}
	return fmt.Sprintf("WeightMode(%d)", int(m))
}

// aggregate derives a node weight from the sum and number of its leaves.
func (m WeightMode) aggregate(total float64, count int) float64 {
	if count == 0 {
		return 0
	}
	if m == Average {
		return total / float64(count)
	}
	return total
}

// ParseWeightMode accepts "sum" or "average" (also "avg", "mean").
func ParseWeightMode(s string) (WeightMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum", "":
		return Sum, nil
	case "average", "avg", "mean":
		return Average, nil
	}
	return Sum, fmt.Errorf("unknown weight mode %q", s)
}

// Kind selects a tree engine.
type Kind int

const (
	// Simple is the uncompressed tree, one node per prefix symbol.
	Simple Kind = iota
	// Compressed merges single-child chains.
	Compressed
)

func (k Kind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Compressed:
		return "compressed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts "simple" or "compressed".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "simple", "uncompressed":
		return Simple, nil
	case "compressed", "":
		return Compressed, nil
	}
	return Compressed, fmt.Errorf("unknown tree kind %q", s)
}

// Option configures a tree at construction.
type Option func(*options)

type options struct {
	maxDepth int
}

func defaultOptions() options {
	return options{maxDepth: DefaultMaxDepth}
}

// WithMaxDepth sets the longest accepted prefix. Zero disables the check.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxDepth = n
	}
}

// New builds the tree engine named by kind.
func New[V comparable, S comparable](kind Kind, mode WeightMode, opts ...Option) Autocompleter[V, S] {
	if kind == Simple {
		return NewSimple[V, S](mode, opts...)
	}
	return NewCompressed[V, S](mode, opts...)
}

// checkInsert applies the cheap insert preconditions.
func checkInsert(weight float64, depth, maxDepth int) error {
	// NaN fails the comparison too.
	if !(weight > 0) || math.IsInf(weight, 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidWeight, weight)
	}
	if maxDepth > 0 && depth > maxDepth {
		return fmt.Errorf("%w: %d symbols, max %d", ErrPrefixTooLong, depth, maxDepth)
	}
	return nil
}
