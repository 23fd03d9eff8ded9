package suggest

import (
	"bufio"
	"fmt"
	"io"

	"github.com/bastiangx/prefixrank/internal/utils"
	"github.com/bastiangx/prefixrank/pkg/prefixtree"
	"github.com/charmbracelet/log"
)

// maxLineSize bounds a single line of a text source.
const maxLineSize = 1 << 20

// LetterEngine completes sanitized strings one character at a time. The
// prefix sequence of a string is its runes, spaces included.
type LetterEngine struct {
	*Engine[string, rune]
}

// NewLetterEngine builds an empty engine over tree.
func NewLetterEngine(tree prefixtree.Autocompleter[string, rune], cacheSize int) *LetterEngine {
	return &LetterEngine{NewEngine(tree, cacheSize, encodeRunes)}
}

func encodeRunes(prefix []rune) []byte {
	return []byte(string(prefix))
}

// Load inserts every line of r with weight 1. Lines without a letter or
// digit are skipped. Repeated lines accumulate weight.
func (e *LetterEngine) Load(r io.Reader) (LoadStats, error) {
	var stats LoadStats
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := utils.Sanitize(scanner.Text())
		if !utils.HasAlnum(line) {
			stats.Skipped++
			continue
		}
		if err := e.Insert(line, 1, []rune(line)); err != nil {
			log.Warnf("Skipping line %q: %v", line, err)
			stats.Skipped++
			continue
		}
		stats.Inserted++
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("failed to read text source: %w", err)
	}
	return stats, nil
}

// Add sanitizes entry and stores it under its runes.
func (e *LetterEngine) Add(entry string, weight float64) error {
	line := utils.Sanitize(entry)
	if !utils.HasAlnum(line) {
		return fmt.Errorf("%w: %q", ErrEmptyEntry, entry)
	}
	return e.Insert(line, weight, []rune(line))
}

// Complete sanitizes query before matching it rune by rune.
func (e *LetterEngine) Complete(query string, limit int) ([]Suggestion, error) {
	results := e.Autocomplete([]rune(utils.Sanitize(query)), limit)
	return toSuggestions(results, identity), nil
}

// Remove deletes every string starting with the sanitized query.
func (e *LetterEngine) Remove(query string) error {
	e.Engine.Remove([]rune(utils.Sanitize(query)))
	return nil
}

func identity(s string) string { return s }

func toSuggestions[V any](results []prefixtree.Result[V], format func(V) string) []Suggestion {
	suggestions := make([]Suggestion, len(results))
	for i, r := range results {
		suggestions[i] = Suggestion{Value: format(r.Value), Weight: r.Weight}
	}
	return suggestions
}
