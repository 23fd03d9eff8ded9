package suggest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bastiangx/prefixrank/internal/utils"
	"github.com/bastiangx/prefixrank/pkg/prefixtree"
	"github.com/charmbracelet/log"
)

// wordSeparator ends every word in a cache key. Sanitized words never hold it.
const wordSeparator = 0x1f

// SentenceEngine completes sentences word by word. The prefix sequence of a
// sentence is its sanitized words; the stored value is those words joined
// by single spaces.
type SentenceEngine struct {
	*Engine[string, string]
}

// NewSentenceEngine builds an empty engine over tree.
func NewSentenceEngine(tree prefixtree.Autocompleter[string, string], cacheSize int) *SentenceEngine {
	return &SentenceEngine{NewEngine(tree, cacheSize, encodeWords)}
}

func encodeWords(prefix []string) []byte {
	var key []byte
	for _, w := range prefix {
		key = append(key, w...)
		key = append(key, wordSeparator)
	}
	return key
}

// Load reads CSV rows of text,weight. Rows without words, with a missing or
// unusable weight, or that fail to parse are skipped with a warning.
func (e *SentenceEngine) Load(r io.Reader) (LoadStats, error) {
	var stats LoadStats
	reader := newCSVReader(r)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				log.Warnf("Skipping malformed row: %v", err)
				stats.Skipped++
				continue
			}
			return stats, fmt.Errorf("failed to read sentence source: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(row) < 2 {
			log.Warnf("Skipping row %d: expected text,weight", line)
			stats.Skipped++
			continue
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			log.Warnf("Skipping row %d: bad weight %q", line, row[1])
			stats.Skipped++
			continue
		}
		if err := e.Add(row[0], weight); err != nil {
			log.Warnf("Skipping row %d: %v", line, err)
			stats.Skipped++
			continue
		}
		stats.Inserted++
	}
	return stats, nil
}

// Add stores entry under its sanitized words.
func (e *SentenceEngine) Add(entry string, weight float64) error {
	words := utils.SanitizeWords(entry)
	if len(words) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptyEntry, entry)
	}
	return e.Insert(strings.Join(words, " "), weight, words)
}

// Complete matches whole sanitized words of query.
func (e *SentenceEngine) Complete(query string, limit int) ([]Suggestion, error) {
	results := e.Autocomplete(utils.SanitizeWords(query), limit)
	return toSuggestions(results, identity), nil
}

// Remove deletes every sentence starting with query's words.
func (e *SentenceEngine) Remove(query string) error {
	e.Engine.Remove(utils.SanitizeWords(query))
	return nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true
	return reader
}
