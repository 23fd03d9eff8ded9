package suggest

import (
	"encoding/binary"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bastiangx/prefixrank/pkg/prefixtree"
	"github.com/charmbracelet/log"
)

// Note is one pitch held for a duration.
type Note struct {
	Pitch    int
	Duration int
}

// Melody is a named note sequence.
type Melody struct {
	Name  string
	Notes []Note
}

func (m *Melody) String() string {
	return m.Name
}

// Intervals returns the pitch differences between adjacent notes.
func (m *Melody) Intervals() []int {
	if len(m.Notes) < 2 {
		return []int{}
	}
	out := make([]int, len(m.Notes)-1)
	for i := range out {
		out[i] = m.Notes[i+1].Pitch - m.Notes[i].Pitch
	}
	return out
}

// ParseMelody reads a record of name followed by pitch,duration pairs. The
// notes end at the first blank entry or at an unpaired trailing entry.
func ParseMelody(record []string) (*Melody, error) {
	if len(record) == 0 {
		return nil, errors.New("empty melody record")
	}
	m := &Melody{Name: strings.TrimSpace(record[0])}
	fields := record[1:]
	for i := 0; i+1 < len(fields); i += 2 {
		p, d := strings.TrimSpace(fields[i]), strings.TrimSpace(fields[i+1])
		if p == "" || d == "" {
			break
		}
		pitch, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("note %d of %q: bad pitch %q", i/2+1, m.Name, p)
		}
		duration, err := strconv.Atoi(d)
		if err != nil {
			return nil, fmt.Errorf("note %d of %q: bad duration %q", i/2+1, m.Name, d)
		}
		m.Notes = append(m.Notes, Note{Pitch: pitch, Duration: duration})
	}
	return m, nil
}

// ParseIntervals reads whitespace separated integers.
func ParseIntervals(query string) ([]int, error) {
	fields := strings.Fields(query)
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: interval %q is not an integer", ErrInvalidQuery, f)
		}
		out[i] = n
	}
	return out, nil
}

// MelodyEngine completes melodies by their interval sequence. Different
// melodies can share a sequence; each is stored as its own value.
type MelodyEngine struct {
	*Engine[*Melody, int]
}

// NewMelodyEngine builds an empty engine over tree.
func NewMelodyEngine(tree prefixtree.Autocompleter[*Melody, int], cacheSize int) *MelodyEngine {
	return &MelodyEngine{NewEngine(tree, cacheSize, encodeIntervals)}
}

func encodeIntervals(prefix []int) []byte {
	var key []byte
	for _, n := range prefix {
		key = binary.AppendVarint(key, int64(n))
	}
	return key
}

// Load reads CSV melody records and inserts each with weight 1.
func (e *MelodyEngine) Load(r io.Reader) (LoadStats, error) {
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
			return stats, fmt.Errorf("failed to read melody source: %w", err)
		}

		m, err := ParseMelody(row)
		if err == nil {
			err = e.AddMelody(m, 1)
		}
		if err != nil {
			line, _ := reader.FieldPos(0)
			log.Warnf("Skipping row %d: %v", line, err)
			stats.Skipped++
			continue
		}
		stats.Inserted++
	}
	return stats, nil
}

// AddMelody stores m under its intervals.
func (e *MelodyEngine) AddMelody(m *Melody, weight float64) error {
	return e.Insert(m, weight, m.Intervals())
}

// Add parses entry as one CSV melody record and stores it.
func (e *MelodyEngine) Add(entry string, weight float64) error {
	record, err := newCSVReader(strings.NewReader(entry)).Read()
	if err != nil {
		return fmt.Errorf("failed to parse melody %q: %w", entry, err)
	}
	m, err := ParseMelody(record)
	if err != nil {
		return err
	}
	return e.AddMelody(m, weight)
}

// Melodies returns the stored melodies whose intervals start with query.
func (e *MelodyEngine) Melodies(query string, limit int) ([]prefixtree.Result[*Melody], error) {
	intervals, err := ParseIntervals(query)
	if err != nil {
		return nil, err
	}
	return e.Autocomplete(intervals, limit), nil
}

// Complete reports melodies by name.
func (e *MelodyEngine) Complete(query string, limit int) ([]Suggestion, error) {
	results, err := e.Melodies(query, limit)
	if err != nil {
		return nil, err
	}
	return toSuggestions(results, (*Melody).String), nil
}

// Remove deletes every melody whose intervals start with query.
func (e *MelodyEngine) Remove(query string) error {
	intervals, err := ParseIntervals(query)
	if err != nil {
		return err
	}
	e.Engine.Remove(intervals)
	return nil
}
