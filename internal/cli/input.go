// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/prefixrank/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads commands line by line. Plain text is completed,
// ":add entry [weight]" inserts, ":rm prefix" removes and ":stats" prints
// counters. Commands start with a colon so that any query, including signed
// melody intervals, reaches the completer untouched.
type InputHandler struct {
	completer       suggest.Completer
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	defaultWeight   float64
	in              io.Reader
	out             *log.Logger
	style           styles
}

// Options holds the limits the handler enforces.
type Options struct {
	MinPrefix     int
	MaxPrefix     int
	Limit         int
	DefaultWeight float64
	Color         bool
}

// NewInputHandler reads from stdin and prints to stdout.
func NewInputHandler(completer suggest.Completer, opts Options) *InputHandler {
	return NewInputHandlerWithIO(completer, opts, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO reads from in and prints to out. Colors are used only
// when asked for and out is a terminal.
func NewInputHandlerWithIO(completer suggest.Completer, opts Options, in io.Reader, out io.Writer) *InputHandler {
	if opts.DefaultWeight <= 0 {
		opts.DefaultWeight = 1
	}
	if opts.MaxPrefix <= 0 {
		opts.MaxPrefix = int(^uint(0) >> 1)
	}
	return &InputHandler{
		completer:       completer,
		minPrefixLength: opts.MinPrefix,
		maxPrefixLength: opts.MaxPrefix,
		suggestLimit:    opts.Limit,
		defaultWeight:   opts.DefaultWeight,
		in:              in,
		out: log.NewWithOptions(out, log.Options{
			ReportTimestamp: false,
			ReportCaller:    false,
		}),
		style: newStyles(opts.Color && isTerminal(out)),
	}
}

// Start runs the loop until the input ends.
func (h *InputHandler) Start() error {
	h.out.Print("prefixrank CLI")
	h.out.Print("type a prefix and press Enter, :add entry [weight] to insert, :rm prefix to remove, :help for more (Ctrl+C to exit)")

	reader := bufio.NewReader(h.in)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	if !strings.HasPrefix(line, ":") {
		h.complete(line)
		return
	}
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":stats":
		h.printStats()
	case ":help":
		h.out.Print(":add entry [weight]  insert entry, adding weight (default " + strconv.FormatFloat(h.defaultWeight, 'g', -1, 64) + ")")
		h.out.Print(":rm prefix           remove every entry under prefix")
		h.out.Print(":stats               show tree and cache counters")
	case ":add":
		h.insert(arg)
	case ":rm":
		h.remove(arg)
	default:
		h.out.Errorf("Unknown command %s, try :help", cmd)
	}
}

// splitWeight takes a trailing number off entry as its weight.
func splitWeight(entry string, fallback float64) (string, float64) {
	i := strings.LastIndexByte(entry, ' ')
	if i < 0 {
		return entry, fallback
	}
	w, err := strconv.ParseFloat(entry[i+1:], 64)
	if err != nil {
		return entry, fallback
	}
	return strings.TrimSpace(entry[:i]), w
}

func (h *InputHandler) insert(entry string) {
	entry, weight := splitWeight(entry, h.defaultWeight)
	if err := h.completer.Add(entry, weight); err != nil {
		h.out.Errorf("Insert failed: %v", err)
		return
	}
	h.out.Printf("inserted %s (+%v), %d entries", h.style.word.Render(entry), weight, h.completer.Len())
}

func (h *InputHandler) remove(prefix string) {
	before := h.completer.Len()
	if err := h.completer.Remove(prefix); err != nil {
		h.out.Errorf("Remove failed: %v", err)
		return
	}
	h.out.Printf("removed %d entries under '%s'", before-h.completer.Len(), prefix)
}

func (h *InputHandler) complete(prefix string) {
	if n := utf8.RuneCountInString(prefix); n < h.minPrefixLength {
		h.out.Errorf("Prefix too short: %s", prefix)
		return
	} else if n > h.maxPrefixLength {
		h.out.Errorf("Prefix too long: %s", prefix)
		return
	}

	start := time.Now()
	suggestions, err := h.completer.Complete(prefix, h.suggestLimit)
	elapsed := time.Since(start)
	if err != nil {
		h.out.Errorf("Completion failed: %v", err)
		return
	}
	log.Debugf("Took [ %v ] for prefix '%s'", elapsed, prefix)

	if len(suggestions) == 0 {
		h.out.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	h.out.Printf("Found %d suggestions for prefix '%s':", len(suggestions), prefix)
	for i, s := range suggestions {
		h.out.Printf("%2d. %s (weight: %s)", i+1, h.style.word.Render(padRight(s.Value, 40)), h.style.weight.Render(formatWeight(s.Weight)))
	}
}

func (h *InputHandler) printStats() {
	stats := h.completer.Stats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		h.out.Printf("%-14s %s", k, formatWithCommas(stats[k]))
	}
}
