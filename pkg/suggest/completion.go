package suggest

import (
	"fmt"
	"os"
	"time"

	"github.com/bastiangx/prefixrank/pkg/config"
	"github.com/bastiangx/prefixrank/pkg/prefixtree"
	"github.com/charmbracelet/log"
)

// sourceFormats lists the format each engine kind loads.
var sourceFormats = map[string]SourceFormat{
	config.EngineLetter:   FormatText,
	config.EngineSentence: FormatCSV,
	config.EngineMelody:   FormatCSV,
}

// formatEngines picks the engine for a source the configured engine cannot load.
var formatEngines = map[SourceFormat]string{
	FormatText: config.EngineLetter,
	FormatCSV:  config.EngineSentence,
}

// EngineForSource returns engineKind when it loads the format detected for
// path, and otherwise the engine that loads that format.
func EngineForSource(path, engineKind string) (string, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return "", err
	}
	if sourceFormats[engineKind] == format {
		return engineKind, nil
	}
	return formatEngines[format], nil
}

// NewCompleter builds the engine and tree named by cfg and, when a source is
// configured, loads it.
func NewCompleter(cfg *config.Config) (Completer, error) {
	kind, err := prefixtree.ParseKind(cfg.Tree.Kind)
	if err != nil {
		return nil, err
	}
	mode, err := prefixtree.ParseWeightMode(cfg.Tree.WeightMode)
	if err != nil {
		return nil, err
	}
	opts := []prefixtree.Option{prefixtree.WithMaxDepth(cfg.Tree.MaxDepth)}
	cacheSize := cfg.Engine.CacheSize

	var c Completer
	switch cfg.Engine.Kind {
	case config.EngineLetter:
		c = NewLetterEngine(prefixtree.New[string, rune](kind, mode, opts...), cacheSize)
	case config.EngineSentence:
		c = NewSentenceEngine(prefixtree.New[string, string](kind, mode, opts...), cacheSize)
	case config.EngineMelody:
		c = NewMelodyEngine(prefixtree.New[*Melody, int](kind, mode, opts...), cacheSize)
	default:
		return nil, fmt.Errorf("unknown engine kind %q", cfg.Engine.Kind)
	}
	log.Debug("Completer built", "engine", cfg.Engine.Kind, "tree", kind, "weight", mode, "cache", cacheSize)

	if cfg.Engine.Source == "" {
		return c, nil
	}
	if _, err := LoadFile(c, cfg.Engine.Source, sourceFormats[cfg.Engine.Kind]); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadFile detects the format of path, checks it is the expected one and
// loads the file into c.
func LoadFile(c Completer, path string, expected SourceFormat) (LoadStats, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return LoadStats{}, err
	}
	if format != expected {
		return LoadStats{}, fmt.Errorf("%w: %s is %s, engine loads %s", ErrFormatMismatch, path, format, expected)
	}
	file, err := os.Open(path)
	if err != nil {
		return LoadStats{}, fmt.Errorf("failed to open source %s: %w", path, err)
	}
	defer file.Close()

	start := time.Now()
	stats, err := c.Load(file)
	if err != nil {
		return stats, err
	}
	log.Info("Loaded source", "path", path, "inserted", stats.Inserted, "skipped", stats.Skipped, "took", time.Since(start))
	return stats, nil
}
