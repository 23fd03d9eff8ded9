package suggest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// SourceFormat represents the kinds of source files engines load.
type SourceFormat int

const (
	FormatUnknown SourceFormat = iota
	FormatText                 // One entry per line
	FormatCSV                  // Comma separated records
)

// formatInfo contains metadata about a source format
type formatInfo struct {
	Format      SourceFormat
	Description string
	Extensions  []string
	MinSize     int64
}

var supportedFormats = map[SourceFormat]formatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain text, one entry per line",
		Extensions:  []string{".txt"},
		MinSize:     1,
	},
	FormatCSV: {
		Format:      FormatCSV,
		Description: "CSV records",
		Extensions:  []string{".csv"},
		MinSize:     1,
	},
}

func (f SourceFormat) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatCSV:
		return "csv"
	}
	return "unknown"
}

// ValidateSource checks that filename exists, is large enough, carries an
// extension of the expected format and can be read.
func ValidateSource(filename string, expected SourceFormat) error {
	info, exists := supportedFormats[expected]
	if !exists {
		return fmt.Errorf("unknown format: %v", expected)
	}

	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("%s is a directory", filename)
	}
	if fileInfo.Size() < info.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), info.Description, info.MinSize)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	validExt := false
	for _, validExtension := range info.Extensions {
		if ext == validExtension {
			validExt = true
			break
		}
	}
	if !validExt {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, ext, info.Description, info.Extensions)
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	buffer := make([]byte, 1024)
	if _, err := file.Read(buffer); err != nil && err != io.EOF {
		return fmt.Errorf("failed to read from %s: %w", filename, err)
	}
	log.Debugf("Source %s validated as %s", filename, expected)
	return nil
}

// DetectFormat picks the format of filename from its extension and validates it.
func DetectFormat(filename string) (SourceFormat, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e != ext {
				continue
			}
			if err := ValidateSource(filename, format); err != nil {
				return FormatUnknown, err
			}
			return format, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}
