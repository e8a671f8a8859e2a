package model

import (
	"fmt"
	"strings"

	"github.com/handiism/matrix-datasets/internal/pathutil"
)

// Format is the on-disk representation of a sparse matrix dataset.
type Format int

const (
	// FormatUnknown is any file that is neither Matrix Market nor binary CSR.
	FormatUnknown Format = iota

	// FormatMarket is a Matrix Market text file (.mtx or .mmio).
	FormatMarket

	// FormatBinaryCSR is a compressed-sparse-row binary file (.csr).
	FormatBinaryCSR
)

// String returns the short name used in configs, catalogs and CLI output.
func (f Format) String() string {
	switch f {
	case FormatMarket:
		return "market"
	case FormatBinaryCSR:
		return "csr"
	default:
		return "unknown"
	}
}

// Extension returns the canonical file extension for the format, including the dot.
//
// Returns:
//   - ".mtx" for FormatMarket
//   - ".csr" for FormatBinaryCSR
//   - "" for FormatUnknown
func (f Format) Extension() string {
	switch f {
	case FormatMarket:
		return pathutil.ExtMarket
	case FormatBinaryCSR:
		return pathutil.ExtBinaryCSR
	default:
		return ""
	}
}

// MarshalText lets formats appear by name in JSON and YAML output.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseFormat maps a format name to a Format.
//
// Accepted names (case-insensitive): "market", "mtx", "mmio", "csr", "unknown".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "market", "mtx", "mmio":
		return FormatMarket, nil
	case "csr", "binary-csr":
		return FormatBinaryCSR, nil
	case "unknown":
		return FormatUnknown, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DetectFormat classifies a filename by its suffix.
//
// Only the name is inspected; the file is never opened.
func DetectFormat(filename string) Format {
	switch {
	case pathutil.IsMarket(filename):
		return FormatMarket
	case pathutil.IsBinaryCSR(filename):
		return FormatBinaryCSR
	default:
		return FormatUnknown
	}
}
