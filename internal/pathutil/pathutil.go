// Package pathutil classifies matrix dataset files by their names.
//
// All functions are pure string operations: they never touch the
// filesystem, never normalize "." or ".." components and never fail.
// They are safe for concurrent use.
package pathutil

import "strings"

const (
	// DefaultDelim is the path component separator used by ExtractFilename.
	DefaultDelim = "/"

	// ExtMarket and ExtMarketIO are the Matrix Market suffixes.
	ExtMarket   = ".mtx"
	ExtMarketIO = ".mmio"

	// ExtBinaryCSR is the suffix of binary compressed-sparse-row files.
	ExtBinaryCSR = ".csr"
)

// ExtractFilename returns the part of path after the last "/".
//
// If path contains no "/", it is returned unchanged.
//
// Example:
//
//	ExtractFilename("/data/sets/graph.csr") // Returns "graph.csr"
//	ExtractFilename("matrix.mtx")           // Returns "matrix.mtx"
func ExtractFilename(path string) string {
	return ExtractFilenameDelim(path, DefaultDelim)
}

// ExtractFilenameDelim is ExtractFilename with a caller-chosen separator.
//
// The delimiter is honored as given, so ExtractFilenameDelim(`C:\a\b.mtx`, `\`)
// returns "b.mtx". An empty delimiter means DefaultDelim.
func ExtractFilenameDelim(path, delim string) string {
	if delim == "" {
		delim = DefaultDelim
	}
	if i := strings.LastIndex(path, delim); i >= 0 {
		return path[i+len(delim):]
	}
	return path
}

// ExtractDataset strips the extension from filename.
//
// Everything before the last "." is returned; a name without "." is
// returned unchanged.
//
// Example:
//
//	ExtractDataset("graph.csr")     // Returns "graph"
//	ExtractDataset("web.tar.mtx")   // Returns "web.tar"
//	ExtractDataset("README")        // Returns "README"
func ExtractDataset(filename string) string {
	if i := strings.LastIndex(filename, "."); i >= 0 {
		return filename[:i]
	}
	return filename
}

// IsMarket reports whether filename ends in ".mtx" or ".mmio".
//
// The comparison is case-sensitive. Names shorter than the suffix never match.
func IsMarket(filename string) bool {
	return strings.HasSuffix(filename, ExtMarket) || strings.HasSuffix(filename, ExtMarketIO)
}

// IsBinaryCSR reports whether filename ends in ".csr".
func IsBinaryCSR(filename string) bool {
	return strings.HasSuffix(filename, ExtBinaryCSR)
}
