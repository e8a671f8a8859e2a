// Package ioutils provides file system utilities.
//
// This package contains functions for:
//   - Atomic file writing
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Recursive directory scanning
//
// # File Operations
//
//	// Write a catalog atomically
//	err := ioutils.WriteFile(ctx, "/data/catalog.txt", []byte("/data/a.mtx\n"))
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/data/market")
//
// # Scanning
//
// ScanDir walks a directory tree with godirwalk and reports regular files:
//
//	err := ioutils.ScanDir(ctx, "/data", ioutils.ScanOptions{}, func(path string, size int64) error {
//	    return nil
//	})
package ioutils
