package ioutils

import (
	"context"
	"os"

	"github.com/karrick/godirwalk"
)

// errThreshold is the number of unreadable entries after which a scan gives up.
const errThreshold = 1000

// ScanFunc is called for every regular file found by ScanDir.
// Returning an error stops the scan and ScanDir returns that error.
type ScanFunc func(path string, size int64) error

// ScanOptions controls ScanDir.
type ScanOptions struct {
	// FollowSymlinks descends into symlinked directories and reports
	// symlinked files. Otherwise symlinks are skipped.
	FollowSymlinks bool

	// Sorted visits directory entries in lexical order.
	Sorted bool

	// OnError is told about entries that could not be read. They are
	// skipped, up to an internal threshold.
	OnError func(path string, err error)
}

// ScanDir walks root and calls fn for every regular file below it.
//
// Unreadable entries are skipped and reported through opts.OnError. The
// scan halts on context cancellation, on an error from fn, or after too
// many unreadable entries.
//
// Example:
//
//	err := ScanDir(ctx, "/data", ScanOptions{Sorted: true}, func(path string, size int64) error {
//	    fmt.Println(path, size)
//	    return nil
//	})
func ScanDir(ctx context.Context, root string, opts ScanOptions, fn ScanFunc) error {
	var (
		halt    error
		skipped int
	)

	err := godirwalk.Walk(root, &godirwalk.Options{
		FollowSymbolicLinks: opts.FollowSymlinks,
		Unsorted:            !opts.Sorted,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if err := ctx.Err(); err != nil {
				halt = err
				return err
			}
			if de.IsDir() {
				return nil
			}
			if de.IsSymlink() && !opts.FollowSymlinks {
				return nil
			}

			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if !info.Mode().IsRegular() {
				return nil
			}

			if err := fn(path, info.Size()); err != nil {
				halt = err
				return err
			}
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			if halt != nil {
				return godirwalk.Halt
			}
			skipped++
			if skipped > errThreshold {
				return godirwalk.Halt
			}
			if opts.OnError != nil {
				opts.OnError(path, err)
			}
			return godirwalk.SkipNode
		},
	})

	if halt != nil {
		return halt
	}
	return err
}
