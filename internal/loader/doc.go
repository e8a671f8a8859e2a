// Package loader finds sparse matrix datasets and fetches remote ones.
//
// # Manager
//
// The Manager coordinates the whole process:
//
//  1. Split the input into local paths and http(s) URLs
//  2. Scan directories and classify every file by name
//  3. Query remote dataset sizes
//  4. Download remote datasets concurrently
//  5. Write a catalog (optional)
//
// # Basic Usage
//
//	manager := loader.NewManager(settings, func(event loader.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	err := manager.Initialize(ctx, "/data/matrices\nhttps://host/mm/web-Google.mtx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = manager.StartDownloads(ctx)
//
// # Concurrency
//
// The Manager uses configurable concurrency limits:
//   - MaxConcurrentScans: How many inputs are resolved in parallel
//   - MaxConcurrentDownloads: How many remote datasets are fetched in parallel
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent.
// The callback may be invoked from several goroutines at once.
//
// # Retry Logic
//
// Failed downloads are retried with exponential backoff, configurable via
// settings.DownloadMaxRetries, settings.DownloadRetryCooldown and
// settings.DownloadRetryExponent.
package loader
