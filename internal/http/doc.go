// Package http provides the HTTP client used to fetch remote datasets.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Streaming downloads to a ".part" file renamed on completion
//   - File size retrieval via HEAD requests
//   - Timeout handling
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	size, err := client.GetFileSize(ctx, "https://host/mm/web-Google.mtx")
//
//	n, err := client.DownloadFile(ctx, url, "/data/market/web-Google.mtx", func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   file,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
