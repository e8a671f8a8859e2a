package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/handiism/matrix-datasets/internal/config"
	"github.com/handiism/matrix-datasets/internal/loader"
)

func main() {
	// Command line flags
	var (
		inputFlag          = flag.String("input", "", "Paths or URLs to load (comma-separated or newline-separated)")
		outputFlag         = flag.String("output", "", "Directory for downloaded datasets (overrides config)")
		configFlag         = flag.String("config", "", "Path to config file (JSON or YAML)")
		catalogFlag        = flag.Bool("catalog", false, "Write a catalog of all datasets")
		catalogFormatFlag  = flag.String("catalog-format", "", "Catalog format: list, tsv, json, yaml")
		catalogDirFlag     = flag.String("catalog-dir", "", "Directory for the catalog (overrides config)")
		delimFlag          = flag.String("delim", "", "Path separator used to split file names from listed paths")
		includeUnknownFlag = flag.Bool("include-unknown", false, "Keep files that are neither Matrix Market nor binary CSR")
		verboseFlag        = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag         = flag.Bool("dry-run", false, "Classify inputs without downloading")
	)

	flag.Parse()

	if *inputFlag == "" && flag.NArg() == 0 {
		fmt.Println("matrix-datasets - find and fetch sparse matrix datasets")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  matrix-datasets -input <path|URL>[,<path|URL>...] [options]")
		fmt.Println("  matrix-datasets [options] <path|URL>...")
		fmt.Println()
		fmt.Println("For interactive mode, use: matrix-datasets-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.DatasetsPath = filepath.Join(*outputFlag, "{format}")
	}
	if *catalogFlag {
		settings.CreateCatalog = true
	}
	if *catalogFormatFlag != "" {
		settings.CatalogFormat = *catalogFormatFlag
	}
	if *catalogDirFlag != "" {
		settings.CatalogDir = *catalogDirFlag
	}
	if *delimFlag != "" {
		settings.Delimiter = *delimFlag
	}
	if *includeUnknownFlag {
		settings.IncludeUnknown = true
	}

	input := *inputFlag
	if flag.NArg() > 0 {
		input = strings.Join(append([]string{input}, flag.Args()...), "\n")
	}

	// Handle interrupts
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	manager := loader.NewManager(settings, func(event loader.ProgressEvent) {
		if event.Level == loader.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case loader.LevelError:
			prefix = "error: "
		case loader.LevelWarning:
			prefix = "warning: "
		case loader.LevelSuccess:
			prefix = "ok: "
		case loader.LevelVerbose:
			prefix = "  "
		}

		fmt.Fprintln(os.Stderr, prefix+event.Message)
	})

	if err := manager.Initialize(ctx, input); err != nil {
		if errors.Is(err, loader.ErrNoDatasets) {
			fmt.Fprintln(os.Stderr, "No datasets found.")
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range manager.Datasets() {
		fmt.Printf("%-7s %-30s %s\n", ds.Format, ds.Name, ds.Path)
	}

	if *dryRunFlag {
		fmt.Fprintln(os.Stderr, "[Dry run - not downloading]")
		return
	}

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during download: %v\n", err)
		os.Exit(1)
	}

	received, _, filesReceived, filesTotal := manager.GetProgress()
	if filesTotal > 0 {
		fmt.Fprintf(os.Stderr, "Fetched %d/%d remote datasets (%.2f MB)\n", filesReceived, filesTotal, float64(received)/1024/1024)
	}
}
