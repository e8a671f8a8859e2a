package loader

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/handiism/matrix-datasets/internal/catalog"
	"github.com/handiism/matrix-datasets/internal/config"
	"github.com/handiism/matrix-datasets/internal/http"
	ioutils "github.com/handiism/matrix-datasets/internal/io"
	"github.com/handiism/matrix-datasets/internal/model"
	"golang.org/x/sync/errgroup"
)

// ErrNoDatasets is returned by Initialize when no input yields a dataset.
var ErrNoDatasets = errors.New("no datasets found")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a loader progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager discovers datasets and fetches the remote ones.
type Manager struct {
	settings   *config.Settings
	pathCfg    *model.PathConfig
	httpClient *http.Client
	catalog    *catalog.Writer

	datasets        []*model.Dataset
	seen            map[string]bool
	totalBytes      int64
	receivedBytes   int64
	totalFiles      int32
	downloadedFiles int32

	onProgress func(ProgressEvent)
	mu         sync.Mutex
}

// NewManager creates a new Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		pathCfg:    settings.ToPathConfig(),
		httpClient: http.NewClient(),
		catalog:    catalog.NewWriter(settings.ToCatalogFormat(), settings.CatalogHeader),
		seen:       make(map[string]bool),
		onProgress: onProgress,
	}
}

// WithHTTPClient replaces the client used for remote datasets.
func (m *Manager) WithHTTPClient(c *http.Client) *Manager {
	m.httpClient = c
	return m
}

// Initialize resolves the input into datasets.
//
// input holds local paths and http(s) URLs separated by newlines or commas.
// Directories are scanned recursively, files and URLs are classified by
// name. Per-input failures are reported as events and skipped.
func (m *Manager) Initialize(ctx context.Context, input string) error {
	if err := m.settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	formats, _ := m.settings.EnabledFormats()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentScans)

	for _, in := range ParseInputs(input) {
		in := in
		g.Go(func() error {
			m.resolve(gctx, in, formats)
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	m.mu.Lock()
	sort.Slice(m.datasets, func(i, j int) bool {
		if m.datasets[i].Name != m.datasets[j].Name {
			return m.datasets[i].Name < m.datasets[j].Name
		}
		return m.datasets[i].Source < m.datasets[j].Source
	})
	count := len(m.datasets)
	m.mu.Unlock()

	if count == 0 {
		return ErrNoDatasets
	}

	m.assignDestinations()

	m.calculateTotals(ctx)
	return nil
}

// StartDownloads fetches all remote datasets, then writes the catalog
// if enabled. Local datasets are left untouched.
func (m *Manager) StartDownloads(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentDownloads)

	var failed int32
	for _, ds := range m.Datasets() {
		if !ds.Remote {
			continue
		}
		ds := ds
		g.Go(func() error {
			if err := m.downloadDataset(gctx, ds); err != nil {
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", ds.Filename, err), Level: LevelError})
				atomic.AddInt32(&failed, 1)
				return nil // Continue with other datasets
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if m.settings.CreateCatalog {
		path, err := m.WriteCatalog(ctx, m.settings.CatalogDir)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error writing catalog: %v", err), Level: LevelWarning})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Wrote catalog %s", path), Level: LevelSuccess})
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d dataset(s) failed to download", failed)
	}
	return nil
}

// WriteCatalog writes the catalog of all datasets into dir and returns its path.
func (m *Manager) WriteCatalog(ctx context.Context, dir string) (string, error) {
	content, err := m.catalog.Render(m.Datasets())
	if err != nil {
		return "", err
	}

	if err := ioutils.EnsureDir(dir); err != nil {
		return "", err
	}

	name := m.catalog.FileName(ioutils.SanitizeFileName(m.settings.CatalogFileName))
	path := filepath.Join(dir, name)
	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		return "", err
	}
	return path, nil
}

// Datasets returns a copy of the resolved datasets, sorted by name.
func (m *Manager) Datasets() []*model.Dataset {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Dataset, len(m.datasets))
	copy(out, m.datasets)
	return out
}

// GetProgress returns current download progress.
func (m *Manager) GetProgress() (received, total int64, filesReceived, filesTotal int32) {
	return atomic.LoadInt64(&m.receivedBytes), atomic.LoadInt64(&m.totalBytes),
		atomic.LoadInt32(&m.downloadedFiles), atomic.LoadInt32(&m.totalFiles)
}

// GetDatasetNames returns display names of all resolved datasets.
func (m *Manager) GetDatasetNames() []string {
	datasets := m.Datasets()
	names := make([]string, len(datasets))
	for i, ds := range datasets {
		where := "local"
		if ds.Remote {
			where = "remote"
		}
		names[i] = fmt.Sprintf("%s [%s, %s]", ds.Name, ds.Format, where)
	}
	return names
}

// ParseInputs splits newline- or comma-separated input into trimmed entries.
func ParseInputs(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == '\n' || r == ','
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (m *Manager) resolve(ctx context.Context, in string, formats map[model.Format]bool) {
	if isURL(in) {
		ds, err := model.NewRemoteDataset(in, m.pathCfg)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s: %v", in, err), Level: LevelError})
			return
		}
		m.add(ds, formats)
		return
	}

	info, err := os.Stat(in)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s: %v", in, err), Level: LevelError})
		return
	}

	if !info.IsDir() {
		ds := model.NewDataset(in, m.pathCfg)
		ds.Size = info.Size()
		m.add(ds, formats)
		return
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Scanning %s", in), Level: LevelVerbose})

	// Scanned paths use the OS separator whatever the configured delimiter is.
	scanCfg := &model.PathConfig{
		DatasetsPath: m.pathCfg.DatasetsPath,
		Delimiter:    string(filepath.Separator),
	}
	opts := ioutils.ScanOptions{
		FollowSymlinks: m.settings.FollowSymlinks,
		Sorted:         true,
		OnError: func(path string, err error) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Cannot read %s: %v", path, err), Level: LevelWarning})
		},
	}

	err = ioutils.ScanDir(ctx, in, opts, func(path string, size int64) error {
		ds := model.NewDataset(path, scanCfg)
		ds.Size = size
		m.add(ds, formats)
		return nil
	})
	if err != nil && ctx.Err() == nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error scanning %s: %v", in, err), Level: LevelError})
	}
}

func (m *Manager) add(ds *model.Dataset, formats map[model.Format]bool) {
	if !ds.IsKnown() && !m.settings.IncludeUnknown {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Ignoring %s: unknown format", ds.Source), Level: LevelVerbose})
		return
	}
	if ds.IsKnown() && !formats[ds.Format] {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Ignoring %s: %s not enabled", ds.Source, ds.Format), Level: LevelVerbose})
		return
	}

	m.mu.Lock()
	if m.seen[ds.ID] {
		m.mu.Unlock()
		return
	}
	m.seen[ds.ID] = true
	m.datasets = append(m.datasets, ds)
	m.mu.Unlock()

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %s dataset: %s", ds.Format, ds.Name), Level: LevelInfo})
}

// assignDestinations gives every remote dataset a download path no other
// dataset uses. Runs after sorting so the renamed one is deterministic.
func (m *Manager) assignDestinations() {
	var renamed []ProgressEvent

	m.mu.Lock()
	claimed := make(map[string]bool, len(m.datasets))
	for _, ds := range m.datasets {
		if !ds.Remote {
			claimed[filepath.Clean(ds.Path)] = true
		}
	}
	for _, ds := range m.datasets {
		if !ds.Remote {
			continue
		}
		if claimed[filepath.Clean(ds.Path)] {
			prev := ds.Path
			ds.Disambiguate()
			renamed = append(renamed, ProgressEvent{
				Message: fmt.Sprintf("Destination %s already used; saving %s as %s", prev, ds.Source, ds.Path),
				Level:   LevelWarning,
			})
		}
		claimed[filepath.Clean(ds.Path)] = true
	}
	m.mu.Unlock()

	for _, event := range renamed {
		m.progress(event)
	}
}

func (m *Manager) calculateTotals(ctx context.Context) {
	for _, ds := range m.Datasets() {
		if !ds.Remote {
			continue
		}
		atomic.AddInt32(&m.totalFiles, 1)
		size, err := m.httpClient.GetFileSize(ctx, ds.Source)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Size of %s unknown: %v", ds.Filename, err), Level: LevelVerbose})
			continue
		}
		ds.Size = size
		atomic.AddInt64(&m.totalBytes, size)
	}
}

func (m *Manager) downloadDataset(ctx context.Context, ds *model.Dataset) error {
	// Check if file already exists with acceptable size
	if size, err := ioutils.FileSize(ds.Path); err == nil && ds.Size > 0 {
		sizeDiff := float64(size-ds.Size) / float64(ds.Size)
		if math.Abs(sizeDiff) <= m.settings.AllowedFileSizeDifference {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipping existing: %s", ds.Path), Level: LevelVerbose})
			atomic.AddInt64(&m.receivedBytes, size)
			atomic.AddInt32(&m.downloadedFiles, 1)
			return nil
		}
	}

	var err error
	for tries := 0; tries < m.settings.DownloadMaxRetries; tries++ {
		var last int64
		_, err = m.httpClient.DownloadFile(ctx, ds.Source, ds.Path, func(written, _ int64) {
			atomic.AddInt64(&m.receivedBytes, written-last)
			last = written
		})
		if err == nil {
			break
		}
		atomic.AddInt64(&m.receivedBytes, -last)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if tries+1 < m.settings.DownloadMaxRetries {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Retry %d/%d for %s", tries+1, m.settings.DownloadMaxRetries, ds.Filename), Level: LevelWarning})
			m.waitForRetry(ctx, tries)
		}
	}

	if err != nil {
		return err
	}

	atomic.AddInt32(&m.downloadedFiles, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloaded: %s", ds.Path), Level: LevelSuccess})
	return nil
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
