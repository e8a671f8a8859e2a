package model

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/handiism/matrix-datasets/internal/pathutil"
)

var (
	// ErrUnknownFormat is returned when a format name cannot be parsed.
	ErrUnknownFormat = errors.New("unknown dataset format")

	// ErrInvalidURL is returned for remote sources that are not usable http(s) URLs.
	ErrInvalidURL = errors.New("invalid dataset URL")
)

// Dataset is a single sparse matrix file, local or remote.
//
// Name, Filename and Format are derived from the source location alone:
//
//	ds := NewDataset("/data/sets/graph.csr", cfg)
//	// ds.Filename = "graph.csr"
//	// ds.Name     = "graph"
//	// ds.Format   = FormatBinaryCSR
type Dataset struct {
	// ID is a stable identifier derived from Source. Local sources are
	// hashed in absolute, cleaned form so different spellings of one file
	// share an ID.
	ID string `json:"id" yaml:"id"`

	// Name is the dataset name: Filename without its extension.
	Name string `json:"name" yaml:"name"`

	// Filename is the last component of Source.
	Filename string `json:"filename" yaml:"filename"`

	// Format is the classification of Filename.
	Format Format `json:"format" yaml:"format"`

	// Source is where the dataset was found: a local path or an http(s) URL.
	Source string `json:"source" yaml:"source"`

	// Path is the local file path. For remote datasets this is the
	// computed download destination.
	Path string `json:"path" yaml:"path"`

	// Size is the file size in bytes, or 0 if not known yet.
	Size int64 `json:"size" yaml:"size"`

	// Remote is true when Source is a URL.
	Remote bool `json:"remote" yaml:"remote"`
}

// PathConfig holds path settings for datasets.
//
// DatasetsPath is the directory template remote datasets are saved under:
//   - {format} - Format name ("market", "csr", "unknown")
//   - {dataset} - Dataset name
//
// Example:
//
//	cfg := &PathConfig{
//	    DatasetsPath: "/data/{format}",
//	    Delimiter:    "/",
//	}
type PathConfig struct {
	// DatasetsPath is the download directory template.
	DatasetsPath string

	// Delimiter separates path components in local sources.
	// Empty means pathutil.DefaultDelim.
	Delimiter string
}

// NewDataset creates a Dataset for a local file.
//
// The filename is split off with cfg.Delimiter, so sources written with a
// foreign separator (for example Windows paths listed in a manifest) still
// resolve to the right name. Source, Filename and Name keep the input
// spelling; only the ID is computed from the cleaned absolute path.
func NewDataset(source string, cfg *PathConfig) *Dataset {
	filename := pathutil.ExtractFilenameDelim(source, cfg.Delimiter)
	return &Dataset{
		ID:       datasetID(localKey(source)),
		Name:     pathutil.ExtractDataset(filename),
		Filename: filename,
		Format:   DetectFormat(filename),
		Source:   source,
		Path:     source,
	}
}

// NewRemoteDataset creates a Dataset for a file served over HTTP.
//
// The filename comes from the URL path (query and fragment are ignored),
// and Path is computed from cfg.DatasetsPath.
func NewRemoteDataset(rawURL string, cfg *PathConfig) (*Dataset, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}

	filename := sanitizeFileName(pathutil.ExtractFilename(u.Path))
	if filename == "" {
		return nil, fmt.Errorf("%w: no file name in %q", ErrInvalidURL, rawURL)
	}

	ds := &Dataset{
		ID:       datasetID(rawURL),
		Name:     pathutil.ExtractDataset(filename),
		Filename: filename,
		Format:   DetectFormat(filename),
		Source:   rawURL,
		Remote:   true,
	}
	ds.Path = ds.parseFilePath(cfg)

	return ds, nil
}

// IsKnown returns true if the dataset is Matrix Market or binary CSR.
func (d *Dataset) IsKnown() bool {
	return d.Format != FormatUnknown
}

// String formats the dataset for listings.
func (d *Dataset) String() string {
	return fmt.Sprintf("%s (%s)", d.Name, d.Format)
}

// parseFilePath computes the download destination from the config template.
func (d *Dataset) parseFilePath(cfg *PathConfig) string {
	dir := cfg.DatasetsPath
	dir = strings.ReplaceAll(dir, "{format}", d.Format.String())
	dir = strings.ReplaceAll(dir, "{dataset}", sanitizeFileName(d.Name))

	// Limit path length for Windows MAX_PATH
	if len(dir) >= 248 {
		dir = dir[:247]
	}

	return filepath.Join(dir, d.Filename)
}

// Disambiguate moves the download destination to a name that includes the
// dataset ID, keeping the directory and extension:
//
//	.../market/graph.mtx -> .../market/graph-1a2b3c4d.mtx
func (d *Dataset) Disambiguate() {
	ext := strings.TrimPrefix(d.Filename, d.Name)
	id := d.ID
	if len(id) > 8 {
		id = id[:8]
	}
	d.Path = filepath.Join(filepath.Dir(d.Path), d.Name+"-"+id+ext)
}

func localKey(source string) string {
	if abs, err := filepath.Abs(source); err == nil {
		return abs
	}
	return filepath.Clean(source)
}

func datasetID(source string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(source))
}

var (
	invalidChars  = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots  = regexp.MustCompile(`\.+$`)
	repeatedSpace = regexp.MustCompile(`\s+`)
)

// sanitizeFileName removes or replaces characters that are invalid in file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Leading and trailing whitespace is removed
func sanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpace.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}
