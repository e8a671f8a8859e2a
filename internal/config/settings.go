package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/matrix-datasets/internal/catalog"
	"github.com/handiism/matrix-datasets/internal/model"
	"gopkg.in/yaml.v3"
)

// Settings holds all configuration options.
type Settings struct {
	// Location settings
	DatasetsPath string `json:"datasets_path" yaml:"datasets_path"`
	Delimiter    string `json:"delimiter" yaml:"delimiter"`

	// Scan settings
	MaxConcurrentScans int      `json:"max_concurrent_scans" yaml:"max_concurrent_scans"`
	FollowSymlinks     bool     `json:"follow_symlinks" yaml:"follow_symlinks"`
	IncludeUnknown     bool     `json:"include_unknown" yaml:"include_unknown"`
	Formats            []string `json:"formats" yaml:"formats"` // market, csr

	// Download settings
	MaxConcurrentDownloads    int     `json:"max_concurrent_downloads" yaml:"max_concurrent_downloads"`
	DownloadMaxRetries        int     `json:"download_max_retries" yaml:"download_max_retries"`
	DownloadRetryCooldown     float64 `json:"download_retry_cooldown" yaml:"download_retry_cooldown"`
	DownloadRetryExponent     float64 `json:"download_retry_exponent" yaml:"download_retry_exponent"`
	AllowedFileSizeDifference float64 `json:"allowed_file_size_difference" yaml:"allowed_file_size_difference"`

	// Catalog settings
	CreateCatalog   bool   `json:"create_catalog" yaml:"create_catalog"`
	CatalogDir      string `json:"catalog_dir" yaml:"catalog_dir"`
	CatalogFormat   string `json:"catalog_format" yaml:"catalog_format"` // list, tsv, json, yaml
	CatalogFileName string `json:"catalog_file_name" yaml:"catalog_file_name"`
	CatalogHeader   bool   `json:"catalog_header" yaml:"catalog_header"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DatasetsPath: filepath.Join(homeDir, "Datasets", "{format}"),
		Delimiter:    "/",

		MaxConcurrentScans: 4,
		FollowSymlinks:     false,
		IncludeUnknown:     false,
		Formats:            []string{"market", "csr"},

		MaxConcurrentDownloads:    4,
		DownloadMaxRetries:        5,
		DownloadRetryCooldown:     0.2,
		DownloadRetryExponent:     4.0,
		AllowedFileSizeDifference: 0,

		CreateCatalog:   false,
		CatalogDir:      filepath.Join(homeDir, "Datasets"),
		CatalogFormat:   "list",
		CatalogFileName: "catalog",
		CatalogHeader:   true,
	}
}

// Load reads settings from a JSON or YAML file.
//
// Files named *.yaml or *.yml are decoded as YAML, anything else as JSON.
// A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isYAML(path) {
		err = yaml.Unmarshal(data, settings)
	} else {
		err = json.Unmarshal(data, settings)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON or YAML file, chosen like Load.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(s)
	} else {
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks limits and format names.
func (s *Settings) Validate() error {
	if s.MaxConcurrentScans < 1 {
		return fmt.Errorf("max_concurrent_scans must be positive, got %d", s.MaxConcurrentScans)
	}
	if s.MaxConcurrentDownloads < 1 {
		return fmt.Errorf("max_concurrent_downloads must be positive, got %d", s.MaxConcurrentDownloads)
	}
	if s.DownloadMaxRetries < 1 {
		return fmt.Errorf("download_max_retries must be positive, got %d", s.DownloadMaxRetries)
	}
	if s.AllowedFileSizeDifference < 0 {
		return fmt.Errorf("allowed_file_size_difference must not be negative")
	}
	if _, err := s.EnabledFormats(); err != nil {
		return err
	}
	if _, err := catalog.ParseFormat(s.CatalogFormat); err != nil {
		return err
	}
	return nil
}

// EnabledFormats parses Formats.
func (s *Settings) EnabledFormats() (map[model.Format]bool, error) {
	enabled := make(map[model.Format]bool, len(s.Formats))
	for _, name := range s.Formats {
		f, err := model.ParseFormat(name)
		if err != nil {
			return nil, fmt.Errorf("formats: %w", err)
		}
		enabled[f] = true
	}
	return enabled, nil
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		DatasetsPath: s.DatasetsPath,
		Delimiter:    s.Delimiter,
	}
}

// ToCatalogFormat converts CatalogFormat, falling back to a plain list.
func (s *Settings) ToCatalogFormat() catalog.Format {
	f, err := catalog.ParseFormat(s.CatalogFormat)
	if err != nil {
		return catalog.FormatList
	}
	return f
}

func isYAML(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
