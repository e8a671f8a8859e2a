package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"graph.mtx", "graph.mtx"},
		{"file:with:colons.mtx", "file_with_colons.mtx"},
		{"file<with>brackets.csr", "file_with_brackets.csr"},
		{"file|with|pipes.mtx", "file_with_pipes.mtx"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"  padded  ", "padded"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := sanitizeFileName(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"a.mtx", FormatMarket},
		{"a.mmio", FormatMarket},
		{"graph.csr", FormatBinaryCSR},
		{"graph.bin", FormatUnknown},
		{"c", FormatUnknown},
		{"", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectFormat(tt.filename); got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestFormat_Extension(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatMarket, ".mtx"},
		{FormatBinaryCSR, ".csr"},
		{FormatUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if got := tt.format.Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"market", "MTX", " mmio "} {
		if got, err := ParseFormat(name); err != nil || got != FormatMarket {
			t.Errorf("ParseFormat(%q) = %v, %v", name, got, err)
		}
	}
	if got, err := ParseFormat("csr"); err != nil || got != FormatBinaryCSR {
		t.Errorf("ParseFormat(csr) = %v, %v", got, err)
	}
	if _, err := ParseFormat("parquet"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("ParseFormat(parquet) error = %v, want ErrUnknownFormat", err)
	}
}

func TestNewDataset(t *testing.T) {
	ds := NewDataset("/data/sets/graph.csr", &PathConfig{})

	if ds.Filename != "graph.csr" {
		t.Errorf("Filename = %q, want %q", ds.Filename, "graph.csr")
	}
	if ds.Name != "graph" {
		t.Errorf("Name = %q, want %q", ds.Name, "graph")
	}
	if ds.Format != FormatBinaryCSR {
		t.Errorf("Format = %v, want csr", ds.Format)
	}
	if ds.Path != "/data/sets/graph.csr" {
		t.Errorf("Path = %q", ds.Path)
	}
	if ds.Remote {
		t.Error("local dataset should not be remote")
	}
	if len(ds.ID) != 16 {
		t.Errorf("ID = %q, want 16 hex digits", ds.ID)
	}
}

func TestNewDataset_Delimiter(t *testing.T) {
	ds := NewDataset(`D:\matrices\web-Google.mtx`, &PathConfig{Delimiter: `\`})

	if ds.Filename != "web-Google.mtx" {
		t.Errorf("Filename = %q, want %q", ds.Filename, "web-Google.mtx")
	}
	if !ds.IsKnown() {
		t.Error("web-Google.mtx should be a known format")
	}
}

func TestNewDataset_StableID(t *testing.T) {
	cfg := &PathConfig{}
	a := NewDataset("/x/a.mtx", cfg)
	b := NewDataset("/x/a.mtx", cfg)
	c := NewDataset("/y/a.mtx", cfg)

	if a.ID != b.ID {
		t.Errorf("same source produced different IDs: %s vs %s", a.ID, b.ID)
	}
	if a.ID == c.ID {
		t.Errorf("different sources produced the same ID %s", a.ID)
	}
}

func TestNewDataset_IDIgnoresSpelling(t *testing.T) {
	cfg := &PathConfig{}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		a, b string
	}{
		{"dot segment", "/x/./a.mtx", "/x/a.mtx"},
		{"double slash", "/x//a.mtx", "/x/a.mtx"},
		{"parent segment", "/x/sub/../a.mtx", "/x/a.mtx"},
		{"relative and absolute", "a.mtx", filepath.Join(wd, "a.mtx")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewDataset(tt.a, cfg)
			b := NewDataset(tt.b, cfg)
			if a.ID != b.ID {
				t.Errorf("IDs differ: %s (%q) vs %s (%q)", a.ID, tt.a, b.ID, tt.b)
			}
			if a.Source != tt.a || a.Path != tt.a {
				t.Errorf("Source/Path = %q/%q, want input %q unchanged", a.Source, a.Path, tt.a)
			}
		})
	}
}

func TestDataset_Disambiguate(t *testing.T) {
	cfg := &PathConfig{DatasetsPath: "/data/{format}"}

	tests := []struct {
		url  string
		want string
	}{
		{"https://host/x/graph.mtx", "graph-%s.mtx"},
		{"https://host/x/graph", "graph-%s"},
		{"https://host/x/graph.tar.csr", "graph.tar-%s.csr"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			ds, err := NewRemoteDataset(tt.url, cfg)
			if err != nil {
				t.Fatalf("NewRemoteDataset: %v", err)
			}
			dir := filepath.Dir(ds.Path)
			ds.Disambiguate()

			want := filepath.Join(dir, fmt.Sprintf(tt.want, ds.ID[:8]))
			if ds.Path != want {
				t.Errorf("Path = %q, want %q", ds.Path, want)
			}
		})
	}
}

func TestNewRemoteDataset(t *testing.T) {
	cfg := &PathConfig{DatasetsPath: "/data/{format}/{dataset}"}

	ds, err := NewRemoteDataset("https://example.com/mm/web-Google.mtx?dl=1", cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join("/data/market/web-Google", "web-Google.mtx")
	if ds.Path != want {
		t.Errorf("Path = %q, want %q", ds.Path, want)
	}
	if !ds.Remote {
		t.Error("Remote should be true")
	}
	if ds.Source != "https://example.com/mm/web-Google.mtx?dl=1" {
		t.Errorf("Source = %q", ds.Source)
	}
}

func TestNewRemoteDataset_Invalid(t *testing.T) {
	cfg := &PathConfig{DatasetsPath: "/data"}

	for _, raw := range []string{"ftp://host/a.mtx", "https://host/", "://bad"} {
		t.Run(raw, func(t *testing.T) {
			if _, err := NewRemoteDataset(raw, cfg); !errors.Is(err, ErrInvalidURL) {
				t.Errorf("error = %v, want ErrInvalidURL", err)
			}
		})
	}
}
