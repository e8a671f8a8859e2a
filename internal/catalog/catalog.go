// Package catalog renders dataset listings for other tools to consume.
package catalog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/handiism/matrix-datasets/internal/model"
	"gopkg.in/yaml.v3"
)

// Format represents supported catalog file formats.
//
// Each format targets a different consumer:
//   - List: one path per line, easy to feed into shell loops
//   - TSV: tab-separated columns for spreadsheets and awk
//   - JSON: full records for programs
//   - YAML: full records for humans editing them by hand
type Format int

const (
	// FormatList creates .txt files with one dataset path per line.
	// Can be prefixed with "#" comment lines describing the catalog.
	FormatList Format = iota

	// FormatTSV creates .tsv files with id, name, format, size and path columns.
	FormatTSV

	// FormatJSON creates .json files holding a Document.
	FormatJSON

	// FormatYAML creates .yaml files holding a Document.
	FormatYAML
)

// Extension returns the file extension for the catalog format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatTSV:
		return ".tsv"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	default:
		return ".txt"
	}
}

func (f Format) String() string {
	switch f {
	case FormatTSV:
		return "tsv"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "list"
	}
}

// ParseFormat maps a config name ("list", "tsv", "json", "yaml") to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "list", "txt", "":
		return FormatList, nil
	case "tsv":
		return FormatTSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatList, fmt.Errorf("unknown catalog format %q", name)
	}
}

// Document is the structured catalog written by FormatJSON and FormatYAML.
type Document struct {
	Generated time.Time        `json:"generated" yaml:"generated"`
	Count     int              `json:"count" yaml:"count"`
	Datasets  []*model.Dataset `json:"datasets" yaml:"datasets"`
}

// Writer generates catalogs in various formats.
//
// Example:
//
//	w := NewWriter(FormatList, true)
//	content, _ := w.Render(datasets)
//	os.WriteFile("catalog.txt", []byte(content), 0644)
//
//	// Result:
//	// # matrix-datasets catalog
//	// # 2 datasets
//	// /data/market/web-Google.mtx
//	// /data/csr/road.csr
type Writer struct {
	format Format
	header bool // For list and TSV: write comment/column header lines

	now func() time.Time
}

// NewWriter creates a new Writer.
//
// Parameters:
//   - format: The catalog format to generate
//   - header: For list and TSV formats, whether to write header lines
//     (ignored for structured formats)
func NewWriter(format Format, header bool) *Writer {
	return &Writer{
		format: format,
		header: header,
		now:    time.Now,
	}
}

// FileName returns base joined with the format extension.
func (w *Writer) FileName(base string) string {
	return base + w.format.Extension()
}

// Render generates catalog content for the datasets, in the given order.
func (w *Writer) Render(datasets []*model.Dataset) (string, error) {
	switch w.format {
	case FormatTSV:
		return w.renderTSV(datasets), nil
	case FormatJSON:
		data, err := json.MarshalIndent(w.document(datasets), "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case FormatYAML:
		data, err := yaml.Marshal(w.document(datasets))
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return w.renderList(datasets), nil
	}
}

func (w *Writer) document(datasets []*model.Dataset) Document {
	if datasets == nil {
		datasets = []*model.Dataset{}
	}
	return Document{
		Generated: w.now().UTC(),
		Count:     len(datasets),
		Datasets:  datasets,
	}
}

// renderList writes one path per line.
//
//	# matrix-datasets catalog
//	# 2 datasets
//	/data/a.mtx
//	/data/b.csr
func (w *Writer) renderList(datasets []*model.Dataset) string {
	var sb strings.Builder

	if w.header {
		sb.WriteString("# matrix-datasets catalog\n")
		sb.WriteString(fmt.Sprintf("# %d datasets\n", len(datasets)))
	}

	for _, ds := range datasets {
		sb.WriteString(filepath.ToSlash(ds.Path) + "\n")
	}

	return sb.String()
}

// renderTSV writes tab-separated columns. Tabs and newlines inside values
// are replaced with spaces.
func (w *Writer) renderTSV(datasets []*model.Dataset) string {
	var sb strings.Builder

	if w.header {
		sb.WriteString("id\tname\tformat\tsize\tpath\n")
	}

	for _, ds := range datasets {
		sb.WriteString(fmt.Sprintf("%s\t%s\t%s\t%d\t%s\n",
			ds.ID,
			escapeTSV(ds.Name),
			ds.Format,
			ds.Size,
			escapeTSV(filepath.ToSlash(ds.Path))))
	}

	return sb.String()
}

func escapeTSV(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}
