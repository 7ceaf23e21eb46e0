// Package importer reads expenses from files so they can be appended to the
// record store in bulk.
package importer

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/billbook-dev/billbook/internal/model"
)

// Parser converts an import file into expenses. IDs may be empty; the store
// assigns them on append.
type Parser interface {
	Parse(r io.Reader) ([]model.Expense, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a file waiting in the import directory.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Format string
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers. Dates are
// read in loc.
func DefaultRegistry(loc *time.Location, log *slog.Logger) *Registry {
	r := NewRegistry()
	r.Register(&CSVParser{Location: loc})
	r.Register(&BackupParser{Location: loc, Logger: log})
	return r
}

// FormatForFile guesses the format from a file name: ".json" files are app
// backups, everything else is CSV.
func FormatForFile(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".json") {
		return FormatBackup
	}
	return FormatCSV
}

// importDir is the subdirectory scanned for pending files.
const importDir = "import"

// processedDir is where imported files are moved.
const processedDir = "import/processed"

// Scan returns the CSV and JSON files in <dataDir>/import/.
func Scan(dataDir string) ([]FileInfo, error) {
	dir := filepath.Join(dataDir, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".csv" && ext != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Format: FormatForFile(e.Name()),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(dataDir, fileName string) error {
	src := filepath.Join(dataDir, importDir, fileName)
	dstDir := filepath.Join(dataDir, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
