package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-crime-hexmap/internal/util"
)

// Kind identifies the format of an event source file.
type Kind string

const (
	KindCSV    Kind = "csv"
	KindJSONL  Kind = "jsonl"
	KindSQLite Kind = "sqlite"
)

var extensions = map[string]Kind{
	".csv":     KindCSV,
	".jsonl":   KindJSONL,
	".ndjson":  KindJSONL,
	".db":      KindSQLite,
	".sqlite":  KindSQLite,
	".sqlite3": KindSQLite,
}

// KindOf returns the source kind for path, or "" when unsupported.
func KindOf(path string) Kind {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// FileScanner finds event source files under a path
type FileScanner struct {
	baseDir string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{baseDir: baseDir}
}

// Scan returns all supported files under the base path in lexical order. A
// base path naming a single file is returned as is when its kind is known.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()

	info, err := os.Stat(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat data path %s: %w", s.baseDir, err)
	}
	if !info.IsDir() {
		if KindOf(s.baseDir) == "" {
			return nil, fmt.Errorf("unsupported data file %s", s.baseDir)
		}
		return []string{s.baseDir}, nil
	}

	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", s.baseDir))

	err = filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebug(fmt.Sprintf("Skip file (error): %s - %v", path, err))
			return nil
		}

		if info.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if KindOf(path) != "" {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)

	util.LogDebug(fmt.Sprintf("File scan completed: duration %v, scanned %d directories, %d files, found %d data files",
		time.Since(start), dirCount, totalCount, len(files)))

	return files, err
}
