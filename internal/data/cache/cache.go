package cache

import (
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-crime-hexmap/internal/core/model"
	"github.com/penwyp/go-crime-hexmap/internal/util"
)

type CacheMissReason int

const (
	MissReasonNone CacheMissReason = iota
	MissReasonError
	MissReasonInode
	MissReasonSize
	MissReasonModTime
	MissReasonFingerprint
	MissReasonNoFingerprint
	MissReasonVariant
	MissReasonNotFound
)

func (r CacheMissReason) String() string {
	switch r {
	case MissReasonNone:
		return "none"
	case MissReasonError:
		return "error"
	case MissReasonInode:
		return "inode"
	case MissReasonSize:
		return "size"
	case MissReasonModTime:
		return "modtime"
	case MissReasonFingerprint:
		return "fingerprint"
	case MissReasonNoFingerprint:
		return "no_fingerprint"
	case MissReasonVariant:
		return "variant"
	default:
		return "not_found"
	}
}

// Entry is the parsed content of one source file plus what identified the
// file when it was parsed.
type Entry struct {
	FilePath           string        `json:"file_path"`
	Variant            string        `json:"variant"`
	Inode              uint64        `json:"inode"`
	FileSize           int64         `json:"file_size"`
	LastModified       int64         `json:"last_modified"`
	ContentFingerprint string        `json:"content_fingerprint"`
	CachedAt           int64         `json:"cached_at"`
	Events             []model.Event `json:"events"`
}

type CacheResult struct {
	Entry      *Entry
	Found      bool
	MissReason CacheMissReason
}

// Cache stores parsed events per source file. Variant captures reader
// settings that change parsing, such as the timezone or SQLite table.
type Cache interface {
	Get(filePath, variant string) CacheResult
	Set(filePath, variant string, events []model.Event) error
	Clear() error
}

type FileCache struct {
	baseDir     string
	mu          sync.Mutex
	memoryCache map[string]*Entry
}

func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &FileCache{
		baseDir:     baseDir,
		memoryCache: make(map[string]*Entry),
	}, nil
}

// cacheKey derives a stable file name from the source path; the base name
// keeps the cache directory readable and the checksum separates same-named
// files in different directories.
func cacheKey(filePath string) string {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		abs = filePath
	}
	base := filepath.Base(abs)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s-%08x", base, crc32.ChecksumIEEE([]byte(abs)))
}

func (c *FileCache) Get(filePath, variant string) CacheResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(filePath)

	// First, check memory cache
	if entry, exists := c.memoryCache[key]; exists {
		if reason := c.validate(entry, variant); reason == MissReasonNone {
			return CacheResult{Entry: entry, Found: true, MissReason: MissReasonNone}
		}
		delete(c.memoryCache, key)
	}

	// Second, check file cache
	return c.getFromFile(key, variant)
}

func (c *FileCache) getFromFile(key, variant string) CacheResult {
	data, err := os.ReadFile(filepath.Join(c.baseDir, key+".json"))
	if err != nil {
		return CacheResult{MissReason: MissReasonNotFound}
	}

	var entry Entry
	if err := sonic.Unmarshal(data, &entry); err != nil {
		util.LogDebug(fmt.Sprintf("Discarding unreadable cache file %s: %v", key, err))
		return CacheResult{MissReason: MissReasonError}
	}

	if reason := c.validate(&entry, variant); reason != MissReasonNone {
		return CacheResult{MissReason: reason}
	}

	c.memoryCache[key] = &entry
	return CacheResult{Entry: &entry, Found: true, MissReason: MissReasonNone}
}

func (c *FileCache) validate(entry *Entry, variant string) CacheMissReason {
	if entry.Variant != variant {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: variant changed (cached: %q, current: %q)",
			entry.FilePath, entry.Variant, variant))
		return MissReasonVariant
	}

	currentInfo, err := util.GetFileInfo(entry.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache validation failed for %s: unable to get file info: %v", entry.FilePath, err))
		return MissReasonError
	}

	// Step 1: Check inode/modtime/size
	if currentInfo.Inode != entry.Inode {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: inode changed (cached: %d, current: %d)",
			entry.FilePath, entry.Inode, currentInfo.Inode))
		return MissReasonInode
	}
	if currentInfo.Size != entry.FileSize {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: size changed (cached: %d, current: %d)",
			entry.FilePath, entry.FileSize, currentInfo.Size))
		return MissReasonSize
	}
	if currentInfo.ModTime != entry.LastModified {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: modtime changed (cached: %d, current: %d)",
			entry.FilePath, entry.LastModified, currentInfo.ModTime))
		return MissReasonModTime
	}

	// Step 2: Files untouched for two days skip the fingerprint check
	if time.Since(time.Unix(currentInfo.ModTime, 0)) > 48*time.Hour {
		return MissReasonNone
	}

	// Step 3: Check content fingerprint
	if entry.ContentFingerprint == "" {
		return MissReasonNoFingerprint
	}
	fingerprint, err := util.CalculateFileFingerprint(entry.FilePath)
	if err != nil {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: unable to calculate fingerprint: %v", entry.FilePath, err))
		return MissReasonNoFingerprint
	}
	if fingerprint != entry.ContentFingerprint {
		util.LogDebug(fmt.Sprintf("Cache invalidated for %s: fingerprint mismatch (cached: %s, current: %s)",
			entry.FilePath, entry.ContentFingerprint, fingerprint))
		return MissReasonFingerprint
	}
	return MissReasonNone
}

func (c *FileCache) Set(filePath, variant string, events []model.Event) error {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}

	fileInfo, err := util.GetFileInfo(abs)
	if err != nil {
		return err
	}

	entry := &Entry{
		FilePath:     abs,
		Variant:      variant,
		Inode:        fileInfo.Inode,
		FileSize:     fileInfo.Size,
		LastModified: fileInfo.ModTime,
		CachedAt:     time.Now().Unix(),
		Events:       events,
	}
	if fingerprint, err := util.CalculateFileFingerprint(abs); err == nil {
		entry.ContentFingerprint = fingerprint
	}

	data, err := sonic.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	key := cacheKey(abs)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Write to a temp file first so readers never see a partial entry
	cachePath := filepath.Join(c.baseDir, key+".json")
	tmpPath := cachePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, cachePath); err != nil {
		return err
	}

	c.memoryCache[key] = entry
	return nil
}

func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memoryCache = make(map[string]*Entry)

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			if err := os.Remove(filepath.Join(c.baseDir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetCacheStats returns the number of entries in memory and on disk.
func (c *FileCache) GetCacheStats() (memoryCount, fileCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	memoryCount = len(c.memoryCache)
	entries, _ := os.ReadDir(c.baseDir)
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			fileCount++
		}
	}
	return memoryCount, fileCount
}
