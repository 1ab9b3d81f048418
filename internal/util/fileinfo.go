package util

import (
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"syscall"
)

// fingerprintWindow is how many bytes are hashed from each end of a file.
const fingerprintWindow = 2048

// FileInfo identifies one version of a source file on disk.
type FileInfo struct {
	ModTime int64  // Last modification time, Unix seconds
	Size    int64  // File size in bytes
	Inode   uint64 // Inode number (Linux and macOS)
}

// GetFileInfo returns modification time, size and inode of filepath.
func GetFileInfo(filepath string) (*FileInfo, error) {
	stat, err := os.Stat(filepath)
	if err != nil {
		return nil, err
	}

	sysStat, ok := stat.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, fmt.Errorf("failed to get file system information: %s", filepath)
	}

	return &FileInfo{
		ModTime: stat.ModTime().Unix(),
		Size:    stat.Size(),
		Inode:   uint64(sysStat.Ino),
	}, nil
}

// CalculateFileFingerprint returns a CRC32 over the first and last 2KB of a
// file. Exports are rewritten whole, so the header and the tail together
// catch a replaced file whose size and mtime happen to match.
func CalculateFileFingerprint(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return "", err
	}

	hash := crc32.NewIEEE()
	if _, err := io.CopyN(hash, file, min(stat.Size(), fingerprintWindow)); err != nil {
		return "", err
	}

	if stat.Size() > fingerprintWindow {
		tail := min(stat.Size()-fingerprintWindow, fingerprintWindow)
		if _, err := file.Seek(-tail, io.SeekEnd); err != nil {
			return "", err
		}
		if _, err := io.CopyN(hash, file, tail); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("%08x", hash.Sum32()), nil
}
