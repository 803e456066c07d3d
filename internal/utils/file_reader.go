package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type cachedFile struct {
	content string
	modTime time.Time
	size    int64
}

// FileReader reads files and caches their content until they change on disk
type FileReader struct {
	mu    sync.Mutex
	cache map[string]cachedFile
}

// NewFileReader creates a new FileReader instance with caching
func NewFileReader() *FileReader {
	return &FileReader{cache: make(map[string]cachedFile)}
}

// ReadFile reads a file and returns its contents as a string
func (fr *FileReader) ReadFile(filePath string) (string, error) {
	if filePath == "" {
		return "", fmt.Errorf("file path cannot be empty")
	}
	cleanPath := filepath.Clean(filePath)

	stat, err := os.Stat(cleanPath)
	if err != nil {
		return "", err
	}

	fr.mu.Lock()
	cached, ok := fr.cache[cleanPath]
	fr.mu.Unlock()
	if ok && cached.modTime.Equal(stat.ModTime()) && cached.size == stat.Size() {
		return cached.content, nil
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filepath.Base(cleanPath), err)
	}

	fr.mu.Lock()
	fr.cache[cleanPath] = cachedFile{content: string(content), modTime: stat.ModTime(), size: stat.Size()}
	fr.mu.Unlock()
	return string(content), nil
}

// Exists reports whether path names an existing regular file
func (fr *FileReader) Exists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}

// CacheSize returns the number of cached files
func (fr *FileReader) CacheSize() int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return len(fr.cache)
}
