package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/parser"
)

// DirectoryScanner expands directory patterns into package directories
type DirectoryScanner struct{}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{}
}

// ScanDirectories returns the sorted directories matched by patterns that
// hold Go source files. A pattern ending in "/..." matches the directory and
// everything below it; vendor, testdata and hidden directories are skipped.
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	var dirs []string
	err := s.Walk(patterns, func(dir string) error {
		ok, err := hasSourceFiles(dir)
		if ok {
			dirs = append(dirs, dir)
		}
		return err
	})
	return dirs, err
}

// Walk calls fn once for every directory matched by patterns, in lexical
// order
func (s *DirectoryScanner) Walk(patterns []string, fn func(dir string) error) error {
	seen := make(map[string]bool)
	var dirs []string

	for _, pattern := range patterns {
		base, recursive := strings.CutSuffix(filepath.ToSlash(pattern), "/...")
		if pattern == "..." {
			base, recursive = ".", true
		}
		if base == "" {
			base = "."
		}

		root, err := filepath.Abs(base)
		if err != nil {
			return errors.WrapWithOperation("process", fmt.Sprintf("path resolution %s", base), err)
		}
		info, err := os.Stat(root)
		if err != nil {
			return errors.WrapFileSystemError("stat", root, err)
		}
		if !info.IsDir() {
			return errors.Newf(errors.FileSystemErrorCode, "%s is not a directory", base)
		}

		if !recursive {
			if !seen[root] {
				seen[root] = true
				dirs = append(dirs, root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			if !seen[path] {
				seen[path] = true
				dirs = append(dirs, path)
			}
			return nil
		})
		if err != nil {
			return errors.WrapFileSystemError("walk", root, err)
		}
	}

	sort.Strings(dirs)
	for _, dir := range dirs {
		if err := fn(dir); err != nil {
			return err
		}
	}
	return nil
}

func skipDir(name string) bool {
	return name == "vendor" || name == "testdata" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func hasSourceFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, errors.WrapFileSystemError("read", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && parser.IsSourceFile(entry.Name()) {
			return true, nil
		}
	}
	return false, nil
}
