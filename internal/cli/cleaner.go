package cli

import (
	"os"
	"path/filepath"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/generator"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	scanner *DirectoryScanner
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		scanner: NewDirectoryScanner(),
	}
}

// CleanGeneratedFiles removes the generated file from every directory matched
// by patterns and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(patterns []string) ([]string, error) {
	var removed []string
	err := c.scanner.Walk(patterns, func(dir string) error {
		ok, err := removeGenerated(dir)
		if ok {
			removed = append(removed, filepath.Join(dir, generator.FileName))
		}
		return err
	})
	return removed, err
}

// removeGenerated deletes the generated file of dir if there is one
func removeGenerated(dir string) (bool, error) {
	path := filepath.Join(dir, generator.FileName)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.WrapFileSystemError("remove", path, err)
	}
	return true, nil
}
