package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// FormatGoCode formats generated Go source without touching its imports
func FormatGoCode(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, formatOptions)
	if err != nil {
		return nil, fmt.Errorf("invalid Go syntax in %s: %w", filepath.Base(filename), err)
	}
	return formatted, nil
}

// FormatAndWriteGoFile formats code and writes it to filename. Nothing is
// written if the code does not parse.
func FormatAndWriteGoFile(filename, code string) error {
	formatted, err := FormatGoCode(filename, []byte(code))
	if err != nil {
		return err
	}
	return os.WriteFile(filename, formatted, 0o644)
}
