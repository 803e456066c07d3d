package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoModParser(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/shop\n\ngo 1.25\n"), 0o644))
	nested := filepath.Join(root, "internal", "orders")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	p := NewGoModParser(NewFileReader())

	goMod, err := p.FindGoModFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "go.mod"), goMod)

	name, err := p.ParseModuleName(goMod)
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", name)
}

func TestGoModParserErrors(t *testing.T) {
	dir := t.TempDir()
	p := NewGoModParser(NewFileReader())

	_, err := p.ParseModuleName(filepath.Join(dir, "main.go"))
	assert.ErrorContains(t, err, "not a go.mod file")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("go 1.25\n"), 0o644))
	_, err = p.ParseModuleName(filepath.Join(dir, "go.mod"))
	assert.ErrorContains(t, err, "no module declaration")

	_, err = p.ParseModuleName(filepath.Join(t.TempDir(), "go.mod"))
	assert.ErrorContains(t, err, "failed to read go.mod")
}
