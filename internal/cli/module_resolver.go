package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/mod/module"

	"github.com/toyz/vessel/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	customModule string
	gomod        *utils.GoModParser
}

// NewModuleResolver creates a new module resolver. A non-empty customModule
// replaces the module path declared in go.mod.
func NewModuleResolver(customModule string) *ModuleResolver {
	return &ModuleResolver{
		customModule: customModule,
		gomod:        utils.NewGoModParser(utils.NewFileReader()),
	}
}

// ResolveModule returns the module path and root directory of the module
// containing dir
func (r *ModuleResolver) ResolveModule(dir string) (modulePath, root string, err error) {
	goModPath, err := r.gomod.FindGoModFile(dir)
	if err != nil {
		if r.customModule == "" {
			return "", "", fmt.Errorf("failed to determine module name: %w (consider using -module flag)", err)
		}
		root, err = filepath.Abs(dir)
		return r.customModule, root, err
	}

	root = filepath.Dir(goModPath)
	if r.customModule != "" {
		return r.customModule, root, nil
	}
	modulePath, err = r.gomod.ParseModuleName(goModPath)
	return modulePath, root, err
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(packageDir string) (string, error) {
	modulePath, root, err := r.ResolveModule(packageDir)
	if err != nil {
		return "", err
	}

	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve package directory: %w", err)
	}

	relPath, err := filepath.Rel(root, absPackageDir)
	if err != nil {
		return "", fmt.Errorf("failed to calculate relative path: %w", err)
	}
	relPath = filepath.ToSlash(relPath)
	if strings.HasPrefix(relPath, "../") || relPath == ".." {
		return "", fmt.Errorf("package directory %s is outside module root %s", packageDir, root)
	}

	importPath := modulePath
	if relPath != "." {
		importPath = modulePath + "/" + relPath
	}
	if err := module.CheckImportPath(importPath); err != nil {
		return "", err
	}
	return importPath, nil
}
