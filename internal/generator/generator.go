package generator

import (
	"fmt"
	"path/filepath"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/models"
	"github.com/toyz/vessel/internal/templates"
	"github.com/toyz/vessel/internal/utils"
)

// FileName is the name of the file written into every annotated package
const FileName = "autogen_vessel.go"

// Generator implements the CodeGenerator interface
type Generator struct {
	moduleResolver ModuleResolver
}

// NewGenerator creates a generator that resolves import paths with resolver
func NewGenerator(resolver ModuleResolver) *Generator {
	return &Generator{moduleResolver: resolver}
}

// GenerateFile renders and formats the registration file for a package
func (g *Generator) GenerateFile(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}

	importPath, err := g.moduleResolver.BuildPackagePath(metadata.PackagePath)
	if err != nil {
		return nil, errors.WrapGenerateError(metadata.PackagePath, err)
	}
	return g.GenerateFileAt(metadata, importPath)
}

// GenerateFileAt is GenerateFile with a known import path
func (g *Generator) GenerateFileAt(metadata *models.PackageMetadata, importPath string) (*models.GeneratedFile, error) {
	filePath := filepath.Join(metadata.PackagePath, FileName)

	content, err := templates.GenerateNamespaceFile(metadata, importPath)
	if err != nil {
		return nil, errors.WrapGenerateError(filePath, err)
	}

	formatted, err := utils.FormatGoCode(filePath, []byte(content))
	if err != nil {
		return nil, errors.WrapGenerateError(filePath, err).WithContext("source", content)
	}

	return &models.GeneratedFile{
		PackageName: metadata.PackageName,
		FilePath:    filePath,
		Content:     string(formatted),
	}, nil
}
