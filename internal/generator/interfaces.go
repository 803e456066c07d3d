package generator

import "github.com/toyz/vessel/internal/models"

// CodeGenerator renders the registration file of an annotated package
type CodeGenerator interface {
	GenerateFile(metadata *models.PackageMetadata) (*models.GeneratedFile, error)
}

// ModuleResolver maps package directories to import paths
type ModuleResolver interface {
	BuildPackagePath(packageDir string) (string, error)
}
