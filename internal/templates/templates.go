package templates

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/toyz/vessel/internal/models"
)

// VesselImport is the import path of the runtime package generated code uses
const VesselImport = "github.com/toyz/vessel/pkg/vessel"

// FileData is the input of the file template
type FileData struct {
	PackageName  string
	ImportPath   string
	VesselImport string
	Components   []ComponentData
	Handlers     []HandlerData
}

// ComponentData is one registration call
type ComponentData struct {
	StructName string
	Call       string
}

// HandlerData is one handler id and its interceptor chain
type HandlerData struct {
	ConstName    string
	ID           string
	Interceptors []string
}

var registry = NewTemplateRegistry()

// BuildFileData converts package metadata into template input. importPath is
// the package's import path, used as the namespace path and handler id prefix.
func BuildFileData(metadata *models.PackageMetadata, importPath string) (*FileData, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}
	if importPath == "" {
		return nil, fmt.Errorf("import path cannot be empty")
	}

	factories := make(map[string][]string)
	for _, f := range metadata.Factories {
		factories[f.Receiver] = append(factories[f.Receiver], f.Method)
	}

	data := &FileData{
		PackageName:  metadata.PackageName,
		ImportPath:   importPath,
		VesselImport: VesselImport,
	}

	for _, c := range metadata.Components {
		call, err := registrationCall(c, factories[c.StructName])
		if err != nil {
			return nil, err
		}
		data.Components = append(data.Components, ComponentData{StructName: c.StructName, Call: call})
	}

	for _, h := range metadata.Handlers {
		data.Handlers = append(data.Handlers, HandlerData{
			ConstName:    HandlerConstName(h.Receiver, h.Method),
			ID:           HandlerID(importPath, h.Receiver, h.Method),
			Interceptors: h.Interceptors,
		})
	}

	return data, nil
}

func registrationCall(c models.ComponentMetadata, factories []string) (string, error) {
	switch c.Kind {
	case models.ComponentKind:
		return fmt.Sprintf("vessel.Component[%s](reg)", c.StructName), nil
	case models.ControllerKind:
		if c.BasePath == "" {
			return fmt.Sprintf("vessel.Controller[%s](reg)", c.StructName), nil
		}
		return fmt.Sprintf("vessel.ControllerAt[%s](reg, %s)", c.StructName, quote(c.BasePath)), nil
	case models.ConfigurationKind:
		if len(factories) == 0 {
			return "", fmt.Errorf("configuration %s has no factory methods", c.StructName)
		}
		quoted := make([]string, len(factories))
		for i, f := range factories {
			quoted[i] = quote(f)
		}
		return fmt.Sprintf("vessel.Configuration[%s](reg, %s)", c.StructName, strings.Join(quoted, ", ")), nil
	default:
		return "", fmt.Errorf("%s has unsupported kind %s", c.StructName, c.Kind)
	}
}

// GenerateNamespaceFile renders the unformatted source of a package's
// generated file
func GenerateNamespaceFile(metadata *models.PackageMetadata, importPath string) (string, error) {
	data, err := BuildFileData(metadata, importPath)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := registry.MustGet("file").Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute file template: %w", err)
	}
	return buf.String(), nil
}
