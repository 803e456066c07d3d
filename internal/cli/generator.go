package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/generator"
	"github.com/toyz/vessel/internal/models"
	"github.com/toyz/vessel/internal/parser"
	"github.com/toyz/vessel/internal/utils"
)

// GenerationSummary contains statistics about a generation run
type GenerationSummary struct {
	PackagesProcessed   int
	GeneratedFiles      []string
	UnchangedFiles      []string
	RemovedFiles        []string
	ComponentsFound     int
	ControllersFound    int
	ConfigurationsFound int
	FactoriesFound      int
	InterceptorsFound   int
	HandlersFound       int
	Elapsed             time.Duration
}

// Stats returns the summary as labelled counts for display
func (s GenerationSummary) Stats() map[string]any {
	return map[string]any{
		"Packages processed":   s.PackagesProcessed,
		"Files generated":      len(s.GeneratedFiles),
		"Files unchanged":      len(s.UnchangedFiles),
		"Components found":     s.ComponentsFound,
		"Controllers found":    s.ControllersFound,
		"Configurations found": s.ConfigurationsFound,
		"Factories found":      s.FactoriesFound,
		"Interceptors found":   s.InterceptorsFound,
		"Handlers found":       s.HandlersFound,
	}
}

// Generator coordinates the CLI generation process
type Generator struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         *parser.Parser
	codeGenerator  generator.CodeGenerator
	diagnostics    *utils.DiagnosticSystem
	summary        GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(cfg *Config, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	resolver := NewModuleResolver(cfg.ModuleName)
	return &Generator{
		scanner:        NewDirectoryScanner(),
		moduleResolver: resolver,
		parser:         parser.NewParser(),
		codeGenerator:  generator.NewGenerator(resolver),
		diagnostics:    diagnostics,
	}
}

// Generate processes every package matched by patterns. A failing package
// does not stop the others; all failures are returned together.
func (g *Generator) Generate(patterns []string) error {
	start := time.Now()
	g.summary = GenerationSummary{}

	dirs, err := g.scanner.ScanDirectories(patterns)
	if err != nil {
		return err
	}
	g.diagnostics.Verbose("found %d package directories", len(dirs))

	var result error
	for _, dir := range dirs {
		multierr.AppendInto(&result, g.processPackage(dir))
	}

	g.summary.Elapsed = time.Since(start)
	return result
}

// GetSummary returns the statistics of the last Generate call
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

func (g *Generator) processPackage(dir string) error {
	g.diagnostics.Debug("parsing %s", dir)
	metadata, err := g.parser.ParseDirectory(dir)
	if err != nil {
		return err
	}
	g.summary.PackagesProcessed++

	if !metadata.HasAnnotations() {
		removed, err := removeGenerated(dir)
		if removed {
			path := filepath.Join(dir, generator.FileName)
			g.summary.RemovedFiles = append(g.summary.RemovedFiles, path)
			g.diagnostics.Verbose("removed stale %s", path)
		}
		return err
	}
	g.count(metadata)

	file, err := g.codeGenerator.GenerateFile(metadata)
	if err != nil {
		return err
	}

	existing, err := os.ReadFile(file.FilePath)
	if err == nil && bytes.Equal(existing, []byte(file.Content)) {
		g.summary.UnchangedFiles = append(g.summary.UnchangedFiles, file.FilePath)
		g.diagnostics.Verbose("%s is up to date", file.FilePath)
		return nil
	}

	if err := os.WriteFile(file.FilePath, []byte(file.Content), 0o644); err != nil {
		return errors.WrapFileSystemError("write", file.FilePath, err)
	}
	g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, file.FilePath)
	g.diagnostics.PhaseItem("generated %s", file.FilePath)
	return nil
}

func (g *Generator) count(metadata *models.PackageMetadata) {
	for _, c := range metadata.Components {
		switch c.Kind {
		case models.ControllerKind:
			g.summary.ControllersFound++
		case models.ConfigurationKind:
			g.summary.ConfigurationsFound++
		default:
			g.summary.ComponentsFound++
		}
	}
	g.summary.FactoriesFound += len(metadata.Factories)
	g.summary.InterceptorsFound += len(metadata.Interceptors)
	g.summary.HandlersFound += len(metadata.Handlers)
}
