package main

import (
	"errors"
	"flag"
	"io"
	"os"
	"strings"

	"github.com/toyz/vessel/internal/cli"
	"github.com/toyz/vessel/internal/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := cli.LoadEnvFiles(".env"); err != nil {
		io.WriteString(stderr, "Error: "+err.Error()+"\n")
		return 1
	}

	cfg, help, err := cli.ParseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		io.WriteString(stderr, "Error: "+err.Error()+"\n\nRun 'vessel -help' for usage.\n")
		return 1
	}
	if help {
		return 0
	}

	// Create diagnostic system based on flags
	var diagnostics *utils.DiagnosticSystem
	switch {
	case cfg.Quiet:
		diagnostics = utils.NewQuietDiagnostics()
	case cfg.Verbose:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}
	diagnostics.SetOutput(stdout, stderr)

	diagnostics.Header("Code Generator")

	if cfg.Clean {
		diagnostics.PhaseHeader("Cleaning generated files")
		removed, err := cli.NewCleaner().CleanGeneratedFiles(cfg.Directories)
		if err != nil {
			diagnostics.ReportError(err)
			return 1
		}
		for _, path := range removed {
			diagnostics.PhaseItem("removed %s", path)
		}
		diagnostics.Success("Removed %d generated files", len(removed))
		return 0
	}

	diagnostics.Verbose("Target directories: %s", strings.Join(cfg.Directories, ", "))
	if cfg.ModuleName != "" {
		diagnostics.Verbose("Custom module: %s", cfg.ModuleName)
	}

	diagnostics.PhaseHeader("Generating namespaces")
	generator := cli.NewGenerator(cfg, diagnostics)
	err = generator.Generate(cfg.Directories)
	summary := generator.GetSummary()
	if err != nil {
		diagnostics.ReportError(err)
		diagnostics.Summary("Generation failed", summary.Stats())
		return 1
	}

	diagnostics.Summary("Generation complete", summary.Stats())
	diagnostics.Verbose("Finished in %s", summary.Elapsed)
	return 0
}
