package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read when the matching flag is not given
const (
	EnvModule  = "VESSEL_MODULE"
	EnvVerbose = "VESSEL_VERBOSE"
	EnvQuiet   = "VESSEL_QUIET"
)

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories is the list of directories to scan for annotated Go files
	Directories []string

	// ModuleName is the custom module name for imports
	// If empty, will be determined from go.mod file
	ModuleName string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Quiet only shows errors
	Quiet bool

	// Clean removes generated files instead of writing them
	Clean bool
}

// LoadEnvFiles loads variables from the given .env files into the process
// environment. Missing files are ignored; variables already set win.
func LoadEnvFiles(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return nil
}

// ParseArgs builds a Config from command-line arguments. Environment values
// provide the defaults flags override. help reports whether -help was given.
func ParseArgs(args []string, output io.Writer) (cfg *Config, help bool, err error) {
	cfg = &Config{
		ModuleName: os.Getenv(EnvModule),
		Verbose:    envBool(EnvVerbose),
		Quiet:      envBool(EnvQuiet),
	}

	flags := flag.NewFlagSet("vessel", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.StringVar(&cfg.ModuleName, "module", cfg.ModuleName, "Custom module name for imports (defaults to go.mod module, env "+EnvModule+")")
	flags.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose output and detailed error reporting (env "+EnvVerbose+")")
	flags.BoolVar(&cfg.Quiet, "quiet", cfg.Quiet, "Only show errors and final results (env "+EnvQuiet+")")
	flags.BoolVar(&cfg.Clean, "clean", false, "Delete all autogen_vessel.go files from the specified directories")
	flags.BoolVar(&help, "help", false, "Show help information")
	flags.Usage = func() { Usage(output, flags) }

	if err := flags.Parse(args); err != nil {
		return nil, false, err
	}
	if help {
		flags.Usage()
		return cfg, true, nil
	}

	cfg.Directories = flags.Args()
	if len(cfg.Directories) == 0 {
		return nil, false, fmt.Errorf("at least one directory path is required")
	}
	if cfg.Quiet && cfg.Verbose {
		return nil, false, fmt.Errorf("-quiet and -verbose cannot be combined")
	}
	return cfg, false, nil
}

// Usage prints the command help
func Usage(w io.Writer, flags *flag.FlagSet) {
	fmt.Fprintf(w, "Usage: vessel [options] <directory-paths...>\n\n")
	fmt.Fprintf(w, "Vessel Code Generator\n")
	fmt.Fprintf(w, "Scans directories for Go files with vessel:: annotations and generates namespace registrations.\n\n")
	fmt.Fprintf(w, "Options:\n")
	flags.PrintDefaults()
	fmt.Fprintf(w, "\nDirectory Patterns:\n")
	fmt.Fprintf(w, "  ./...              Scan current directory and all subdirectories recursively\n")
	fmt.Fprintf(w, "  ./internal/...     Scan internal directory and all its subdirectories\n")
	fmt.Fprintf(w, "  ./pkg/controllers  Scan only the specific directory (no recursion)\n")
	fmt.Fprintf(w, "\nEnvironment variables may also be set in a .env file in the working directory.\n")
}

func envBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
