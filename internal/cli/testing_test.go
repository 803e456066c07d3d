package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const serviceSource = `package services

//vessel::component
type Greeter struct{}

//vessel::controller -Path=/greet
type GreetController struct {
	Greeter *Greeter
}

//vessel::handler -Interceptors=Audit
func (c *GreetController) Hello(name string) (any, error) { return "hello " + name, nil }

//vessel::interceptor
type Audit struct{}
`

// writeModule lays out files relative to a fresh temp dir holding a go.mod
// for example.com/app and returns the dir
func writeModule(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	files["go.mod"] = "module example.com/app\n\ngo 1.24\n"
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}
