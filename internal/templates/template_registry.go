package templates

import (
	"fmt"
	"text/template"
)

// TemplateRegistry holds the parsed templates of the generated file
type TemplateRegistry struct {
	root *template.Template
}

// NewTemplateRegistry creates a registry with all built-in templates parsed
func NewTemplateRegistry() *TemplateRegistry {
	root := template.New("vessel").Funcs(template.FuncMap{
		"quote":       quote,
		"toCamelCase": ToCamelCase,
	})
	template.Must(root.New("file").Parse(fileTemplate))
	template.Must(root.New("handler-ids").Parse(handlerIDsTemplate))
	template.Must(root.New("namespace").Parse(namespaceTemplate))
	template.Must(root.New("register").Parse(registerTemplate))
	return &TemplateRegistry{root: root}
}

// Get returns the named template
func (tr *TemplateRegistry) Get(name string) (*template.Template, bool) {
	t := tr.root.Lookup(name)
	return t, t != nil
}

// MustGet returns the named template or panics
func (tr *TemplateRegistry) MustGet(name string) *template.Template {
	t, ok := tr.Get(name)
	if !ok {
		panic(fmt.Sprintf("template %q not found", name))
	}
	return t
}

const fileTemplate = `// Code generated by vessel. DO NOT EDIT.

package {{.PackageName}}

import (
	"{{.VesselImport}}"
)
{{template "handler-ids" .}}
{{template "namespace" .}}
{{template "register" .}}`

const handlerIDsTemplate = `{{if .Handlers}}
// Handler ids of the intercepted methods in this package
const (
{{- range .Handlers}}
	{{.ConstName}} = {{quote .ID}}
{{- end}}
)
{{end}}`

const namespaceTemplate = `
// Namespace declares the components of this package to a vessel container
var Namespace = vessel.Namespace{
	Path:     {{quote .ImportPath}},
	Register: registerComponents,
}
`

const registerTemplate = `
func registerComponents(reg *vessel.Registry) error {
{{- range .Components}}
	if err := {{.Call}}; err != nil {
		return err
	}
{{- end}}
{{- range .Handlers}}
	if err := vessel.Handler(reg, {{.ConstName}}{{range .Interceptors}},
		vessel.TypeOf[{{.}}](){{end}},
	); err != nil {
		return err
	}
{{- end}}
	return nil
}
`
