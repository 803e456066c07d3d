package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/vessel/internal/annotations"
	"github.com/toyz/vessel/internal/errors"
	"github.com/toyz/vessel/internal/models"
	"github.com/toyz/vessel/internal/registry"
)

// GeneratedFilePrefix marks files written by the generator. They are never
// parsed for annotations.
const GeneratedFilePrefix = "autogen_"

// Parser extracts vessel annotations from Go packages
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.Parser
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParser(annotations.DefaultRegistry()),
	}
}

// ParseSource parses a single source file, mainly for tests
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}
	return p.build(file.Name.Name, filepath.Dir(filename), []*ast.File{file})
}

// ParseDirectory parses the non-test Go files of one directory. Files are
// visited in name order so registration order is stable.
func (p *Parser) ParseDirectory(dir string) (*models.PackageMetadata, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsSourceFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, errors.Newf(errors.SyntaxErrorCode, "no Go source files in %s", dir)
	}

	var (
		files       []*ast.File
		packageName string
	)
	for _, name := range names {
		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(p.fileSet, path, nil, parser.ParseComments)
		if err != nil {
			return nil, errors.WrapParseError(path, err)
		}
		if packageName == "" {
			packageName = file.Name.Name
		} else if file.Name.Name != packageName {
			return nil, errors.Newf(errors.SyntaxErrorCode, "multiple packages found in %s: %s and %s", dir, packageName, file.Name.Name)
		}
		files = append(files, file)
	}

	return p.build(packageName, dir, files)
}

// IsSourceFile reports whether name is a Go file the parser reads
func IsSourceFile(name string) bool {
	return strings.HasSuffix(name, ".go") &&
		!strings.HasSuffix(name, "_test.go") &&
		!strings.HasPrefix(name, GeneratedFilePrefix)
}

// build walks the files and validates the collected metadata
func (p *Parser) build(packageName, dir string, files []*ast.File) (*models.PackageMetadata, error) {
	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: dir,
	}
	errs := errors.NewMultipleErrors()
	interceptors := registry.NewInterceptorRegistry()

	for _, file := range files {
		for _, decl := range file.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					p.rejectAnnotations(d.Doc, "only type and method declarations can be annotated", errs)
					continue
				}
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					doc := ts.Doc
					if doc == nil && len(d.Specs) == 1 {
						doc = d.Doc
					}
					p.typeDecl(ts, doc, metadata, interceptors, errs)
				}
			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) == 0 {
					p.rejectAnnotations(d.Doc, fmt.Sprintf("function %s is not a method", d.Name.Name), errs)
					continue
				}
				p.methodDecl(d, metadata, errs)
			}
		}
	}

	p.validate(metadata, interceptors, errs)
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return metadata, nil
}

func (p *Parser) typeDecl(ts *ast.TypeSpec, doc *ast.CommentGroup, metadata *models.PackageMetadata, interceptors registry.InterceptorRegistry, errs *errors.MultipleErrors) {
	parsed := p.parseGroup(doc, ts.Name.Name, errs)
	if len(parsed) == 0 {
		return
	}

	if _, ok := ts.Type.(*ast.StructType); !ok {
		errs.Add(errors.NewAnnotationValidationError(
			fmt.Sprintf("%s is not a struct, only structs can be %s", ts.Name.Name, parsed[0].Type), parsed[0].Location))
		return
	}
	if ts.TypeParams != nil {
		errs.Add(errors.NewAnnotationValidationError(
			fmt.Sprintf("generic type %s cannot be annotated", ts.Name.Name), parsed[0].Location))
		return
	}

	var declared *annotations.ParsedAnnotation
	for _, a := range parsed {
		if !a.Type.OnType() {
			errs.Add(errors.NewAnnotationValidationError(
				fmt.Sprintf("%s annotation belongs on a method, found on type %s", a.Type, ts.Name.Name), a.Location))
			continue
		}
		if declared != nil {
			errs.Add(errors.NewAnnotationValidationError(
				fmt.Sprintf("%s is already annotated as %s", ts.Name.Name, declared.Type), a.Location))
			continue
		}
		declared = a

		switch a.Type {
		case annotations.InterceptorAnnotation:
			interceptor := models.InterceptorMetadata{StructName: ts.Name.Name, Location: a.Location}
			if err := interceptors.Register(ts.Name.Name, &interceptor); err != nil {
				errs.Add(errors.NewAnnotationValidationError(err.Error(), a.Location))
				continue
			}
			metadata.Interceptors = append(metadata.Interceptors, interceptor)
		default:
			metadata.Components = append(metadata.Components, models.ComponentMetadata{
				StructName: ts.Name.Name,
				Kind:       kindOf(a.Type),
				BasePath:   a.GetString("Path"),
				Location:   a.Location,
			})
		}
	}
}

func (p *Parser) methodDecl(fn *ast.FuncDecl, metadata *models.PackageMetadata, errs *errors.MultipleErrors) {
	receiver := receiverName(fn.Recv.List[0].Type)
	parsed := p.parseGroup(fn.Doc, receiver+"."+fn.Name.Name, errs)

	seen := make(map[annotations.AnnotationType]bool)
	for _, a := range parsed {
		if a.Type.OnType() {
			errs.Add(errors.NewAnnotationValidationError(
				fmt.Sprintf("%s annotation belongs on a struct type, found on method %s", a.Type, a.Target), a.Location))
			continue
		}
		if seen[a.Type] {
			errs.Add(errors.NewAnnotationValidationError(
				fmt.Sprintf("method %s has more than one %s annotation", a.Target, a.Type), a.Location))
			continue
		}
		seen[a.Type] = true

		if !fn.Name.IsExported() {
			errs.Add(errors.NewAnnotationValidationError(
				fmt.Sprintf("method %s must be exported to be a %s", a.Target, a.Type), a.Location))
			continue
		}

		switch a.Type {
		case annotations.FactoryAnnotation:
			metadata.Factories = append(metadata.Factories, models.FactoryMetadata{
				Receiver: receiver,
				Method:   fn.Name.Name,
				Location: a.Location,
			})
		case annotations.HandlerAnnotation:
			metadata.Handlers = append(metadata.Handlers, models.HandlerMetadata{
				Receiver:     receiver,
				Method:       fn.Name.Name,
				Interceptors: a.GetStringSlice("Interceptors"),
				Location:     a.Location,
			})
		}
	}
}

// validate checks references between annotations of the package
func (p *Parser) validate(metadata *models.PackageMetadata, interceptors registry.InterceptorRegistry, errs *errors.MultipleErrors) {
	kinds := make(map[string]models.Kind, len(metadata.Components))
	for _, c := range metadata.Components {
		kinds[c.StructName] = c.Kind
	}

	produces := make(map[string]int)
	for _, f := range metadata.Factories {
		if kind, ok := kinds[f.Receiver]; !ok || kind != models.ConfigurationKind {
			errs.Add(errors.NewAnnotationValidationError(
				fmt.Sprintf("factory %s.%s is declared on %s, which is not a //vessel::configuration", f.Receiver, f.Method, f.Receiver), f.Location).
				WithSuggestion(fmt.Sprintf("annotate %s with //vessel::configuration", f.Receiver)))
			continue
		}
		produces[f.Receiver]++
	}

	for _, c := range metadata.Components {
		if c.Kind == models.ConfigurationKind && produces[c.StructName] == 0 {
			errs.Add(errors.NewAnnotationValidationError(
				fmt.Sprintf("configuration %s has no //vessel::factory methods", c.StructName), c.Location))
		}
	}

	for _, h := range metadata.Handlers {
		if err := interceptors.Validate(h.Interceptors); err != nil {
			errs.Add(errors.NewAnnotationValidationError(
				fmt.Sprintf("handler %s.%s: %v", h.Receiver, h.Method, err), h.Location).
				WithSuggestion("interceptors must be declared with //vessel::interceptor in the same package"))
		}
	}
}

// parseGroup parses every annotation line in doc
func (p *Parser) parseGroup(doc *ast.CommentGroup, target string, errs *errors.MultipleErrors) []*annotations.ParsedAnnotation {
	if doc == nil {
		return nil
	}
	var parsed []*annotations.ParsedAnnotation
	for _, c := range doc.List {
		if !annotations.IsAnnotation(c.Text) {
			continue
		}
		a, err := p.annotations.Parse(c.Text, target, p.location(c.Pos()))
		if err != nil {
			if ve, ok := err.(errors.VesselError); ok {
				errs.Add(ve)
			} else {
				errs.Add(errors.NewAnnotationSyntaxError(err.Error(), p.location(c.Pos())))
			}
			continue
		}
		parsed = append(parsed, a)
	}
	return parsed
}

func (p *Parser) rejectAnnotations(doc *ast.CommentGroup, reason string, errs *errors.MultipleErrors) {
	if doc == nil {
		return
	}
	for _, c := range doc.List {
		if annotations.IsAnnotation(c.Text) {
			errs.Add(errors.NewAnnotationValidationError(reason, p.location(c.Pos())))
		}
	}
}

func (p *Parser) location(pos token.Pos) errors.SourceLocation {
	position := p.fileSet.Position(pos)
	return errors.SourceLocation{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}

// receiverName returns the type name of a method receiver
func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	default:
		return ""
	}
}

func kindOf(t annotations.AnnotationType) models.Kind {
	switch t {
	case annotations.ControllerAnnotation:
		return models.ControllerKind
	case annotations.ConfigurationAnnotation:
		return models.ConfigurationKind
	default:
		return models.ComponentKind
	}
}
