package annotations

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/vessel/internal/errors"
)

// annotation is the grammar root of //vessel::kind -Name=value ...
type annotation struct {
	Comment   string       `parser:"@Comment"`
	Vessel    string       `parser:"@'vessel'"`
	Separator string       `parser:"@Separator"`
	Type      string       `parser:"@Ident"`
	Params    []*parameter `parser:"@@*"`
}

type parameter struct {
	Pos   lexer.Position
	Key   string `parser:"'-' @Ident"`
	Value *value `parser:"('=' @@)?"`
}

type value struct {
	String *string  `parser:"  @String"`
	Path   *string  `parser:"| @Path"`
	List   []string `parser:"| @Ident (',' @Ident)*"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Separator", Pattern: `::`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Path", Pattern: `/[^\s,]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[-=,]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Parser parses annotation comments and validates them against a schema
// registry
type Parser struct {
	parser   *participle.Parser[annotation]
	registry AnnotationRegistry
}

// NewParser creates a parser. A nil registry uses DefaultRegistry.
func NewParser(registry AnnotationRegistry) *Parser {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Parser{
		parser: participle.MustBuild[annotation](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
			participle.UseLookahead(2),
		),
		registry: registry,
	}
}

// IsAnnotation reports whether a comment line is a vessel annotation
func IsAnnotation(comment string) bool {
	comment = strings.TrimSpace(comment)
	if !strings.HasPrefix(comment, "//") {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(comment[2:]), "vessel::")
}

// Parse parses one annotation comment attached to target
func (p *Parser) Parse(comment, target string, loc errors.SourceLocation) (*ParsedAnnotation, error) {
	raw := strings.TrimSpace(comment)
	ast, err := p.parser.ParseString(loc.File, raw)
	if err != nil {
		var perr participle.Error
		if stderrors.As(err, &perr) {
			return nil, errors.NewAnnotationSyntaxError(perr.Message(), at(loc, perr.Position()))
		}
		return nil, errors.NewAnnotationSyntaxError(err.Error(), loc)
	}

	annotationType, err := ParseAnnotationType(ast.Type)
	if err != nil {
		return nil, errors.NewAnnotationSyntaxError(err.Error(), loc).
			WithContext("annotation", raw)
	}
	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return nil, errors.NewAnnotationValidationError(err.Error(), loc)
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Target:     target,
		Parameters: make(map[string]any, len(ast.Params)),
		Location:   loc,
		Raw:        raw,
	}

	for _, param := range ast.Params {
		paramLoc := at(loc, param.Pos)
		spec, ok := schema.Parameters[param.Key]
		if !ok {
			return nil, errors.NewAnnotationValidationError(
				fmt.Sprintf("unknown parameter '%s' for annotation type %s", param.Key, annotationType), paramLoc).
				WithSuggestion(suggestParameters(schema))
		}
		if _, dup := parsed.Parameters[param.Key]; dup {
			return nil, errors.NewAnnotationValidationError(
				fmt.Sprintf("parameter '%s' given more than once", param.Key), paramLoc)
		}
		if param.Value == nil {
			return nil, errors.NewAnnotationValidationError(
				fmt.Sprintf("parameter '%s' requires a value", param.Key), paramLoc)
		}

		v := convert(param.Value, spec.Type)
		if spec.Validator != nil {
			if err := spec.Validator(v); err != nil {
				return nil, errors.NewAnnotationValidationError(
					fmt.Sprintf("parameter '%s' validation failed: %v", param.Key, err), paramLoc)
			}
		}
		parsed.Parameters[param.Key] = v
	}

	for name, spec := range schema.Parameters {
		if spec.Required && !parsed.Has(name) {
			return nil, errors.NewAnnotationValidationError(
				fmt.Sprintf("missing required parameter '%s' for annotation type %s", name, annotationType), loc).
				WithSuggestion(strings.Join(schema.Examples, " or "))
		}
	}

	return parsed, nil
}

func convert(v *value, t ParameterType) any {
	var items []string
	switch {
	case v.String != nil:
		items = []string{*v.String}
	case v.Path != nil:
		items = []string{*v.Path}
	default:
		items = v.List
	}

	if t == StringSliceType {
		if v.String != nil {
			items = strings.Split(*v.String, ",")
			for i := range items {
				items[i] = strings.TrimSpace(items[i])
			}
		}
		return items
	}
	return strings.Join(items, ",")
}

// at shifts pos, which is relative to the comment, onto the comment's
// location in its file
func at(loc errors.SourceLocation, pos lexer.Position) errors.SourceLocation {
	if loc.Line == 0 || pos.Column == 0 {
		return loc
	}
	loc.Column += pos.Column - 1
	return loc
}

func suggestParameters(schema AnnotationSchema) string {
	if len(schema.Parameters) == 0 {
		return fmt.Sprintf("%s takes no parameters", schema.Type)
	}
	names := make([]string, 0, len(schema.Parameters))
	for name := range schema.Parameters {
		names = append(names, "-"+name)
	}
	return fmt.Sprintf("%s accepts %s", schema.Type, strings.Join(names, ", "))
}
