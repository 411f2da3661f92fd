// Package ftml is the public entry point: Load parses source text (and,
// given a schema, validates and fills defaults against it); Dump
// re-serializes a Value; Validate runs the Validator standalone;
// GetFTMLVersion reports the engine's own version (spec.md §6).
package ftml

import (
	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/defaults"
	"github.com/DarrenHaba/ftml/pkg/encoding"
	"github.com/DarrenHaba/ftml/pkg/errors"
	"github.com/DarrenHaba/ftml/pkg/parser"
	"github.com/DarrenHaba/ftml/pkg/schema"
	"github.com/DarrenHaba/ftml/pkg/serializer"
	"github.com/DarrenHaba/ftml/pkg/validator"
	"github.com/DarrenHaba/ftml/pkg/version"
)

// Value is the map-like result of Load: an ordered key-value view over the
// parsed document, carrying its *ast.Document as an attached side-channel
// so that Dump re-serializes from the same tree a caller may have mutated
// in place (spec.md §9).
type Value struct {
	doc *ast.Document
}

// Document returns the Value's underlying AST for direct mutation.
func (v *Value) Document() *ast.Document { return v.doc }

// Keys returns the root field names in source order.
func (v *Value) Keys() []string { return v.doc.Fields.Keys }

// Get returns the root value for key, and whether it is present.
func (v *Value) Get(key string) (ast.Node, bool) {
	kv, ok := v.doc.Fields.Get(key)
	if !ok {
		return nil, false
	}
	return kv.Value, true
}

// Set inserts or replaces the root value for key, preserving key order for
// an existing key and appending a new one (spec.md §3 reassignment
// invariant).
func (v *Value) Set(key string, value ast.Node) {
	kv, ok := v.doc.Fields.Get(key)
	if ok {
		kv.Value = value
		return
	}
	v.doc.Fields.Set(key, &ast.KeyValue{Key: key, Value: value})
}

// Len returns the number of root fields.
func (v *Value) Len() int { return v.doc.Fields.Len() }

type loadConfig struct {
	schema           *schema.Object
	validate         bool
	preserveComments bool
	checkVersion     bool
	strict           bool
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

// WithSchema attaches a schema: Load then fills defaults from it and (unless
// WithValidate(false) is also given) validates the document against it.
func WithSchema(s *schema.Object) LoadOption {
	return func(c *loadConfig) { c.schema = s }
}

// WithValidate controls whether a schema-carrying Load validates; it has no
// effect without WithSchema. Defaults to true.
func WithValidate(validate bool) LoadOption {
	return func(c *loadConfig) { c.validate = validate }
}

// WithPreserveComments controls whether Dump later reproduces comments for
// the loaded document. Defaults to true.
func WithPreserveComments(preserve bool) LoadOption {
	return func(c *loadConfig) { c.preserveComments = preserve }
}

// WithCheckVersion controls whether a document whose ftml_version is newer
// than GetFTMLVersion() is rejected. Defaults to true.
func WithCheckVersion(check bool) LoadOption {
	return func(c *loadConfig) { c.checkVersion = check }
}

// WithStrict controls whether validation rejects fields not declared by a
// structured schema object (unless that object sets ext=true). Defaults to
// true.
func WithStrict(strict bool) LoadOption {
	return func(c *loadConfig) { c.strict = strict }
}

// Load parses source as an FTML document, observes its ftml_version /
// ftml_encoding reserved keys, and — given WithSchema — fills schema
// defaults and validates (spec.md §6).
func Load(source string, opts ...LoadOption) (*Value, error) {
	cfg := loadConfig{validate: true, preserveComments: true, checkVersion: true, strict: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc, err := parser.Parse(source)
	if err != nil {
		return nil, err
	}
	if !cfg.preserveComments {
		ast.StripComments(doc)
	}

	if kv, ok := doc.Fields.Get("ftml_version"); ok {
		scalar, ok := kv.Value.(*ast.ScalarNode)
		if !ok || scalar.Value.Kind != "string" {
			return nil, errors.NewVersionError("ftml_version must be a string")
		}
		raw, _ := scalar.Value.Raw.(string)
		if err := version.Check(raw, cfg.checkVersion); err != nil {
			return nil, err
		}
	}

	if kv, ok := doc.Fields.Get("ftml_encoding"); ok {
		if err := encoding.Check(kv.Value); err != nil {
			return nil, err
		}
	}

	if cfg.schema != nil {
		vopts := validator.Options{Strict: cfg.strict}
		if errs := validator.CheckDefaults(cfg.schema, vopts); len(errs) > 0 {
			return nil, &errors.ValidationError{Errors: errs}
		}
		defaults.ApplyDocument(doc, cfg.schema)
		if cfg.validate {
			if errs := validator.ValidateDocument(doc, cfg.schema, vopts); len(errs) > 0 {
				return nil, &errors.ValidationError{Errors: errs}
			}
		}
	}

	return &Value{doc: doc}, nil
}

type dumpConfig struct {
	includeComments bool
	indentWidth     int
}

// DumpOption configures Dump.
type DumpOption func(*dumpConfig)

// WithDumpComments controls whether Dump reproduces comments. Defaults to
// true.
func WithDumpComments(include bool) DumpOption {
	return func(c *dumpConfig) { c.includeComments = include }
}

// WithIndentWidth sets the number of spaces per nesting depth. Defaults to
// 4.
func WithIndentWidth(width int) DumpOption {
	return func(c *dumpConfig) { c.indentWidth = width }
}

// Dump serializes v back to FTML text (spec.md §4.7/§6).
func Dump(v *Value, opts ...DumpOption) (string, error) {
	cfg := dumpConfig{includeComments: true, indentWidth: 4}
	for _, opt := range opts {
		opt(&cfg)
	}
	out := serializer.Serialize(v.doc, serializer.Options{
		IncludeComments: cfg.includeComments,
		IndentWidth:     cfg.indentWidth,
	})
	return out, nil
}

// Validate runs the Validator against v's document for s, independent of
// Load (spec.md §6).
func Validate(v *Value, s *schema.Object) []error {
	fieldErrs := validator.ValidateDocument(v.doc, s, validator.DefaultOptions())
	if len(fieldErrs) == 0 {
		return nil
	}
	out := make([]error, len(fieldErrs))
	for i, fe := range fieldErrs {
		out[i] = fe
	}
	return out
}

// GetFTMLVersion returns the engine's own FTML version string.
func GetFTMLVersion() string {
	return version.Current
}
