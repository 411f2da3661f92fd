package schema

import (
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/registry"
)

// ToJSONSchema projects o into a JSON Schema document for introspection and
// documentation tooling; it plays no part in Validate or ApplyDocument.
// Property order is preserved via PropertyOrder, matching the declaration
// order of the source schema rather than map iteration order.
func (o *Object) ToJSONSchema() *jsonschema.Schema {
	s := o.typeJSONSchema()
	return s
}

// ToJSONSchema projects t into a JSON Schema fragment. It dispatches on the
// concrete Go type of t to pick the JSON Schema shape (object vs array vs
// oneOf vs scalar); of the concrete Types, only *Object also has a
// ToJSONSchema method.
func ToJSONSchema(t Type) *jsonschema.Schema {
	return typeToJSONSchema(t)
}

func typeToJSONSchema(t Type) *jsonschema.Schema {
	switch v := t.(type) {
	case *Scalar:
		return v.scalarJSONSchema()
	case *List:
		return v.listJSONSchema()
	case *Object:
		return v.typeJSONSchema()
	case *Union:
		return v.unionJSONSchema()
	default:
		return &jsonschema.Schema{}
	}
}

var scalarJSONType = map[string]string{
	"str":       "string",
	"int":       "integer",
	"float":     "number",
	"bool":      "boolean",
	"null":      "null",
	"date":      "string",
	"time":      "string",
	"datetime":  "string",
	"timestamp": "integer",
}

func (s *Scalar) scalarJSONSchema() *jsonschema.Schema {
	out := &jsonschema.Schema{}
	if t, ok := scalarJSONType[s.Name]; ok {
		out.Type = t
	}
	if enum, ok := s.Constraints["enum"]; ok {
		if elems, ok := registry.List(enum); ok {
			out.Enum = enumValues(elems)
		}
	}
	if v, ok := stringConstraint(s.Constraints, "pattern"); ok {
		out.Pattern = v
	}
	if v, ok := intConstraint(s.Constraints, "min_length"); ok {
		out.MinLength = jsonschema.Ptr(v)
	}
	if v, ok := intConstraint(s.Constraints, "max_length"); ok {
		out.MaxLength = jsonschema.Ptr(v)
	}
	if v, ok := floatConstraint(s.Constraints, "min"); ok {
		out.Minimum = jsonschema.Ptr(v)
	}
	if v, ok := floatConstraint(s.Constraints, "max"); ok {
		out.Maximum = jsonschema.Ptr(v)
	}
	return out
}

func (l *List) listJSONSchema() *jsonschema.Schema {
	out := &jsonschema.Schema{Type: "array"}
	if l.ItemType != nil {
		out.Items = typeToJSONSchema(l.ItemType)
	}
	if v, ok := intConstraint(l.Constraints, "min"); ok {
		out.MinItems = jsonschema.Ptr(v)
	}
	if v, ok := intConstraint(l.Constraints, "max"); ok {
		out.MaxItems = jsonschema.Ptr(v)
	}
	return out
}

func (o *Object) typeJSONSchema() *jsonschema.Schema {
	out := &jsonschema.Schema{Type: "object"}

	switch {
	case o.Untyped:
		out.AdditionalProperties = &jsonschema.Schema{}
	case o.PatternType != nil:
		out.AdditionalProperties = typeToJSONSchema(o.PatternType)
	default:
		out.Properties = make(map[string]*jsonschema.Schema, len(o.FieldOrder))
		var required []string
		for _, name := range o.FieldOrder {
			f := o.Fields[name]
			out.Properties[name] = typeToJSONSchema(f.Type)
			out.PropertyOrder = append(out.PropertyOrder, name)
			if !f.Optional {
				required = append(required, name)
			}
		}
		out.Required = required
		if !o.Ext {
			out.AdditionalProperties = &jsonschema.Schema{Not: &jsonschema.Schema{}}
		}
	}
	return out
}

func (u *Union) unionJSONSchema() *jsonschema.Schema {
	out := &jsonschema.Schema{}
	for _, sub := range u.Subtypes {
		out.OneOf = append(out.OneOf, typeToJSONSchema(sub))
	}
	return out
}

func stringConstraint(c map[string]ast.Node, key string) (string, bool) {
	n, ok := c[key]
	if !ok {
		return "", false
	}
	return registry.String(n)
}

func intConstraint(c map[string]ast.Node, key string) (int, bool) {
	n, ok := c[key]
	if !ok {
		return 0, false
	}
	v, ok := registry.Int(n)
	return int(v), ok
}

func floatConstraint(c map[string]ast.Node, key string) (float64, bool) {
	n, ok := c[key]
	if !ok {
		return 0, false
	}
	return registry.Float(n)
}

// enumValues extracts the raw Go-native payload of each enum literal
// (string/int64/float64/bool/nil) for the JSON Schema "enum" keyword.
func enumValues(elems []ast.Node) []any {
	out := make([]any, 0, len(elems))
	for _, e := range elems {
		if s, ok := e.(*ast.ScalarNode); ok {
			out = append(out, s.Value.Raw)
		}
	}
	return out
}
