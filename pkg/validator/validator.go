// Package validator implements the Validator: a depth-first walk over a
// parsed value and a schema type tree that accumulates errors across all
// fields and elements rather than stopping at the first failing one; each
// scalar reports at most its first constraint violation (spec.md §4.5).
package validator

import (
	"fmt"

	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/errors"
	"github.com/DarrenHaba/ftml/pkg/registry"
	"github.com/DarrenHaba/ftml/pkg/schema"
)

// Options controls the global validator flags spec.md §4.5 names.
type Options struct {
	// Strict rejects unknown object fields unless the object itself sets
	// ext=true. Defaults to true when zero-valued callers use
	// DefaultOptions instead.
	Strict bool
}

// DefaultOptions returns the spec's default: strict=true.
func DefaultOptions() Options { return Options{Strict: true} }

// ValidateDocument validates a parsed document's root fields against a
// root schema object, returning every accumulated FieldError.
func ValidateDocument(doc *ast.Document, root *schema.Object, opts Options) []*errors.FieldError {
	return validateObjectFields("", doc.Fields, root, opts)
}

// CheckDefaults walks a freshly parsed schema tree and validates every
// declared default against the type it decorates, including that type's
// own constraints (spec.md §3 invariant: "if has_default, the default
// must itself validate against the node's type"). It checks only the
// schema's own defaults, never a document value; schema.Parse does not
// call it, and ftml.Load runs it on every schema-carrying load, before
// applying defaults, failing the load on any error.
func CheckDefaults(typ schema.Type, opts Options) []*errors.FieldError {
	var out []*errors.FieldError
	if typ.HasDefault() {
		out = append(out, Validate("default", typ.DefaultLiteral(), typ, opts)...)
	}
	switch t := typ.(type) {
	case *schema.List:
		if t.ItemType != nil {
			out = append(out, CheckDefaults(t.ItemType, opts)...)
		}
	case *schema.Object:
		for _, name := range t.FieldOrder {
			out = append(out, CheckDefaults(t.Fields[name].Type, opts)...)
		}
		if t.PatternType != nil {
			out = append(out, CheckDefaults(t.PatternType, opts)...)
		}
	case *schema.Union:
		for _, sub := range t.Subtypes {
			out = append(out, CheckDefaults(sub, opts)...)
		}
	}
	return out
}

// Validate walks value against typ at path, dispatching on typ's kind.
func Validate(path string, value ast.Node, typ schema.Type, opts Options) []*errors.FieldError {
	switch t := typ.(type) {
	case *schema.Scalar:
		return validateScalar(path, value, t)
	case *schema.List:
		return validateList(path, value, t, opts)
	case *schema.Object:
		return validateObject(path, value, t, opts)
	case *schema.Union:
		return validateUnion(path, value, t, opts)
	default:
		return nil
	}
}

func childPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

func validateScalar(path string, value ast.Node, t *schema.Scalar) []*errors.FieldError {
	s, ok := value.(*ast.ScalarNode)
	if !ok {
		return []*errors.FieldError{errors.NewFieldError(path, errors.Position{}, "expected scalar type %q", t.Name)}
	}
	if !registry.MatchesKind(t.Name, s.Value) {
		return []*errors.FieldError{errors.NewFieldError(path, errors.Position{}, "expected type %q, found %q", t.Name, s.Value.Kind)}
	}
	if fe := checkScalarConstraints(path, s.Value, t); fe != nil {
		return []*errors.FieldError{fe}
	}
	return nil
}

// checkScalarConstraints runs the fixed-order constraint checks of
// spec.md §4.5 and returns the first violation, or nil. Only one
// violation is ever reported per scalar field.
func checkScalarConstraints(path string, v ast.ScalarValue, t *schema.Scalar) *errors.FieldError {
	c := t.Constraints
	if c == nil {
		return nil
	}

	// size (string length)
	if t.Name == "str" {
		str, _ := v.Raw.(string)
		if lit, ok := c["min_length"]; ok {
			if n, ok := registry.Int(lit); ok && int64(len(str)) < n {
				return errors.NewFieldError(path, errors.Position{}, "length %d is less than min_length %d", len(str), n)
			}
		}
		if lit, ok := c["max_length"]; ok {
			if n, ok := registry.Int(lit); ok && int64(len(str)) > n {
				return errors.NewFieldError(path, errors.Position{}, "length %d exceeds max_length %d", len(str), n)
			}
		}
	}

	// pattern
	if t.Name == "str" {
		if lit, ok := c["pattern"]; ok {
			if pat, ok := registry.String(lit); ok {
				re, err := registry.CompileRegexp(pat)
				if err != nil {
					return errors.NewFieldError(path, errors.Position{}, "invalid pattern %q: %s", pat, err)
				}
				str, _ := v.Raw.(string)
				if !re.MatchString(str) {
					return errors.NewFieldError(path, errors.Position{}, "value %q does not match pattern %q", str, pat)
				}
			}
		}
	}

	// enum
	if t.Name == "str" || t.Name == "any" {
		if lit, ok := c["enum"]; ok {
			if elems, ok := registry.List(lit); ok {
				if !enumContains(elems, v) {
					return errors.NewFieldError(path, errors.Position{}, "value is not one of the allowed enum values")
				}
			}
		}
	}

	// numeric bounds
	if t.Name == "int" || t.Name == "float" {
		f, _ := registry.AsFloat64(v)
		if lit, ok := c["min"]; ok {
			if min, ok := registry.Float(lit); ok && f < min {
				return errors.NewFieldError(path, errors.Position{}, "value %v is less than min %v", f, min)
			}
		}
		if lit, ok := c["max"]; ok {
			if max, ok := registry.Float(lit); ok && f > max {
				return errors.NewFieldError(path, errors.Position{}, "value %v exceeds max %v", f, max)
			}
		}
	}

	// precision (float only)
	if t.Name == "float" {
		if lit, ok := c["precision"]; ok {
			if prec, ok := registry.Int(lit); ok {
				if raw, ok := v.Raw.(float64); ok && decimalDigits(raw) > int(prec) {
					return errors.NewFieldError(path, errors.Position{}, "value %v exceeds precision %d", raw, prec)
				}
			}
		}
	}

	// date/time parse, then temporal bounds
	switch t.Name {
	case "date", "time", "datetime":
		str, _ := v.Raw.(string)
		format, _ := registry.String(c["format"])
		var coerced registry.Coerced
		var err error
		switch t.Name {
		case "date":
			coerced, err = registry.CoerceDate(str, format)
		case "time":
			coerced, err = registry.CoerceTime(str, format)
		case "datetime":
			coerced, err = registry.CoerceDateTime(str, format)
		}
		if err != nil {
			return errors.NewFieldError(path, errors.Position{}, "%s", err)
		}
		if lit, ok := c["min"]; ok {
			if boundStr, ok := registry.String(lit); ok {
				bound, err := coerceSameKind(t.Name, boundStr, format)
				if err == nil && coerced.Time.Before(bound.Time) {
					return errors.NewFieldError(path, errors.Position{}, "%s is before minimum %s", str, boundStr)
				}
			}
		}
		if lit, ok := c["max"]; ok {
			if boundStr, ok := registry.String(lit); ok {
				bound, err := coerceSameKind(t.Name, boundStr, format)
				if err == nil && coerced.Time.After(bound.Time) {
					return errors.NewFieldError(path, errors.Position{}, "%s is after maximum %s", str, boundStr)
				}
			}
		}
	case "timestamp":
		epoch, _ := v.Raw.(int64)
		precision, _ := registry.String(c["precision"])
		coerced, err := registry.CoerceTimestamp(epoch, precision)
		if err != nil {
			return errors.NewFieldError(path, errors.Position{}, "%s", err)
		}
		if lit, ok := c["min"]; ok {
			if min, ok := registry.Int(lit); ok && coerced.Unix < min {
				return errors.NewFieldError(path, errors.Position{}, "timestamp %d is less than min %d", epoch, min)
			}
		}
		if lit, ok := c["max"]; ok {
			if max, ok := registry.Int(lit); ok && coerced.Unix > max {
				return errors.NewFieldError(path, errors.Position{}, "timestamp %d exceeds max %d", epoch, max)
			}
		}
	}

	return nil
}

func coerceSameKind(kind, raw, format string) (registry.Coerced, error) {
	switch kind {
	case "date":
		return registry.CoerceDate(raw, format)
	case "time":
		return registry.CoerceTime(raw, format)
	default:
		return registry.CoerceDateTime(raw, format)
	}
}

func enumContains(elems []ast.Node, v ast.ScalarValue) bool {
	for _, e := range elems {
		s, ok := e.(*ast.ScalarNode)
		if !ok {
			continue
		}
		if registry.EqualScalar(s.Value, v) {
			return true
		}
	}
	return false
}

func decimalDigits(f float64) int {
	s := fmt.Sprintf("%g", f)
	for i, r := range s {
		if r == '.' {
			return len(s) - i - 1
		}
	}
	return 0
}

func validateList(path string, value ast.Node, t *schema.List, opts Options) []*errors.FieldError {
	list, ok := value.(*ast.ListNode)
	if !ok {
		return []*errors.FieldError{errors.NewFieldError(path, errors.Position{}, "expected a list")}
	}
	var out []*errors.FieldError
	if t.Constraints != nil {
		n := int64(len(list.Elements))
		if lit, ok := t.Constraints["min"]; ok {
			if min, ok := registry.Int(lit); ok && n < min {
				out = append(out, errors.NewFieldError(path, errors.Position{}, "has %d elements, fewer than min %d", n, min))
			}
		}
		if lit, ok := t.Constraints["max"]; ok {
			if max, ok := registry.Int(lit); ok && n > max {
				out = append(out, errors.NewFieldError(path, errors.Position{}, "has %d elements, more than max %d", n, max))
			}
		}
	}
	if t.ItemType != nil {
		for i, elem := range list.Elements {
			out = append(out, Validate(indexPath(path, i), elem, t.ItemType, opts)...)
		}
	}
	return out
}

func validateObject(path string, value ast.Node, t *schema.Object, opts Options) []*errors.FieldError {
	obj, ok := value.(*ast.ObjectNode)
	if !ok {
		return []*errors.FieldError{errors.NewFieldError(path, errors.Position{}, "expected an object")}
	}
	var out []*errors.FieldError

	switch {
	case t.Untyped:
		// any keys/values accepted
	case t.PatternType != nil:
		obj.Fields.Each(func(key string, kv *ast.KeyValue) {
			out = append(out, Validate(childPath(path, key), kv.Value, t.PatternType, opts)...)
		})
	default:
		out = append(out, validateObjectFields(path, obj.Fields, t, opts)...)
	}

	if t.Constraints != nil {
		n := int64(obj.Fields.Len())
		if lit, ok := t.Constraints["min"]; ok {
			if min, ok := registry.Int(lit); ok && n < min {
				out = append(out, errors.NewFieldError(path, errors.Position{}, "has %d keys, fewer than min %d", n, min))
			}
		}
		if lit, ok := t.Constraints["max"]; ok {
			if max, ok := registry.Int(lit); ok && n > max {
				out = append(out, errors.NewFieldError(path, errors.Position{}, "has %d keys, more than max %d", n, max))
			}
		}
	}

	return out
}

// validateObjectFields checks a structured object's declared fields
// (missing/optional/defaulted) and rejects unknown fields unless ext or
// non-strict mode allows them. Used both for nested structured objects
// and for the document root, which has the same shape.
func validateObjectFields(path string, fields *ast.OrderedFields, t *schema.Object, opts Options) []*errors.FieldError {
	var out []*errors.FieldError

	for _, name := range t.FieldOrder {
		f := t.Fields[name]
		kv, present := fields.Get(name)
		if !present {
			if f.Optional || f.Type.HasDefault() {
				continue
			}
			out = append(out, errors.NewFieldError(childPath(path, name), errors.Position{}, "required field is missing"))
			continue
		}
		out = append(out, Validate(childPath(path, name), kv.Value, f.Type, opts)...)
	}

	if !t.Ext && opts.Strict {
		fields.Each(func(key string, _ *ast.KeyValue) {
			if _, declared := t.Fields[key]; !declared {
				out = append(out, errors.NewFieldError(childPath(path, key), errors.Position{}, "unknown field"))
			}
		})
	}

	return out
}

// validateUnion tries each subtype in order; only the composite failure
// is reported, never the individual subtype errors (spec.md §4.5).
func validateUnion(path string, value ast.Node, t *schema.Union, opts Options) []*errors.FieldError {
	for _, sub := range t.Subtypes {
		if len(Validate(path, value, sub, opts)) == 0 {
			return nil
		}
	}
	return []*errors.FieldError{errors.NewFieldError(path, errors.Position{}, "does not match any allowed types")}
}
