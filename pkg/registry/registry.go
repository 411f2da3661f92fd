// Package registry implements the TypeRegistry and ConstraintEvaluator:
// per-scalar-type structural matching, date/time/datetime/timestamp
// coercion, and the constraint table of spec.md §4.3/§4.4.
package registry

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/DarrenHaba/ftml/pkg/ast"
)

// Coerced is the typed result of running a date/time/datetime/timestamp
// scalar through its coercion rule. Bare Load never produces one of
// these; only schema-driven validation/default-application does
// (spec.md §4.4).
type Coerced struct {
	Kind string // "date", "time", "datetime", "timestamp"
	Time time.Time
	Unix int64 // populated for Kind == "timestamp"
}

// MatchesKind reports whether raw's dynamic kind is structurally
// compatible with the scalar type name, before any constraint checks run.
// "int" literals are accepted where "float" is expected (the constraint
// table groups them for numeric bounds); everything else requires an
// exact kind match, and "any" accepts every kind.
func MatchesKind(name string, raw ast.ScalarValue) bool {
	switch name {
	case "any":
		return true
	case "float":
		return raw.Kind == "float" || raw.Kind == "int"
	case "date", "time", "datetime":
		return raw.Kind == "string"
	case "timestamp":
		return raw.Kind == "int"
	case "str":
		return raw.Kind == "string"
	default:
		return raw.Kind == name
	}
}

// AsFloat64 reads a numeric ScalarValue (int or float) as a float64.
func AsFloat64(raw ast.ScalarValue) (float64, bool) {
	switch v := raw.Raw.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// strftimeDirectives maps the Python strftime specifiers spec.md §4.3's
// `format` constraint names to Go's reference-time layout tokens. Only the
// directives the original date/time/datetime fields actually use are
// translated; an unrecognized directive is passed through verbatim, which
// lets plain separator characters (`-`, `:`, ` `, `T`) survive untouched.
var strftimeDirectives = strings.NewReplacer(
	"%Y", "2006", "%m", "01", "%d", "02",
	"%H", "15", "%M", "04", "%S", "05",
	"%z", "-0700", "%Z", "MST",
)

// goLayout resolves a schema `format` constraint value to a Go time
// layout. "iso8601" (and an absent format) maps to the RFC 3339 family
// appropriate to kind; anything else is treated as a strftime pattern and
// translated directive-by-directive.
func goLayout(kind, format string) string {
	if format == "" || format == "iso8601" {
		switch kind {
		case "date":
			return "2006-01-02"
		case "time":
			return "15:04:05"
		default:
			return time.RFC3339
		}
	}
	return strftimeDirectives.Replace(format)
}

// CoerceDate parses raw as a date using format (or the ISO-8601 default).
func CoerceDate(raw, format string) (Coerced, error) {
	t, err := time.Parse(goLayout("date", format), raw)
	if err != nil {
		return Coerced{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return Coerced{Kind: "date", Time: t}, nil
}

// CoerceTime parses raw as a time-of-day using format (or the ISO-8601
// default).
func CoerceTime(raw, format string) (Coerced, error) {
	t, err := time.Parse(goLayout("time", format), raw)
	if err != nil {
		return Coerced{}, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	return Coerced{Kind: "time", Time: t}, nil
}

// CoerceDateTime parses raw as a combined date and time using format (or
// RFC 3339 for the ISO-8601 default).
func CoerceDateTime(raw, format string) (Coerced, error) {
	t, err := time.Parse(goLayout("datetime", format), raw)
	if err != nil {
		return Coerced{}, fmt.Errorf("invalid datetime %q: %w", raw, err)
	}
	return Coerced{Kind: "datetime", Time: t}, nil
}

// CoerceTimestamp interprets raw as an integer epoch value at the given
// precision ("seconds", "ms", "µs"/"us", or "ns").
func CoerceTimestamp(raw int64, precision string) (Coerced, error) {
	var t time.Time
	switch precision {
	case "", "seconds":
		t = time.Unix(raw, 0).UTC()
	case "ms":
		t = time.UnixMilli(raw).UTC()
	case "µs", "us":
		t = time.UnixMicro(raw).UTC()
	case "ns":
		t = time.Unix(0, raw).UTC()
	default:
		return Coerced{}, fmt.Errorf("unknown timestamp precision %q", precision)
	}
	return Coerced{Kind: "timestamp", Time: t, Unix: raw}, nil
}

// --- constraint literal extraction -----------------------------------

// Int reads an int64-valued literal constraint node.
func Int(n ast.Node) (int64, bool) {
	s, ok := n.(*ast.ScalarNode)
	if !ok {
		return 0, false
	}
	v, ok := s.Value.Raw.(int64)
	return v, ok
}

// Float reads a numeric literal constraint node as a float64, accepting
// both int and float scalars.
func Float(n ast.Node) (float64, bool) {
	s, ok := n.(*ast.ScalarNode)
	if !ok {
		return 0, false
	}
	return AsFloat64(s.Value)
}

// String reads a string-valued literal constraint node.
func String(n ast.Node) (string, bool) {
	s, ok := n.(*ast.ScalarNode)
	if !ok {
		return "", false
	}
	v, ok := s.Value.Raw.(string)
	return v, ok
}

// Bool reads a bool-valued literal constraint node.
func Bool(n ast.Node) (bool, bool) {
	s, ok := n.(*ast.ScalarNode)
	if !ok {
		return false, false
	}
	v, ok := s.Value.Raw.(bool)
	return v, ok
}

// List reads a `[...]` literal constraint node's elements (used by
// `enum`), returning the element nodes themselves so callers can compare
// scalars of mixed kind (e.g. an `any<enum=...>` list).
func List(n ast.Node) ([]ast.Node, bool) {
	l, ok := n.(*ast.ListNode)
	if !ok {
		return nil, false
	}
	return l.Elements, true
}

// EqualScalar reports whether two scalar values are equal for enum
// membership: same kind (with int/float treated as the same numeric
// domain), equal payload.
func EqualScalar(a, b ast.ScalarValue) bool {
	af, aNum := AsFloat64(a)
	bf, bNum := AsFloat64(b)
	if aNum && bNum {
		return af == bf
	}
	if a.Kind != b.Kind {
		return false
	}
	return a.Raw == b.Raw
}

// CompileRegexp compiles a schema `pattern` constraint's value as a
// regular expression.
func CompileRegexp(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}
