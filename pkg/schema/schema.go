// Package schema defines the schema type tree (Scalar, List, Object,
// Union) and the SchemaParser that builds it from a schema expression
// (spec.md §3 schema type tree, §4.3 schema lexer/parser).
package schema

import "github.com/DarrenHaba/ftml/pkg/ast"

// Kind discriminates the four schema node shapes.
type Kind int

const (
	ScalarKind Kind = iota
	ListKind
	ObjectKind
	UnionKind
)

// KnownScalarNames enumerates the scalar type names the registry
// recognizes (spec.md §3).
var KnownScalarNames = map[string]bool{
	"str": true, "int": true, "float": true, "bool": true, "null": true,
	"any": true, "date": true, "time": true, "datetime": true, "timestamp": true,
}

// Type is implemented by every schema node: Scalar, List, Object, Union.
type Type interface {
	Kind() Kind
	HasDefault() bool
	DefaultLiteral() ast.Node
	IsOptional() bool
}

// common holds the optionality/default fields shared by every schema node.
type common struct {
	Default    ast.Node
	hasDefault bool
	Optional   bool
}

func (c *common) HasDefault() bool          { return c.hasDefault }
func (c *common) DefaultLiteral() ast.Node  { return c.Default }
func (c *common) IsOptional() bool          { return c.Optional }
func (c *common) setDefault(n ast.Node)     { c.Default = n; c.hasDefault = true }

// Scalar is a leaf type: one of the known scalar names, or a string
// literal singleton treated as `str<enum=[literal]>`.
type Scalar struct {
	common
	Name        string
	Constraints map[string]ast.Node
}

func (*Scalar) Kind() Kind { return ScalarKind }

// List is `[ItemType]`; ItemType is nil for an untyped list `[]`.
type List struct {
	common
	ItemType    Type
	Constraints map[string]ast.Node
}

func (*List) Kind() Kind { return ListKind }

// Field is one declared field of a structured Object.
type Field struct {
	Name     string
	Optional bool
	Type     Type
}

// Object is `{...}`: structured (declared Fields), pattern (PatternType
// set), or untyped (Untyped set) — mutually exclusive per spec.md §3. An
// Object with no fields, no PatternType and Untyped unset is a structured
// object with zero declared fields.
type Object struct {
	common
	FieldOrder  []string
	Fields      map[string]*Field
	PatternType Type
	Untyped     bool
	Ext         bool
	Constraints map[string]ast.Node
}

func (*Object) Kind() Kind { return ObjectKind }

// NewObject returns an empty structured Object.
func NewObject() *Object {
	return &Object{Fields: make(map[string]*Field)}
}

// AddField appends f, preserving declaration order; the caller is
// responsible for rejecting a duplicate field name before calling this.
func (o *Object) AddField(f *Field) {
	o.FieldOrder = append(o.FieldOrder, f.Name)
	o.Fields[f.Name] = f
}

// Union is a flattened set of alternative subtypes; no subtype is itself
// a Union (spec.md §3 invariant, enforced at construction by Flatten).
type Union struct {
	common
	Subtypes []Type
}

func (*Union) Kind() Kind { return UnionKind }

// Flatten builds a Union from parts, inlining any part that is itself a
// Union so that no union-of-unions survives (spec.md §9).
func Flatten(parts []Type) Type {
	if len(parts) == 1 {
		return parts[0]
	}
	var flat []Type
	for _, p := range parts {
		if u, ok := p.(*Union); ok {
			flat = append(flat, u.Subtypes...)
		} else {
			flat = append(flat, p)
		}
	}
	return &Union{Subtypes: flat}
}
