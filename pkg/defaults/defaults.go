// Package defaults implements the DefaultApplier: fills missing
// fields/containers from field-level and object-level schema defaults. An
// existing value always wins; an installed container default wins for the
// keys it sets; field defaults fill only the keys it leaves missing
// (spec.md §4.6).
package defaults

import (
	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/schema"
)

// ApplyDocument fills missing root fields of doc from root's field
// defaults, in place, recursing into nested containers.
func ApplyDocument(doc *ast.Document, root *schema.Object) {
	applyObjectFields(doc.Fields, root)
}

// Apply fills missing nested fields/elements of an already-present value
// against typ, in place, and returns the (possibly replaced) node. Apply
// never synthesizes a value where none exists; that is ApplyDocument's
// and applyObjectFields' job, driven by the enclosing container's field
// list (rule 3: absence without a type default stays absence).
func Apply(value ast.Node, typ schema.Type) ast.Node {
	switch t := typ.(type) {
	case *schema.List:
		list, ok := value.(*ast.ListNode)
		if !ok || t.ItemType == nil {
			return value
		}
		for i, e := range list.Elements {
			list.Elements[i] = Apply(e, t.ItemType)
		}
		return list
	case *schema.Object:
		obj, ok := value.(*ast.ObjectNode)
		if !ok {
			return value
		}
		switch {
		case t.Untyped:
			// no declared shape; nothing to recurse into.
		case t.PatternType != nil:
			obj.Fields.Each(func(key string, kv *ast.KeyValue) {
				kv.Value = Apply(kv.Value, t.PatternType)
			})
		default:
			applyObjectFields(obj.Fields, t)
		}
		return obj
	default:
		// Scalar and Union: no nested structure to fill.
		return value
	}
}

// applyObjectFields walks a structured object's declared fields, filling
// each missing one from its field default (rule 1), recursing into every
// present field (rule 2), and leaving a missing field with no default
// untouched (rule 3). When a field-level default is itself a container,
// it is deep-cloned in and then recursively filled against its own type
// so nested field defaults apply (rule 4: the installed default dominates
// for the keys it sets; field defaults fill any gaps it left).
func applyObjectFields(fields *ast.OrderedFields, t *schema.Object) {
	for _, name := range t.FieldOrder {
		f := t.Fields[name]
		kv, present := fields.Get(name)
		if !present {
			if !f.Type.HasDefault() {
				continue
			}
			installed := &ast.KeyValue{Key: name, Value: ast.Clone(f.Type.DefaultLiteral())}
			installed.Value = Apply(installed.Value, f.Type)
			fields.Set(name, installed)
			continue
		}
		kv.Value = Apply(kv.Value, f.Type)
	}
}
