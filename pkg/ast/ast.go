// Package ast defines the commented abstract syntax tree produced by the
// document parser: an ordered map of key-value pairs plus object/list/
// scalar nodes, each carrying independent comment slots so that a parse,
// mutate, and re-serialize round trip preserves every authored comment
// (spec.md §3).
package ast

import "github.com/DarrenHaba/ftml/pkg/token"

// CommentKind mirrors token.CommentKind for comments retained in the AST.
type CommentKind = token.CommentKind

const (
	CommentRegular  = token.CommentRegular
	CommentOuterDoc = token.CommentOuterDoc
	CommentInnerDoc = token.CommentInnerDoc
)

// Comment is one retained comment line. Comments are cloned, never shared,
// between AST nodes (spec.md §3 lifecycle rule).
type Comment struct {
	Kind CommentKind
	Text string
	Line int
	Col  int
}

// Clone returns an independent copy of c.
func (c Comment) Clone() Comment { return c }

// CloneComments deep-copies a comment slice so the result shares no
// backing array with the original.
func CloneComments(cs []Comment) []Comment {
	if cs == nil {
		return nil
	}
	out := make([]Comment, len(cs))
	copy(out, cs)
	return out
}

// ScalarValue is the tagged union of raw scalar payloads a bare parse can
// produce. Date/time/datetime/timestamp variants only appear after
// schema-driven coercion (spec.md §3); a plain Load leaves those as string
// or int64.
type ScalarValue struct {
	// Kind is one of "string", "int", "float", "bool", "null", "date",
	// "time", "datetime", "timestamp".
	Kind string
	// Raw holds the Go-native value: string, int64, float64, bool, nil,
	// or (post-coercion) one of the registry's temporal types.
	Raw any
}

// Node is implemented by every AST value node (Object, List, Scalar).
type Node interface {
	node()
	// LeadingComments returns the regular "//" comments attached above
	// this node.
	LeadingComments() []Comment
	// OuterDocComments returns the "///" comments attached above this node.
	OuterDocComments() []Comment
	// InlineComment returns the trailing same-line comment, if any.
	InlineComment() *Comment
}

// base holds the comment slots common to every node (spec.md §3).
type base struct {
	Leading  []Comment
	OuterDoc []Comment
	Inline   *Comment
}

func (b *base) LeadingComments() []Comment  { return b.Leading }
func (b *base) OuterDocComments() []Comment { return b.OuterDoc }
func (b *base) InlineComment() *Comment     { return b.Inline }

// KeyValue is one "key = value" pair inside a Document or ObjectNode.
type KeyValue struct {
	Key   string
	Value Node

	LeadingComments  []Comment
	OuterDocComments []Comment
	InlineComment    *Comment
}

// OrderedFields is an insertion-ordered map of key to KeyValue. Position is
// tracked by Keys; reassigning an existing key updates Items but leaves its
// position in Keys untouched (spec.md §3 invariant).
type OrderedFields struct {
	Keys  []string
	Items map[string]*KeyValue
}

// NewOrderedFields returns an empty OrderedFields.
func NewOrderedFields() *OrderedFields {
	return &OrderedFields{Items: make(map[string]*KeyValue)}
}

// Get returns the KeyValue for key, and whether it is present.
func (f *OrderedFields) Get(key string) (*KeyValue, bool) {
	kv, ok := f.Items[key]
	return kv, ok
}

// Has reports whether key is present.
func (f *OrderedFields) Has(key string) bool {
	_, ok := f.Items[key]
	return ok
}

// Set inserts kv under key, appending to Keys only if key is new.
func (f *OrderedFields) Set(key string, kv *KeyValue) {
	if _, exists := f.Items[key]; !exists {
		f.Keys = append(f.Keys, key)
	}
	f.Items[key] = kv
}

// Delete removes key, if present, from both Keys and Items.
func (f *OrderedFields) Delete(key string) {
	if _, ok := f.Items[key]; !ok {
		return
	}
	delete(f.Items, key)
	for i, k := range f.Keys {
		if k == key {
			f.Keys = append(f.Keys[:i], f.Keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of fields.
func (f *OrderedFields) Len() int { return len(f.Keys) }

// Each calls fn for every key-value pair in insertion order.
func (f *OrderedFields) Each(fn func(key string, kv *KeyValue)) {
	for _, k := range f.Keys {
		fn(k, f.Items[k])
	}
}

// Document is the root AST node: an ordered map of root key-value pairs
// plus comments that could not attach to any child (spec.md §3).
type Document struct {
	Fields *OrderedFields

	InnerDocComments   []Comment
	EndLeadingComments []Comment
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{Fields: NewOrderedFields()}
}

// ObjectNode is a `{ ... }` value: either field-bearing, a pattern object,
// or untyped — that distinction lives in the schema, not the value AST.
type ObjectNode struct {
	base
	Fields *OrderedFields

	InnerDocComments   []Comment
	EndLeadingComments []Comment
}

func (*ObjectNode) node() {}

// NewObjectNode returns an empty ObjectNode.
func NewObjectNode() *ObjectNode {
	return &ObjectNode{Fields: NewOrderedFields()}
}

// ListNode is a `[ ... ]` value.
type ListNode struct {
	base
	Elements []Node

	InnerDocComments   []Comment
	EndLeadingComments []Comment
}

func (*ListNode) node() {}

// ScalarNode is a primitive literal value.
type ScalarNode struct {
	base
	Value ScalarValue
}

func (*ScalarNode) node() {}

// Clone deep-copies a Node, including all comment slots, so that mutating
// the clone never touches the original (spec.md §3: no comment is attached
// to two nodes).
func Clone(n Node) Node {
	switch v := n.(type) {
	case *ScalarNode:
		return &ScalarNode{
			base:  cloneBase(v.base),
			Value: v.Value,
		}
	case *ListNode:
		elems := make([]Node, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = Clone(e)
		}
		return &ListNode{
			base:               cloneBase(v.base),
			Elements:           elems,
			InnerDocComments:   CloneComments(v.InnerDocComments),
			EndLeadingComments: CloneComments(v.EndLeadingComments),
		}
	case *ObjectNode:
		fields := NewOrderedFields()
		v.Fields.Each(func(key string, kv *KeyValue) {
			fields.Set(key, cloneKeyValue(kv))
		})
		return &ObjectNode{
			base:               cloneBase(v.base),
			Fields:             fields,
			InnerDocComments:   CloneComments(v.InnerDocComments),
			EndLeadingComments: CloneComments(v.EndLeadingComments),
		}
	default:
		return n
	}
}

func cloneBase(b base) base {
	var inline *Comment
	if b.Inline != nil {
		c := b.Inline.Clone()
		inline = &c
	}
	return base{
		Leading:  CloneComments(b.Leading),
		OuterDoc: CloneComments(b.OuterDoc),
		Inline:   inline,
	}
}

// StripComments clears every comment slot in doc in place, so a later Dump
// reproduces none of them regardless of dump-time options (spec.md §6
// load(preserve_comments=false)).
func StripComments(doc *Document) {
	doc.InnerDocComments = nil
	doc.EndLeadingComments = nil
	doc.Fields.Each(func(_ string, kv *KeyValue) {
		stripKeyValue(kv)
	})
}

func stripKeyValue(kv *KeyValue) {
	kv.LeadingComments = nil
	kv.OuterDocComments = nil
	kv.InlineComment = nil
	stripNode(kv.Value)
}

func stripNode(n Node) {
	switch v := n.(type) {
	case *ScalarNode:
		stripBase(&v.base)
	case *ListNode:
		stripBase(&v.base)
		v.InnerDocComments = nil
		v.EndLeadingComments = nil
		for _, e := range v.Elements {
			stripNode(e)
		}
	case *ObjectNode:
		stripBase(&v.base)
		v.InnerDocComments = nil
		v.EndLeadingComments = nil
		v.Fields.Each(func(_ string, kv *KeyValue) {
			stripKeyValue(kv)
		})
	}
}

func stripBase(b *base) {
	b.Leading = nil
	b.OuterDoc = nil
	b.Inline = nil
}

func cloneKeyValue(kv *KeyValue) *KeyValue {
	var inline *Comment
	if kv.InlineComment != nil {
		c := kv.InlineComment.Clone()
		inline = &c
	}
	return &KeyValue{
		Key:              kv.Key,
		Value:            Clone(kv.Value),
		LeadingComments:  CloneComments(kv.LeadingComments),
		OuterDocComments: CloneComments(kv.OuterDocComments),
		InlineComment:    inline,
	}
}
