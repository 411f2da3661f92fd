// Package serializer implements the Serializer: emits canonical FTML text
// from a commented AST, reproducing comments when present (spec.md §4.7).
package serializer

import (
	"strconv"
	"strings"

	"github.com/DarrenHaba/ftml/pkg/ast"
)

// Options controls what the serializer emits.
type Options struct {
	// IncludeComments controls whether any comment slot is emitted. When
	// false, every leading/outer-doc/inline/inner-doc/end-leading comment
	// is skipped (spec.md §4.7).
	IncludeComments bool
	// IndentWidth is the number of spaces per nesting depth. Defaults to 4
	// (spec.md §4.7) when zero.
	IndentWidth int
}

// DefaultOptions returns the spec's default: comments included, 4-space
// indent per depth.
func DefaultOptions() Options {
	return Options{IncludeComments: true, IndentWidth: 4}
}

// Serialize emits doc as canonical FTML text.
func Serialize(doc *ast.Document, opts Options) string {
	if opts.IndentWidth == 0 {
		opts.IndentWidth = 4
	}
	s := &serializer{opts: opts}
	s.writeComments(doc.InnerDocComments, 0)
	doc.Fields.Each(func(key string, kv *ast.KeyValue) {
		s.writeKeyValue(kv, 0)
	})
	s.writeComments(doc.EndLeadingComments, 0)
	return s.buf.String()
}

type serializer struct {
	buf  strings.Builder
	opts Options
}

func (s *serializer) indent(depth int) string {
	return strings.Repeat(" ", depth*s.opts.IndentWidth)
}

func (s *serializer) writeComments(cs []ast.Comment, depth int) {
	if !s.opts.IncludeComments {
		return
	}
	for _, c := range cs {
		s.buf.WriteString(s.indent(depth))
		s.buf.WriteString(commentPrefix(c.Kind))
		s.buf.WriteString(c.Text)
		s.buf.WriteByte('\n')
	}
}

func commentPrefix(kind ast.CommentKind) string {
	switch kind {
	case ast.CommentOuterDoc:
		return "/// "
	case ast.CommentInnerDoc:
		return "//! "
	default:
		return "// "
	}
}

// writeKeyValue emits one "key = value" line (plus its surrounding
// comments) at the given nesting depth.
func (s *serializer) writeKeyValue(kv *ast.KeyValue, depth int) {
	s.writeComments(kv.LeadingComments, depth)
	s.writeComments(kv.OuterDocComments, depth)

	s.buf.WriteString(s.indent(depth))
	s.buf.WriteString(encodeKey(kv.Key))
	s.buf.WriteString(" = ")
	s.writeValue(kv.Value, depth)

	if s.opts.IncludeComments && kv.InlineComment != nil {
		s.buf.WriteString("  ")
		s.buf.WriteString(commentPrefix(kv.InlineComment.Kind))
		s.buf.WriteString(kv.InlineComment.Text)
	}
	s.buf.WriteByte('\n')
}

// writeValue emits a scalar, object, or list value. depth is the nesting
// depth of the key this value belongs to; nested bodies indent one level
// deeper.
func (s *serializer) writeValue(n ast.Node, depth int) {
	switch v := n.(type) {
	case *ast.ScalarNode:
		s.buf.WriteString(encodeScalar(v.Value))
	case *ast.ObjectNode:
		s.writeObject(v, depth)
	case *ast.ListNode:
		s.writeList(v, depth)
	}
}

func (s *serializer) writeObject(obj *ast.ObjectNode, depth int) {
	if obj.Fields.Len() == 0 && !hasAnyComments(obj.InnerDocComments, obj.EndLeadingComments) {
		s.buf.WriteString("{}")
		return
	}
	s.buf.WriteString("{\n")
	s.writeComments(obj.InnerDocComments, depth+1)
	keys := obj.Fields.Keys
	for i, key := range keys {
		kv, _ := obj.Fields.Get(key)
		s.writeComments(kv.LeadingComments, depth+1)
		s.writeComments(kv.OuterDocComments, depth+1)
		s.buf.WriteString(s.indent(depth + 1))
		s.buf.WriteString(encodeKey(kv.Key))
		s.buf.WriteString(" = ")
		s.writeValue(kv.Value, depth+1)
		if i < len(keys)-1 {
			s.buf.WriteString(",")
		}
		if s.opts.IncludeComments && kv.InlineComment != nil {
			s.buf.WriteString("  ")
			s.buf.WriteString(commentPrefix(kv.InlineComment.Kind))
			s.buf.WriteString(kv.InlineComment.Text)
		}
		s.buf.WriteByte('\n')
	}
	s.writeComments(obj.EndLeadingComments, depth+1)
	s.buf.WriteString(s.indent(depth))
	s.buf.WriteString("}")
}

func (s *serializer) writeList(list *ast.ListNode, depth int) {
	if len(list.Elements) == 0 && !hasAnyComments(list.InnerDocComments, list.EndLeadingComments) {
		s.buf.WriteString("[]")
		return
	}
	s.buf.WriteString("[\n")
	s.writeComments(list.InnerDocComments, depth+1)
	for i, elem := range list.Elements {
		leading, outerDoc, inline := elementComments(elem)
		s.writeComments(leading, depth+1)
		s.writeComments(outerDoc, depth+1)
		s.buf.WriteString(s.indent(depth + 1))
		s.writeValue(elem, depth+1)
		if i < len(list.Elements)-1 {
			s.buf.WriteString(",")
		}
		if s.opts.IncludeComments && inline != nil {
			s.buf.WriteString("  ")
			s.buf.WriteString(commentPrefix(inline.Kind))
			s.buf.WriteString(inline.Text)
		}
		s.buf.WriteByte('\n')
	}
	s.writeComments(list.EndLeadingComments, depth+1)
	s.buf.WriteString(s.indent(depth))
	s.buf.WriteString("]")
}

func elementComments(n ast.Node) (leading, outerDoc []ast.Comment, inline *ast.Comment) {
	switch v := n.(type) {
	case *ast.ScalarNode:
		return v.LeadingComments(), v.OuterDocComments(), v.InlineComment()
	case *ast.ObjectNode:
		return v.LeadingComments(), v.OuterDocComments(), v.InlineComment()
	case *ast.ListNode:
		return v.LeadingComments(), v.OuterDocComments(), v.InlineComment()
	default:
		return nil, nil, nil
	}
}

func hasAnyComments(groups ...[]ast.Comment) bool {
	for _, g := range groups {
		if len(g) > 0 {
			return true
		}
	}
	return false
}

// encodeKey quotes key as a string literal unless it is already a valid
// bare identifier.
func encodeKey(key string) string {
	if isBareIdent(key) {
		return key
	}
	return encodeDoubleQuoted(key)
}

func isBareIdent(s string) bool {
	if s == "" || s == "true" || s == "false" || s == "null" {
		return false
	}
	for i, r := range s {
		isStart := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if isStart {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func encodeScalar(v ast.ScalarValue) string {
	switch v.Kind {
	case "string":
		s, _ := v.Raw.(string)
		return encodeDoubleQuoted(s)
	case "int":
		n, _ := v.Raw.(int64)
		return strconv.FormatInt(n, 10)
	case "float":
		f, _ := v.Raw.(float64)
		return strconv.FormatFloat(f, 'g', -1, 64)
	case "bool":
		b, _ := v.Raw.(bool)
		if b {
			return "true"
		}
		return "false"
	case "null":
		return "null"
	default:
		// date/time/datetime/timestamp scalars only exist after
		// schema-driven coercion, which FTML keeps out of the raw AST;
		// round-tripping always sees the original string/int form.
		if s, ok := v.Raw.(string); ok {
			return encodeDoubleQuoted(s)
		}
		return "null"
	}
}

func encodeDoubleQuoted(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
