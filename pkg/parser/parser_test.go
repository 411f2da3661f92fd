package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/errors"
	"github.com/DarrenHaba/ftml/pkg/parser"
)

func TestParseEmptyDocument(t *testing.T) {
	doc, err := parser.Parse("")
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Fields.Len())

	doc2, err := parser.Parse("   \n  \n")
	require.NoError(t, err)
	assert.Equal(t, 0, doc2.Fields.Len())
}

func TestParseScalarRootFields(t *testing.T) {
	doc, err := parser.Parse("name = \"Ada\"\nage = 36\npi = 3.5\nok = true\nnothing = null\n")
	require.NoError(t, err)
	require.Equal(t, []string{"name", "age", "pi", "ok", "nothing"}, doc.Fields.Keys)

	kv, ok := doc.Fields.Get("name")
	require.True(t, ok)
	scalar := kv.Value.(*ast.ScalarNode)
	assert.Equal(t, "Ada", scalar.Value.Raw)
}

func TestParseNestedObjectAndList(t *testing.T) {
	src := `server = {
    host = "localhost"
    ports = [80, 443, 8080]
}
`
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	kv, ok := doc.Fields.Get("server")
	require.True(t, ok)
	obj := kv.Value.(*ast.ObjectNode)
	require.Equal(t, []string{"host", "ports"}, obj.Fields.Keys)

	portsKV, _ := obj.Fields.Get("ports")
	list := portsKV.Value.(*ast.ListNode)
	require.Len(t, list.Elements, 3)
	assert.Equal(t, int64(80), list.Elements[0].(*ast.ScalarNode).Value.Raw)
}

func TestParseDuplicateKeyRejected(t *testing.T) {
	_, err := parser.Parse("a = 1\na = 2\n")
	require.Error(t, err)
	var pe *errors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, errors.ParseErrorDuplicateKey, pe.Kind)
}

func TestParseRootCommaForbidden(t *testing.T) {
	_, err := parser.Parse("a = 1, b = 2\n")
	require.Error(t, err)
}

func TestParseBraceOnNewLineForbidden(t *testing.T) {
	_, err := parser.Parse("server =\n{\n  host = \"x\"\n}\n")
	require.Error(t, err)
	var pe *errors.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, errors.ParseErrorForbiddenConstruct, pe.Kind)
}

func TestParseBareTopLevelScalarRejected(t *testing.T) {
	_, err := parser.Parse("\"just a string\"\n")
	require.Error(t, err)
}

func TestParseTrailingCommaAllowed(t *testing.T) {
	doc, err := parser.Parse("list = [1, 2, 3,]\n")
	require.NoError(t, err)
	kv, _ := doc.Fields.Get("list")
	list := kv.Value.(*ast.ListNode)
	assert.Len(t, list.Elements, 3)
}

func TestCommentAttachment(t *testing.T) {
	src := `//! doc comment for the file
/// description of name
// just a note
name = "Ada" // inline note

// trailing comment
`
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	require.Len(t, doc.InnerDocComments, 1)
	assert.Equal(t, "doc comment for the file", doc.InnerDocComments[0].Text)

	kv, ok := doc.Fields.Get("name")
	require.True(t, ok)
	require.Len(t, kv.OuterDocComments, 1)
	assert.Equal(t, "description of name", kv.OuterDocComments[0].Text)
	require.Len(t, kv.LeadingComments, 1)
	assert.Equal(t, "just a note", kv.LeadingComments[0].Text)
	require.NotNil(t, kv.InlineComment)
	assert.Equal(t, "inline note", kv.InlineComment.Text)

	require.Len(t, doc.EndLeadingComments, 1)
	assert.Equal(t, "trailing comment", doc.EndLeadingComments[0].Text)
}

func TestCommentBelongsToContainerNotFirstChild(t *testing.T) {
	src := `outer = {
    /// belongs to inner, not to x
    inner = {
        x = 1
    }
}
`
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	outerKV, _ := doc.Fields.Get("outer")
	outerObj := outerKV.Value.(*ast.ObjectNode)
	innerKV, ok := outerObj.Fields.Get("inner")
	require.True(t, ok)
	require.Len(t, innerKV.OuterDocComments, 1)

	innerObj := innerKV.Value.(*ast.ObjectNode)
	xKV, _ := innerObj.Fields.Get("x")
	assert.Empty(t, xKV.OuterDocComments)
}

func TestInnerDocInsideContainerBeforeFirstChild(t *testing.T) {
	src := `config = {
    //! inner doc for config
    theme = "dark"
}
`
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	kv, _ := doc.Fields.Get("config")
	obj := kv.Value.(*ast.ObjectNode)
	require.Len(t, obj.InnerDocComments, 1)
	assert.Equal(t, "inner doc for config", obj.InnerDocComments[0].Text)
}

func TestEndLeadingCommentsInObject(t *testing.T) {
	src := `obj = {
    a = 1
    // trailing, no more fields
}
`
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	kv, _ := doc.Fields.Get("obj")
	obj := kv.Value.(*ast.ObjectNode)
	require.Len(t, obj.EndLeadingComments, 1)
	assert.Equal(t, "trailing, no more fields", obj.EndLeadingComments[0].Text)
}

func TestListElementComments(t *testing.T) {
	src := `items = [
    // first item
    "a",
    "b", // second
]
`
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	kv, _ := doc.Fields.Get("items")
	list := kv.Value.(*ast.ListNode)
	require.Len(t, list.Elements, 2)
	first := list.Elements[0].(*ast.ScalarNode)
	require.Len(t, first.Leading, 1)
	assert.Equal(t, "first item", first.Leading[0].Text)
	second := list.Elements[1].(*ast.ScalarNode)
	require.NotNil(t, second.Inline)
	assert.Equal(t, "second", second.Inline.Text)
}

func TestQuotedKey(t *testing.T) {
	doc, err := parser.Parse(`"odd key" = 1` + "\n")
	require.NoError(t, err)
	_, ok := doc.Fields.Get("odd key")
	assert.True(t, ok)
}
