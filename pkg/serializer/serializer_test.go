package serializer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/parser"
	"github.com/DarrenHaba/ftml/pkg/serializer"
)

func roundTrip(t *testing.T, src string) string {
	t.Helper()
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	return serializer.Serialize(doc, serializer.DefaultOptions())
}

func TestSerializeScalarRootFields(t *testing.T) {
	out := roundTrip(t, "name = \"John\"\nage = 30\n")
	assert.Equal(t, "name = \"John\"\nage = 30\n", out)
}

func TestSerializeNestedObjectTrailingCommaDropped(t *testing.T) {
	src := "server = {\n    host = \"localhost\",\n    port = 8080,\n}\n"
	out := roundTrip(t, src)
	assert.Equal(t, "server = {\n    host = \"localhost\",\n    port = 8080\n}\n", out)
}

func TestSerializeEmptyObjectAndList(t *testing.T) {
	out := roundTrip(t, "a = {}\nb = []\n")
	assert.Equal(t, "a = {}\nb = []\n", out)
}

func TestSerializeListElements(t *testing.T) {
	out := roundTrip(t, "ports = [80, 443, 8080]\n")
	assert.Equal(t, "ports = [\n    80,\n    443,\n    8080\n]\n", out)
}

func TestSerializeCommentsRoundTrip(t *testing.T) {
	src := "//! module doc\n/// field doc\nname = \"Ada\"  // inline note\n"
	out := roundTrip(t, src)
	assert.Equal(t, src, out)
}

func TestSerializeQuotesNonIdentifierKey(t *testing.T) {
	out := roundTrip(t, "\"has space\" = 1\n")
	assert.Equal(t, "\"has space\" = 1\n", out)
}

func TestSerializeStringEscaping(t *testing.T) {
	out := roundTrip(t, "note = \"line1\\nline2\\ttab\\\"quote\\\"\"\n")
	assert.Equal(t, "note = \"line1\\nline2\\ttab\\\"quote\\\"\"\n", out)
}

func TestSerializeWithoutComments(t *testing.T) {
	doc, err := parser.Parse("// hidden\nname = \"Ada\"  // also hidden\n")
	require.NoError(t, err)
	opts := serializer.DefaultOptions()
	opts.IncludeComments = false
	out := serializer.Serialize(doc, opts)
	assert.Equal(t, "name = \"Ada\"\n", out)
}

func TestSerializeNonASCIIPassesThrough(t *testing.T) {
	out := roundTrip(t, "greeting = \"héllo wörld\"\n")
	assert.Equal(t, "greeting = \"héllo wörld\"\n", out)
}

func TestSerializeInnerDocAndEndLeadingInObject(t *testing.T) {
	src := "config = {\n    //! inner note\n    a = 1\n    // trailing\n}\n"
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	kv, ok := doc.Fields.Get("config")
	require.True(t, ok)
	obj := kv.Value.(*ast.ObjectNode)
	require.Len(t, obj.InnerDocComments, 1)
	require.Len(t, obj.EndLeadingComments, 1)

	out := serializer.Serialize(doc, serializer.DefaultOptions())
	assert.Equal(t, src, out)
}
