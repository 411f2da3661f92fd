package defaults_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/defaults"
	"github.com/DarrenHaba/ftml/pkg/parser"
	"github.com/DarrenHaba/ftml/pkg/schema"
	"github.com/DarrenHaba/ftml/pkg/validator"
)

func TestApplyFieldDefault(t *testing.T) {
	doc, err := parser.Parse("")
	require.NoError(t, err)
	s, err := schema.Parse("age: int<min=0, max=120> = 18\n")
	require.NoError(t, err)

	defaults.ApplyDocument(doc, s)

	kv, ok := doc.Fields.Get("age")
	require.True(t, ok)
	assert.Equal(t, int64(18), kv.Value.(*ast.ScalarNode).Value.Raw)

	errs := validator.ValidateDocument(doc, s, validator.DefaultOptions())
	assert.Empty(t, errs)
}

func TestApplyIsIdempotent(t *testing.T) {
	doc, err := parser.Parse("")
	require.NoError(t, err)
	s, err := schema.Parse(`server: {host: str = "localhost", port: int = 8080}` + " = {}\n")
	require.NoError(t, err)

	defaults.ApplyDocument(doc, s)
	first := dumpServerFields(t, doc)
	defaults.ApplyDocument(doc, s)
	second := dumpServerFields(t, doc)
	assert.Equal(t, first, second)
}

func dumpServerFields(t *testing.T, doc *ast.Document) map[string]any {
	t.Helper()
	kv, ok := doc.Fields.Get("server")
	require.True(t, ok)
	obj := kv.Value.(*ast.ObjectNode)
	out := map[string]any{}
	obj.Fields.Each(func(key string, kv *ast.KeyValue) {
		out[key] = kv.Value.(*ast.ScalarNode).Value.Raw
	})
	return out
}

func TestApplyDoesNotSynthesizeWithoutDefault(t *testing.T) {
	doc, err := parser.Parse("")
	require.NoError(t, err)
	s, err := schema.Parse("nickname?: str\n")
	require.NoError(t, err)

	defaults.ApplyDocument(doc, s)
	_, ok := doc.Fields.Get("nickname")
	assert.False(t, ok)
}

func TestContainerDefaultDominatesFieldDefaultsFillGaps(t *testing.T) {
	doc, err := parser.Parse("")
	require.NoError(t, err)
	s, err := schema.Parse(`server: {host: str = "localhost", port: int = 8080} = {host = "example.com"}` + "\n")
	require.NoError(t, err)

	defaults.ApplyDocument(doc, s)

	kv, ok := doc.Fields.Get("server")
	require.True(t, ok)
	obj := kv.Value.(*ast.ObjectNode)

	host, _ := obj.Fields.Get("host")
	assert.Equal(t, "example.com", host.Value.(*ast.ScalarNode).Value.Raw)

	port, ok := obj.Fields.Get("port")
	require.True(t, ok)
	assert.Equal(t, int64(8080), port.Value.(*ast.ScalarNode).Value.Raw)
}
