package encoding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/encoding"
)

func scalarString(s string) *ast.ScalarNode {
	return &ast.ScalarNode{Value: ast.ScalarValue{Kind: "string", Raw: s}}
}

func TestNormalizeStripsCaseAndPunctuation(t *testing.T) {
	assert.Equal(t, "utf8", encoding.Normalize("UTF-8"))
	assert.Equal(t, "utf8", encoding.Normalize("utf_8"))
}

func TestCheckAcceptsKnownEncoding(t *testing.T) {
	err := encoding.Check(scalarString("UTF-8"))
	assert.NoError(t, err)
}

func TestCheckAcceptsHyphenatedLatin1Alias(t *testing.T) {
	err := encoding.Check(scalarString("latin-1"))
	assert.NoError(t, err)
}

func TestCheckRejectsUnknownEncoding(t *testing.T) {
	err := encoding.Check(scalarString("not-a-real-encoding"))
	assert.Error(t, err)
}

func TestCheckRejectsNonString(t *testing.T) {
	err := encoding.Check(&ast.ScalarNode{Value: ast.ScalarValue{Kind: "int", Raw: int64(8)}})
	assert.Error(t, err)
}
