package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/registry"
)

func TestMatchesKind(t *testing.T) {
	assert.True(t, registry.MatchesKind("int", ast.ScalarValue{Kind: "int"}))
	assert.False(t, registry.MatchesKind("int", ast.ScalarValue{Kind: "float"}))
	assert.True(t, registry.MatchesKind("float", ast.ScalarValue{Kind: "int"}))
	assert.True(t, registry.MatchesKind("any", ast.ScalarValue{Kind: "null"}))
	assert.True(t, registry.MatchesKind("timestamp", ast.ScalarValue{Kind: "int"}))
	assert.True(t, registry.MatchesKind("date", ast.ScalarValue{Kind: "string"}))
}

func TestCoerceDateISO8601(t *testing.T) {
	c, err := registry.CoerceDate("2024-03-05", "")
	require.NoError(t, err)
	assert.Equal(t, 2024, c.Time.Year())
	assert.Equal(t, 3, int(c.Time.Month()))
	assert.Equal(t, 5, c.Time.Day())
}

func TestCoerceDateStrftimeFormat(t *testing.T) {
	c, err := registry.CoerceDate("05/03/2024", "%d/%m/%Y")
	require.NoError(t, err)
	assert.Equal(t, 2024, c.Time.Year())
	assert.Equal(t, 3, int(c.Time.Month()))
	assert.Equal(t, 5, c.Time.Day())
}

func TestCoerceTimestampPrecisions(t *testing.T) {
	c, err := registry.CoerceTimestamp(1700000000, "seconds")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), c.Unix)

	_, err = registry.CoerceTimestamp(1700000000000, "ms")
	require.NoError(t, err)
}

func TestEqualScalarNumericCrossKind(t *testing.T) {
	a := ast.ScalarValue{Kind: "int", Raw: int64(5)}
	b := ast.ScalarValue{Kind: "float", Raw: float64(5)}
	assert.True(t, registry.EqualScalar(a, b))
}

func TestConstraintLiteralExtraction(t *testing.T) {
	n := &ast.ScalarNode{Value: ast.ScalarValue{Kind: "int", Raw: int64(10)}}
	v, ok := registry.Int(n)
	require.True(t, ok)
	assert.Equal(t, int64(10), v)
}
