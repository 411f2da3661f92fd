package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarrenHaba/ftml/pkg/version"
)

func TestParseReleaseVersion(t *testing.T) {
	v, err := version.Parse("1.2")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Major)
	assert.Equal(t, 2, v.Minor)
}

func TestParsePreReleaseVersion(t *testing.T) {
	v, err := version.Parse("2.0rc3")
	require.NoError(t, err)
	assert.Equal(t, 2, v.Major)
	assert.Equal(t, 0, v.Minor)
	assert.Equal(t, 3, v.Pre)
}

func TestParseMalformedVersion(t *testing.T) {
	_, err := version.Parse("not-a-version")
	assert.Error(t, err)
}

func TestCompareOrdering(t *testing.T) {
	a, _ := version.Parse("1.0a1")
	b, _ := version.Parse("1.0b1")
	rc, _ := version.Parse("1.0rc1")
	rel, _ := version.Parse("1.0")
	assert.Equal(t, -1, version.Compare(a, b))
	assert.Equal(t, -1, version.Compare(b, rc))
	assert.Equal(t, -1, version.Compare(rc, rel))
	assert.Equal(t, 0, version.Compare(rel, rel))
}

func TestCheckRejectsNewerVersion(t *testing.T) {
	err := version.Check("999.0", true)
	assert.Error(t, err)
}

func TestCheckBypassedWhenCheckVersionFalse(t *testing.T) {
	err := version.Check("999.0", false)
	assert.NoError(t, err)
}

func TestCheckRejectsMalformedEvenWhenBypassed(t *testing.T) {
	err := version.Check("not-a-version", false)
	assert.Error(t, err)
}
