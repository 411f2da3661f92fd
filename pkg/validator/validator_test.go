package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DarrenHaba/ftml/pkg/parser"
	"github.com/DarrenHaba/ftml/pkg/schema"
	"github.com/DarrenHaba/ftml/pkg/validator"
)

func TestValidateScalarTypeMismatch(t *testing.T) {
	doc, err := parser.Parse(`age = "not a number"` + "\n")
	require.NoError(t, err)
	s, err := schema.Parse("age: int\n")
	require.NoError(t, err)

	errs := validator.ValidateDocument(doc, s, validator.DefaultOptions())
	require.Len(t, errs, 1)
	assert.Equal(t, "age", errs[0].Path)
}

func TestValidateNumericBounds(t *testing.T) {
	doc, err := parser.Parse("age = 200\n")
	require.NoError(t, err)
	s, err := schema.Parse("age: int<min=0, max=120>\n")
	require.NoError(t, err)

	errs := validator.ValidateDocument(doc, s, validator.DefaultOptions())
	require.Len(t, errs, 1)
}

func TestValidateEnumUnionComposite(t *testing.T) {
	doc, err := parser.Parse(`status = "c"` + "\n")
	require.NoError(t, err)
	s, err := schema.Parse(`status: str<enum=["a","b"]> | null` + "\n")
	require.NoError(t, err)

	errs := validator.ValidateDocument(doc, s, validator.DefaultOptions())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "does not match any allowed types")
}

func TestValidateMissingRequiredField(t *testing.T) {
	doc, err := parser.Parse("")
	require.NoError(t, err)
	s, err := schema.Parse("name: str\n")
	require.NoError(t, err)

	errs := validator.ValidateDocument(doc, s, validator.DefaultOptions())
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Path)
}

func TestValidateOptionalFieldMayBeMissing(t *testing.T) {
	doc, err := parser.Parse("")
	require.NoError(t, err)
	s, err := schema.Parse("nickname?: str\n")
	require.NoError(t, err)

	errs := validator.ValidateDocument(doc, s, validator.DefaultOptions())
	assert.Empty(t, errs)
}

func TestValidateUnknownFieldStrict(t *testing.T) {
	doc, err := parser.Parse("name = \"Ada\"\nextra = 1\n")
	require.NoError(t, err)
	s, err := schema.Parse("name: str\n")
	require.NoError(t, err)

	errs := validator.ValidateDocument(doc, s, validator.DefaultOptions())
	require.Len(t, errs, 1)
	assert.Equal(t, "extra", errs[0].Path)
}

func TestValidateExtTrueAllowsExtraFields(t *testing.T) {
	doc, err := parser.Parse(`user = {name = "Ada", age = 36, nickname = "A"}` + "\n")
	require.NoError(t, err)
	s, err := schema.Parse("user: {name: str, age: int}<ext=true>\n")
	require.NoError(t, err)

	errs := validator.ValidateDocument(doc, s, validator.DefaultOptions())
	assert.Empty(t, errs)
}

func TestValidateExtFalseRejectsExtraFields(t *testing.T) {
	doc, err := parser.Parse(`user = {name = "Ada", age = 36, nickname = "A"}` + "\n")
	require.NoError(t, err)
	s, err := schema.Parse("user: {name: str, age: int}\n")
	require.NoError(t, err)

	errs := validator.ValidateDocument(doc, s, validator.DefaultOptions())
	require.Len(t, errs, 1)
	assert.Equal(t, "user.nickname", errs[0].Path)
}

func TestValidateListElementErrorsIncludeIndex(t *testing.T) {
	doc, err := parser.Parse(`ports = [80, "bad", 443]` + "\n")
	require.NoError(t, err)
	s, err := schema.Parse("ports: [int]\n")
	require.NoError(t, err)

	errs := validator.ValidateDocument(doc, s, validator.DefaultOptions())
	require.Len(t, errs, 1)
	assert.Equal(t, "ports[1]", errs[0].Path)
}

func TestValidatePatternObject(t *testing.T) {
	doc, err := parser.Parse(`scores = {alice = 90, bob = "bad"}` + "\n")
	require.NoError(t, err)
	s, err := schema.Parse("scores: {int}\n")
	require.NoError(t, err)

	errs := validator.ValidateDocument(doc, s, validator.DefaultOptions())
	require.Len(t, errs, 1)
	assert.Equal(t, "scores.bob", errs[0].Path)
}
