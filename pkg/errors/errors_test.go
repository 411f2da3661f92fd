package errors_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/DarrenHaba/ftml/pkg/errors"
)

func TestFieldErrorIncludesPath(t *testing.T) {
	fe := errors.NewFieldError("user.age", errors.Position{Line: 3, Col: 5}, "must be positive")
	assert.Contains(t, fe.Error(), "user.age")
	assert.Contains(t, fe.Error(), "must be positive")
}

func TestValidationErrorJoinsFieldErrors(t *testing.T) {
	ve := &errors.ValidationError{Errors: []*errors.FieldError{
		errors.NewFieldError("a", errors.Position{}, "bad a"),
		errors.NewFieldError("b", errors.Position{}, "bad b"),
	}}
	assert.Contains(t, ve.Error(), "2 error(s)")
	assert.Contains(t, ve.Error(), "bad a")
	assert.Contains(t, ve.Error(), "bad b")
}

func TestVersionAndEncodingErrors(t *testing.T) {
	ve := errors.NewVersionError("document version %q too new", "9.9")
	assert.Contains(t, ve.Error(), "9.9")

	ee := errors.NewEncodingError("unknown encoding %q", "bogus")
	assert.Contains(t, ee.Error(), "bogus")
}
