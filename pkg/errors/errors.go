// Package errors defines the typed error kinds FTML surfaces to callers:
// LexError, ParseError, SchemaError, ValidationError, VersionError, and
// EncodingError, all carrying source position and (where applicable) a
// dotted field path.
package errors

import (
	"fmt"
	"strings"
)

// Position is a line/column/byte-offset location in source text.
type Position struct {
	Line   int
	Col    int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("line %d, col %d", p.Line, p.Col)
}

// LexError reports a malformed token: unterminated string, unrecognized
// character, or invalid number literal.
type LexError struct {
	Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %s: %s", e.Position, e.Message)
}

// NewLexError builds a LexError at the given position.
func NewLexError(pos Position, format string, args ...any) *LexError {
	return &LexError{Position: pos, Message: fmt.Sprintf(format, args...)}
}

// ParseErrorKind classifies a ParseError for callers that want to branch on
// the failure shape rather than parse the message.
type ParseErrorKind int

const (
	ParseErrorUnexpectedToken ParseErrorKind = iota
	ParseErrorMissingDelimiter
	ParseErrorDuplicateKey
	ParseErrorForbiddenConstruct
)

// ParseError reports a syntactic failure in the document grammar: an
// unexpected token, a missing delimiter, a duplicate key, or a forbidden
// construct (brace/bracket on a new line at root, root-level comma, a bare
// top-level scalar).
type ParseError struct {
	Position
	Kind    ParseErrorKind
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s: %s", e.Position, e.Message)
}

// NewParseError builds a ParseError at the given position and kind.
func NewParseError(pos Position, kind ParseErrorKind, format string, args ...any) *ParseError {
	return &ParseError{Position: pos, Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// SchemaError reports an ill-formed schema expression, a default that does
// not satisfy its own type, an unknown type name, or a constraint that
// does not apply to the type it decorates. Fatal to schema loading.
type SchemaError struct {
	Position
	Message string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error at %s: %s", e.Position, e.Message)
}

// NewSchemaError builds a SchemaError at the given position.
func NewSchemaError(pos Position, format string, args ...any) *SchemaError {
	return &SchemaError{Position: pos, Message: fmt.Sprintf(format, args...)}
}

// FieldError is one accumulated validation failure, addressed by a dotted
// path such as "user.address.zip[2]".
type FieldError struct {
	Position
	Path    string
	Message string
}

func (e *FieldError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s at %s", e.Message, e.Position)
	}
	return fmt.Sprintf("%s: %s at %s", e.Path, e.Message, e.Position)
}

// NewFieldError builds a FieldError for the given path and position.
func NewFieldError(path string, pos Position, format string, args ...any) *FieldError {
	return &FieldError{Position: pos, Path: path, Message: fmt.Sprintf(format, args...)}
}

// ValidationError wraps every FieldError accumulated during a single
// validation run; Validate never stops at the first failure.
type ValidationError struct {
	Errors []*FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}
	return fmt.Sprintf("validation failed with %d error(s): %s", len(e.Errors), strings.Join(parts, "; "))
}

// Unwrap lets errors.Is/As reach into the individual field errors.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		out[i] = fe
	}
	return out
}

// VersionError reports an `ftml_version` value the engine cannot accept:
// malformed, or greater than the engine's own version.
type VersionError struct {
	Message string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("version error: %s", e.Message)
}

// NewVersionError builds a VersionError.
func NewVersionError(format string, args ...any) *VersionError {
	return &VersionError{Message: fmt.Sprintf(format, args...)}
}

// EncodingError reports an `ftml_encoding` value that is not a string, or
// that does not name a recognized encoding.
type EncodingError struct {
	Message string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding error: %s", e.Message)
}

// NewEncodingError builds an EncodingError.
func NewEncodingError(format string, args ...any) *EncodingError {
	return &EncodingError{Message: fmt.Sprintf(format, args...)}
}
