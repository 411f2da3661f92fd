// Package encoding implements the EncodingGate: validates the
// `ftml_encoding` reserved key's value against the IANA character encoding
// registry (spec.md §4.8).
package encoding

import (
	"strings"
	"unicode"

	"golang.org/x/text/encoding/ianaindex"

	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/errors"
)

// Normalize lowercases name and strips every non-alphanumeric character, so
// "UTF-8", "utf_8", and "utf8" all compare equal (spec.md §4.8).
func Normalize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Check validates the `ftml_encoding` key's parsed value: it must be a
// string naming a registered IANA encoding. The name is first resolved as
// given through ianaindex.IANA (case-insensitive, so "UTF-8" resolves);
// failing that, its normalized form (spec.md §4.8) is tried, and IANA's
// broader alias table recognizes punctuation-free forms like "latin1" for
// what MIME only registers as "ISO-8859-1" — matching the original's
// permissive `codecs.lookup`-style acceptance of names such as "latin-1".
func Check(value ast.Node) error {
	scalar, ok := value.(*ast.ScalarNode)
	if !ok || scalar.Value.Kind != "string" {
		return errors.NewEncodingError("ftml_encoding must be a string, found a %v", kindOf(value))
	}
	raw, _ := scalar.Value.Raw.(string)
	enc, err := ianaindex.IANA.Encoding(raw)
	if err != nil || enc == nil {
		enc, err = ianaindex.IANA.Encoding(Normalize(raw))
	}
	if err != nil || enc == nil {
		return errors.NewEncodingError("unrecognized encoding %q", raw)
	}
	return nil
}

func kindOf(n ast.Node) string {
	switch n.(type) {
	case *ast.ObjectNode:
		return "object"
	case *ast.ListNode:
		return "list"
	default:
		return "value"
	}
}
