package schema

import (
	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/errors"
	"github.com/DarrenHaba/ftml/pkg/lexer"
	"github.com/DarrenHaba/ftml/pkg/parser"
	"github.com/DarrenHaba/ftml/pkg/registry"
	"github.com/DarrenHaba/ftml/pkg/token"
)

// Parse lexes and parses src as a schema: a newline-separated sequence of
// top-level field declarations (spec.md §4.3), returned as the root
// structured Object.
func Parse(src string) (*Object, error) {
	p, err := newSchemaParser(src)
	if err != nil {
		return nil, err
	}
	root := NewObject()
	for {
		p.skipNoise()
		if p.peek().Type == token.EOF {
			return root, nil
		}
		f, err := p.parseFieldDecl()
		if err != nil {
			return nil, err
		}
		if _, exists := root.Fields[f.Name]; exists {
			return nil, errors.NewSchemaError(p.lastPos, "duplicate field %q", f.Name)
		}
		root.AddField(f)
	}
}

type schemaParser struct {
	toks    []token.Token
	pos     int
	lastPos errors.Position
}

func newSchemaParser(src string) (*schemaParser, error) {
	l := lexer.New(src)
	var toks []token.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return &schemaParser{toks: toks}, nil
}

func (p *schemaParser) peek() token.Token { return p.toks[p.pos] }

func (p *schemaParser) advance() token.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.lastPos = errors.Position{Line: tok.Line, Col: tok.Col, Offset: tok.Offset}
	return tok
}

func (p *schemaParser) posOf(tok token.Token) errors.Position {
	return errors.Position{Line: tok.Line, Col: tok.Col, Offset: tok.Offset}
}

// skipNoise skips newlines and comments; schema doc-comments are not part
// of the validated type tree, only of the source's own document round
// trip, so the schema parser treats them as insignificant whitespace.
func (p *schemaParser) skipNoise() {
	for {
		switch p.peek().Type {
		case token.NEWLINE, token.COMMENT:
			p.advance()
		default:
			return
		}
	}
}

// parseFieldDecl parses `NAME ('?')? ':' TYPE_EXPR ('=' LITERAL_VALUE)?`.
func (p *schemaParser) parseFieldDecl() (*Field, error) {
	nameTok := p.peek()
	if nameTok.Type != token.IDENT && nameTok.Type != token.STRING {
		return nil, errors.NewSchemaError(p.posOf(nameTok), "expected a field name, found %s", nameTok.Type)
	}
	p.advance()
	name, ok := nameTok.Literal.(string)
	if !ok {
		name = nameTok.Raw
	}

	optional := false
	if p.peek().Type == token.QUESTION {
		p.advance()
		optional = true
	}

	if p.peek().Type != token.COLON {
		return nil, errors.NewSchemaError(p.posOf(p.peek()), "expected ':' after field name %q, found %s", name, p.peek().Type)
	}
	p.advance()

	typ, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}

	if p.peek().Type == token.EQUAL {
		p.advance()
		def, err := p.parseDefaultLiteral()
		if err != nil {
			return nil, err
		}
		setDefault(typ, def)
	}

	if optional {
		setOptional(typ)
	}

	return &Field{Name: name, Optional: optional, Type: typ}, nil
}

// parseTypeExpr parses `ATOM ('<' CONSTRAINTS '>')? ('|' TYPE_EXPR)?`.
func (p *schemaParser) parseTypeExpr() (Type, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	if p.peek().Type == token.LANGLE {
		constraints, err := p.parseConstraints(atom)
		if err != nil {
			return nil, err
		}
		applyConstraints(atom, constraints)
	}

	if p.peek().Type == token.PIPE {
		p.advance()
		rest, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		return Flatten([]Type{atom, rest}), nil
	}

	return atom, nil
}

// parseAtom parses a scalar type name, a list `[TYPE_EXPR]`, an object
// `{OBJECT_BODY}`, or a string literal treated as an enum singleton.
func (p *schemaParser) parseAtom() (Type, error) {
	tok := p.peek()
	switch tok.Type {
	case token.IDENT:
		p.advance()
		name := tok.Raw
		if !KnownScalarNames[name] {
			return nil, errors.NewSchemaError(p.posOf(tok), "unknown type name %q", name)
		}
		return &Scalar{Name: name}, nil
	case token.STRING:
		p.advance()
		lit := tok.Literal.(string)
		return &Scalar{
			Name: "str",
			Constraints: map[string]ast.Node{
				"enum": &ast.ListNode{Elements: []ast.Node{&ast.ScalarNode{Value: ast.ScalarValue{Kind: "string", Raw: lit}}}},
			},
		}, nil
	case token.LBRACKET:
		p.advance()
		p.skipNoise()
		if p.peek().Type == token.RBRACKET {
			p.advance()
			return &List{}, nil
		}
		item, err := p.parseTypeExpr()
		if err != nil {
			return nil, err
		}
		p.skipNoise()
		if p.peek().Type != token.RBRACKET {
			return nil, errors.NewSchemaError(p.posOf(p.peek()), "expected ']', found %s", p.peek().Type)
		}
		p.advance()
		return &List{ItemType: item}, nil
	case token.LBRACE:
		return p.parseObjectBody()
	default:
		return nil, errors.NewSchemaError(p.posOf(tok), "expected a type, found %s", tok.Type)
	}
}

// parseObjectBody implements the TYPE_EXPR/OBJECT_BODY disambiguation
// rule: the first significant token inside `{` decides whether this is a
// structured object (IDENT or STRING immediately followed by ':' or
// '?:'), a pattern object `{T}`, or an untyped object `{}` (spec.md §4.3).
func (p *schemaParser) parseObjectBody() (Type, error) {
	p.advance() // '{'
	p.skipNoise()

	if p.peek().Type == token.RBRACE {
		p.advance()
		obj := NewObject()
		obj.Untyped = true
		return obj, nil
	}

	if p.looksLikeFieldStart() {
		obj := NewObject()
		for {
			p.skipNoise()
			f, err := p.parseFieldDecl()
			if err != nil {
				return nil, err
			}
			if _, exists := obj.Fields[f.Name]; exists {
				return nil, errors.NewSchemaError(p.lastPos, "duplicate field %q", f.Name)
			}
			obj.AddField(f)
			p.skipNoise()
			if p.peek().Type == token.COMMA {
				p.advance()
				p.skipNoise()
				if p.peek().Type == token.RBRACE {
					break
				}
				continue
			}
			break
		}
		p.skipNoise()
		if p.peek().Type != token.RBRACE {
			return nil, errors.NewSchemaError(p.posOf(p.peek()), "expected ',' or '}', found %s", p.peek().Type)
		}
		p.advance()
		return obj, nil
	}

	// Pattern object: a single TYPE_EXPR describing every value's type.
	item, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	p.skipNoise()
	if p.peek().Type != token.RBRACE {
		return nil, errors.NewSchemaError(p.posOf(p.peek()), "expected '}', found %s", p.peek().Type)
	}
	p.advance()
	obj := NewObject()
	obj.PatternType = item
	return obj, nil
}

// looksLikeFieldStart reports whether the upcoming tokens are
// `(IDENT|STRING) ('?')? ':'`, the structured-object field-start shape.
func (p *schemaParser) looksLikeFieldStart() bool {
	i := p.pos
	if p.toks[i].Type != token.IDENT && p.toks[i].Type != token.STRING {
		return false
	}
	i++
	if i < len(p.toks) && p.toks[i].Type == token.QUESTION {
		i++
	}
	return i < len(p.toks) && p.toks[i].Type == token.COLON
}

// parseConstraints parses `'<' key '=' literal (',' key '=' literal)* '>'`
// and validates each key against the table for atom's kind (spec.md
// §4.3), returning the raw constraint literals for storage on the type.
func (p *schemaParser) parseConstraints(atom Type) (map[string]ast.Node, error) {
	p.advance() // '<'
	out := make(map[string]ast.Node)
	for {
		p.skipNoise()
		keyTok := p.peek()
		if keyTok.Type != token.IDENT {
			return nil, errors.NewSchemaError(p.posOf(keyTok), "expected a constraint name, found %s", keyTok.Type)
		}
		p.advance()
		key := keyTok.Raw
		if !constraintAppliesTo(atom, key) {
			return nil, errors.NewSchemaError(p.posOf(keyTok), "constraint %q does not apply to this type", key)
		}
		if p.peek().Type != token.EQUAL {
			return nil, errors.NewSchemaError(p.posOf(p.peek()), "expected '=' after constraint %q", key)
		}
		p.advance()
		lit, err := p.parseConstraintLiteral()
		if err != nil {
			return nil, err
		}
		out[key] = lit
		p.skipNoise()
		if p.peek().Type == token.COMMA {
			p.advance()
			continue
		}
		break
	}
	p.skipNoise()
	if p.peek().Type != token.RANGLE {
		return nil, errors.NewSchemaError(p.posOf(p.peek()), "expected '>' to close constraints, found %s", p.peek().Type)
	}
	p.advance()
	return out, nil
}

// parseConstraintLiteral parses one constraint value: a scalar, or a
// `[...]` list of scalars (used by enum), reusing the document value
// grammar via pkg/parser.
func (p *schemaParser) parseConstraintLiteral() (ast.Node, error) {
	return p.parseValueLiteral()
}

func (p *schemaParser) parseDefaultLiteral() (ast.Node, error) {
	return p.parseValueLiteral()
}

// parseValueLiteral consumes a run of value-literal tokens starting at
// the cursor and hands them to pkg/parser.ParseLiteralValueTokens, then
// advances this parser's cursor past what was consumed.
func (p *schemaParser) parseValueLiteral() (ast.Node, error) {
	start := p.pos
	depth := 0
	i := p.pos
	for {
		t := p.toks[i].Type
		switch t {
		case token.LBRACE, token.LBRACKET:
			depth++
		case token.RBRACE, token.RBRACKET:
			depth--
		}
		i++
		if depth == 0 {
			break
		}
		if i >= len(p.toks) || p.toks[i-1].Type == token.EOF {
			return nil, errors.NewSchemaError(p.posOf(p.toks[start]), "unterminated literal value")
		}
	}
	snippet := p.toks[start:i]
	val, consumed, err := parser.ParseLiteralValueTokens(snippet)
	if err != nil {
		return nil, err
	}
	p.pos = start + consumed
	if p.pos > len(p.toks)-1 {
		p.pos = len(p.toks) - 1
	}
	p.lastPos = p.posOf(p.toks[p.pos])
	return val, nil
}

func setDefault(t Type, n ast.Node) {
	switch v := t.(type) {
	case *Scalar:
		v.setDefault(n)
	case *List:
		v.setDefault(n)
	case *Object:
		v.setDefault(n)
	case *Union:
		v.setDefault(n)
	}
}

func setOptional(t Type) {
	switch v := t.(type) {
	case *Scalar:
		v.Optional = true
	case *List:
		v.Optional = true
	case *Object:
		v.Optional = true
	case *Union:
		v.Optional = true
	}
}

func applyConstraints(t Type, c map[string]ast.Node) {
	switch v := t.(type) {
	case *Scalar:
		v.Constraints = c
	case *List:
		v.Constraints = c
	case *Object:
		v.Constraints = c
		if lit, ok := c["ext"]; ok {
			if ext, ok := registry.Bool(lit); ok {
				v.Ext = ext
			}
		}
	}
}

var scalarConstraintKeys = map[string]map[string]bool{
	"str":       {"min_length": true, "max_length": true, "pattern": true, "enum": true},
	"int":       {"min": true, "max": true},
	"float":     {"min": true, "max": true, "precision": true},
	"date":      {"format": true, "min": true, "max": true},
	"time":      {"format": true, "min": true, "max": true},
	"datetime":  {"format": true, "min": true, "max": true},
	"timestamp": {"precision": true, "min": true, "max": true},
	"any":       {"enum": true},
}

// constraintAppliesTo implements the constraint table of spec.md §4.3.
func constraintAppliesTo(atom Type, key string) bool {
	switch v := atom.(type) {
	case *Scalar:
		allowed, ok := scalarConstraintKeys[v.Name]
		return ok && allowed[key]
	case *List:
		return key == "min" || key == "max"
	case *Object:
		return key == "min" || key == "max" || key == "ext"
	default:
		return false
	}
}
