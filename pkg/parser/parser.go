// Package parser implements the document parser (DocParser): it turns a
// token stream from pkg/lexer into a pkg/ast.Document, attaching every
// comment to the node the authoring algorithm says it belongs to (spec.md
// §4.2).
package parser

import (
	"github.com/DarrenHaba/ftml/pkg/ast"
	"github.com/DarrenHaba/ftml/pkg/errors"
	"github.com/DarrenHaba/ftml/pkg/lexer"
	"github.com/DarrenHaba/ftml/pkg/token"
)

// Parse lexes and parses src as a complete FTML document.
func Parse(src string) (*ast.Document, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	return p.parseDocument()
}

// ParseLiteralValue lexes and parses src as a single value literal: a
// scalar, an object, or a list, using the same value grammar as a
// document's right-hand side. The schema parser does not call it; it uses
// ParseLiteralValueTokens on its own token stream instead.
func ParseLiteralValue(src string) (ast.Node, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	val, err := parseSoleLiteral(p)
	if err != nil {
		return nil, err
	}
	return val, nil
}

// ParseLiteralValueTokens parses a single value literal from a pre-scanned
// token slice (which need not end in EOF) and reports how many tokens of
// toks were consumed. The schema parser uses this to borrow the document
// value grammar without re-lexing a sub-slice of its own token stream.
func ParseLiteralValueTokens(toks []token.Token) (ast.Node, int, error) {
	work := make([]token.Token, len(toks)+1)
	copy(work, toks)
	work[len(toks)] = token.Token{Type: token.EOF}
	p := &parser{toks: work}
	val, err := parseSoleLiteral(p)
	if err != nil {
		return nil, 0, err
	}
	return val, p.pos, nil
}

func parseSoleLiteral(p *parser) (ast.Node, error) {
	for p.peek().Type == token.NEWLINE || p.peek().Type == token.COMMENT {
		p.advance()
	}
	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == token.NEWLINE || p.peek().Type == token.COMMENT {
		p.advance()
	}
	return val, nil
}

// parser holds the full pre-scanned token stream plus a cursor. FTML
// documents are small enough that pre-scanning is simpler than streaming,
// and it lets lookahead (needed for trailing commas and same-line value
// checks) stay a plain index bump.
type parser struct {
	toks []token.Token
	pos  int

	// lastLine is the source line of the most recently consumed
	// non-comment, non-newline token; used to decide whether a following
	// comment is inline (spec.md §4.2 rule 3).
	lastLine int
}

func newParser(src string) (*parser, error) {
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
	return &parser{toks: toks}, nil
}

func (p *parser) peek() token.Token { return p.toks[p.pos] }

func (p *parser) advance() token.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	if tok.Type != token.COMMENT && tok.Type != token.NEWLINE {
		p.lastLine = tok.Line
	}
	return tok
}

func (p *parser) posOf(tok token.Token) errors.Position {
	return errors.Position{Line: tok.Line, Col: tok.Col, Offset: tok.Offset}
}

func toComment(tok token.Token) ast.Comment {
	return ast.Comment{Kind: tok.CommentKind, Text: tok.Text, Line: tok.Line, Col: tok.Col}
}

// splitPending separates a mixed pending-comment buffer into the leading
// ("//") and outer-doc ("///") slots a node carries, preserving the
// relative order within each kind.
func splitPending(pending []ast.Comment) (leading, outerDoc []ast.Comment) {
	for _, c := range pending {
		if c.Kind == ast.CommentOuterDoc {
			outerDoc = append(outerDoc, c)
		} else {
			leading = append(leading, c)
		}
	}
	return leading, outerDoc
}

// takeInlineComment consumes and returns the following COMMENT token if it
// sits on the same source line as the value just parsed; otherwise it
// leaves the cursor untouched.
func (p *parser) takeInlineComment(valueLine int) *ast.Comment {
	tok := p.peek()
	if tok.Type == token.COMMENT && tok.Line == valueLine && tok.CommentKind != token.CommentInnerDoc {
		p.advance()
		c := toComment(tok)
		return &c
	}
	return nil
}

// parseDocument parses the whole token stream as a Document: a sequence of
// newline-separated "key = value" root items, no commas, ending at EOF.
func (p *parser) parseDocument() (*ast.Document, error) {
	doc := ast.NewDocument()
	var pending []ast.Comment

	for {
		tok := p.peek()
		switch tok.Type {
		case token.EOF:
			leading, outerDoc := splitPending(pending)
			doc.EndLeadingComments = append(doc.EndLeadingComments, leading...)
			doc.EndLeadingComments = append(doc.EndLeadingComments, outerDoc...)
			return doc, nil
		case token.NEWLINE:
			p.advance()
		case token.COMMENT:
			p.advance()
			if tok.CommentKind == token.CommentInnerDoc {
				doc.InnerDocComments = append(doc.InnerDocComments, toComment(tok))
			} else {
				pending = append(pending, toComment(tok))
			}
		case token.IDENT, token.STRING:
			kv, err := p.parseKeyValue(pending)
			if err != nil {
				return nil, err
			}
			pending = nil
			if doc.Fields.Has(kv.Key) {
				return nil, errors.NewParseError(p.posOf(tok), errors.ParseErrorDuplicateKey, "duplicate key %q", kv.Key)
			}
			doc.Fields.Set(kv.Key, kv)
		default:
			return nil, errors.NewParseError(p.posOf(tok), errors.ParseErrorUnexpectedToken,
				"expected a key-value pair at the document root, found %s", tok.Type)
		}
	}
}

// parseKeyValue parses "key = value" and attaches pending as the pair's
// own leading/outer-doc comments, then reads an optional same-line inline
// comment following the value.
func (p *parser) parseKeyValue(pending []ast.Comment) (*ast.KeyValue, error) {
	keyTok := p.advance()
	key, ok := keyTok.Literal.(string)
	if !ok {
		key = keyTok.Raw
	}

	eq := p.peek()
	if eq.Type != token.EQUAL {
		return nil, errors.NewParseError(p.posOf(eq), errors.ParseErrorMissingDelimiter,
			"expected '=' after key %q, found %s", key, eq.Type)
	}
	p.advance()

	// The value must start on the same source line as '='; a newline here
	// means an object/list opener (or any value) was pushed to a new line,
	// which the grammar forbids.
	if p.peek().Type == token.NEWLINE {
		return nil, errors.NewParseError(p.posOf(p.peek()), errors.ParseErrorForbiddenConstruct,
			"value for %q must start on the same line as '='", key)
	}

	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}

	leading, outerDoc := splitPending(pending)
	kv := &ast.KeyValue{
		Key:              key,
		Value:            value,
		LeadingComments:  leading,
		OuterDocComments: outerDoc,
	}
	kv.InlineComment = p.takeInlineComment(p.lastLine)
	return kv, nil
}

// parseValue dispatches on the next token to parse a scalar, object, or
// list value.
func (p *parser) parseValue() (ast.Node, error) {
	tok := p.peek()
	switch tok.Type {
	case token.LBRACE:
		return p.parseObject()
	case token.LBRACKET:
		return p.parseList()
	case token.STRING:
		p.advance()
		return &ast.ScalarNode{Value: ast.ScalarValue{Kind: "string", Raw: tok.Literal}}, nil
	case token.INT:
		p.advance()
		return &ast.ScalarNode{Value: ast.ScalarValue{Kind: "int", Raw: tok.Literal}}, nil
	case token.FLOAT:
		p.advance()
		return &ast.ScalarNode{Value: ast.ScalarValue{Kind: "float", Raw: tok.Literal}}, nil
	case token.BOOL:
		p.advance()
		return &ast.ScalarNode{Value: ast.ScalarValue{Kind: "bool", Raw: tok.Literal}}, nil
	case token.NULL:
		p.advance()
		return &ast.ScalarNode{Value: ast.ScalarValue{Kind: "null", Raw: nil}}, nil
	default:
		return nil, errors.NewParseError(p.posOf(tok), errors.ParseErrorUnexpectedToken,
			"expected a value, found %s", tok.Type)
	}
}

// parseObject parses a "{ ... }" body of comma-separated "key = value"
// items into an ObjectNode.
func (p *parser) parseObject() (*ast.ObjectNode, error) {
	obj := ast.NewObjectNode()
	p.advance() // '{'

	var pending []ast.Comment

	for {
		tok := p.peek()
		switch tok.Type {
		case token.EOF:
			return nil, errors.NewParseError(p.posOf(tok), errors.ParseErrorMissingDelimiter, "unterminated object: missing '}'")
		case token.RBRACE:
			p.advance()
			leading, outerDoc := splitPending(pending)
			obj.EndLeadingComments = append(obj.EndLeadingComments, leading...)
			obj.EndLeadingComments = append(obj.EndLeadingComments, outerDoc...)
			return obj, nil
		case token.NEWLINE:
			p.advance()
		case token.COMMENT:
			p.advance()
			if tok.CommentKind == token.CommentInnerDoc {
				obj.InnerDocComments = append(obj.InnerDocComments, toComment(tok))
			} else {
				pending = append(pending, toComment(tok))
			}
		case token.COMMA:
			return nil, errors.NewParseError(p.posOf(tok), errors.ParseErrorUnexpectedToken, "unexpected ',' in object")
		case token.IDENT, token.STRING:
			kv, err := p.parseKeyValue(pending)
			if err != nil {
				return nil, err
			}
			pending = nil
			if obj.Fields.Has(kv.Key) {
				return nil, errors.NewParseError(p.posOf(tok), errors.ParseErrorDuplicateKey, "duplicate key %q", kv.Key)
			}
			obj.Fields.Set(kv.Key, kv)
			if err := p.consumeItemSeparator(token.RBRACE); err != nil {
				return nil, err
			}
			if kv.InlineComment == nil {
				kv.InlineComment = p.takeInlineComment(p.lastLine)
			}
		default:
			return nil, errors.NewParseError(p.posOf(tok), errors.ParseErrorUnexpectedToken,
				"expected a key-value pair or '}', found %s", tok.Type)
		}
	}
}

// parseList parses a "[ ... ]" body of comma-separated values into a
// ListNode.
func (p *parser) parseList() (*ast.ListNode, error) {
	list := &ast.ListNode{}
	p.advance() // '['

	var pending []ast.Comment

	for {
		tok := p.peek()
		switch tok.Type {
		case token.EOF:
			return nil, errors.NewParseError(p.posOf(tok), errors.ParseErrorMissingDelimiter, "unterminated list: missing ']'")
		case token.RBRACKET:
			p.advance()
			leading, outerDoc := splitPending(pending)
			list.EndLeadingComments = append(list.EndLeadingComments, leading...)
			list.EndLeadingComments = append(list.EndLeadingComments, outerDoc...)
			return list, nil
		case token.NEWLINE:
			p.advance()
		case token.COMMENT:
			p.advance()
			if tok.CommentKind == token.CommentInnerDoc {
				list.InnerDocComments = append(list.InnerDocComments, toComment(tok))
			} else {
				pending = append(pending, toComment(tok))
			}
		case token.COMMA:
			return nil, errors.NewParseError(p.posOf(tok), errors.ParseErrorUnexpectedToken, "unexpected ',' in list")
		default:
			elem, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			leading, outerDoc := splitPending(pending)
			pending = nil
			setNodeComments(elem, leading, outerDoc)
			inline := p.takeInlineComment(p.lastLine)
			list.Elements = append(list.Elements, elem)
			if err := p.consumeItemSeparator(token.RBRACKET); err != nil {
				return nil, err
			}
			if inline == nil {
				inline = p.takeInlineComment(p.lastLine)
			}
			setNodeInline(elem, inline)
		}
	}
}

// consumeItemSeparator consumes a single optional trailing comma after an
// item; if absent, the next significant token must be the closing
// delimiter, a newline, a comment, or EOF (all handled by the caller's
// loop), otherwise a delimiter is missing.
func (p *parser) consumeItemSeparator(close token.Type) error {
	tok := p.peek()
	if tok.Type == token.COMMA {
		p.advance()
		return nil
	}
	switch tok.Type {
	case close, token.NEWLINE, token.COMMENT, token.EOF:
		return nil
	default:
		return errors.NewParseError(p.posOf(tok), errors.ParseErrorMissingDelimiter,
			"expected ',' or %s, found %s", close, tok.Type)
	}
}

// setNodeComments assigns leading/outer-doc comments directly to a node's
// base slots; used for list elements, which (unlike object/root items)
// have no enclosing KeyValue to carry their own comments.
func setNodeComments(n ast.Node, leading, outerDoc []ast.Comment) {
	switch v := n.(type) {
	case *ast.ScalarNode:
		v.Leading, v.OuterDoc = leading, outerDoc
	case *ast.ObjectNode:
		v.Leading, v.OuterDoc = leading, outerDoc
	case *ast.ListNode:
		v.Leading, v.OuterDoc = leading, outerDoc
	}
}

func setNodeInline(n ast.Node, c *ast.Comment) {
	switch v := n.(type) {
	case *ast.ScalarNode:
		v.Inline = c
	case *ast.ObjectNode:
		v.Inline = c
	case *ast.ListNode:
		v.Inline = c
	}
}
