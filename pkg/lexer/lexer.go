// Package lexer tokenizes FTML source text. The same Lexer serves both the
// document grammar and the schema grammar: the schema grammar uses every
// document token plus COLON, PIPE, QUESTION, LANGLE and RANGLE, so one
// token stream covers both front ends (spec.md §4.3).
package lexer

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/DarrenHaba/ftml/pkg/errors"
	"github.com/DarrenHaba/ftml/pkg/token"
)

// Lexer scans FTML source left to right, emitting one Token per call to
// NextToken. It owns its input buffer view for the duration of the lex;
// tokens copy their literal payload out on emit so they outlive the lexer.
type Lexer struct {
	input string
	pos   int
	line  int
	col   int

	current rune
	width   int
}

// New creates a Lexer over the given source text.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, col: 1}
	l.readRune()
	return l
}

func (l *Lexer) readRune() {
	if l.pos >= len(l.input) {
		l.current = 0
		l.width = 0
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.current = r
	l.width = w
}

func (l *Lexer) peek() rune {
	if l.pos+l.width >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos+l.width:])
	return r
}

func (l *Lexer) advance() {
	if l.current == '\n' {
		l.line++
		l.col = 1
	} else if l.current != 0 {
		l.col++
	}
	l.pos += l.width
	l.readRune()
}

func (l *Lexer) isEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) here() errors.Position {
	return errors.Position{Line: l.line, Col: l.col, Offset: l.pos}
}

// skipSpaces skips runs of plain space/tab/carriage-return; newlines are
// significant in the document grammar and are returned as tokens.
func (l *Lexer) skipSpaces() {
	for !l.isEOF() && (l.current == ' ' || l.current == '\t' || l.current == '\r') {
		l.advance()
	}
}

// NextToken returns the next token, or a *errors.LexError if the source
// cannot be tokenized at the current position.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipSpaces()

	if l.isEOF() {
		return token.Token{Type: token.EOF, Line: l.line, Col: l.col, Offset: l.pos}, nil
	}

	pos := l.here()

	switch {
	case l.current == '\n':
		l.advance()
		return token.Token{Type: token.NEWLINE, Line: pos.Line, Col: pos.Col, Offset: pos.Offset}, nil
	case l.current == '/' && l.peek() == '/':
		return l.scanComment(pos), nil
	case l.current == '"':
		return l.scanDoubleQuoted(pos)
	case l.current == '\'':
		return l.scanSingleQuoted(pos)
	case l.current == '{':
		l.advance()
		return l.simple(token.LBRACE, "{", pos), nil
	case l.current == '}':
		l.advance()
		return l.simple(token.RBRACE, "}", pos), nil
	case l.current == '[':
		l.advance()
		return l.simple(token.LBRACKET, "[", pos), nil
	case l.current == ']':
		l.advance()
		return l.simple(token.RBRACKET, "]", pos), nil
	case l.current == '=':
		l.advance()
		return l.simple(token.EQUAL, "=", pos), nil
	case l.current == ',':
		l.advance()
		return l.simple(token.COMMA, ",", pos), nil
	case l.current == ':':
		l.advance()
		return l.simple(token.COLON, ":", pos), nil
	case l.current == '|':
		l.advance()
		return l.simple(token.PIPE, "|", pos), nil
	case l.current == '?':
		l.advance()
		return l.simple(token.QUESTION, "?", pos), nil
	case l.current == '<':
		l.advance()
		return l.simple(token.LANGLE, "<", pos), nil
	case l.current == '>':
		l.advance()
		return l.simple(token.RANGLE, ">", pos), nil
	case l.current == '+' || l.current == '-' || isDigit(l.current):
		return l.scanNumber(pos)
	case isIdentStart(l.current):
		return l.scanIdent(pos), nil
	default:
		return token.Token{}, errors.NewLexError(pos, "unrecognized character %q", l.current)
	}
}

func (l *Lexer) simple(t token.Type, raw string, pos errors.Position) token.Token {
	return token.Token{Type: t, Raw: raw, Line: pos.Line, Col: pos.Col, Offset: pos.Offset}
}

func (l *Lexer) scanComment(pos errors.Position) token.Token {
	// current == '/' and peek == '/'; decide kind by the third character.
	l.advance()
	l.advance()
	kind := token.CommentRegular
	switch l.current {
	case '!':
		kind = token.CommentInnerDoc
		l.advance()
	case '/':
		kind = token.CommentOuterDoc
		l.advance()
	}

	start := l.pos
	for !l.isEOF() && l.current != '\n' {
		l.advance()
	}
	text := strings.TrimSpace(l.input[start:l.pos])

	return token.Token{
		Type:        token.COMMENT,
		CommentKind: kind,
		Text:        text,
		Line:        pos.Line,
		Col:         pos.Col,
		Offset:      pos.Offset,
	}
}

func (l *Lexer) scanDoubleQuoted(pos errors.Position) (token.Token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.isEOF() {
			return token.Token{}, errors.NewLexError(pos, "unterminated string literal")
		}
		if l.current == '"' {
			l.advance()
			break
		}
		if l.current == '\\' {
			l.advance()
			if l.isEOF() {
				return token.Token{}, errors.NewLexError(pos, "unterminated string literal")
			}
			switch l.current {
			case '"':
				sb.WriteRune('"')
			case '\\':
				sb.WriteRune('\\')
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'r':
				sb.WriteRune('\r')
			case 'a':
				sb.WriteRune('\a')
			case 'b':
				sb.WriteRune('\b')
			case 'f':
				sb.WriteRune('\f')
			case 'v':
				sb.WriteRune('\v')
			default:
				// raw pass-through for any other escaped character
				sb.WriteRune('\\')
				sb.WriteRune(l.current)
			}
			l.advance()
			continue
		}
		if l.current == '\n' {
			return token.Token{}, errors.NewLexError(pos, "unterminated string literal")
		}
		sb.WriteRune(l.current)
		l.advance()
	}
	return token.Token{Type: token.STRING, Literal: sb.String(), Line: pos.Line, Col: pos.Col, Offset: pos.Offset}, nil
}

func (l *Lexer) scanSingleQuoted(pos errors.Position) (token.Token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.isEOF() {
			return token.Token{}, errors.NewLexError(pos, "unterminated string literal")
		}
		if l.current == '\'' {
			if l.peek() == '\'' {
				sb.WriteRune('\'')
				l.advance()
				l.advance()
				continue
			}
			l.advance()
			break
		}
		if l.current == '\n' {
			return token.Token{}, errors.NewLexError(pos, "unterminated string literal")
		}
		sb.WriteRune(l.current)
		l.advance()
	}
	return token.Token{Type: token.STRING, Literal: sb.String(), Line: pos.Line, Col: pos.Col, Offset: pos.Offset}, nil
}

func (l *Lexer) scanNumber(pos errors.Position) (token.Token, error) {
	start := l.pos
	if l.current == '+' || l.current == '-' {
		l.advance()
	}
	if !isDigit(l.current) {
		return token.Token{}, errors.NewLexError(pos, "invalid number literal")
	}
	for isDigit(l.current) {
		l.advance()
	}
	isFloat := false
	if l.current == '.' && isDigit(l.peek()) {
		isFloat = true
		l.advance()
		for isDigit(l.current) {
			l.advance()
		}
	}
	raw := l.input[start:l.pos]
	if isFloat {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return token.Token{}, errors.NewLexError(pos, "invalid float literal %q", raw)
		}
		return token.Token{Type: token.FLOAT, Literal: f, Raw: raw, Line: pos.Line, Col: pos.Col, Offset: pos.Offset}, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return token.Token{}, errors.NewLexError(pos, "invalid integer literal %q", raw)
	}
	return token.Token{Type: token.INT, Literal: n, Raw: raw, Line: pos.Line, Col: pos.Col, Offset: pos.Offset}, nil
}

func (l *Lexer) scanIdent(pos errors.Position) token.Token {
	start := l.pos
	for isIdentPart(l.current) {
		l.advance()
	}
	raw := l.input[start:l.pos]
	switch raw {
	case "true":
		return token.Token{Type: token.BOOL, Literal: true, Raw: raw, Line: pos.Line, Col: pos.Col, Offset: pos.Offset}
	case "false":
		return token.Token{Type: token.BOOL, Literal: false, Raw: raw, Line: pos.Line, Col: pos.Col, Offset: pos.Offset}
	case "null":
		return token.Token{Type: token.NULL, Literal: nil, Raw: raw, Line: pos.Line, Col: pos.Col, Offset: pos.Offset}
	default:
		return token.Token{Type: token.IDENT, Literal: raw, Raw: raw, Line: pos.Line, Col: pos.Col, Offset: pos.Offset}
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
