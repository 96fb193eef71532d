package pbxproj

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokLBrace
	tokRBrace
	tokLParen
	tokRParen
	tokEquals
	tokSemicolon
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokString:
		return "string"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokEquals:
		return "'='"
	case tokSemicolon:
		return "';'"
	case tokComma:
		return "','"
	}
	return "token"
}

// token is a lexical unit. For strings, text holds the decoded value and
// comment holds a block comment that immediately follows on the same line.
type token struct {
	kind    tokenKind
	text    string
	quoted  bool
	comment string
	start   int
	end     int
}

var punctuation = map[byte]tokenKind{
	'{': tokLBrace, '}': tokRBrace,
	'(': tokLParen, ')': tokRParen,
	'=': tokEquals, ';': tokSemicolon, ',': tokComma,
}

// comment is a block or line comment with its byte span.
type comment struct {
	text string
	span Span
}

type lexer struct {
	data     []byte
	pos      int
	comments []comment
}

func newLexer(data []byte) *lexer {
	return &lexer{data: data}
}

func (l *lexer) errorf(off int, format string, args ...any) error {
	return &SyntaxError{Offset: off, Line: lineOf(l.data, off), Msg: fmt.Sprintf(format, args...)}
}

// next returns the next non-comment token. Comments are collected on l.comments.
func (l *lexer) next() (token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	if l.pos >= len(l.data) {
		return token{kind: tokEOF, start: l.pos, end: l.pos}, nil
	}

	start := l.pos
	c := l.data[l.pos]
	if kind, ok := punctuation[c]; ok {
		l.pos++
		return token{kind: kind, start: start, end: l.pos}, nil
	}

	var tok token
	switch {
	case c == '"':
		text, err := l.readQuoted()
		if err != nil {
			return token{}, err
		}
		tok = token{kind: tokString, text: text, quoted: true, start: start, end: l.pos}
	case isUnquotedChar(c):
		for l.pos < len(l.data) && isUnquotedChar(l.data[l.pos]) {
			l.pos++
		}
		tok = token{kind: tokString, text: string(l.data[start:l.pos]), start: start, end: l.pos}
	default:
		return token{}, l.errorf(start, "unexpected character %q", c)
	}

	tok.comment = l.trailingComment()
	return tok, nil
}

// trailingComment consumes a block comment that follows a string on the same line.
func (l *lexer) trailingComment() string {
	i := l.pos
	for i < len(l.data) && (l.data[i] == ' ' || l.data[i] == '\t') {
		i++
	}
	if i+1 >= len(l.data) || l.data[i] != '/' || l.data[i+1] != '*' {
		return ""
	}
	end := strings.Index(string(l.data[i+2:]), "*/")
	if end < 0 {
		return ""
	}
	text := strings.TrimSpace(string(l.data[i+2 : i+2+end]))
	l.pos = i + 2 + end + 2
	l.comments = append(l.comments, comment{text: text, span: Span{Start: i, End: l.pos}})
	return text
}

func (l *lexer) skipSpaceAndComments() error {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '/' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '*':
			start := l.pos
			end := strings.Index(string(l.data[l.pos+2:]), "*/")
			if end < 0 {
				return l.errorf(start, "unterminated comment")
			}
			l.pos += 2 + end + 2
			l.comments = append(l.comments, comment{
				text: strings.TrimSpace(string(l.data[start+2 : l.pos-2])),
				span: Span{Start: start, End: l.pos},
			})
		case c == '/' && l.pos+1 < len(l.data) && l.data[l.pos+1] == '/':
			start := l.pos
			for l.pos < len(l.data) && l.data[l.pos] != '\n' {
				l.pos++
			}
			l.comments = append(l.comments, comment{
				text: strings.TrimSpace(string(l.data[start+2 : l.pos])),
				span: Span{Start: start, End: l.pos},
			})
		default:
			return nil
		}
	}
	return nil
}

func (l *lexer) readQuoted() (string, error) {
	start := l.pos
	l.pos++ // opening quote
	var sb strings.Builder
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch c {
		case '"':
			l.pos++
			return sb.String(), nil
		case '\\':
			if l.pos+1 >= len(l.data) {
				return "", l.errorf(l.pos, "unterminated escape")
			}
			l.pos++
			esc := l.data[l.pos]
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case 'U':
				if l.pos+4 < len(l.data) {
					if r, err := strconv.ParseUint(string(l.data[l.pos+1:l.pos+5]), 16, 32); err == nil {
						sb.WriteRune(rune(r))
						l.pos += 4
						break
					}
				}
				sb.WriteByte(esc)
			default:
				sb.WriteByte(esc)
			}
			l.pos++
		default:
			sb.WriteByte(c)
			l.pos++
		}
	}
	return "", l.errorf(start, "unterminated string")
}

func isUnquotedChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("_$+/:.-", c) >= 0
}

// lineOf returns the 1-based line number of offset off.
func lineOf(data []byte, off int) int {
	if off > len(data) {
		off = len(data)
	}
	return strings.Count(string(data[:off]), "\n") + 1
}
