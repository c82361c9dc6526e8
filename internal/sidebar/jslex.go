package sidebar

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type jsTokenKind int

const (
	tokEOF jsTokenKind = iota
	tokPunct
	tokString
	tokNumber
	tokIdent
)

type jsToken struct {
	kind jsTokenKind
	text string
	line int
	col  int
}

func (t jsToken) String() string {
	switch t.kind {
	case tokEOF:
		return "end of file"
	case tokString:
		return strconv.Quote(t.text)
	default:
		return "`" + t.text + "`"
	}
}

func (t jsToken) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("sidebars.js:%d:%d: %s", t.line, t.col, fmt.Sprintf(format, args...))
}

const jsPunct = "{}[]:,=;.()"

type jsLexer struct {
	src  string
	pos  int
	line int
	col  int
}

// lexJS splits src into tokens, dropping whitespace and comments.
func lexJS(src string) ([]jsToken, error) {
	lx := &jsLexer{src: src, line: 1, col: 1}
	var toks []jsToken
	for {
		t, err := lx.token()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks, nil
		}
	}
}

func (lx *jsLexer) peekByte(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}
	return 0
}

func (lx *jsLexer) advance() rune {
	r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += size
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r
}

func (lx *jsLexer) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("sidebars.js:%d:%d: %s", lx.line, lx.col, fmt.Sprintf(format, args...))
}

func (lx *jsLexer) skipSpaceAndComments() error {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			lx.advance()
		case c == '/' && lx.peekByte(1) == '/':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.advance()
			}
		case c == '/' && lx.peekByte(1) == '*':
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				return lx.errorf("unterminated block comment")
			}
			stop := lx.pos + 2 + end + 2
			for lx.pos < stop {
				lx.advance()
			}
		case c == 0xEF && strings.HasPrefix(lx.src[lx.pos:], "\uFEFF"):
			lx.pos += len("\uFEFF")
		default:
			return nil
		}
	}
	return nil
}

func (lx *jsLexer) token() (jsToken, error) {
	if err := lx.skipSpaceAndComments(); err != nil {
		return jsToken{}, err
	}

	t := jsToken{line: lx.line, col: lx.col}
	if lx.pos >= len(lx.src) {
		t.kind = tokEOF
		return t, nil
	}

	c := lx.src[lx.pos]
	switch {
	case c == '\'' || c == '"' || c == '`':
		s, err := lx.stringLit(c)
		if err != nil {
			return t, err
		}
		t.kind, t.text = tokString, s
	case isDigit(c) || (c == '-' && (isDigit(lx.peekByte(1)) || lx.peekByte(1) == '.')) ||
		(c == '.' && isDigit(lx.peekByte(1))):
		n, err := lx.number()
		if err != nil {
			return t, err
		}
		t.kind, t.text = tokNumber, n
	case isIdentStart(c):
		start := lx.pos
		for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
			lx.advance()
		}
		t.kind, t.text = tokIdent, lx.src[start:lx.pos]
	case strings.IndexByte(jsPunct, c) >= 0:
		lx.advance()
		t.kind, t.text = tokPunct, string(c)
	default:
		r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
		return t, lx.errorf("unexpected character %q", r)
	}
	return t, nil
}

func (lx *jsLexer) number() (string, error) {
	start := lx.pos
	if lx.src[lx.pos] == '-' {
		lx.advance()
	}
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if isDigit(c) || c == '.' || c == 'e' || c == 'E' || c == '_' ||
			((c == '+' || c == '-') && (lx.src[lx.pos-1] == 'e' || lx.src[lx.pos-1] == 'E')) {
			lx.advance()
			continue
		}
		break
	}
	raw := strings.ReplaceAll(lx.src[start:lx.pos], "_", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", lx.errorf("invalid number %q", raw)
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func (lx *jsLexer) stringLit(quote byte) (string, error) {
	startLine, startCol := lx.line, lx.col
	lx.advance()

	var sb strings.Builder
	for {
		if lx.pos >= len(lx.src) {
			return "", fmt.Errorf("sidebars.js:%d:%d: unterminated string", startLine, startCol)
		}
		c := lx.src[lx.pos]
		switch {
		case c == quote:
			lx.advance()
			return sb.String(), nil
		case c == '\n' && quote != '`':
			return "", lx.errorf("newline in string literal")
		case c == '$' && quote == '`' && lx.peekByte(1) == '{':
			return "", lx.errorf("template literal interpolation is not supported")
		case c == '\\':
			lx.advance()
			if err := lx.escape(&sb); err != nil {
				return "", err
			}
		default:
			sb.WriteRune(lx.advance())
		}
	}
}

func (lx *jsLexer) escape(sb *strings.Builder) error {
	if lx.pos >= len(lx.src) {
		return lx.errorf("unterminated escape sequence")
	}
	r := lx.advance()
	switch r {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '0':
		sb.WriteByte(0)
	case '\n':
		// line continuation
	case '\r':
		if lx.peekByte(0) == '\n' {
			lx.advance()
		}
	case 'x':
		return lx.hexEscape(sb, 2)
	case 'u':
		if lx.peekByte(0) == '{' {
			lx.advance()
			end := strings.IndexByte(lx.src[lx.pos:], '}')
			if end < 0 {
				return lx.errorf("unterminated unicode escape")
			}
			return lx.codePoint(sb, end, true)
		}
		return lx.hexEscape(sb, 4)
	default:
		sb.WriteRune(r)
	}
	return nil
}

func (lx *jsLexer) hexEscape(sb *strings.Builder, n int) error {
	if lx.pos+n > len(lx.src) {
		return lx.errorf("short hex escape")
	}
	return lx.codePoint(sb, n, false)
}

func (lx *jsLexer) codePoint(sb *strings.Builder, n int, braced bool) error {
	digits := lx.src[lx.pos : lx.pos+n]
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return lx.errorf("invalid escape \\%s", digits)
	}
	for i := 0; i < n; i++ {
		lx.advance()
	}
	if braced {
		lx.advance()
	}
	sb.WriteRune(rune(v))
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
