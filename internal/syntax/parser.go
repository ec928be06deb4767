package syntax

import (
	"bytes"
	"fmt"
	"strings"
)

// Error is a grammar failure at a position in the source.
type Error struct {
	Line   int // 1-based
	Column int // 1-based, in bytes
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

type parser struct {
	src []byte
	pos int
}

// Parse builds the syntax tree of a bibliography.
//
// Text outside of @-commands is ignored. The returned root has kind
// KindSourceFile and one child per entry, comment, string or preamble.
func Parse(src []byte) (*Node, error) {
	p := &parser{src: src}
	root := &Node{Type: KindSourceFile, End: len(src)}

	for {
		i := bytes.IndexByte(p.src[p.pos:], '@')
		if i < 0 {
			break
		}
		p.pos += i
		n, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		if n != nil {
			root.add(n)
		}
	}

	return root, nil
}

// parseCommand parses one @-command. It returns nil for a stray '@'.
func (p *parser) parseCommand() (*Node, error) {
	start := p.pos
	p.pos++ // '@'
	p.skipSpace()

	nameStart := p.pos
	name := p.ident()
	if name == "" {
		return nil, nil // junk such as an e-mail address
	}

	switch strings.ToLower(name) {
	case "comment":
		p.skipSpace()
		if c := p.peek(); c == '{' || c == '(' {
			if err := p.skipGroup(); err != nil {
				return nil, err
			}
		} else {
			p.skipLine()
		}
		return &Node{Type: KindComment, Start: start, End: p.pos}, nil

	case "preamble":
		p.skipSpace()
		if err := p.skipGroup(); err != nil {
			return nil, err
		}
		return &Node{Type: KindPreamble, Start: start, End: p.pos}, nil

	case "string":
		p.skipSpace()
		closer, err := p.open()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		f, err := p.parseField(closer)
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() == ',' {
			p.pos++
			p.skipSpace()
		}
		if p.peek() != closer {
			return nil, p.errorf("expected %q to close @string", closer)
		}
		p.pos++
		n := &Node{Type: KindString, Start: start, End: p.pos}
		n.add(f)
		return n, nil
	}

	p.skipSpace()
	if c := p.peek(); c != '{' && c != '(' {
		return nil, nil // "@" followed by plain words, not a command
	}
	return p.parseEntry(start, nameStart, name)
}

func (p *parser) parseEntry(start, nameStart int, name string) (*Node, error) {
	n := &Node{Type: KindEntry, Start: start}
	n.add(&Node{Type: KindName, Start: nameStart, End: nameStart + len(name)})

	p.skipSpace()
	closer, err := p.open()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	keyStart := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == closer || isSpace(c) {
			break
		}
		p.pos++
	}
	if p.pos > keyStart {
		n.add(&Node{Type: KindKey, Start: keyStart, End: p.pos})
	}

	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, p.errorAt(start, "unterminated entry")
		}
		switch p.src[p.pos] {
		case closer:
			p.pos++
			n.End = p.pos
			return n, nil
		case ',':
			p.pos++
			continue
		}
		f, err := p.parseField(closer)
		if err != nil {
			return nil, err
		}
		n.add(f)
	}
}

// parseField parses "name = value". The value child is left out when the
// value is empty.
func (p *parser) parseField(closer byte) (*Node, error) {
	start := p.pos
	name := p.ident()
	if name == "" {
		return nil, p.errorf("expected field name, found %q", p.peek())
	}
	f := &Node{Type: KindField, Start: start, End: p.pos}
	f.add(&Node{Type: KindIdentifier, Start: start, End: p.pos})

	p.skipSpace()
	if p.peek() != '=' {
		return nil, p.errorf("expected '=' after field %q", name)
	}
	p.pos++
	p.skipSpace()

	if c := p.peek(); p.pos >= len(p.src) || c == ',' || c == closer {
		f.End = p.pos
		return f, nil
	}

	valueStart := p.pos
	valueEnd := p.pos
	for {
		if err := p.skipValuePart(); err != nil {
			return nil, err
		}
		valueEnd = p.pos
		p.skipSpace()
		if p.peek() != '#' {
			break
		}
		p.pos++
		p.skipSpace()
	}

	f.add(&Node{Type: KindValue, Start: valueStart, End: valueEnd})
	f.End = valueEnd
	return f, nil
}

func (p *parser) skipValuePart() error {
	switch p.peek() {
	case '{':
		return p.skipBraced()
	case '"':
		return p.skipQuoted()
	}
	if p.ident() == "" {
		return p.errorf("unexpected %q in field value", p.peek())
	}
	return nil
}

// open consumes an opening delimiter and returns the matching closer.
func (p *parser) open() (byte, error) {
	switch p.peek() {
	case '{':
		p.pos++
		return '}', nil
	case '(':
		p.pos++
		return ')', nil
	}
	return 0, p.errorf("expected '{' or '('")
}

// skipGroup skips a {...} or (...) group, honouring nested braces. Braces
// count whatever precedes them, backslashes included.
func (p *parser) skipGroup() error {
	start := p.pos
	closer, err := p.open()
	if err != nil {
		return err
	}
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == '{':
			if err := p.skipBraced(); err != nil {
				return err
			}
			continue
		case c == closer:
			p.pos++
			return nil
		}
		p.pos++
	}
	return p.errorAt(start, "unbalanced group")
}

func (p *parser) skipBraced() error {
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
		p.pos++
	}
	return p.errorAt(start, "unbalanced braces")
}

func (p *parser) skipQuoted() error {
	start := p.pos
	p.pos++ // opening quote
	depth := 0
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth <= 0 {
				p.pos++
				return nil
			}
		}
		p.pos++
	}
	return p.errorAt(start, "unterminated quoted value")
}

// ident consumes a bare name and returns it.
func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) skipLine() {
	if i := bytes.IndexByte(p.src[p.pos:], '\n'); i >= 0 {
		p.pos += i + 1
		return
	}
	p.pos = len(p.src)
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return p.errorAt(p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) errorAt(pos int, msg string) error {
	line, col := 1, 1
	for _, c := range p.src[:min(pos, len(p.src))] {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return &Error{Line: line, Column: col, Msg: msg}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// isNameByte reports whether c may appear in an entry type, field name or
// bare value.
func isNameByte(c byte) bool {
	if isSpace(c) {
		return false
	}
	switch c {
	case '"', '#', '%', '\'', '(', ')', ',', '=', '{', '}', '@':
		return false
	}
	return c != 0
}
