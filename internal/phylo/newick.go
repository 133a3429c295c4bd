package phylo

import (
	"strings"
)

// rawNode is the parser's output before indexing.
type rawNode struct {
	name     string
	children []*rawNode
}

type newickParser struct {
	src string
	pos int

	openComment int // offset of an unterminated '[', or -1
}

// parseNewick reads exactly one tree. Branch lengths and bracket comments are
// skipped; internal labels are kept as node names.
func parseNewick(src string) (*rawNode, error) {
	p := &newickParser{src: src, openComment: -1}
	p.skipSpace()
	if p.eof() {
		return nil, &MalformedTreeError{Offset: 0, Reason: "empty tree"}
	}
	root, err := p.node(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() && p.peek() == ';' {
		p.pos++
		p.skipSpace()
	}
	if p.openComment >= 0 {
		return nil, &MalformedTreeError{Offset: p.openComment, Reason: "unterminated comment"}
	}
	if !p.eof() {
		return nil, p.fail("unexpected trailing input")
	}
	return root, nil
}

func (p *newickParser) node(depth int) (*rawNode, error) {
	if depth > maxDepth {
		return nil, p.fail("tree too deep")
	}
	n := &rawNode{}
	p.skipSpace()
	if !p.eof() && p.peek() == '(' {
		p.pos++
		for {
			child, err := p.node(depth + 1)
			if err != nil {
				return nil, err
			}
			n.children = append(n.children, child)
			p.skipSpace()
			if p.eof() {
				return nil, p.fail("unbalanced parentheses")
			}
			c := p.peek()
			p.pos++
			if c == ',' {
				continue
			}
			if c == ')' {
				break
			}
			return nil, &MalformedTreeError{Offset: p.pos - 1, Reason: "expected ',' or ')'"}
		}
	}
	name, err := p.label()
	if err != nil {
		return nil, err
	}
	n.name = name
	if err := p.branchLength(); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *newickParser) label() (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", nil
	}
	if p.peek() == '\'' {
		return p.quoted()
	}
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if strings.IndexByte("(),:;[ \t\n\r", c) >= 0 {
			break
		}
		if c == '\'' {
			return "", p.fail("quote inside unquoted label")
		}
		p.pos++
	}
	return p.src[start:p.pos], nil
}

func (p *newickParser) quoted() (string, error) {
	open := p.pos
	p.pos++
	var b strings.Builder
	for !p.eof() {
		c := p.peek()
		p.pos++
		if c != '\'' {
			b.WriteByte(c)
			continue
		}
		if !p.eof() && p.peek() == '\'' {
			b.WriteByte('\'')
			p.pos++
			continue
		}
		return b.String(), nil
	}
	return "", &MalformedTreeError{Offset: open, Reason: "unterminated quoted label"}
}

func (p *newickParser) branchLength() error {
	p.skipSpace()
	if p.eof() || p.peek() != ':' {
		return nil
	}
	p.pos++
	p.skipSpace()
	start := p.pos
	for !p.eof() && strings.IndexByte("0123456789.eE+-", p.peek()) >= 0 {
		p.pos++
	}
	if p.pos == start {
		return p.fail("missing branch length after ':'")
	}
	return nil
}

// skipSpace also skips bracket comments such as NHX annotations.
func (p *newickParser) skipSpace() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.pos++
		case '[':
			end := strings.IndexByte(p.src[p.pos:], ']')
			if end < 0 {
				p.openComment = p.pos
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
		default:
			return
		}
	}
}

func (p *newickParser) eof() bool  { return p.pos >= len(p.src) }
func (p *newickParser) peek() byte { return p.src[p.pos] }

func (p *newickParser) fail(reason string) error {
	return &MalformedTreeError{Offset: p.pos, Reason: reason}
}
