package embed

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

type directiveParser struct{}

// NewDirectiveParser returns an inline parser for :name[argument]
// directives. The argument may be empty; a colon with no bracketed argument
// is ordinary text.
func NewDirectiveParser() parser.InlineParser {
	return &directiveParser{}
}

func (p *directiveParser) Trigger() []byte {
	return []byte{':'}
}

func (p *directiveParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	// Shortest possible form is :x[]
	if len(line) < 4 || line[0] != ':' {
		return nil
	}

	nameEnd := 1
	for nameEnd < len(line) && isDirectiveNameByte(line[nameEnd]) {
		nameEnd++
	}
	if nameEnd == 1 || nameEnd >= len(line) || line[nameEnd] != '[' {
		return nil
	}

	closing := findDirectiveClosingBracket(line, nameEnd)
	if closing < 0 {
		return nil
	}

	name := string(line[1:nameEnd])
	// The bracketed argument is carried verbatim; any interpretation is the
	// consuming component's concern.
	argument := string(line[nameEnd+1 : closing])
	block.Advance(closing + 1)
	return NewDirectiveNode(name, argument)
}

func isDirectiveNameByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '_'
}

func findDirectiveClosingBracket(line []byte, open int) int {
	depth := 0
	for idx := open; idx < len(line); idx++ {
		ch := line[idx]
		if ch == '\n' || ch == '\r' {
			break
		}
		if ch == '\\' {
			if idx+1 < len(line) {
				idx++
			}
			continue
		}
		switch ch {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return idx
			}
			if depth < 0 {
				return -1
			}
		}
	}
	return -1
}
