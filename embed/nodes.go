package embed

import (
	"sort"

	"github.com/yuin/goldmark/ast"
)

var (
	KindComponentBlock  = ast.NewNodeKind("ComponentBlock")
	KindComponentInline = ast.NewNodeKind("ComponentInline")
	KindDirective       = ast.NewNodeKind("Directive")
)

// Invocation describes a component call produced by the transformer.
type Invocation struct {
	Component  string
	Source     string
	Properties map[string]string
}

// PropertyNames returns the property names in sorted order so rendered
// output is deterministic.
func (inv Invocation) PropertyNames() []string {
	names := make([]string, 0, len(inv.Properties))
	for name := range inv.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ComponentBlockNode replaces a matched bare-URL paragraph.
type ComponentBlockNode struct {
	ast.BaseBlock
	Invocation
}

func NewComponentBlockNode(inv Invocation) *ComponentBlockNode {
	return &ComponentBlockNode{Invocation: inv}
}

func (n *ComponentBlockNode) Kind() ast.NodeKind {
	return KindComponentBlock
}

func (n *ComponentBlockNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Component": n.Component,
		"Source":    n.Source,
	}, nil)
}

// ComponentInlineNode replaces a matched directive.
type ComponentInlineNode struct {
	ast.BaseInline
	Invocation
}

func NewComponentInlineNode(inv Invocation) *ComponentInlineNode {
	return &ComponentInlineNode{Invocation: inv}
}

func (n *ComponentInlineNode) Kind() ast.NodeKind {
	return KindComponentInline
}

func (n *ComponentInlineNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Component": n.Component,
		"Source":    n.Source,
	}, nil)
}

// DirectiveNode is an inline :name[argument] directive as parsed from
// source, before any rule has claimed it.
type DirectiveNode struct {
	ast.BaseInline
	Name     string
	Argument string
}

func NewDirectiveNode(name, argument string) *DirectiveNode {
	return &DirectiveNode{Name: name, Argument: argument}
}

func (n *DirectiveNode) Kind() ast.NodeKind {
	return KindDirective
}

func (n *DirectiveNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name":     n.Name,
		"Argument": n.Argument,
	}, nil)
}
