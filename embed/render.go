package embed

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Format selects how component invocations are written to output.
type Format string

const (
	// FormatElement renders invocations as <embed-component> custom
	// elements suitable for client-side hydration.
	FormatElement Format = "element"

	// FormatJSX renders invocations as JSX-style component tags, for
	// documents compiled further by a component framework.
	FormatJSX Format = "jsx"
)

// Valid reports whether f is a known format. The empty string counts as
// valid and means FormatElement.
func (f Format) Valid() bool {
	switch f {
	case "", FormatElement, FormatJSX:
		return true
	default:
		return false
	}
}

type componentRenderer struct {
	format Format
}

// NewComponentRenderer returns a NodeRenderer for component invocation and
// directive nodes.
func NewComponentRenderer(format Format) renderer.NodeRenderer {
	if format == "" {
		format = FormatElement
	}
	return &componentRenderer{format: format}
}

func (r *componentRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindComponentBlock, r.renderBlock)
	reg.Register(KindComponentInline, r.renderInline)
	reg.Register(KindDirective, r.renderDirective)
}

func (r *componentRenderer) renderBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ComponentBlockNode)
	r.writeInvocation(w, n.Invocation)
	_ = w.WriteByte('\n')
	return ast.WalkContinue, nil
}

func (r *componentRenderer) renderInline(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ComponentInlineNode)
	r.writeInvocation(w, n.Invocation)
	return ast.WalkContinue, nil
}

// renderDirective restores an unmatched directive as its literal source
// text. What to do with unknown directives is the host pipeline's call, and
// passing them through unchanged is the neutral one.
func (r *componentRenderer) renderDirective(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*DirectiveNode)
	_ = w.WriteByte(':')
	_, _ = w.WriteString(n.Name)
	_ = w.WriteByte('[')
	_, _ = w.Write(util.EscapeHTML([]byte(n.Argument)))
	_ = w.WriteByte(']')
	return ast.WalkContinue, nil
}

func (r *componentRenderer) writeInvocation(w util.BufWriter, inv Invocation) {
	if r.format == FormatJSX {
		_ = w.WriteByte('<')
		_, _ = w.WriteString(inv.Component)
		for _, name := range inv.PropertyNames() {
			_ = w.WriteByte(' ')
			_, _ = w.WriteString(name)
			_, _ = w.WriteString(`="`)
			_, _ = w.Write(util.EscapeHTML([]byte(inv.Properties[name])))
			_ = w.WriteByte('"')
		}
		_, _ = w.WriteString(" />")
		return
	}

	_, _ = w.WriteString(`<embed-component component="`)
	_, _ = w.Write(util.EscapeHTML([]byte(inv.Component)))
	_, _ = w.WriteString(`" source="`)
	_, _ = w.Write(util.EscapeHTML([]byte(inv.Source)))
	_ = w.WriteByte('"')
	for _, name := range inv.PropertyNames() {
		_ = w.WriteByte(' ')
		_, _ = w.WriteString(name)
		_, _ = w.WriteString(`="`)
		_, _ = w.Write(util.EscapeHTML([]byte(inv.Properties[name])))
		_ = w.WriteByte('"')
	}
	_, _ = w.WriteString("></embed-component>")
}
