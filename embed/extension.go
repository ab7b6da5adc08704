package embed

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Option configures the Extension.
type Option func(*Extension)

// WithFormat selects the output format for component invocations.
func WithFormat(format Format) Option {
	return func(e *Extension) {
		e.format = format
	}
}

// Extension wires the directive parser, the embed transformer and the
// component renderer into a goldmark.Markdown.
type Extension struct {
	rules  *RuleSet
	format Format
}

// New returns a goldmark extender for the given rules.
func New(rules *RuleSet, opts ...Option) *Extension {
	e := &Extension{
		rules:  rules,
		format: FormatElement,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(NewDirectiveParser(), 100),
		),
		parser.WithASTTransformers(
			util.Prioritized(NewTransformer(e.rules), 500),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewComponentRenderer(e.format), 500),
		),
	)
}
