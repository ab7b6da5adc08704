package embed

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var importsContextKey = parser.NewContextKey()

// ImportsFromContext returns the import declarations registered while the
// document associated with pc was parsed. It is nil when the embed
// transformer did not run.
func ImportsFromContext(pc parser.Context) []Import {
	v := pc.Get(importsContextKey)
	if v == nil {
		return nil
	}
	imports, _ := v.([]Import)
	return imports
}

type transformer struct {
	rules *RuleSet
}

// NewTransformer returns the AST transformer that performs embed rewriting
// with the given rules. The transformer holds no per-document state and is
// safe to share across concurrent parses.
func NewTransformer(rules *RuleSet) parser.ASTTransformer {
	return &transformer{rules: rules}
}

type replacement struct {
	old ast.Node
	new ast.Node
}

func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	pc.Set(importsContextKey, t.rules.Imports())
	source := reader.Source()

	// Replacements are applied after the walk; splicing nodes mid-walk
	// breaks sibling iteration.
	var repls []replacement
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch typed := n.(type) {
		case *ast.Paragraph:
			if node, ok := t.matchParagraph(typed, source); ok {
				repls = append(repls, replacement{old: typed, new: node})
				return ast.WalkSkipChildren, nil
			}
		case *DirectiveNode:
			if node, ok := t.matchDirective(typed); ok {
				repls = append(repls, replacement{old: typed, new: node})
			}
		}
		return ast.WalkContinue, nil
	})

	for _, r := range repls {
		parent := r.old.Parent()
		if parent != nil {
			parent.ReplaceChild(parent, r.old, r.new)
		}
	}
}

func (t *transformer) matchParagraph(p *ast.Paragraph, source []byte) (ast.Node, bool) {
	candidate, ok := bareURL(p, source)
	if !ok {
		return nil, false
	}
	rule, value, ok := t.rules.MatchURL(candidate)
	if !ok {
		return nil, false
	}
	return NewComponentBlockNode(Invocation{
		Component:  rule.Component,
		Source:     rule.Import,
		Properties: map[string]string{rule.Argument: value},
	}), true
}

func (t *transformer) matchDirective(d *DirectiveNode) (ast.Node, bool) {
	rule, ok := t.rules.MatchDirective(d.Name)
	if !ok {
		return nil, false
	}
	return NewComponentInlineNode(Invocation{
		Component:  rule.Component,
		Source:     rule.Import,
		Properties: map[string]string{rule.Argument: d.Argument},
	}), true
}

// bareURL returns the candidate URL when the paragraph consists of exactly
// one URL-bearing child after whitespace-only text is ignored. Adjacent
// text siblings count as one child: the inline parser stage splits text
// runs at every trigger byte, so a literal URL usually arrives in pieces.
// Paragraphs with prose around the URL never qualify.
func bareURL(p *ast.Paragraph, source []byte) (string, bool) {
	var textRun strings.Builder
	var element ast.Node
	for child := p.FirstChild(); child != nil; child = child.NextSibling() {
		if txt, ok := child.(*ast.Text); ok {
			textRun.Write(txt.Value(source))
			continue
		}
		if element != nil {
			return "", false
		}
		element = child
	}

	raw := strings.TrimSpace(textRun.String())
	if element == nil {
		if _, ok := parseAbsoluteURL(raw); !ok {
			return "", false
		}
		return raw, true
	}
	if raw != "" {
		return "", false
	}

	switch typed := element.(type) {
	case *ast.Link:
		// A link whose label carries formatting is left alone; only plain
		// labels count as a bare link.
		if !hasPlainTextChildren(typed) {
			return "", false
		}
		return strings.TrimSpace(string(typed.Destination)), true
	case *ast.AutoLink:
		if typed.AutoLinkType != ast.AutoLinkURL {
			return "", false
		}
		return strings.TrimSpace(string(typed.URL(source))), true
	default:
		return "", false
	}
}

func hasPlainTextChildren(node ast.Node) bool {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		if _, ok := child.(*ast.Text); !ok {
			return false
		}
	}
	return true
}
