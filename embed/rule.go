// Package embed provides a goldmark extension that rewrites bare-URL
// paragraphs and inline :name[argument] directives into component
// invocation nodes, collecting the import declarations the referenced
// components need.
package embed

import "fmt"

// DefaultImportSource is the import path used by rules that do not name one.
const DefaultImportSource = "~/components"

// DefaultArgument is the property name used by rules that do not name one.
const DefaultArgument = "href"

// URLMatcher decides whether a rule applies to a candidate URL. On a match
// it returns the property value to pass to the component, typically the URL
// itself or an identifier extracted from it.
type URLMatcher func(url string) (string, bool)

// Rule describes one embeddable component: how to recognize content for it
// and how to invoke it.
type Rule struct {
	// Component is the exported name of the component. Required.
	Component string

	// Import is the path the component is imported from.
	// Defaults to DefaultImportSource.
	Import string

	// Argument is the property name the matched value is passed under.
	// Defaults to DefaultArgument.
	Argument string

	// Match recognizes bare URLs. A nil Match never matches URLs.
	Match URLMatcher

	// Directives lists directive names that invoke this component.
	Directives []string
}

// Import identifies a component export to be injected into a compiled
// document's preamble.
type Import struct {
	Component string
	Source    string
}

// RuleSet is an ordered, immutable collection of rules. Order matters: the
// first matching rule wins for both URL and directive evaluation.
type RuleSet struct {
	rules   []Rule
	imports []Import
}

// NewRuleSet validates the given rules and returns a RuleSet. A rule with no
// component name, or with neither a URL matcher nor directive names, is a
// configuration error.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	rs := &RuleSet{rules: make([]Rule, len(rules))}
	seen := make(map[Import]bool)

	for i, rule := range rules {
		if rule.Component == "" {
			return nil, fmt.Errorf("rule %d: component name is required", i)
		}
		if rule.Match == nil && len(rule.Directives) == 0 {
			return nil, fmt.Errorf("rule %d (%s): neither a URL matcher nor directive names; rule can never match", i, rule.Component)
		}
		for _, name := range rule.Directives {
			if name == "" {
				return nil, fmt.Errorf("rule %d (%s): empty directive name", i, rule.Component)
			}
		}
		if rule.Import == "" {
			rule.Import = DefaultImportSource
		}
		if rule.Argument == "" {
			rule.Argument = DefaultArgument
		}
		rule.Directives = cloneStrings(rule.Directives)
		rs.rules[i] = rule

		imp := Import{Component: rule.Component, Source: rule.Import}
		if !seen[imp] {
			seen[imp] = true
			rs.imports = append(rs.imports, imp)
		}
	}

	return rs, nil
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// MatchURL evaluates rules in order against url and returns the winning rule
// and the value its matcher produced. Rules without a matcher are skipped.
func (rs *RuleSet) MatchURL(url string) (Rule, string, bool) {
	for _, rule := range rs.rules {
		if rule.Match == nil {
			continue
		}
		if value, ok := rule.Match(url); ok {
			return rule, value, true
		}
	}
	return Rule{}, "", false
}

// MatchDirective evaluates rules in order against a directive name. The
// comparison is exact and case-sensitive.
func (rs *RuleSet) MatchDirective(name string) (Rule, bool) {
	for _, rule := range rs.rules {
		for _, alias := range rule.Directives {
			if alias == name {
				return rule, true
			}
		}
	}
	return Rule{}, false
}

// Imports returns the deduplicated (component, source) pairs for every rule
// in the set, in first-seen rule order. The set is a property of the
// configuration, not of any document's match results.
func (rs *RuleSet) Imports() []Import {
	out := make([]Import, len(rs.imports))
	copy(out, rs.imports)
	return out
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}
