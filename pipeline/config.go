// Package pipeline renders a markdown content tree with the embed extension
// applied, driven by a YAML configuration file.
package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/akreft/embedmark/embed"
)

var providers = map[string]embed.URLMatcher{
	"youtube": embed.YouTube,
	"vimeo":   embed.Vimeo,
	"tweet":   embed.Tweet,
	"any":     embed.AnyURL,
}

// ComponentConfig declares one embed rule. A rule recognizes URLs through a
// named provider or a pattern/replace pair, directives through aliases, or
// both.
type ComponentConfig struct {
	Component  string   `yaml:"component"`
	Import     string   `yaml:"import"`
	Argument   string   `yaml:"argument"`
	Provider   string   `yaml:"provider"`
	Pattern    string   `yaml:"pattern"`
	Replace    string   `yaml:"replace"`
	Directives []string `yaml:"directives"`
}

// Config holds the embedmark.yaml build configuration.
type Config struct {
	Title      string            `yaml:"title"`
	BaseURL    string            `yaml:"baseurl"`
	ContentDir string            `yaml:"content"`
	OutputDir  string            `yaml:"output"`
	Include    []string          `yaml:"include"`
	Exclude    []string          `yaml:"exclude"`
	Format     embed.Format      `yaml:"format"`
	Sanitize   *bool             `yaml:"sanitize"`
	Components []ComponentConfig `yaml:"components"`
}

// Load reads a config file. Defaults and validation are applied by
// NewBuilder, so callers may still adjust the returned config first.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	return cfg, nil
}

func (c Config) applyDefaults() Config {
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.OutputDir == "" {
		c.OutputDir = "public"
	}
	if len(c.Include) == 0 {
		c.Include = []string{"**/*.md"}
	}
	if c.Format == "" {
		c.Format = embed.FormatElement
	}
	if c.Sanitize == nil {
		sanitize := c.Format != embed.FormatJSX
		c.Sanitize = &sanitize
	}
	return c
}

// Validate checks config values that rule compilation does not cover.
func (c Config) Validate() error {
	if !c.Format.Valid() {
		return fmt.Errorf("invalid format %q (allowed: element, jsx)", c.Format)
	}
	if c.Sanitize != nil && *c.Sanitize && c.Format == embed.FormatJSX {
		return fmt.Errorf("sanitize applies to HTML output only; jsx output cannot be sanitized")
	}
	return nil
}

// Rules compiles the declarative component list into a RuleSet.
func (c Config) Rules() (*embed.RuleSet, error) {
	rules := make([]embed.Rule, 0, len(c.Components))
	for i, cc := range c.Components {
		rule := embed.Rule{
			Component:  cc.Component,
			Import:     cc.Import,
			Argument:   cc.Argument,
			Directives: cc.Directives,
		}

		switch {
		case cc.Provider != "" && cc.Pattern != "":
			return nil, fmt.Errorf("component %d (%s): provider and pattern are mutually exclusive", i, cc.Component)
		case cc.Provider != "":
			match, ok := providers[cc.Provider]
			if !ok {
				return nil, fmt.Errorf("component %d (%s): unknown provider %q (allowed: youtube, vimeo, tweet, any)", i, cc.Component, cc.Provider)
			}
			rule.Match = match
		case cc.Pattern != "":
			match, err := embed.Pattern(cc.Pattern, cc.Replace)
			if err != nil {
				return nil, fmt.Errorf("component %d (%s): invalid pattern: %w", i, cc.Component, err)
			}
			rule.Match = match
		case cc.Replace != "":
			return nil, fmt.Errorf("component %d (%s): replace requires a pattern", i, cc.Component)
		}

		rules = append(rules, rule)
	}

	return embed.NewRuleSet(rules...)
}
