package pipeline

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/akreft/embedmark/embed"
)

// Document is one rendered content file.
type Document struct {
	// Path is the source path relative to the content directory.
	Path string

	// Title comes from the document's front matter, when present.
	Title string

	// Body is the rendered output, including the import preamble for jsx.
	Body string

	// Imports are the component imports registered for this document.
	Imports []embed.Import
}

// Builder renders a content tree with the embed extension applied. A Builder
// is safe for concurrent use once constructed.
type Builder struct {
	config    Config
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewBuilder validates the config and compiles its embed rules. A bad rule
// fails here, before any document is touched.
func NewBuilder(cfg Config) (*Builder, error) {
	cfg = cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rules, err := cfg.Rules()
	if err != nil {
		return nil, err
	}

	b := &Builder{
		config: cfg,
		// Raw HTML passes through the renderer; the sanitizer decides
		// what survives.
		markdown: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				meta.Meta,
				embed.New(rules, embed.WithFormat(cfg.Format)),
			),
			goldmark.WithRendererOptions(
				html.WithUnsafe(),
			),
		),
	}

	if *cfg.Sanitize {
		b.sanitizer = sanitizePolicy(cfg)
	}

	return b, nil
}

// sanitizePolicy extends the UGC policy so component elements survive
// sanitizing. Only attribute names the configured rules can actually produce
// are allowed through.
func sanitizePolicy(cfg Config) *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("embed-component")

	attrs := []string{"component", "source"}
	seen := map[string]bool{"component": true, "source": true}
	for _, cc := range cfg.Components {
		name := cc.Argument
		if name == "" {
			name = embed.DefaultArgument
		}
		if !seen[name] {
			seen[name] = true
			attrs = append(attrs, name)
		}
	}
	policy.AllowAttrs(attrs...).OnElements("embed-component")

	return policy
}

// RenderDocument renders a single markdown source. path is informational and
// appears in errors and the returned Document.
func (b *Builder) RenderDocument(path string, source []byte) (Document, error) {
	pc := parser.NewContext()
	var buf bytes.Buffer
	if err := b.markdown.Convert(source, &buf, parser.WithContext(pc)); err != nil {
		return Document{}, fmt.Errorf("failed to render %s: %w", path, err)
	}

	body := buf.String()
	if b.sanitizer != nil {
		body = b.sanitizer.Sanitize(body)
	}

	doc := Document{
		Path:    path,
		Body:    body,
		Imports: embed.ImportsFromContext(pc),
	}
	if m := meta.Get(pc); m != nil {
		if title, ok := m["title"].(string); ok {
			doc.Title = title
		}
	}

	if b.config.Format == embed.FormatJSX {
		doc.Body = importPreamble(doc.Imports) + doc.Body
	}

	return doc, nil
}

// Build renders every selected content file into the output directory and
// returns the rendered documents in walk order.
func (b *Builder) Build() ([]Document, error) {
	contentFS := os.DirFS(b.config.ContentDir)

	var docs []Document
	err := fs.WalkDir(contentFS, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !b.selected(path) {
			return nil
		}

		source, err := fs.ReadFile(contentFS, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		doc, err := b.RenderDocument(path, source)
		if err != nil {
			return err
		}

		outPath := filepath.Join(b.config.OutputDir, outputName(path, b.config.Format))
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(outPath, []byte(doc.Body), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}

		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// OutputDir returns the directory Build writes into.
func (b *Builder) OutputDir() string {
	return b.config.OutputDir
}

// ContentDir returns the directory Build reads from.
func (b *Builder) ContentDir() string {
	return b.config.ContentDir
}

func (b *Builder) selected(path string) bool {
	included := false
	for _, glob := range b.config.Include {
		if ok, _ := doublestar.Match(glob, path); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, glob := range b.config.Exclude {
		if ok, _ := doublestar.Match(glob, path); ok {
			return false
		}
	}
	return true
}

func outputName(path string, format embed.Format) string {
	ext := ".html"
	if format == embed.FormatJSX {
		ext = ".mdx"
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func importPreamble(imports []embed.Import) string {
	if len(imports) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, imp := range imports {
		fmt.Fprintf(&sb, "import { %s } from '%s';\n", imp.Component, imp.Source)
	}
	sb.WriteByte('\n')
	return sb.String()
}
