// Package listing renders a loaded instance document as a deterministic report:
// taxonomies, then contexts, then facts grouped by qualified name.
package listing

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"edinet_xbrl/pkg/core/xbrl"
)

// Format selects a rendering.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a format name. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown listing format %q", s)
}

// Render writes doc to w in the given format.
func Render(w io.Writer, doc *xbrl.Document, format Format) error {
	switch format {
	case FormatText, "":
		return WriteText(w, doc)
	case FormatMarkdown:
		return WriteMarkdown(w, doc)
	case FormatHTML:
		return WriteHTML(w, doc)
	}
	return fmt.Errorf("unknown listing format %q", format)
}

const missing = "-"

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}

// WriteText writes the tab-separated listing.
func WriteText(w io.Writer, doc *xbrl.Document) error {
	var buf bytes.Buffer

	buf.WriteString("[taxonomies]\n")
	for _, t := range doc.Taxonomies() {
		fmt.Fprintf(&buf, "%s\t%s\t%d\n", t.Prefix, t.Description, t.NameCount)
	}

	buf.WriteString("[contexts]\n")
	for _, ctx := range doc.Contexts().All() {
		fmt.Fprintf(&buf, "%s\t%s\n", ctx.ID, ctx.Period)
		if ctx.Entity != nil {
			fmt.Fprintf(&buf, "    %s %s\n", ctx.Entity.Scheme, ctx.Entity.Value)
		}
	}

	buf.WriteString("[facts]\n")
	idx := doc.Index()
	for _, name := range idx.Names() {
		fmt.Fprintf(&buf, "%s\n", name)
		for _, f := range idx.FactsFor(name) {
			fmt.Fprintf(&buf, "    %s %s %s %s\n",
				f.ContextRef, orMissing(f.Value.String()), orMissing(f.UnitRef), orMissing(f.DecimalsString()))
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteMarkdown writes the listing as markdown tables.
func WriteMarkdown(w io.Writer, doc *xbrl.Document) error {
	_, err := w.Write(markdown(doc))
	return err
}

// WriteHTML converts the markdown listing to HTML.
func WriteHTML(w io.Writer, doc *xbrl.Document) error {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var out bytes.Buffer
	if err := md.Convert(markdown(doc), &out); err != nil {
		return fmt.Errorf("failed to render html: %w", err)
	}
	_, err := w.Write(out.Bytes())
	return err
}

func markdown(doc *xbrl.Document) []byte {
	var buf bytes.Buffer

	title := doc.Source()
	if title == "" {
		title = "XBRL instance"
	}
	fmt.Fprintf(&buf, "# %s\n\n", cell(title))

	buf.WriteString("## Taxonomies\n\n| Prefix | Description | Names |\n|---|---|---:|\n")
	for _, t := range doc.Taxonomies() {
		fmt.Fprintf(&buf, "| %s | %s | %d |\n", cell(t.Prefix), cell(t.Description), t.NameCount)
	}

	buf.WriteString("\n## Contexts\n\n| ID | Period | Entity |\n|---|---|---|\n")
	for _, ctx := range doc.Contexts().All() {
		entity := ""
		if ctx.Entity != nil {
			entity = ctx.Entity.Value
		}
		fmt.Fprintf(&buf, "| %s | %s | %s |\n", cell(ctx.ID), cell(ctx.Period.String()), cell(entity))
	}

	buf.WriteString("\n## Facts\n\n| Name | Context | Value | Unit | Decimals |\n|---|---|---|---|---:|\n")
	idx := doc.Index()
	for _, name := range idx.Names() {
		for _, f := range idx.FactsFor(name) {
			fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s |\n",
				cell(name.String()), cell(f.ContextRef), cell(orMissing(f.Value.String())),
				cell(orMissing(f.UnitRef)), cell(orMissing(f.DecimalsString())))
		}
	}

	return buf.Bytes()
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\n", " ", "\r", " ", "<", "&lt;", ">", "&gt;")

func cell(s string) string {
	return cellReplacer.Replace(s)
}
