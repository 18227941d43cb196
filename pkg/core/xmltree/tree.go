// Package xmltree builds a small, prefix-preserving element tree from an XML document.
// XBRL lookups are done by qualified tag name ("xbrli:context"), so unlike a namespace-resolving
// DOM the raw prefix of every element and attribute is kept as written.
package xmltree

import "strings"

// Document is a parsed XML document.
type Document struct {
	Root *Element
}

// Namespace is one xmlns declaration found on an element.
type Namespace struct {
	Prefix string // empty for the default namespace
	URI    string
}

// Attr is an attribute with its raw prefix.
type Attr struct {
	Prefix string
	Local  string
	Value  string
}

// Name returns the qualified attribute name as written.
func (a Attr) Name() string {
	return qualify(a.Prefix, a.Local)
}

// Element is one node of the tree. Text holds only character data directly under the element.
type Element struct {
	Prefix   string
	Local    string
	Attrs    []Attr
	Children []*Element
	Parent   *Element
	text     strings.Builder
	offset   int // length of the parent's text when this element started
}

// Name returns the qualified tag name as written, e.g. "jppfs_cor:Assets".
func (e *Element) Name() string {
	return qualify(e.Prefix, e.Local)
}

// Attr returns the value of the attribute with the given qualified name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name() == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or def when absent.
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// DirectText returns the character data directly under the element.
func (e *Element) DirectText() string {
	return e.text.String()
}

// Text returns the concatenated character data of the element subtree.
func (e *Element) Text() string {
	var sb strings.Builder
	e.collectText(&sb)
	return sb.String()
}

func (e *Element) collectText(sb *strings.Builder) {
	sb.WriteString(e.text.String())
	for _, child := range e.Children {
		child.collectText(sb)
	}
}

// InnerXML re-serializes the element content, child markup included, with text and
// attribute values escaped. Mixed content keeps its original interleaving.
func (e *Element) InnerXML() string {
	var sb strings.Builder
	e.writeContent(&sb)
	return sb.String()
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func (e *Element) writeContent(sb *strings.Builder) {
	text := e.text.String()
	pos := 0
	for _, child := range e.Children {
		textEscaper.WriteString(sb, text[pos:child.offset])
		pos = child.offset
		child.writeMarkup(sb)
	}
	textEscaper.WriteString(sb, text[pos:])
}

func (e *Element) writeMarkup(sb *strings.Builder) {
	sb.WriteString("<" + e.Name())
	for _, a := range e.Attrs {
		sb.WriteString(" " + a.Name() + `="`)
		attrEscaper.WriteString(sb, a.Value)
		sb.WriteString(`"`)
	}
	if len(e.Children) == 0 && e.text.Len() == 0 {
		sb.WriteString("/>")
		return
	}
	sb.WriteString(">")
	e.writeContent(sb)
	sb.WriteString("</" + e.Name() + ">")
}

// Namespaces returns the xmlns declarations made on this element, in attribute order.
func (e *Element) Namespaces() []Namespace {
	var out []Namespace
	for _, a := range e.Attrs {
		switch {
		case a.Prefix == "xmlns":
			out = append(out, Namespace{Prefix: a.Local, URI: a.Value})
		case a.Prefix == "" && a.Local == "xmlns":
			out = append(out, Namespace{URI: a.Value})
		}
	}
	return out
}

// Walk visits the element and its descendants in document order.
// Returning false from fn skips the children of that element.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, child := range e.Children {
		child.Walk(fn)
	}
}

// Find returns the first descendant (excluding e) with the given qualified name.
func (e *Element) Find(name string) *Element {
	for _, child := range e.Children {
		if child.Name() == name {
			return child
		}
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant (excluding e) with the given qualified name, in document order.
func (e *Element) FindAll(name string) []*Element {
	var out []*Element
	for _, child := range e.Children {
		child.Walk(func(el *Element) bool {
			if el.Name() == name {
				out = append(out, el)
			}
			return true
		})
	}
	return out
}

// Child returns the first direct child with the given qualified name.
func (e *Element) Child(name string) *Element {
	for _, child := range e.Children {
		if child.Name() == name {
			return child
		}
	}
	return nil
}

// LookupPrefix returns the prefix bound to uri in scope at e, searching outward to the root.
func (e *Element) LookupPrefix(uri string) (string, bool) {
	for el := e; el != nil; el = el.Parent {
		for _, ns := range el.Namespaces() {
			if ns.URI == uri {
				return ns.Prefix, true
			}
		}
	}
	return "", false
}

// Qualify joins a prefix and local name the way they appear in markup.
func Qualify(prefix, local string) string {
	return qualify(prefix, local)
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
