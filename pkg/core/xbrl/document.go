// Package xbrl extracts contexts, units and typed facts from an XBRL instance document
// into a read-only, queryable model.
package xbrl

import (
	"fmt"
	"io"

	"edinet_xbrl/pkg/core/xmltree"
)

// Document is the parsed model of one instance document. Nothing is mutated after Load returns.
type Document struct {
	source     string
	tree       *xmltree.Document
	contexts   *Registry
	units      []Unit
	index      *FactIndex
	catalog    *Catalog
	taxonomies []Taxonomy
}

type options struct {
	catalog  *Catalog
	resolver *Resolver
	source   string
}

// Option configures Load.
type Option func(*options)

// WithCatalog sets the taxonomy catalog. The default is DefaultCatalog.
func WithCatalog(c *Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithResolver sets the value resolver. The default uses DefaultRules.
func WithResolver(r *Resolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithSource records where the document came from.
func WithSource(source string) Option {
	return func(o *options) { o.source = source }
}

// LoadFile parses and indexes the instance document at path.
func LoadFile(path string, opts ...Option) (*Document, error) {
	tree, err := xmltree.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return New(tree, append([]Option{WithSource(path)}, opts...)...)
}

// Load parses and indexes an instance document read from r.
func Load(r io.Reader, opts ...Option) (*Document, error) {
	tree, err := xmltree.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse instance: %w", err)
	}
	return New(tree, opts...)
}

// New builds the model from an already parsed tree. A malformed or duplicate context
// fails the whole build and no Document is returned.
func New(tree *xmltree.Document, opts ...Option) (*Document, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = DefaultCatalog()
	}
	if o.resolver == nil {
		o.resolver = NewResolver()
	}
	if tree == nil || tree.Root == nil {
		return nil, fmt.Errorf("failed to build document: empty tree")
	}

	contexts, err := ExtractContexts(tree.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to extract contexts: %w", err)
	}
	registry, err := NewRegistry(contexts)
	if err != nil {
		return nil, fmt.Errorf("failed to extract contexts: %w", err)
	}

	index := BuildIndex(tree.Root, o.resolver)

	return &Document{
		source:     o.source,
		tree:       tree,
		contexts:   registry,
		units:      ExtractUnits(tree.Root),
		index:      index,
		catalog:    o.catalog,
		taxonomies: Taxonomies(tree.Root, o.catalog, index),
	}, nil
}

// Source returns the path or label the document was loaded from.
func (d *Document) Source() string { return d.source }

// Tree returns the underlying element tree.
func (d *Document) Tree() *xmltree.Document { return d.tree }

// Contexts returns the context registry.
func (d *Document) Contexts() *Registry { return d.contexts }

// Index returns the fact index.
func (d *Document) Index() *FactIndex { return d.index }

// Catalog returns the taxonomy catalog the document was annotated with.
func (d *Document) Catalog() *Catalog { return d.catalog }

// Units returns the unit declarations in document order.
func (d *Document) Units() []Unit {
	out := make([]Unit, len(d.units))
	copy(out, d.units)
	return out
}

// Taxonomies returns the declared taxonomy prefixes, sorted, with descriptions and name counts.
func (d *Document) Taxonomies() []Taxonomy {
	out := make([]Taxonomy, len(d.taxonomies))
	copy(out, d.taxonomies)
	return out
}

// FactsFor is a shortcut for Index().FactsFor.
func (d *Document) FactsFor(prefix, local string) []Fact {
	return d.index.FactsFor(QualifiedName{Prefix: prefix, Local: local})
}

// FactsInContext returns the facts reported against the given context id, in document order.
func (d *Document) FactsInContext(contextID string) []Fact {
	var out []Fact
	for _, f := range d.index.facts {
		if f.ContextRef == contextID {
			out = append(out, f)
		}
	}
	return out
}
