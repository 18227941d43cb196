// Package taxonomy reads the filer taxonomy that accompanies an instance document:
// the extension schema, its namespace table and import graph, and its linkbases.
package taxonomy

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"edinet_xbrl/pkg/core/xmltree"
)

// ErrMissingTaxonomyFile is returned when the directory holds no schema file.
var ErrMissingTaxonomyFile = errors.New("missing taxonomy file")

const (
	schemaNamespace   = "http://www.w3.org/2001/XMLSchema"
	linkbaseNamespace = "http://www.xbrl.org/2003/linkbase"
	xlinkNamespace    = "http://www.w3.org/1999/xlink"
	instanceNamespace = "http://www.xbrl.org/2003/instance"
)

// Import is one xs:import of the schema.
type Import struct {
	Namespace      string `json:"namespace"`
	SchemaLocation string `json:"schema_location"`
}

// LinkbaseRef is a linkbase the schema points at.
type LinkbaseRef struct {
	Href string `json:"href"`
	Role string `json:"role,omitempty"`
}

// Concept is an element declared by the schema.
type Concept struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	SubstitutionGroup string `json:"substitution_group,omitempty"`
	PeriodType        string `json:"period_type,omitempty"`
	Abstract          bool   `json:"abstract,omitempty"`
}

// Reference is the parsed filer taxonomy.
type Reference struct {
	Dir             string
	SchemaPath      string
	TargetNamespace string
	Namespaces      []xmltree.Namespace
	Imports         []Import
	LinkbaseRefs    []LinkbaseRef
	Concepts        []Concept
	Linkbases       []Linkbase
	labels          labelSet
}

// LoadReference reads the schema in dir and every linkbase file next to it.
// Label linkbases are resolved into concept labels.
func LoadReference(dir string) (*Reference, error) {
	schemaPath, err := findSchema(dir)
	if err != nil {
		return nil, err
	}

	tree, err := xmltree.ParseFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	ref := &Reference{
		Dir:        dir,
		SchemaPath: schemaPath,
		labels:     labelSet{},
	}
	ref.readSchema(tree.Root)

	linkbases, err := findLinkbases(dir)
	if err != nil {
		return nil, err
	}
	ref.Linkbases = linkbases

	for _, lb := range linkbases {
		if lb.Kind != KindLabel {
			continue
		}
		if err := ref.labels.load(lb.Path); err != nil {
			return nil, fmt.Errorf("failed to read labels %s: %w", filepath.Base(lb.Path), err)
		}
	}

	return ref, nil
}

func findSchema(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xsd"))
	if err != nil {
		return "", fmt.Errorf("failed to search %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no .xsd in %s", ErrMissingTaxonomyFile, dir)
	}
	sort.Strings(matches)
	if len(matches) > 1 {
		log.Printf("[TAXONOMY] %d schema files in %s, using %s", len(matches), dir, filepath.Base(matches[0]))
	}
	return matches[0], nil
}

func (r *Reference) readSchema(root *xmltree.Element) {
	xs := lookup(root, schemaNamespace, "xs")
	link := lookup(root, linkbaseNamespace, "link")
	xlink := lookup(root, xlinkNamespace, "xlink")
	xbrli := lookup(root, instanceNamespace, "xbrli")

	r.TargetNamespace = root.AttrOr("targetNamespace", "")
	r.Namespaces = root.Namespaces()

	for _, imp := range root.FindAll(xmltree.Qualify(xs, "import")) {
		r.Imports = append(r.Imports, Import{
			Namespace:      imp.AttrOr("namespace", ""),
			SchemaLocation: imp.AttrOr("schemaLocation", ""),
		})
	}

	for _, lr := range root.FindAll(xmltree.Qualify(link, "linkbaseRef")) {
		r.LinkbaseRefs = append(r.LinkbaseRefs, LinkbaseRef{
			Href: lr.AttrOr(xmltree.Qualify(xlink, "href"), ""),
			Role: lr.AttrOr(xmltree.Qualify(xlink, "role"), ""),
		})
	}

	for _, el := range root.Children {
		if el.Name() != xmltree.Qualify(xs, "element") {
			continue
		}
		r.Concepts = append(r.Concepts, Concept{
			ID:                el.AttrOr("id", ""),
			Name:              el.AttrOr("name", ""),
			Type:              el.AttrOr("type", ""),
			SubstitutionGroup: el.AttrOr("substitutionGroup", ""),
			PeriodType:        el.AttrOr(xmltree.Qualify(xbrli, "periodType"), ""),
			Abstract:          el.AttrOr("abstract", "") == "true",
		})
	}
}

func lookup(root *xmltree.Element, uri, fallback string) string {
	if prefix, ok := root.LookupPrefix(uri); ok {
		return prefix
	}
	return fallback
}

// ImportedNamespaces returns the namespaces of the import graph, sorted.
func (r *Reference) ImportedNamespaces() []string {
	out := make([]string, 0, len(r.Imports))
	for _, imp := range r.Imports {
		out = append(out, imp.Namespace)
	}
	sort.Strings(out)
	return out
}

// Concept returns the declared concept with the given id.
func (r *Reference) Concept(id string) (Concept, bool) {
	for _, c := range r.Concepts {
		if c.ID == id {
			return c, true
		}
	}
	return Concept{}, false
}

// LinkbaseKind classifies a linkbase file by its name suffix.
type LinkbaseKind string

const (
	KindLabel        LinkbaseKind = "label"
	KindPresentation LinkbaseKind = "presentation"
	KindCalculation  LinkbaseKind = "calculation"
	KindDefinition   LinkbaseKind = "definition"
)

// Linkbase is a linkbase file found next to the schema.
type Linkbase struct {
	Path string       `json:"path"`
	Kind LinkbaseKind `json:"kind"`
}

var linkbaseSuffixes = []struct {
	suffix string
	kind   LinkbaseKind
}{
	{"_lab.xml", KindLabel},
	{"_lab-en.xml", KindLabel},
	{"_pre.xml", KindPresentation},
	{"_cal.xml", KindCalculation},
	{"_def.xml", KindDefinition},
}

func findLinkbases(dir string) ([]Linkbase, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var out []Linkbase
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, s := range linkbaseSuffixes {
			if strings.HasSuffix(e.Name(), s.suffix) {
				out = append(out, Linkbase{Path: filepath.Join(dir, e.Name()), Kind: s.kind})
				break
			}
		}
	}
	return out, nil
}
