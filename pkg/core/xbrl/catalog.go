package xbrl

import (
	"sort"
	"strings"

	"edinet_xbrl/pkg/core/xmltree"
)

// UnknownDescription is returned for prefixes no catalog entry matches.
const UnknownDescription = "unknown"

// CatalogEntry maps a prefix stem to a taxonomy description.
type CatalogEntry struct {
	Stem        string `json:"stem" yaml:"stem"`
	Description string `json:"description" yaml:"description"`
}

// Catalog describes taxonomy prefixes. Entries are tried in order and the first
// stem that prefixes the name wins.
type Catalog struct {
	entries []CatalogEntry
}

// NewCatalog copies entries into an immutable catalog.
func NewCatalog(entries []CatalogEntry) *Catalog {
	c := &Catalog{entries: make([]CatalogEntry, len(entries))}
	copy(c.entries, entries)
	return c
}

// Fingerprint returns a stable rendering of the ordered entries. Two catalogs that
// describe every prefix the same way have equal fingerprints.
func (c *Catalog) Fingerprint() string {
	if c == nil {
		return ""
	}
	var sb strings.Builder
	for _, e := range c.entries {
		sb.WriteString(e.Stem)
		sb.WriteByte('\t')
		sb.WriteString(e.Description)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DefaultCatalog returns a catalog over DefaultCatalogEntries.
func DefaultCatalog() *Catalog {
	return NewCatalog(DefaultCatalogEntries())
}

// DefaultCatalogEntries is the EDINET taxonomy table. Filer extension stems come
// before the standard taxonomy stems they share a prefix with.
func DefaultCatalogEntries() []CatalogEntry {
	return []CatalogEntry{
		{"jpcrp030000-asr", "Filer extension (annual securities report)"},
		{"jpcrp040300-q1r", "Filer extension (quarterly securities report)"},
		{"jpcrp", "Corporate disclosure (jpcrp)"},
		{"jpdei", "Document and entity information (jpdei)"},
		{"jppfs", "Japanese GAAP financial statements (jppfs)"},
		{"jpigp", "IFRS financial statements (jpigp)"},
		{"jpctl", "Internal control report (jpctl)"},
		{"jpsps", "Specified securities disclosure (jpsps)"},
		{"jpaud", "Audit report (jpaud)"},
		{"jplvh", "Large volume holding report (jplvh)"},
		{"jptoi", "Tender offer notification (jptoi)"},
		{"jptoo", "Tender offer by issuer (jptoo)"},
		{"ifrs", "IFRS Foundation taxonomy"},
		{"xbrldi", "XBRL dimensions instance"},
		{"xbrldt", "XBRL dimensions taxonomy"},
		{"xbrli", "XBRL instance"},
		{"link", "XBRL linkbase"},
		{"xlink", "XLink"},
		{"xsi", "XML Schema instance"},
		{"xml", "XML namespace"},
		{"iso4217", "ISO 4217 currency codes"},
		{"num", "Numeric data types"},
		{"nonnum", "Non-numeric data types"},
		{"ix", "Inline XBRL"},
	}
}

// Describe returns the description of the first entry whose stem prefixes name.
func (c *Catalog) Describe(name string) string {
	for _, e := range c.entries {
		if strings.HasPrefix(name, e.Stem) {
			return e.Description
		}
	}
	return UnknownDescription
}

// Entries returns a copy of the table in match order.
func (c *Catalog) Entries() []CatalogEntry {
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Taxonomy is a namespace declared on the instance root, with the number of
// distinct fact names that use its prefix.
type Taxonomy struct {
	Prefix      string `json:"prefix"`
	Namespace   string `json:"namespace"`
	Description string `json:"description"`
	NameCount   int    `json:"name_count"`
}

// Taxonomies annotates the prefixed namespace declarations of root, sorted by prefix.
func Taxonomies(root *xmltree.Element, catalog *Catalog, idx *FactIndex) []Taxonomy {
	var out []Taxonomy
	for _, ns := range root.Namespaces() {
		if ns.Prefix == "" {
			continue
		}
		t := Taxonomy{
			Prefix:      ns.Prefix,
			Namespace:   ns.URI,
			Description: catalog.Describe(ns.Prefix),
		}
		if idx != nil {
			t.NameCount = idx.CountDistinctNamesWithPrefix(ns.Prefix)
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}
