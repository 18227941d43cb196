package xbrl

import (
	"log"
	"strconv"
	"strings"

	"edinet_xbrl/pkg/core/xmltree"
)

// Fact is one reported value tied to a context, unit and precision.
type Fact struct {
	Name       QualifiedName
	ContextRef string
	UnitRef    string
	Decimals   *int // nil when absent or INF
	Raw        string
	Nil        bool // xsi:nil="true"
	Value      TypedValue
}

// DecimalsString renders Decimals, or "" when unset.
func (f Fact) DecimalsString() string {
	if f.Decimals == nil {
		return ""
	}
	return strconv.Itoa(*f.Decimals)
}

// FactIndex groups facts by qualified name. Names keep first-seen document order and
// facts keep document order within and across names. It is read-only once built.
type FactIndex struct {
	facts   []Fact
	byName  map[QualifiedName][]int
	names   []QualifiedName
	counts  map[string]int // prefix -> distinct names
	skipped []string
}

// BuildIndex collects every element carrying a contextRef attribute, in document order.
// Occurrences whose tag is not a qualified name are skipped, not reported as errors.
func BuildIndex(root *xmltree.Element, resolver *Resolver) *FactIndex {
	if resolver == nil {
		resolver = defaultResolver
	}
	names := resolveNames(root)

	idx := &FactIndex{
		byName: make(map[QualifiedName][]int),
		counts: make(map[string]int),
	}

	root.Walk(func(el *xmltree.Element) bool {
		contextRef, ok := el.Attr("contextRef")
		if !ok {
			return true
		}
		qn, err := ParseQualifiedName(el.Name())
		if err != nil {
			log.Printf("[XBRL] skipping fact: %v", err)
			idx.skipped = append(idx.skipped, el.Name())
			return false
		}

		fact := Fact{
			Name:       qn,
			ContextRef: contextRef,
			UnitRef:    el.AttrOr("unitRef", ""),
			Decimals:   parseDecimals(el.AttrOr("decimals", "")),
			Nil:        el.AttrOr(names.xsiNil, "") == "true",
		}
		switch {
		case fact.Nil:
		case len(el.Children) > 0:
			// embedded XHTML rather than escaped markup
			fact.Raw = el.InnerXML()
		default:
			fact.Raw = el.Text()
		}
		fact.Value = resolver.Classify(fact.Raw)
		idx.add(fact)

		// descendants of an item are its content, not further facts
		return false
	})

	return idx
}

func (idx *FactIndex) add(f Fact) {
	if _, seen := idx.byName[f.Name]; !seen {
		idx.names = append(idx.names, f.Name)
		idx.counts[f.Name.Prefix]++
	}
	idx.byName[f.Name] = append(idx.byName[f.Name], len(idx.facts))
	idx.facts = append(idx.facts, f)
}

func parseDecimals(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" || s == "INF" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// FactsFor returns the facts reported under name, in document order.
func (idx *FactIndex) FactsFor(name QualifiedName) []Fact {
	positions := idx.byName[name]
	out := make([]Fact, 0, len(positions))
	for _, i := range positions {
		out = append(out, idx.facts[i])
	}
	return out
}

// FactsWithPrefix returns every fact whose name has the given prefix, in document order.
func (idx *FactIndex) FactsWithPrefix(prefix string) []Fact {
	var out []Fact
	for _, f := range idx.facts {
		if f.Name.Prefix == prefix {
			out = append(out, f)
		}
	}
	return out
}

// CountDistinctNamesWithPrefix counts qualified names with the given prefix.
// A name reported many times counts once.
func (idx *FactIndex) CountDistinctNamesWithPrefix(prefix string) int {
	return idx.counts[prefix]
}

// Names returns the qualified names in first-seen order.
func (idx *FactIndex) Names() []QualifiedName {
	out := make([]QualifiedName, len(idx.names))
	copy(out, idx.names)
	return out
}

// Facts returns every indexed fact in document order.
func (idx *FactIndex) Facts() []Fact {
	out := make([]Fact, len(idx.facts))
	copy(out, idx.facts)
	return out
}

// Len returns the number of indexed fact occurrences.
func (idx *FactIndex) Len() int {
	return len(idx.facts)
}

// Skipped returns the tag names of occurrences left out because they were not qualified names.
func (idx *FactIndex) Skipped() []string {
	out := make([]string, len(idx.skipped))
	copy(out, idx.skipped)
	return out
}
