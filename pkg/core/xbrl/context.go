package xbrl

import (
	"fmt"
	"strings"
	"time"

	"edinet_xbrl/pkg/core/xmltree"
)

// Namespaces the registry resolves prefixes for. Documents that bind them to other
// prefixes are still read correctly.
const (
	InstanceNamespace  = "http://www.xbrl.org/2003/instance"
	DimensionNamespace = "http://xbrl.org/2006/xbrldi"
	XSINamespace       = "http://www.w3.org/2001/XMLSchema-instance"
)

const dateLayout = "2006-01-02"

// Period is either a Duration or an Instant.
type Period interface {
	isPeriod()
	String() string
}

// Duration is a reporting period between two calendar dates.
type Duration struct {
	Start time.Time
	End   time.Time
}

// Instant is a point-in-time reporting period.
type Instant struct {
	At time.Time
}

func (Duration) isPeriod() {}
func (Instant) isPeriod() {}

func (d Duration) String() string {
	return fmt.Sprintf("duration %s..%s", d.Start.Format(dateLayout), d.End.Format(dateLayout))
}

func (i Instant) String() string {
	return "instant " + i.At.Format(dateLayout)
}

// Entity is the reporting entity identifier of a context.
type Entity struct {
	Scheme string `json:"scheme"`
	Value  string `json:"value"`
}

// ExplicitMember is one dimension/member pair from a context segment or scenario.
type ExplicitMember struct {
	Dimension string `json:"dimension"`
	Member    string `json:"member"`
}

// Context is a named reporting scope.
type Context struct {
	ID      string
	Period  Period
	Entity  *Entity
	Members []ExplicitMember
}

// instanceNames holds qualified tag names for the prefix the document binds to the
// XBRL instance namespace.
type instanceNames struct {
	context, entity, identifier, period string
	startDate, endDate, instant         string
	unit, measure, divide, numer, denom string
	explicitMember, xsiNil              string
}

func resolveNames(root *xmltree.Element) instanceNames {
	x := prefixFor(root, InstanceNamespace, "xbrli")
	d := prefixFor(root, DimensionNamespace, "xbrldi")
	xsi := prefixFor(root, XSINamespace, "xsi")
	q := xmltree.Qualify
	return instanceNames{
		context:        q(x, "context"),
		entity:         q(x, "entity"),
		identifier:     q(x, "identifier"),
		period:         q(x, "period"),
		startDate:      q(x, "startDate"),
		endDate:        q(x, "endDate"),
		instant:        q(x, "instant"),
		unit:           q(x, "unit"),
		measure:        q(x, "measure"),
		divide:         q(x, "divide"),
		numer:          q(x, "unitNumerator"),
		denom:          q(x, "unitDenominator"),
		explicitMember: q(d, "explicitMember"),
		xsiNil:         q(xsi, "nil"),
	}
}

func prefixFor(root *xmltree.Element, uri, fallback string) string {
	if prefix, ok := root.LookupPrefix(uri); ok {
		return prefix
	}
	return fallback
}

// ExtractContexts reads every context in document order. The first malformed or
// duplicate context aborts extraction with a *ContextError.
func ExtractContexts(root *xmltree.Element) ([]Context, error) {
	names := resolveNames(root)
	nodes := root.FindAll(names.context)

	contexts := make([]Context, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		ctx, err := parseContext(node, names)
		if err != nil {
			return nil, err
		}
		if seen[ctx.ID] {
			return nil, &ContextError{ID: ctx.ID, Reason: "id already defined", Kind: ErrDuplicateContext}
		}
		seen[ctx.ID] = true
		contexts = append(contexts, ctx)
	}
	return contexts, nil
}

func parseContext(node *xmltree.Element, names instanceNames) (Context, error) {
	id := strings.TrimSpace(node.AttrOr("id", ""))
	if id == "" {
		return Context{}, malformed(id, "missing id attribute", nil)
	}

	period := node.Find(names.period)
	if period == nil {
		return Context{}, malformed(id, "missing period", nil)
	}

	ctx := Context{ID: id}

	start, end := period.Find(names.startDate), period.Find(names.endDate)
	instant := period.Find(names.instant)
	switch {
	case start != nil && end != nil:
		s, err := parseDate(start.Text())
		if err != nil {
			return Context{}, malformed(id, "invalid startDate", err)
		}
		e, err := parseDate(end.Text())
		if err != nil {
			return Context{}, malformed(id, "invalid endDate", err)
		}
		if e.Before(s) {
			return Context{}, malformed(id, "startDate after endDate", nil)
		}
		ctx.Period = Duration{Start: s, End: e}
	case instant != nil:
		at, err := parseDate(instant.Text())
		if err != nil {
			return Context{}, malformed(id, "invalid instant", err)
		}
		ctx.Period = Instant{At: at}
	default:
		return Context{}, malformed(id, "period has neither startDate/endDate nor instant", nil)
	}

	if entity := node.Find(names.entity); entity != nil {
		if ident := entity.Find(names.identifier); ident != nil {
			ctx.Entity = &Entity{
				Scheme: ident.AttrOr("scheme", ""),
				Value:  strings.TrimSpace(ident.Text()),
			}
		}
	}

	for _, m := range node.FindAll(names.explicitMember) {
		ctx.Members = append(ctx.Members, ExplicitMember{
			Dimension: m.AttrOr("dimension", ""),
			Member:    strings.TrimSpace(m.Text()),
		})
	}

	return ctx, nil
}

func parseDate(text string) (time.Time, error) {
	return time.Parse(dateLayout, strings.TrimSpace(text))
}

// Registry is the read-only set of contexts of one document.
type Registry struct {
	contexts []Context
	byID     map[string]int
}

// NewRegistry indexes contexts by id. Duplicate ids are rejected.
func NewRegistry(contexts []Context) (*Registry, error) {
	r := &Registry{
		contexts: make([]Context, len(contexts)),
		byID:     make(map[string]int, len(contexts)),
	}
	copy(r.contexts, contexts)
	for i, ctx := range r.contexts {
		if _, dup := r.byID[ctx.ID]; dup {
			return nil, &ContextError{ID: ctx.ID, Reason: "id already defined", Kind: ErrDuplicateContext}
		}
		r.byID[ctx.ID] = i
	}
	return r, nil
}

// Lookup returns the context with the given id.
func (r *Registry) Lookup(id string) (Context, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Context{}, false
	}
	return r.contexts[i], true
}

// All returns the contexts in document order.
func (r *Registry) All() []Context {
	out := make([]Context, len(r.contexts))
	copy(out, r.contexts)
	return out
}

// Len returns the number of contexts.
func (r *Registry) Len() int {
	return len(r.contexts)
}
