package xbrl

import "time"

// Snapshot is a JSON-friendly projection of a Document.
type Snapshot struct {
	Source     string          `json:"source,omitempty"`
	Taxonomies []Taxonomy      `json:"taxonomies"`
	Contexts   []ContextRecord `json:"contexts"`
	Units      []Unit          `json:"units,omitempty"`
	Facts      []FactRecord    `json:"facts"`
}

// ContextRecord flattens a Context. PeriodType is "instant" or "duration".
type ContextRecord struct {
	ID         string           `json:"id"`
	PeriodType string           `json:"period_type"`
	Instant    string           `json:"instant,omitempty"`
	Start      string           `json:"start,omitempty"`
	End        string           `json:"end,omitempty"`
	Entity     *Entity          `json:"entity,omitempty"`
	Members    []ExplicitMember `json:"members,omitempty"`
}

// FactRecord flattens a Fact. Value is the rendered typed value; HTML content is redacted.
type FactRecord struct {
	Name       string `json:"name"`
	ContextRef string `json:"context_ref"`
	UnitRef    string `json:"unit_ref,omitempty"`
	Decimals   *int   `json:"decimals,omitempty"`
	Nil        bool   `json:"nil,omitempty"`
	Kind       string `json:"kind"`
	Value      string `json:"value"`
}

// Snapshot projects the document for serialization.
func (d *Document) Snapshot() *Snapshot {
	s := &Snapshot{
		Source:     d.source,
		Taxonomies: d.Taxonomies(),
		Units:      d.Units(),
	}
	for _, ctx := range d.contexts.All() {
		s.Contexts = append(s.Contexts, NewContextRecord(ctx))
	}
	for _, f := range d.index.facts {
		s.Facts = append(s.Facts, FactRecord{
			Name:       f.Name.String(),
			ContextRef: f.ContextRef,
			UnitRef:    f.UnitRef,
			Decimals:   f.Decimals,
			Nil:        f.Nil,
			Kind:       f.Value.Kind().String(),
			Value:      f.Value.String(),
		})
	}
	return s
}

// NewContextRecord flattens ctx.
func NewContextRecord(ctx Context) ContextRecord {
	rec := ContextRecord{ID: ctx.ID, Entity: ctx.Entity, Members: ctx.Members}
	switch p := ctx.Period.(type) {
	case Instant:
		rec.PeriodType = "instant"
		rec.Instant = formatDate(p.At)
	case Duration:
		rec.PeriodType = "duration"
		rec.Start = formatDate(p.Start)
		rec.End = formatDate(p.End)
	}
	return rec
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}
