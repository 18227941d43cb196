package xbrl

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// HTMLMarker replaces embedded markup content when a value is rendered.
const HTMLMarker = "[HTML]"

// Kind identifies the shape of a TypedValue.
type Kind int

const (
	KindEmpty Kind = iota
	KindHTML
	KindInteger
	KindFloat
	KindBoolean
	KindDate
	KindText
)

var kindNames = [...]string{"empty", "html", "integer", "float", "boolean", "date", "text"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// TypedValue is the classified content of a fact.
type TypedValue interface {
	Kind() Kind
	String() string
}

type (
	// Empty is a nil or empty fact value.
	Empty struct{}
	// HTML stands in for a disclosure text block; the markup itself is not kept.
	HTML struct{}
	// Integer is a whole-number value.
	Integer int64
	// Float is a value written with a decimal point.
	Float float64
	// Boolean is a literal true or false.
	Boolean bool
	// Date is a YYYY-MM-DD calendar date at UTC midnight.
	Date time.Time
	// Text is anything else, kept verbatim.
	Text string
)

func (Empty) Kind() Kind   { return KindEmpty }
func (HTML) Kind() Kind    { return KindHTML }
func (Integer) Kind() Kind { return KindInteger }
func (Float) Kind() Kind   { return KindFloat }
func (Boolean) Kind() Kind { return KindBoolean }
func (Date) Kind() Kind    { return KindDate }
func (Text) Kind() Kind    { return KindText }

func (Empty) String() string     { return "" }
func (HTML) String() string      { return HTMLMarker }
func (v Integer) String() string { return strconv.FormatInt(int64(v), 10) }
func (v Float) String() string   { return strconv.FormatFloat(float64(v), 'f', -1, 64) }
func (v Boolean) String() string { return strconv.FormatBool(bool(v)) }
func (v Date) String() string    { return time.Time(v).Format(dateLayout) }
func (v Text) String() string    { return string(v) }

// Rule is one step of the classification chain. Match reports whether the rule
// claims the raw value and, if so, its typed form.
type Rule struct {
	Name  string
	Match func(raw string) (TypedValue, bool)
}

// DefaultRules returns the classification chain in priority order. Text is the
// fallback after every rule declines and is not part of the chain.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "empty", Match: matchEmpty},
		{Name: "html", Match: matchHTML},
		{Name: "numeric", Match: matchNumeric},
		{Name: "boolean", Match: matchBoolean},
		{Name: "date", Match: matchDate},
	}
}

// FallbackRule names the rule reported by Resolve when no rule matches.
const FallbackRule = "text"

// Resolver classifies raw fact values. It holds no mutable state.
type Resolver struct {
	rules []Rule
}

// NewResolver returns a resolver using DefaultRules.
func NewResolver() *Resolver {
	return NewResolverWithRules(DefaultRules())
}

// NewResolverWithRules returns a resolver applying rules in the given order.
func NewResolverWithRules(rules []Rule) *Resolver {
	r := &Resolver{rules: make([]Rule, len(rules))}
	copy(r.rules, rules)
	return r
}

// Classify returns the typed form of raw. It never fails.
func (r *Resolver) Classify(raw string) TypedValue {
	v, _ := r.Resolve(raw)
	return v
}

// Resolve is Classify that also reports which rule matched.
func (r *Resolver) Resolve(raw string) (TypedValue, string) {
	for _, rule := range r.rules {
		if v, ok := rule.Match(raw); ok {
			return v, rule.Name
		}
	}
	return Text(raw), FallbackRule
}

var defaultResolver = NewResolver()

// Classify classifies raw with the default rule chain.
func Classify(raw string) TypedValue {
	return defaultResolver.Classify(raw)
}

func matchEmpty(raw string) (TypedValue, bool) {
	if raw == "" {
		return Empty{}, true
	}
	return nil, false
}

// matchHTML re-parses the value as an HTML fragment. It is markup when the fragment
// contains at least one element and its extracted text differs from the input.
func matchHTML(raw string) (TypedValue, bool) {
	if !strings.Contains(raw, "<") {
		return nil, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil, false
	}
	if doc.Find("head *, body *").Length() == 0 {
		return nil, false
	}
	if doc.Find("html").Text() == raw {
		return nil, false
	}
	return HTML{}, true
}

// numericLiteral gates the numeric rule. Exponents, thousands separators and
// surrounding whitespace are not accepted and fall through to Text.
var numericLiteral = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$`)

func matchNumeric(raw string) (TypedValue, bool) {
	if !numericLiteral.MatchString(raw) {
		return nil, false
	}
	if strings.Contains(raw, ".") {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return Float(f), true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// out of int64 range
		return nil, false
	}
	return Integer(n), true
}

func matchBoolean(raw string) (TypedValue, bool) {
	switch raw {
	case "true":
		return Boolean(true), true
	case "false":
		return Boolean(false), true
	}
	return nil, false
}

func matchDate(raw string) (TypedValue, bool) {
	if len(raw) != len(dateLayout) {
		return nil, false
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, false
	}
	return Date(t), true
}
