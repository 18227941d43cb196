package xbrl

import (
	"strings"

	"edinet_xbrl/pkg/core/xmltree"
)

// Unit is a unit of measure declared in the instance, e.g. JPY or JPY/shares.
type Unit struct {
	ID          string   `json:"id"`
	Numerator   []string `json:"numerator"`
	Denominator []string `json:"denominator,omitempty"`
}

func (u Unit) String() string {
	s := strings.Join(u.Numerator, "*")
	if len(u.Denominator) > 0 {
		s += "/" + strings.Join(u.Denominator, "*")
	}
	return s
}

// ExtractUnits reads every unit declaration in document order.
func ExtractUnits(root *xmltree.Element) []Unit {
	names := resolveNames(root)
	var units []Unit
	for _, node := range root.FindAll(names.unit) {
		u := Unit{ID: node.AttrOr("id", "")}
		if div := node.Child(names.divide); div != nil {
			u.Numerator = measures(div.Child(names.numer), names)
			u.Denominator = measures(div.Child(names.denom), names)
		} else {
			u.Numerator = measures(node, names)
		}
		units = append(units, u)
	}
	return units
}

func measures(parent *xmltree.Element, names instanceNames) []string {
	if parent == nil {
		return nil
	}
	var out []string
	for _, m := range parent.Children {
		if m.Name() == names.measure {
			out = append(out, strings.TrimSpace(m.Text()))
		}
	}
	return out
}
