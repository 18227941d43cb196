package taxonomy

import (
	"strings"

	"edinet_xbrl/pkg/core/xmltree"
)

// StandardLabelRole is the default label role.
const StandardLabelRole = "http://www.xbrl.org/2003/role/label"

// Label is one concept label from a label linkbase.
type Label struct {
	Lang string `json:"lang"`
	Role string `json:"role"`
	Text string `json:"text"`
}

// labelSet maps concept id to its labels.
type labelSet map[string][]Label

func (s labelSet) load(path string) error {
	tree, err := xmltree.ParseFile(path)
	if err != nil {
		return err
	}
	root := tree.Root
	link := lookup(root, linkbaseNamespace, "link")
	xlink := lookup(root, xlinkNamespace, "xlink")
	attr := func(el *xmltree.Element, local string) string {
		return el.AttrOr(xmltree.Qualify(xlink, local), "")
	}

	for _, lnk := range root.FindAll(xmltree.Qualify(link, "labelLink")) {
		concepts := map[string]string{} // locator label -> concept id
		labels := map[string][]Label{}  // resource label -> labels

		for _, el := range lnk.Children {
			switch el.Name() {
			case xmltree.Qualify(link, "loc"):
				href := attr(el, "href")
				if i := strings.LastIndex(href, "#"); i >= 0 {
					concepts[attr(el, "label")] = href[i+1:]
				}
			case xmltree.Qualify(link, "label"):
				key := attr(el, "label")
				labels[key] = append(labels[key], Label{
					Lang: el.AttrOr("xml:lang", ""),
					Role: attr(el, "role"),
					Text: strings.TrimSpace(el.Text()),
				})
			}
		}

		for _, arc := range lnk.Children {
			if arc.Name() != xmltree.Qualify(link, "labelArc") {
				continue
			}
			id, ok := concepts[attr(arc, "from")]
			if !ok {
				continue
			}
			s[id] = append(s[id], labels[attr(arc, "to")]...)
		}
	}
	return nil
}

// Label returns the label of concept id in lang, preferring the standard role.
func (r *Reference) Label(id, lang string) (string, bool) {
	var fallback string
	found := false
	for _, l := range r.labels[id] {
		if l.Lang != lang {
			continue
		}
		if l.Role == StandardLabelRole || l.Role == "" {
			return l.Text, true
		}
		if !found {
			fallback, found = l.Text, true
		}
	}
	return fallback, found
}

// Labels returns every label of concept id.
func (r *Reference) Labels(id string) []Label {
	out := make([]Label, len(r.labels[id]))
	copy(out, r.labels[id])
	return out
}
