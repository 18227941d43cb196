package xmltree

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"unicode"

	"golang.org/x/net/html/charset"
)

// ParseFile reads and parses the document at path. The file is closed before returning.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// Parse builds the element tree from XML input. Prefixes are preserved as written;
// declared encodings other than UTF-8 (Shift_JIS, EUC-JP, ...) are decoded.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	var stack []*Element
	var root *Element
	rootClosed := false

	for {
		// RawToken keeps the prefix in Name.Space instead of resolving it to a URI.
		tok, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, fmt.Errorf("unexpected element %s after document end", qualify(t.Name.Space, t.Name.Local))
			}
			elem := &Element{
				Prefix: t.Name.Space,
				Local:  t.Name.Local,
				Attrs:  convertAttrs(t.Attr),
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				elem.Parent = parent
				elem.offset = parent.text.Len()
				parent.Children = append(parent.Children, elem)
			} else {
				root = elem
			}
			stack = append(stack, elem)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected end element %s", qualify(t.Name.Space, t.Name.Local))
			}
			top := stack[len(stack)-1]
			if top.Prefix != t.Name.Space || top.Local != t.Name.Local {
				return nil, fmt.Errorf("element %s closed by %s", top.Name(), qualify(t.Name.Space, t.Name.Local))
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				rootClosed = true
			}

		case xml.CharData:
			if len(stack) == 0 {
				if !isIgnorableOutsideRoot(string(t)) {
					return nil, fmt.Errorf("unexpected character data outside root element")
				}
				continue
			}
			stack[len(stack)-1].text.Write(t)
		}
	}

	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("element %s not closed: %w", stack[len(stack)-1].Name(), io.ErrUnexpectedEOF)
	}

	return &Document{Root: root}, nil
}

func isIgnorableOutsideRoot(data string) bool {
	for _, r := range data {
		if r == '\uFEFF' {
			continue
		}
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

func convertAttrs(xmlAttrs []xml.Attr) []Attr {
	attrs := make([]Attr, 0, len(xmlAttrs))
	for _, a := range xmlAttrs {
		attrs = append(attrs, Attr{
			Prefix: a.Name.Space,
			Local:  a.Name.Local,
			Value:  a.Value,
		})
	}
	return attrs
}
