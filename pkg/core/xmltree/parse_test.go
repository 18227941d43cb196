package xmltree

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleInstance = `<?xml version="1.0" encoding="UTF-8"?>
<xbrli:xbrl xmlns:xbrli="http://www.xbrl.org/2003/instance" xmlns:jppfs_cor="http://disclosure.edinet-fsa.go.jp/taxonomy/jppfs/2020-11-01/jppfs_cor">
  <xbrli:context id="CurrentYearInstant">
    <xbrli:period><xbrli:instant>2021-03-31</xbrli:instant></xbrli:period>
  </xbrli:context>
  <jppfs_cor:Assets contextRef="CurrentYearInstant" unitRef="JPY" decimals="-3">12345000</jppfs_cor:Assets>
  <jppfs_cor:Note contextRef="CurrentYearInstant">&lt;p&gt;Hello&lt;/p&gt;</jppfs_cor:Note>
</xbrli:xbrl>`

func TestParse_PreservesPrefixes(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleInstance))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if doc.Root.Name() != "xbrli:xbrl" {
		t.Errorf("root name = %q, want xbrli:xbrl", doc.Root.Name())
	}

	ctx := doc.Root.Find("xbrli:context")
	if ctx == nil {
		t.Fatal("expected xbrli:context")
	}
	if id, _ := ctx.Attr("id"); id != "CurrentYearInstant" {
		t.Errorf("context id = %q", id)
	}
	if instant := ctx.Find("xbrli:instant"); instant == nil || instant.Text() != "2021-03-31" {
		t.Errorf("instant not found or wrong text")
	}

	assets := doc.Root.Find("jppfs_cor:Assets")
	if assets == nil {
		t.Fatal("expected jppfs_cor:Assets")
	}
	if v := assets.AttrOr("decimals", ""); v != "-3" {
		t.Errorf("decimals = %q, want -3", v)
	}
	if assets.Parent != doc.Root {
		t.Error("Assets parent should be the root")
	}
}

func TestParse_DecodesEscapedMarkup(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleInstance))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	note := doc.Root.Find("jppfs_cor:Note")
	if note == nil {
		t.Fatal("expected jppfs_cor:Note")
	}
	if got := note.Text(); got != "<p>Hello</p>" {
		t.Errorf("Text() = %q, want <p>Hello</p>", got)
	}
}

func TestRootNamespaces(t *testing.T) {
	doc, err := Parse(strings.NewReader(sampleInstance))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ns := doc.Root.Namespaces()
	if len(ns) != 2 {
		t.Fatalf("expected 2 namespaces, got %d", len(ns))
	}
	if ns[0].Prefix != "xbrli" || ns[1].Prefix != "jppfs_cor" {
		t.Errorf("unexpected namespace order: %+v", ns)
	}
	prefix, ok := doc.Root.Find("jppfs_cor:Assets").LookupPrefix("http://www.xbrl.org/2003/instance")
	if !ok || prefix != "xbrli" {
		t.Errorf("LookupPrefix = %q, %v", prefix, ok)
	}
}

func TestFindAll_DocumentOrder(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<r><a:x n="1"/><b><a:x n="2"><a:x n="3"/></a:x></b><a:x n="4"/></r>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var got []string
	for _, el := range doc.Root.FindAll("a:x") {
		got = append(got, el.AttrOr("n", "?"))
	}
	if strings.Join(got, ",") != "1,2,3,4" {
		t.Errorf("FindAll order = %v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unclosed", "<a><b></b>"},
		{"mismatched", "<a><b></a></b>"},
		{"text after root", "<a/>trailing"},
		{"second root", "<a/><b/>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "public.xbrl")
	if err := os.WriteFile(path, []byte(sampleInstance), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if doc.Root.Local != "xbrl" {
		t.Errorf("root local = %q", doc.Root.Local)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.xbrl")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_ShiftJIS(t *testing.T) {
	input := []byte("<?xml version=\"1.0\" encoding=\"Shift_JIS\"?><a>\x8e\x91\x8e\x59</a>")
	doc, err := Parse(strings.NewReader(string(input)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := doc.Root.Text(); got != "資産" {
		t.Errorf("Text() = %q, want 資産", got)
	}
}

func TestInnerXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{"text only", `<r>a &amp; b</r>`, `a &amp; b`},
		{"mixed content", `<r>x<b k="1&amp;2">y</b>z<c/>w</r>`, `x<b k="1&amp;2">y</b>z<c/>w`},
		{"escaped markup stays escaped", `<r>&lt;p&gt;<i>t</i></r>`, `&lt;p&gt;<i>t</i>`},
		{"prefixes kept", `<r xmlns:h="urn:h"><h:p h:class="c">t</h:p></r>`, `<h:p h:class="c">t</h:p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(tt.xml))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := doc.Root.InnerXML(); got != tt.want {
				t.Errorf("InnerXML() = %q, want %q", got, tt.want)
			}
		})
	}
}
