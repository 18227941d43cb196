package listing

import (
	"bytes"
	"strings"
	"testing"

	"edinet_xbrl/pkg/core/xbrl"
)

const instance = `<xbrli:xbrl xmlns:xbrli="http://www.xbrl.org/2003/instance" xmlns:jppfs_cor="urn:jppfs" xmlns:jpcrp_cor="urn:jpcrp">
<xbrli:context id="CurrentYearInstant">
  <xbrli:entity><xbrli:identifier scheme="http://disclosure.edinet-fsa.go.jp">E04837-000</xbrli:identifier></xbrli:entity>
  <xbrli:period><xbrli:instant>2021-03-31</xbrli:instant></xbrli:period>
</xbrli:context>
<xbrli:context id="PriorYearDuration">
  <xbrli:period><xbrli:startDate>2020-04-01</xbrli:startDate><xbrli:endDate>2021-03-31</xbrli:endDate></xbrli:period>
</xbrli:context>
<jppfs_cor:Assets contextRef="CurrentYearInstant" unitRef="JPY" decimals="-3">12345000</jppfs_cor:Assets>
<jpcrp_cor:PolicyTextBlock contextRef="PriorYearDuration">&lt;p&gt;Hello&lt;/p&gt;</jpcrp_cor:PolicyTextBlock>
<jppfs_cor:Assets contextRef="PriorYearDuration" unitRef="JPY" decimals="-3">100</jppfs_cor:Assets>
</xbrli:xbrl>`

func load(t *testing.T) *xbrl.Document {
	t.Helper()
	doc, err := xbrl.Load(strings.NewReader(instance))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return doc
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, load(t)); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	want := "[taxonomies]\n" +
		"jpcrp_cor\tCorporate disclosure (jpcrp)\t1\n" +
		"jppfs_cor\tJapanese GAAP financial statements (jppfs)\t1\n" +
		"xbrli\tXBRL instance\t0\n" +
		"[contexts]\n" +
		"CurrentYearInstant\tinstant 2021-03-31\n" +
		"    http://disclosure.edinet-fsa.go.jp E04837-000\n" +
		"PriorYearDuration\tduration 2020-04-01..2021-03-31\n" +
		"[facts]\n" +
		"jppfs_cor:Assets\n" +
		"    CurrentYearInstant 12345000 JPY -3\n" +
		"    PriorYearDuration 100 JPY -3\n" +
		"jpcrp_cor:PolicyTextBlock\n" +
		"    PriorYearDuration [HTML] - -\n"

	if got := buf.String(); got != want {
		t.Errorf("WriteText mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteText_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := WriteText(&a, load(t)); err != nil {
		t.Fatal(err)
	}
	if err := WriteText(&b, load(t)); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("two renderings of the same document differ")
	}
}

func TestWriteMarkdownAndHTML(t *testing.T) {
	doc := load(t)

	var md bytes.Buffer
	if err := Render(&md, doc, FormatMarkdown); err != nil {
		t.Fatalf("markdown failed: %v", err)
	}
	if !strings.Contains(md.String(), "| jppfs_cor:Assets | CurrentYearInstant | 12345000 | JPY | -3 |") {
		t.Errorf("markdown missing fact row:\n%s", md.String())
	}

	var html bytes.Buffer
	if err := Render(&html, doc, FormatHTML); err != nil {
		t.Fatalf("html failed: %v", err)
	}
	out := html.String()
	if !strings.Contains(out, "<table>") || !strings.Contains(out, "<td>jppfs_cor:Assets</td>") {
		t.Errorf("html output missing table:\n%s", out)
	}
	if strings.Contains(out, "<p>Hello</p>") {
		t.Error("embedded markup leaked into the html listing")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"Markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{"html", FormatHTML, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
