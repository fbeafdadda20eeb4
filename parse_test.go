// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import (
	"strings"
	"testing"
)

// dump renders n's subtree as an indented outline, one node per line,
// for use in test failure messages and coarse structural comparisons.
func dump(n *Node) string {
	var b strings.Builder
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		switch n.Type {
		case DocumentNode, DocumentFragmentNode:
			// no line of its own; just recurse
		case ElementNode:
			b.WriteString(strings.Repeat("  ", depth))
			if n.Namespace != "" {
				b.WriteString(n.Namespace)
				b.WriteString(":")
			}
			b.WriteString(n.Data)
			b.WriteString("\n")
		case TextNode:
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString(`"`)
			b.WriteString(n.Data)
			b.WriteString("\"\n")
		case CommentNode:
			b.WriteString(strings.Repeat("  ", depth))
			b.WriteString("<!-- ")
			b.WriteString(n.Data)
			b.WriteString(" -->\n")
		}
		next := depth
		if n.Type == ElementNode || n.Type == TextNode {
			next = depth + 1
		}
		for _, c := range n.Child {
			walk(c, next)
		}
		if n.Type == ElementNode && n.Data == "template" && n.TemplateContent != nil {
			b.WriteString(strings.Repeat("  ", next))
			b.WriteString("#content\n")
			for _, c := range n.TemplateContent.Child {
				walk(c, next+1)
			}
		}
	}
	walk(n, 0)
	return b.String()
}

// findElement returns the first descendant element named name, or nil.
func findElement(n *Node, name string) *Node {
	if n.Type == ElementNode && n.Data == name {
		return n
	}
	for _, c := range n.Child {
		if r := findElement(c, name); r != nil {
			return r
		}
	}
	return nil
}

func findAllElements(n *Node, name string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(m *Node) {
		if m.IsElement(name) {
			out = append(out, m)
		}
		for _, c := range m.Child {
			walk(c)
		}
	}
	walk(n)
	return out
}

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	doc, err := ParseString(src, Options{})
	if err != nil {
		t.Fatalf("ParseString(%q): %v", src, err)
	}
	return doc
}

// TestParseImplicitStructure is scenario S1: a bare <p> fragment gets
// the implied html/head/body skeleton.
func TestParseImplicitStructure(t *testing.T) {
	doc := mustParse(t, "<p>Hello</p>")
	html := findElement(doc, "html")
	if html == nil {
		t.Fatal("no <html> element")
	}
	head := findElement(html, "head")
	body := findElement(html, "body")
	if head == nil || body == nil {
		t.Fatalf("missing head/body: %s", dump(doc))
	}
	p := findElement(body, "p")
	if p == nil {
		t.Fatalf("missing <p>: %s", dump(doc))
	}
	if got := p.TextContent(); got != "Hello" {
		t.Errorf("p text = %q, want %q", got, "Hello")
	}
}

// TestParseAdoptionAgency is scenario S2: the adoption agency algorithm
// reconstructs <b> into the second <p>.
func TestParseAdoptionAgency(t *testing.T) {
	doc := mustParse(t, "<p><b>1<p>2</b>3")
	body := findElement(doc, "body")
	ps := findAllElements(body, "p")
	if len(ps) != 2 {
		t.Fatalf("got %d <p> elements, want 2: %s", len(ps), dump(doc))
	}
	b1 := findElement(ps[0], "b")
	if b1 == nil || b1.TextContent() != "1" {
		t.Fatalf("first <p>'s <b> = %v: %s", b1, dump(doc))
	}
	b2 := findElement(ps[1], "b")
	if b2 == nil || b2.TextContent() != "2" {
		t.Fatalf("second <p>'s <b> = %v, want text \"2\": %s", b2, dump(doc))
	}
	// "3" should be a bare text sibling of <b> inside the second <p>,
	// not nested inside it.
	var trailing string
	for _, c := range ps[1].Child {
		if c.Type == TextNode {
			trailing += c.Data
		}
	}
	if trailing != "3" {
		t.Errorf("second <p> trailing text = %q, want %q: %s", trailing, "3", dump(doc))
	}
}

// TestParseFosterParenting is scenario S3: table-invalid content is
// foster-parented out before the table rather than nested inside it.
func TestParseFosterParenting(t *testing.T) {
	doc := mustParse(t, "<table><div>x</div><tr><td>y</td></tr></table>")
	body := findElement(doc, "body")
	if len(body.Child) < 2 {
		t.Fatalf("body has %d children, want at least 2: %s", len(body.Child), dump(doc))
	}
	div := findElement(body, "div")
	table := findElement(body, "table")
	if div == nil || table == nil {
		t.Fatalf("missing div/table: %s", dump(doc))
	}
	if div.Parent != table.Parent {
		t.Errorf("div and table should be siblings, div parent=%v table parent=%v", div.Parent, table.Parent)
	}
	tdIdx, divIdx := -1, -1
	for i, c := range body.Child {
		if c == div {
			divIdx = i
		}
		if c == table {
			tdIdx = i
		}
	}
	if !(divIdx < tdIdx) {
		t.Errorf("div (index %d) should precede table (index %d)", divIdx, tdIdx)
	}
	td := findElement(table, "td")
	if td == nil || td.TextContent() != "y" {
		t.Fatalf("table/td = %v: %s", td, dump(doc))
	}
	tbody := findElement(table, "tbody")
	if tbody == nil {
		t.Errorf("table is missing an implied <tbody>: %s", dump(doc))
	}
}

// TestParseForeignContent is scenario S4: SVG integration points keep
// HTML content inside the foreign subtree, while unknown foreign
// context lets breakout tags escape back to HTML.
func TestParseForeignContent(t *testing.T) {
	doc := mustParse(t, "<svg><foreignObject><p>x</p></foreignObject></svg>")
	svg := findElement(doc, "svg")
	if svg == nil || svg.Namespace != NamespaceSVG {
		t.Fatalf("missing svg element: %s", dump(doc))
	}
	p := findElement(svg, "p")
	if p == nil || p.Namespace != NamespaceHTML {
		t.Fatalf("p inside foreignObject should be HTML namespace: %s", dump(doc))
	}

	doc2 := mustParse(t, "<svg>x<p>y</svg>")
	body := findElement(doc2, "body")
	svg2 := findElement(body, "svg")
	p2 := findElement(body, "p")
	if svg2 == nil || p2 == nil {
		t.Fatalf("missing svg/p: %s", dump(doc2))
	}
	if p2.Parent != svg2.Parent {
		t.Errorf("breakout <p> should be a sibling of <svg>, not nested inside it: %s", dump(doc2))
	}
}

// TestParseTemplateContent is scenario S5: a <template>'s children land
// in its detached content fragment, not as regular DOM children.
func TestParseTemplateContent(t *testing.T) {
	doc := mustParse(t, "<template><tr><td>x</td></tr></template>")
	tmpl := findElement(doc, "template")
	if tmpl == nil {
		t.Fatalf("missing <template>: %s", dump(doc))
	}
	if len(tmpl.Child) != 0 {
		t.Errorf("template should have no regular children, got %d: %s", len(tmpl.Child), dump(doc))
	}
	if tmpl.TemplateContent == nil {
		t.Fatal("template has no content fragment")
	}
	tr := findElement(tmpl.TemplateContent, "tr")
	td := findElement(tmpl.TemplateContent, "td")
	if tr == nil || td == nil || td.TextContent() != "x" {
		t.Fatalf("template content = %s", dump(tmpl.TemplateContent))
	}
}

// TestParseCharacterReferences is scenario S6: named and numeric
// character references decode in text, with the out-of-range code
// point remapped to U+FFFD.
func TestParseCharacterReferences(t *testing.T) {
	doc := mustParse(t, "<p>&copy; &notin; &#x41; &#x110000;</p>")
	p := findElement(doc, "p")
	if p == nil {
		t.Fatal("missing <p>")
	}
	want := "© ∉ A �"
	if got := p.TextContent(); got != want {
		t.Errorf("text content = %q, want %q", got, want)
	}
}

func TestParseQuirksModeFromDoctype(t *testing.T) {
	doc, err := ParseString("<!DOCTYPE html><p>x</p>", Options{})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Child[0].Type != DoctypeNode {
		t.Fatalf("first child = %+v, want doctype", doc.Child[0])
	}
}

func TestParseFragment(t *testing.T) {
	context := &Node{Type: ElementNode, Data: "div", Namespace: NamespaceHTML}
	nodes, err := ParseFragmentBytes([]byte("<p>x</p><p>y</p>"), context, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d top-level nodes, want 2", len(nodes))
	}
	if nodes[0].Data != "p" || nodes[1].Data != "p" {
		t.Fatalf("nodes = %+v", nodes)
	}
}

func TestRenderRoundTrip(t *testing.T) {
	doc := mustParse(t, "<p>a &amp; b</p>")
	got, err := RenderString(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "<p>a &amp; b</p>") {
		t.Errorf("rendered = %q, want it to contain %q", got, "<p>a &amp; b</p>")
	}
}

func TestParseCollectsErrors(t *testing.T) {
	var errs []ParseError
	doc, err := ParseString("<p id=1 id=2>", Options{CollectErrors: true, Errors: &errs})
	if err != nil {
		t.Fatal(err)
	}
	_ = doc
	if len(errs) == 0 {
		t.Error("expected at least one recorded error for a duplicate attribute")
	}
}

func TestParseStrictAbortsOnFirstError(t *testing.T) {
	doc, err := ParseString("<p id=1 id=2>", Options{Strict: true})
	if err == nil {
		t.Fatal("expected an error in strict mode")
	}
	if doc != nil {
		t.Errorf("expected a nil tree on strict failure, got %v", doc)
	}
	if _, ok := err.(*ParseError); !ok {
		t.Errorf("err = %T, want *ParseError", err)
	}
}

func TestParseXMLCoercion(t *testing.T) {
	doc, err := ParseString("<p>x</p>", Options{XMLCoercion: true})
	if err != nil {
		t.Fatal(err)
	}
	// A document with no form feeds or noncharacters in its names is
	// left byte-for-byte unchanged by coercion.
	p := findElement(doc, "p")
	if p == nil || p.Data != "p" {
		t.Fatalf("got %v", p)
	}
}
