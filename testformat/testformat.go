// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testformat implements the html5lib-style ".dat" test format: a
// plain-text fixture with a "#data" section (the HTML source), an
// optional "#errors" section (one expected parse error per line), and a
// "#document" section (an indented tree dump). It lets table-driven
// tests compare a parsed tree against a fixture instead of
// hand-building the expected *Node graph; package html's own tests do
// not use it.
package testformat

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/justhtml/html5"
)

// A Case is one parsed ".dat" fixture.
type Case struct {
	Data     string   // the #data section, verbatim
	Errors   []string // the #errors section, one entry per line
	Document string   // the #document section, verbatim (trailing newline trimmed)
}

// Parse splits the contents of a ".dat" file into its component Cases.
// Cases are separated by a line containing exactly "#data".
func Parse(s string) ([]Case, error) {
	lines := strings.Split(s, "\n")
	var cases []Case
	i := 0
	for i < len(lines) {
		if strings.TrimRight(lines[i], "\r") != "#data" {
			i++
			continue
		}
		i++
		var c Case
		var data, errs, doc []string
		section := "data"
		for i < len(lines) {
			line := strings.TrimRight(lines[i], "\r")
			if line == "#data" {
				break
			}
			switch line {
			case "#errors":
				section = "errors"
				i++
				continue
			case "#document":
				section = "document"
				i++
				continue
			}
			switch section {
			case "data":
				data = append(data, line)
			case "errors":
				if line != "" {
					errs = append(errs, line)
				}
			case "document":
				doc = append(doc, line)
			}
			i++
		}
		c.Data = strings.TrimRight(strings.Join(data, "\n"), "\n")
		c.Errors = errs
		c.Document = strings.TrimRight(strings.Join(doc, "\n"), "\n")
		cases = append(cases, c)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("testformat: no #data sections found")
	}
	return cases, nil
}

// Dump renders n (typically a *html.Node of type DocumentNode or
// DocumentFragmentNode) to the indented "#document" tree format: each
// level of depth adds two spaces after a leading "| ", elements are
// rendered as "<name>" with one "attr=\"val\"" line per attribute
// (sorted ascending by attribute name, as html5lib-tests expects), text
// nodes as a quoted string, comments as "<!-- data -->",
// and doctypes as "<!DOCTYPE name>".
func Dump(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node, depth int)
	walk = func(n *html.Node, depth int) {
		for _, c := range n.Child {
			dumpNode(&b, c, depth)
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return strings.TrimRight(b.String(), "\n")
}

func dumpNode(b *strings.Builder, n *html.Node, depth int) {
	indent := "| " + strings.Repeat("  ", depth)
	switch n.Type {
	case html.ElementNode:
		b.WriteString(indent)
		if n.Namespace != html.NamespaceHTML {
			b.WriteString(n.Namespace)
			b.WriteByte(' ')
		}
		b.WriteByte('<')
		b.WriteString(n.Data)
		b.WriteString(">\n")
		attrName := func(a html.Attribute) string {
			if a.Namespace == "" {
				return a.Key
			}
			return a.Namespace + " " + a.Key
		}
		attrs := append([]html.Attribute(nil), n.Attr...)
		sort.Slice(attrs, func(i, j int) bool { return attrName(attrs[i]) < attrName(attrs[j]) })
		for _, a := range attrs {
			b.WriteString(indent)
			b.WriteString("  ")
			if a.Namespace != "" {
				b.WriteString(a.Namespace)
				b.WriteByte(' ')
			}
			b.WriteString(a.Key)
			b.WriteString(`="`)
			b.WriteString(a.Val)
			b.WriteString("\"\n")
		}
		if n.Data == "template" && n.TemplateContent != nil {
			b.WriteString(indent)
			b.WriteString("  content\n")
			for _, c := range n.TemplateContent.Child {
				dumpNode(b, c, depth+2)
				dumpChildren(b, c, depth+2)
			}
		}
	case html.TextNode:
		b.WriteString(indent)
		b.WriteByte('"')
		b.WriteString(n.Data)
		b.WriteString("\"\n")
	case html.CommentNode:
		b.WriteString(indent)
		b.WriteString("<!-- ")
		b.WriteString(n.Data)
		b.WriteString(" -->\n")
	case html.DoctypeNode:
		b.WriteString(indent)
		b.WriteString("<!DOCTYPE ")
		b.WriteString(n.Data)
		b.WriteString(">\n")
	}
}

func dumpChildren(b *strings.Builder, n *html.Node, depth int) {
	for _, c := range n.Child {
		dumpNode(b, c, depth+1)
		dumpChildren(b, c, depth+1)
	}
}

// FormatErrors renders a slice of html.ParseError as one "offset: code"
// entry per line. html5lib-tests' own #errors section uses "(line,col):
// code"; the offset here is a raw byte count since the core tracks
// ParseError.Offset rather than line/column pairs.
func FormatErrors(errs []html.ParseError) string {
	var b strings.Builder
	for _, e := range errs {
		b.WriteString(strconv.Itoa(e.Offset))
		b.WriteString(": ")
		b.WriteString(string(e.Code))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
