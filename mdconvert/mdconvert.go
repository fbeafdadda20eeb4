// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mdconvert renders a parsed HTML tree to Markdown, covering the
// common block and inline element set: headings, paragraphs, lists,
// blockquotes, links, images, emphasis/strong, and inline/fenced code.
// Anything it doesn't recognize is rendered as its text content, so
// conversion never loses prose even for elements it doesn't special-case.
package mdconvert

import (
	"io"
	"strconv"
	"strings"

	"github.com/justhtml/html5"
)

// Convert renders the subtree rooted at n to Markdown and writes it to w.
func Convert(w io.Writer, n *html.Node) error {
	c := &converter{w: w}
	c.block(n)
	c.flushParagraph()
	return c.err
}

// ConvertString is a convenience wrapper around Convert for callers that
// want a string rather than an io.Writer.
func ConvertString(n *html.Node) (string, error) {
	var b strings.Builder
	if err := Convert(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

type converter struct {
	w         io.Writer
	err       error
	para      strings.Builder
	listDepth int
	ordinal   []int // per-depth counter for ordered lists
}

func (c *converter) write(s string) {
	if c.err != nil {
		return
	}
	_, c.err = io.WriteString(c.w, s)
}

// flushParagraph emits any buffered inline text as its own paragraph,
// separated from the surrounding blocks by a blank line.
func (c *converter) flushParagraph() {
	s := strings.TrimSpace(c.para.String())
	c.para.Reset()
	if s == "" {
		return
	}
	c.write(s)
	c.write("\n\n")
}

// block walks n's children, dispatching block-level elements to their
// own renderer and accumulating inline content into the paragraph
// buffer.
func (c *converter) block(n *html.Node) {
	for _, ch := range n.Child {
		c.blockNode(ch)
	}
}

func (c *converter) blockNode(n *html.Node) {
	if n.Type == html.TextNode {
		c.para.WriteString(n.Data)
		return
	}
	if n.Type != html.ElementNode {
		return
	}
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		c.flushParagraph()
		level := int(n.Data[1] - '0')
		c.write(strings.Repeat("#", level) + " ")
		c.inline(n)
		c.write(strings.TrimSpace(c.para.String()))
		c.para.Reset()
		c.write("\n\n")
	case "p", "div":
		c.flushParagraph()
		c.inline(n)
		c.flushParagraph()
	case "br":
		c.para.WriteString("  \n")
	case "hr":
		c.flushParagraph()
		c.write("---\n\n")
	case "blockquote":
		c.flushParagraph()
		var b strings.Builder
		sub := &converter{w: &b}
		sub.block(n)
		sub.flushParagraph()
		for _, line := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
			c.write("> " + line + "\n")
		}
		c.write("\n")
	case "pre":
		c.flushParagraph()
		c.write("```\n")
		c.write(n.TextContent())
		c.write("\n```\n\n")
	case "ul":
		c.flushParagraph()
		c.renderList(n, false)
	case "ol":
		c.flushParagraph()
		c.renderList(n, true)
	case "table":
		c.flushParagraph()
		c.renderTable(n)
	default:
		c.block(n)
	}
}

func (c *converter) renderList(n *html.Node, ordered bool) {
	c.listDepth++
	c.ordinal = append(c.ordinal, 0)
	defer func() {
		c.listDepth--
		c.ordinal = c.ordinal[:len(c.ordinal)-1]
	}()
	indent := strings.Repeat("  ", c.listDepth-1)
	for _, li := range n.Child {
		if !li.IsElement("li") {
			continue
		}
		var marker string
		if ordered {
			c.ordinal[len(c.ordinal)-1]++
			marker = strconv.Itoa(c.ordinal[len(c.ordinal)-1]) + ". "
		} else {
			marker = "- "
		}
		c.write(indent + marker)
		var b strings.Builder
		sub := &converter{w: &b, listDepth: c.listDepth, ordinal: append([]int(nil), c.ordinal...)}
		sub.block(li)
		sub.flushParagraph()
		c.write(strings.TrimSpace(b.String()))
		c.write("\n")
	}
	c.write("\n")
}

func (c *converter) renderTable(n *html.Node) {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(m *html.Node) {
		if m.IsElement("tr") {
			var cells []string
			for _, cell := range m.Child {
				if cell.IsElement("td") || cell.IsElement("th") {
					cells = append(cells, strings.TrimSpace(cell.TextContent()))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return
		}
		for _, ch := range m.Child {
			walk(ch)
		}
	}
	walk(n)
	if len(rows) == 0 {
		return
	}
	c.write("| " + strings.Join(rows[0], " | ") + " |\n")
	c.write("|" + strings.Repeat(" --- |", len(rows[0])) + "\n")
	for _, row := range rows[1:] {
		c.write("| " + strings.Join(row, " | ") + " |\n")
	}
	c.write("\n")
}

// inline renders n's descendants into the paragraph buffer, applying
// Markdown emphasis/link/code syntax for the recognized inline tags.
func (c *converter) inline(n *html.Node) {
	for _, ch := range n.Child {
		c.inlineNode(ch)
	}
}

func (c *converter) inlineNode(n *html.Node) {
	if n.Type == html.TextNode {
		c.para.WriteString(n.Data)
		return
	}
	if n.Type != html.ElementNode {
		return
	}
	switch n.Data {
	case "strong", "b":
		c.para.WriteString("**")
		c.inline(n)
		c.para.WriteString("**")
	case "em", "i":
		c.para.WriteString("_")
		c.inline(n)
		c.para.WriteString("_")
	case "code":
		c.para.WriteString("`")
		c.para.WriteString(n.TextContent())
		c.para.WriteString("`")
	case "a":
		href, _ := n.Attribute("href")
		c.para.WriteString("[")
		c.inline(n)
		c.para.WriteString("](")
		c.para.WriteString(href)
		c.para.WriteString(")")
	case "img":
		alt, _ := n.Attribute("alt")
		src, _ := n.Attribute("src")
		c.para.WriteString("![")
		c.para.WriteString(alt)
		c.para.WriteString("](")
		c.para.WriteString(src)
		c.para.WriteString(")")
	case "br":
		c.para.WriteString("  \n")
	default:
		c.inline(n)
	}
}
