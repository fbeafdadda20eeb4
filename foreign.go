// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import "strings"

// useForeignContentRules implements the tree construction dispatcher's
// branch condition, section 13.2.6: everything listed there routes
// through the ordinary insertion-mode rules; only the complement uses
// processForeignContent.
func (p *parser) useForeignContentRules() bool {
	if p.forceHTMLRules {
		p.forceHTMLRules = false
		return false
	}
	if len(p.oe) == 0 {
		return false
	}
	n := p.adjustedCurrentNode()
	if n == nil || n.Namespace == NamespaceHTML {
		return false
	}
	if p.cur.Type == ErrorToken {
		return false
	}
	if isMathMLTextIntegrationPoint(n) {
		if p.cur.Type == TextToken {
			return false
		}
		if p.cur.Type == StartTagToken && p.cur.Data != "mglyph" && p.cur.Data != "malignmark" {
			return false
		}
	}
	if n.Namespace == NamespaceMathML && n.Data == "annotation-xml" && p.cur.Type == StartTagToken && p.cur.Data == "svg" {
		return false
	}
	if isHTMLIntegrationPoint(n) {
		if p.cur.Type == StartTagToken || p.cur.Type == TextToken {
			return false
		}
	}
	return true
}

func isMathMLTextIntegrationPoint(n *Node) bool {
	return n.Namespace == NamespaceMathML && mathmlTextIntegrationPoints[n.Data]
}

// isHTMLIntegrationPoint implements section 13.2.4's integration point
// definition: an SVG foreignObject/desc/title, or a MathML
// annotation-xml element whose encoding is text/html or
// application/xhtml+xml.
func isHTMLIntegrationPoint(n *Node) bool {
	if n.Namespace == NamespaceSVG && htmlIntegrationPointsSVG[n.Data] {
		return true
	}
	if n.Namespace == NamespaceMathML && n.Data == "annotation-xml" {
		if enc, ok := n.Attribute("encoding"); ok {
			e := strings.ToLower(enc)
			return e == "text/html" || e == "application/xhtml+xml"
		}
	}
	return false
}

// processForeignContent implements section 13.2.6.2. It returns whether
// the token should be reprocessed: true for the breakout case, which
// hands control back to the dispatcher after popping out of foreign
// content, and when an end tag's walk up the stack reaches an HTML
// element, so the token is handled by the current insertion mode.
func (p *parser) processForeignContent() bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		if strings.IndexByte(tok.Data, 0) >= 0 {
			p.recordError(ErrUnexpectedNullCharacter)
			tok.Data = strings.ReplaceAll(tok.Data, "\x00", "�")
		}
		if !isAllWhitespace(tok.Data) {
			p.framesetOK = false
		}
		p.insertText(tok.Data)
		return false
	case CommentToken:
		p.insertComment(tok.Data, nil)
		return false
	case DoctypeToken:
		p.recordError(ErrMissingDoctypeName)
		return false
	case StartTagToken:
		return p.foreignStartTag(tok)
	case EndTagToken:
		return p.foreignEndTag(tok)
	}
	return false
}

func (p *parser) foreignStartTag(tok Token) bool {
	if breakoutStartTags[tok.Data] || (tok.Data == "font" && hasAnyAttr(tok.Attr, "color", "face", "size")) {
		for p.adjustedCurrentNode() != nil && p.adjustedCurrentNode().Namespace != NamespaceHTML {
			p.oe.pop()
		}
		return true
	}
	ns := p.adjustedCurrentNode().Namespace
	if ns == NamespaceSVG {
		if fixed, ok := svgTagNameFixups[tok.Data]; ok {
			tok.Data = fixed
		}
	}
	tok.Attr = adjustForeignAttributes(ns, tok.Attr)
	p.insertElementForToken(tok, ns)
	if tok.SelfClosing {
		p.oe.pop()
	}
	return false
}

func hasAnyAttr(attrs []Attribute, keys ...string) bool {
	for _, a := range attrs {
		for _, k := range keys {
			if a.Key == k {
				return true
			}
		}
	}
	return false
}

func adjustForeignAttributes(ns string, attrs []Attribute) []Attribute {
	out := make([]Attribute, len(attrs))
	for i, a := range attrs {
		if fix, ok := foreignAttrFixups[a.Key]; ok {
			out[i] = Attribute{Namespace: fix.Namespace, Key: fix.Key, Val: a.Val}
			continue
		}
		if ns == NamespaceSVG {
			if fixed, ok := svgAttrFixups[a.Key]; ok {
				out[i] = Attribute{Key: fixed, Val: a.Val}
				continue
			}
		}
		out[i] = a
	}
	return out
}

// foreignEndTag implements section 13.2.6.2's "any other end tag" steps:
// walk the stack looking for a name match, popping through it on success.
// If the walk reaches an HTML-namespace node before finding one, the
// token must be reprocessed under the current HTML insertion mode rather
// than dropped; forceHTMLRules makes useForeignContentRules step aside
// for exactly the next check.
func (p *parser) foreignEndTag(tok Token) bool {
	if tok.Data == "script" {
		if top := p.oe.top(); top != nil && top.Namespace == NamespaceSVG && top.Data == "script" {
			p.oe.pop()
			return false
		}
	}
	i := len(p.oe) - 1
	node := p.oe[i]
	if !strings.EqualFold(node.Data, tok.Data) {
		p.recordError(ErrMissingEndTagName)
	}
	for i > 0 {
		if strings.EqualFold(node.Data, tok.Data) {
			p.oe = p.oe[:i]
			return false
		}
		i--
		node = p.oe[i]
		if node.Namespace == NamespaceHTML {
			p.forceHTMLRules = true
			return true
		}
	}
	return false
}
