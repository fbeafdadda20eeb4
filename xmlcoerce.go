// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import "strings"

// coerceToXML implements the Options.XMLCoercion post-pass, section 7: a
// simplified form of the WHATWG's "coercing an HTML DOM into an
// infoset" algorithm (Appendix C) restricted to the two renamings
// spec.md calls out explicitly -- U+000C FORM FEED becomes a space, and
// Unicode noncharacters are replaced -- applied to every element and
// attribute name in n's subtree. It does not touch text content,
// comments, or attribute values.
func coerceToXML(n *Node) {
	if n.Type == ElementNode {
		n.Data = coerceXMLName(n.Data)
		for i, a := range n.Attr {
			n.Attr[i].Key = coerceXMLName(a.Key)
		}
	}
	for _, c := range n.Child {
		coerceToXML(c)
	}
	if n.Type == ElementNode && n.Data == "template" && n.TemplateContent != nil {
		coerceToXML(n.TemplateContent)
	}
}

func coerceXMLName(name string) string {
	if !strings.ContainsAny(name, "\f") && isXMLNameClean(name) {
		return name
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '\f':
			b.WriteByte(' ')
		case isNoncharacter(int64(r)):
			b.WriteRune('�')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// isXMLNameClean is a fast path: true when name contains no
// noncharacter code points, so coerceXMLName's full rune scan can be
// skipped for the overwhelming majority of ordinary tag/attribute
// names.
func isXMLNameClean(name string) bool {
	for _, r := range name {
		if isNoncharacter(int64(r)) {
			return false
		}
	}
	return true
}
