// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cssselect matches a minimal, dependency-free subset of CSS
// selectors against *html.Node trees: type, #id, and .class simple
// selectors, the descendant and child combinators, and attribute
// presence/equality selectors. It does not attempt to be a general CSS
// engine -- no pseudo-classes, no combinators beyond ' ' and '>', no
// specificity resolution.
package cssselect

import (
	"fmt"
	"strings"

	"github.com/justhtml/html5"
)

// A Selector is a parsed, ready-to-match selector (a comma separated
// group in CSS terms collapses to one Selector per branch; Parse
// rejects a comma with an error -- see ParseGroup for lists).
type Selector struct {
	compound []simpleSelector // the rightmost compound selector's simple selectors
	ancestor *Selector         // combinator target, or nil
	combinator byte             // ' ' (descendant) or '>' (child); zero if ancestor is nil
}

type simpleSelector struct {
	kind string // "type", "id", "class", "attrPresent", "attrEqual"
	name string
	value string
}

// Parse parses a single compound/combinator selector such as
// "div.article > p", "#main span", or "a[href]". It does not accept a
// comma-separated group; use ParseGroup for that.
func Parse(sel string) (*Selector, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return nil, fmt.Errorf("cssselect: empty selector")
	}
	parts, combinators, err := splitCombinators(sel)
	if err != nil {
		return nil, err
	}
	var cur *Selector
	for i, part := range parts {
		simples, err := parseCompound(part)
		if err != nil {
			return nil, err
		}
		next := &Selector{compound: simples}
		if cur != nil {
			next.ancestor = cur
			next.combinator = combinators[i-1]
		}
		cur = next
	}
	return cur, nil
}

// ParseGroup parses a comma-separated selector list, returning one
// Selector per branch.
func ParseGroup(sel string) ([]*Selector, error) {
	var out []*Selector
	for _, part := range strings.Split(sel, ",") {
		s, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// splitCombinators splits sel into compound-selector strings plus the
// combinator that preceded each one after the first
// (len(combinators) == len(parts)-1). A run of whitespace is a
// descendant combinator unless it surrounds a '>', which is a child
// combinator instead; brackets are tracked so whitespace inside an
// attribute selector's value is never treated as a combinator.
func splitCombinators(sel string) (parts []string, combinators []byte, err error) {
	var cur strings.Builder
	inAttr := 0
	pending := byte(0) // combinator seen since the last flush, 0 if none yet
	flush := func() {
		s := strings.TrimSpace(cur.String())
		cur.Reset()
		if s == "" {
			return
		}
		if len(parts) > 0 {
			c := pending
			if c == 0 {
				c = ' '
			}
			combinators = append(combinators, c)
		}
		pending = 0
		parts = append(parts, s)
	}
	for i := 0; i < len(sel); i++ {
		c := sel[i]
		switch {
		case c == '[':
			inAttr++
			cur.WriteByte(c)
		case c == ']':
			if inAttr > 0 {
				inAttr--
			}
			cur.WriteByte(c)
		case inAttr > 0:
			cur.WriteByte(c)
		case c == '>':
			flush()
			pending = '>'
		case c == ' ' || c == '\t' || c == '\n':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	if len(parts) == 0 {
		return nil, nil, fmt.Errorf("cssselect: empty selector")
	}
	return parts, combinators, nil
}

func parseCompound(s string) ([]simpleSelector, error) {
	var out []simpleSelector
	i := 0
	for i < len(s) {
		switch s[i] {
		case '#':
			j := identEnd(s, i+1)
			out = append(out, simpleSelector{kind: "id", name: s[i+1 : j]})
			i = j
		case '.':
			j := identEnd(s, i+1)
			out = append(out, simpleSelector{kind: "class", name: s[i+1 : j]})
			i = j
		case '[':
			j := strings.IndexByte(s[i:], ']')
			if j < 0 {
				return nil, fmt.Errorf("cssselect: unterminated attribute selector in %q", s)
			}
			j += i
			body := s[i+1 : j]
			if eq := strings.IndexByte(body, '='); eq >= 0 {
				name := strings.TrimSpace(body[:eq])
				val := strings.Trim(strings.TrimSpace(body[eq+1:]), `"'`)
				out = append(out, simpleSelector{kind: "attrEqual", name: name, value: val})
			} else {
				out = append(out, simpleSelector{kind: "attrPresent", name: strings.TrimSpace(body)})
			}
			i = j + 1
		case '*':
			i++
		default:
			j := identEnd(s, i)
			if j == i {
				return nil, fmt.Errorf("cssselect: unexpected character %q in %q", s[i], s)
			}
			out = append(out, simpleSelector{kind: "type", name: s[i:j]})
			i = j
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("cssselect: empty compound selector")
	}
	return out, nil
}

func identEnd(s string, i int) int {
	j := i
	for j < len(s) {
		c := s[j]
		if c == '-' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			j++
			continue
		}
		break
	}
	return j
}

// Match reports whether n satisfies the selector.
func (s *Selector) Match(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if !matchesCompound(n, s.compound) {
		return false
	}
	if s.ancestor == nil {
		return true
	}
	switch s.combinator {
	case '>':
		return n.Parent != nil && s.ancestor.Match(n.Parent)
	default: // descendant
		for p := n.Parent; p != nil; p = p.Parent {
			if s.ancestor.Match(p) {
				return true
			}
		}
		return false
	}
}

func matchesCompound(n *html.Node, simples []simpleSelector) bool {
	for _, sel := range simples {
		switch sel.kind {
		case "type":
			if !strings.EqualFold(n.Data, sel.name) {
				return false
			}
		case "id":
			v, ok := n.Attribute("id")
			if !ok || v != sel.name {
				return false
			}
		case "class":
			v, ok := n.Attribute("class")
			if !ok || !hasClass(v, sel.name) {
				return false
			}
		case "attrPresent":
			if _, ok := n.Attribute(sel.name); !ok {
				return false
			}
		case "attrEqual":
			v, ok := n.Attribute(sel.name)
			if !ok || v != sel.value {
				return false
			}
		}
	}
	return true
}

func hasClass(classAttr, want string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == want {
			return true
		}
	}
	return false
}

// QueryAll returns every descendant of root (root itself included) that
// matches selector, in document order.
func QueryAll(root *html.Node, selector string) ([]*html.Node, error) {
	sel, err := Parse(selector)
	if err != nil {
		return nil, err
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if sel.Match(n) {
			out = append(out, n)
		}
		for _, c := range n.Child {
			walk(c)
		}
	}
	walk(root)
	return out, nil
}

// Query returns the first descendant of root matching selector, or nil.
func Query(root *html.Node, selector string) (*html.Node, error) {
	all, err := QueryAll(root, selector)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}
