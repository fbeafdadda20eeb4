// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

// adoptionAgency implements the adoption agency algorithm, section
// 13.2.6.4.7, invoked from InBody's end-tag handling for each
// formatting element and from its <a> and <nobr> start-tag branches.
// subject is the tag's name.
func (p *parser) adoptionAgency(subject string) {
	for outer := 0; outer < 8; outer++ {
		formatting := p.lastFormattingElement(subject)
		if formatting == nil {
			p.anyOtherEndTag(subject)
			return
		}
		feIndex := p.oe.index(formatting)
		if feIndex < 0 {
			p.recordError(ErrMissingEndTagName)
			p.afe.remove(formatting)
			return
		}
		if !p.hasInScope(formatting.Data) {
			p.recordError(ErrMissingEndTagName)
			return
		}
		if formatting != p.oe.top() {
			p.recordError(ErrMissingEndTagName)
		}

		furthestBlock := p.furthestBlockAbove(formatting)
		if furthestBlock == nil {
			// Pop the stack up to and including formatting.
			for {
				n := p.oe.pop()
				if n == formatting {
					break
				}
			}
			p.afe.remove(formatting)
			return
		}

		commonAncestor := p.oe[p.oe.index(formatting)-1]
		bookmark := p.afe.index(formatting)

		node := furthestBlock
		lastNode := furthestBlock
		nodeIndexInOE := p.oe.index(node)

		for inner := 0; inner < 3; inner++ {
			nodeIndexInOE--
			if nodeIndexInOE < 0 {
				break
			}
			node = p.oe[nodeIndexInOE]
			if p.afe.index(node) < 0 {
				p.oe.remove(node)
				continue
			}
			if node == formatting {
				break
			}
			clone := node.clone()
			afeIdx := p.afe.index(node)
			p.afe[afeIdx] = clone
			p.oe[nodeIndexInOE] = clone
			node = clone

			if lastNode == furthestBlock {
				bookmark = p.afe.index(node) + 1
			}
			if lastNode.Parent != nil {
				lastNode.Parent.Remove(lastNode)
			}
			node.Add(lastNode)
			lastNode = node
		}

		if lastNode.Parent != nil {
			lastNode.Parent.Remove(lastNode)
		}
		if commonAncestor.IsElement("table") || commonAncestor.IsElement("tbody") ||
			commonAncestor.IsElement("tfoot") || commonAncestor.IsElement("thead") || commonAncestor.IsElement("tr") {
			parent, before := p.fosterInsertionLocation()
			parent.InsertBefore(lastNode, before)
		} else {
			commonAncestor.Add(lastNode)
		}

		clone := formatting.clone()
		for _, c := range append([]*Node(nil), furthestBlock.Child...) {
			furthestBlock.Remove(c)
			clone.Add(c)
		}
		furthestBlock.Add(clone)

		p.afe.remove(formatting)
		if bookmark > len(p.afe) {
			bookmark = len(p.afe)
		}
		p.afe.insertAt(bookmark, clone)

		p.oe.remove(formatting)
		fbIdx := p.oe.index(furthestBlock)
		p.oe.insertAt(fbIdx+1, clone)
	}
}

func (p *parser) lastFormattingElement(name string) *Node {
	for i := len(p.afe) - 1; i >= 0; i-- {
		e := p.afe[i]
		if e.Type == scopeMarkerNode {
			return nil
		}
		if e.IsElement(name) {
			return e
		}
	}
	return nil
}

// furthestBlockAbove returns the topmost special-category element above
// formatting on the stack of open elements, or nil if there is none.
func (p *parser) furthestBlockAbove(formatting *Node) *Node {
	idx := p.oe.index(formatting)
	var furthest *Node
	for i := idx + 1; i < len(p.oe); i++ {
		n := p.oe[i]
		if n.Namespace == NamespaceHTML && specialElements[n.Data] {
			furthest = n
			break
		}
	}
	return furthest
}

// anyOtherEndTag implements InBody's fallback end-tag handling, section
// 13.2.6.4.7's step 4 ("any other end tag"): shared by the adoption
// agency's give-up case and by modes.go's default handler.
func (p *parser) anyOtherEndTag(name string) {
	for i := len(p.oe) - 1; i >= 0; i-- {
		n := p.oe[i]
		if n.Namespace == NamespaceHTML && n.Data == name {
			p.generateImpliedEndTags(name)
			if p.oe.top() != n {
				p.recordError(ErrMissingEndTagName)
			}
			p.oe = p.oe[:i]
			return
		}
		if n.Namespace == NamespaceHTML && specialElements[n.Data] {
			p.recordError(ErrMissingEndTagName)
			return
		}
	}
}
