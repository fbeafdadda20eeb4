// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import (
	"reflect"
	"strings"
)

// The insertion mode functions below implement section 13.2.6.4. Each
// corresponds exactly to one of the specification's named modes; the
// case order within a function follows the specification's own
// token-type / tag-name dispatch order for ease of cross-reference.

func initialIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		if isAllWhitespace(tok.Data) {
			return false
		}
	case CommentToken:
		p.insertComment(tok.Data, p.doc)
		return false
	case DoctypeToken:
		p.insertDoctype(tok)
		if p.opts.IframeSrcdoc {
			p.quirks = noQuirks
		} else {
			p.quirks = quirksModeForDoctype(tok.Data, tok.PublicID, tok.SystemID, tok.ForceQuirks)
		}
		p.mode = beforeHTMLIM
		return false
	}
	if p.opts.IframeSrcdoc {
		p.quirks = noQuirks
	} else {
		p.quirks = quirks
	}
	p.mode = beforeHTMLIM
	return true
}

func beforeHTMLIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case DoctypeToken:
		return false
	case CommentToken:
		p.insertComment(tok.Data, p.doc)
		return false
	case TextToken:
		if isAllWhitespace(tok.Data) {
			return false
		}
	case StartTagToken:
		if tok.Data == "html" {
			n := &Node{Type: ElementNode, Data: "html", Namespace: NamespaceHTML, Attr: tok.Attr}
			p.doc.Add(n)
			p.oe.push(n)
			p.mode = beforeHeadIM
			return false
		}
	case EndTagToken:
		switch tok.Data {
		case "head", "body", "html", "br":
		default:
			return false
		}
	}
	n := &Node{Type: ElementNode, Data: "html", Namespace: NamespaceHTML}
	p.doc.Add(n)
	p.oe.push(n)
	p.mode = beforeHeadIM
	return true
}

func beforeHeadIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		if isAllWhitespace(tok.Data) {
			return false
		}
	case CommentToken:
		p.insertComment(tok.Data, nil)
		return false
	case DoctypeToken:
		return false
	case StartTagToken:
		switch tok.Data {
		case "html":
			return inBodyIM(p)
		case "head":
			n := p.insertHTMLElement(tok)
			p.head = n
			p.mode = inHeadIM
			return false
		}
	case EndTagToken:
		switch tok.Data {
		case "head", "body", "html", "br":
		default:
			return false
		}
	}
	n := p.insertHTMLElement(Token{Type: StartTagToken, Data: "head"})
	p.head = n
	p.mode = inHeadIM
	return true
}

func inHeadIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		ws, rest := splitLeadingWhitespace(tok.Data)
		if ws != "" {
			p.insertText(ws)
		}
		if rest == "" {
			return false
		}
		p.cur.Data = rest
	case CommentToken:
		p.insertComment(tok.Data, nil)
		return false
	case DoctypeToken:
		return false
	case StartTagToken:
		switch tok.Data {
		case "html":
			return inBodyIM(p)
		case "base", "basefont", "bgsound", "link":
			p.insertVoidElement(tok)
			return false
		case "meta":
			p.insertVoidElement(tok)
			return false
		case "title":
			p.parseRCDATA(tok)
			return false
		case "noscript":
			if p.scripting {
				p.parseRAWTEXT(tok)
				return false
			}
			p.insertHTMLElement(tok)
			p.mode = inHeadNoscriptIM
			return false
		case "noframes", "style":
			p.parseRAWTEXT(tok)
			return false
		case "script":
			p.insertHTMLElement(tok)
			p.tok.SetState(scriptDataState)
			p.originalMode = p.mode
			p.mode = textIM
			return false
		case "template":
			p.insertHTMLElement(tok)
			p.pushFormattingMarker()
			p.framesetOK = false
			p.mode = inTemplateIM
			p.templateModes = append(p.templateModes, inTemplateIM)
			return false
		case "head":
			return false
		}
	case EndTagToken:
		switch tok.Data {
		case "head":
			p.oe.pop()
			p.mode = afterHeadIM
			return false
		case "body", "html", "br":
		case "template":
			return endTemplateTag(p)
		default:
			return false
		}
	}
	p.oe.pop()
	p.mode = afterHeadIM
	return true
}

func inHeadNoscriptIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case DoctypeToken:
		return false
	case StartTagToken:
		switch tok.Data {
		case "html":
			return inBodyIM(p)
		case "basefont", "bgsound", "link", "meta", "noframes", "style":
			return inHeadIM(p)
		case "head", "noscript":
			return false
		}
	case EndTagToken:
		switch tok.Data {
		case "noscript":
			p.oe.pop()
			p.mode = inHeadIM
			return false
		case "br":
		default:
			return false
		}
	case TextToken:
		if isAllWhitespace(tok.Data) {
			return inHeadIM(p)
		}
	case CommentToken:
		return inHeadIM(p)
	}
	p.oe.pop()
	p.mode = inHeadIM
	return true
}

func afterHeadIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		ws, rest := splitLeadingWhitespace(tok.Data)
		if ws != "" {
			p.insertText(ws)
		}
		if rest == "" {
			return false
		}
		p.cur.Data = rest
	case CommentToken:
		p.insertComment(tok.Data, nil)
		return false
	case DoctypeToken:
		return false
	case StartTagToken:
		switch tok.Data {
		case "html":
			return inBodyIM(p)
		case "body":
			p.insertHTMLElement(tok)
			p.framesetOK = false
			p.mode = inBodyIM
			return false
		case "frameset":
			p.insertHTMLElement(tok)
			p.mode = inFramesetIM
			return false
		case "base", "basefont", "bgsound", "link", "meta", "noframes", "script",
			"style", "template", "title":
			p.oe.push(p.head)
			defer p.oe.remove(p.head)
			return inHeadIM(p)
		case "head":
			return false
		}
	case EndTagToken:
		switch tok.Data {
		case "template":
			return inHeadIM(p)
		case "body", "html", "br":
		default:
			return false
		}
	}
	p.insertHTMLElement(Token{Type: StartTagToken, Data: "body"})
	p.mode = inBodyIM
	return true
}

func splitLeadingWhitespace(s string) (ws, rest string) {
	i := 0
	for i < len(s) && isWhitespace(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func (p *parser) parseRCDATA(tok Token) {
	p.insertHTMLElement(tok)
	p.tok.SetState(rcdataState)
	p.originalMode = p.mode
	p.mode = textIM
}

func (p *parser) parseRAWTEXT(tok Token) {
	p.insertHTMLElement(tok)
	p.tok.SetState(rawtextState)
	p.originalMode = p.mode
	p.mode = textIM
}

func textIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		p.insertText(tok.Data)
		return false
	case ErrorToken:
		p.recordError(ErrEOFInTag)
		p.oe.pop()
		p.mode = p.originalMode
		return true
	case EndTagToken:
		p.oe.pop()
		p.mode = p.originalMode
		return false
	}
	return false
}

// inBodyIM is the largest and most heavily exercised mode, section
// 13.2.6.4.7.
func inBodyIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		if strings.IndexByte(tok.Data, 0) >= 0 {
			p.recordError(ErrUnexpectedNullCharacter)
			tok.Data = strings.ReplaceAll(tok.Data, "\x00", "")
			if tok.Data == "" {
				return false
			}
		}
		p.reconstructActiveFormattingElements()
		if !isAllWhitespace(tok.Data) {
			p.framesetOK = false
		}
		p.insertText(tok.Data)
		return false
	case CommentToken:
		p.insertComment(tok.Data, nil)
		return false
	case DoctypeToken:
		return false
	case ErrorToken:
		return p.inBodyEOF()
	case StartTagToken:
		return p.inBodyStartTag(tok)
	case EndTagToken:
		return p.inBodyEndTag(tok)
	}
	return false
}

func (p *parser) inBodyEOF() bool {
	if len(p.templateModes) > 0 {
		return inTemplateIM(p)
	}
	p.stopped = true
	return false
}

func (p *parser) inBodyStartTag(tok Token) bool {
	switch tok.Data {
	case "html":
		if top := p.oe.top(); top != nil {
			for _, a := range tok.Attr {
				if _, ok := top.Attribute(a.Key); !ok {
					top.Attr = append(top.Attr, a)
				}
			}
		}
		return false
	case "base", "basefont", "bgsound", "link", "meta", "noframes", "script",
		"style", "template", "title":
		return inHeadIM(p)
	case "body":
		if len(p.oe) >= 2 {
			if b := p.oe[1]; b.IsElement("body") {
				p.framesetOK = false
				for _, a := range tok.Attr {
					if _, ok := b.Attribute(a.Key); !ok {
						b.Attr = append(b.Attr, a)
					}
				}
			}
		}
		return false
	case "frameset":
		if p.framesetOK && len(p.oe) >= 2 && p.oe[1].IsElement("body") {
			body := p.oe[1]
			if body.Parent != nil {
				body.Parent.Remove(body)
			}
			p.oe = p.oe[:1]
			p.insertHTMLElement(tok)
			p.mode = inFramesetIM
		}
		return false
	case "address", "article", "aside", "blockquote", "center", "details",
		"dialog", "dir", "div", "dl", "fieldset", "figcaption", "figure",
		"footer", "header", "hgroup", "main", "menu", "nav", "ol", "p",
		"section", "summary", "ul":
		p.closePElementIfInButtonScope()
		p.insertHTMLElement(tok)
		return false
	case "h1", "h2", "h3", "h4", "h5", "h6":
		p.closePElementIfInButtonScope()
		if top := p.oe.top(); top != nil && isHeading(top.Data) {
			p.recordError(ErrMissingEndTagName)
			p.oe.pop()
		}
		p.insertHTMLElement(tok)
		return false
	case "pre", "listing":
		p.closePElementIfInButtonScope()
		p.insertHTMLElement(tok)
		p.framesetOK = false
		return false
	case "form":
		if p.form != nil && len(p.templateModes) == 0 {
			p.recordError(ErrMissingEndTagName)
			return false
		}
		p.closePElementIfInButtonScope()
		n := p.insertHTMLElement(tok)
		if len(p.templateModes) == 0 {
			p.form = n
		}
		return false
	case "li":
		p.framesetOK = false
		for i := len(p.oe) - 1; i >= 0; i-- {
			n := p.oe[i]
			if n.IsElement("li") {
				p.generateImpliedEndTags("li")
				p.oe.popUntil(nil, "li")
				break
			}
			if n.Namespace == NamespaceHTML && specialElements[n.Data] &&
				n.Data != "address" && n.Data != "div" && n.Data != "p" {
				break
			}
		}
		p.closePElementIfInButtonScope()
		p.insertHTMLElement(tok)
		return false
	case "dd", "dt":
		p.framesetOK = false
		for i := len(p.oe) - 1; i >= 0; i-- {
			n := p.oe[i]
			if n.Data == "dd" || n.Data == "dt" {
				p.generateImpliedEndTags(n.Data)
				p.oe.popUntil(nil, n.Data)
				break
			}
			if n.Namespace == NamespaceHTML && specialElements[n.Data] &&
				n.Data != "address" && n.Data != "div" && n.Data != "p" {
				break
			}
		}
		p.closePElementIfInButtonScope()
		p.insertHTMLElement(tok)
		return false
	case "plaintext":
		p.closePElementIfInButtonScope()
		p.insertHTMLElement(tok)
		p.tok.SetState(plaintextState)
		return false
	case "button":
		if p.hasInScope("button") {
			p.recordError(ErrMissingEndTagName)
			p.generateImpliedEndTags("")
			p.oe.popUntil(nil, "button")
		}
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(tok)
		p.framesetOK = false
		return false
	case "a":
		if last := p.lastFormattingElement("a"); last != nil {
			p.adoptionAgency("a")
			p.afe.remove(last)
			p.oe.remove(last)
		}
		p.reconstructActiveFormattingElements()
		n := p.insertHTMLElement(tok)
		p.pushFormattingElement(n)
		return false
	case "b", "big", "code", "em", "font", "i", "s", "small", "strike",
		"strong", "tt", "u":
		p.reconstructActiveFormattingElements()
		n := p.insertHTMLElement(tok)
		p.pushFormattingElement(n)
		return false
	case "nobr":
		p.reconstructActiveFormattingElements()
		if p.hasInScope("nobr") {
			p.recordError(ErrMissingEndTagName)
			p.adoptionAgency("nobr")
			p.reconstructActiveFormattingElements()
		}
		n := p.insertHTMLElement(tok)
		p.pushFormattingElement(n)
		return false
	case "applet", "marquee", "object":
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(tok)
		p.pushFormattingMarker()
		p.framesetOK = false
		return false
	case "table":
		if p.quirks != quirks {
			p.closePElementIfInButtonScope()
		}
		p.insertHTMLElement(tok)
		p.framesetOK = false
		p.mode = inTableIM
		return false
	case "area", "br", "embed", "img", "keygen", "wbr":
		p.reconstructActiveFormattingElements()
		p.insertVoidElement(tok)
		p.framesetOK = false
		return false
	case "input":
		p.reconstructActiveFormattingElements()
		p.insertVoidElement(tok)
		if typ, ok := tok.Attribute("type"); !ok || !strings.EqualFold(typ, "hidden") {
			p.framesetOK = false
		}
		return false
	case "param", "source", "track":
		p.insertVoidElement(tok)
		return false
	case "hr":
		p.closePElementIfInButtonScope()
		p.insertVoidElement(tok)
		p.framesetOK = false
		return false
	case "image":
		tok.Data = "img"
		return p.inBodyStartTag(tok)
	case "textarea":
		p.insertHTMLElement(tok)
		p.tok.SetState(rcdataState)
		p.framesetOK = false
		p.originalMode = p.mode
		p.mode = textIM
		return false
	case "xmp":
		p.closePElementIfInButtonScope()
		p.reconstructActiveFormattingElements()
		p.framesetOK = false
		p.parseRAWTEXT(tok)
		return false
	case "iframe":
		p.framesetOK = false
		p.parseRAWTEXT(tok)
		return false
	case "noembed":
		p.parseRAWTEXT(tok)
		return false
	case "select":
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(tok)
		p.framesetOK = false
		cur := reflect.ValueOf(p.mode).Pointer()
		p.mode = inSelectIM
		for _, m := range []insertionMode{inTableIM, inCaptionIM, inTableBodyIM, inRowIM, inCellIM} {
			if reflect.ValueOf(m).Pointer() == cur {
				p.mode = inSelectInTableIM
			}
		}
		return false
	case "optgroup", "option":
		if top := p.oe.top(); top != nil && top.IsElement("option") {
			p.oe.pop()
		}
		p.reconstructActiveFormattingElements()
		p.insertHTMLElement(tok)
		return false
	case "rb", "rtc":
		if p.hasInScope("ruby") {
			p.generateImpliedEndTags("")
		}
		p.insertHTMLElement(tok)
		return false
	case "rp", "rt":
		if p.hasInScope("ruby") {
			p.generateImpliedEndTags("rtc")
		}
		p.insertHTMLElement(tok)
		return false
	case "math":
		return p.foreignForStartTag(tok, NamespaceMathML)
	case "svg":
		return p.foreignForStartTag(tok, NamespaceSVG)
	case "caption", "col", "colgroup", "frame", "head", "tbody", "td",
		"tfoot", "th", "thead", "tr":
		return false
	}
	p.reconstructActiveFormattingElements()
	p.insertHTMLElement(tok)
	return false
}

// foreignForStartTag handles the InBody <math>/<svg> branches, which
// adjust attributes then insert directly into the named namespace
// rather than leaning on the foreign-content dispatcher (they are not
// themselves reached through it, since the adjusted current node is
// still HTML at the moment they are seen).
func (p *parser) foreignForStartTag(tok Token, ns string) bool {
	p.reconstructActiveFormattingElements()
	tok.Attr = adjustForeignAttributes(ns, tok.Attr)
	p.insertElementForToken(tok, ns)
	if tok.SelfClosing {
		p.oe.pop()
	}
	return false
}

func isHeading(name string) bool {
	switch name {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func (p *parser) inBodyEndTag(tok Token) bool {
	switch tok.Data {
	case "template":
		return endTemplateTag(p)
	case "body":
		if !p.hasInScope("body") {
			p.recordError(ErrMissingEndTagName)
			return false
		}
		p.mode = afterBodyIM
		return false
	case "html":
		if !p.hasInScope("body") {
			p.recordError(ErrMissingEndTagName)
			return false
		}
		p.mode = afterBodyIM
		return true
	case "address", "article", "aside", "blockquote", "button", "center",
		"details", "dialog", "dir", "div", "dl", "fieldset", "figcaption",
		"figure", "footer", "header", "hgroup", "listing", "main", "menu",
		"nav", "ol", "pre", "section", "summary", "ul":
		if !p.hasInScope(tok.Data) {
			p.recordError(ErrMissingEndTagName)
			return false
		}
		p.generateImpliedEndTags("")
		if top := p.oe.top(); top == nil || top.Data != tok.Data {
			p.recordError(ErrMissingEndTagName)
		}
		p.oe.popUntil(nil, tok.Data)
		return false
	case "form":
		if len(p.templateModes) == 0 {
			node := p.form
			p.form = nil
			if node == nil || !p.hasInScope("form") {
				p.recordError(ErrMissingEndTagName)
				return false
			}
			p.generateImpliedEndTags("")
			if p.oe.top() != node {
				p.recordError(ErrMissingEndTagName)
			}
			p.oe.remove(node)
		} else {
			if !p.hasInScope("form") {
				p.recordError(ErrMissingEndTagName)
				return false
			}
			p.generateImpliedEndTags("")
			if top := p.oe.top(); top == nil || !top.IsElement("form") {
				p.recordError(ErrMissingEndTagName)
			}
			p.oe.popUntil(nil, "form")
		}
		return false
	case "p":
		if !p.hasInButtonScope("p") {
			p.recordError(ErrMissingEndTagName)
			p.insertHTMLElement(Token{Type: StartTagToken, Data: "p"})
		}
		p.closePElement()
		return false
	case "li":
		if !p.hasInListItemScope("li") {
			p.recordError(ErrMissingEndTagName)
			return false
		}
		p.generateImpliedEndTags("li")
		if top := p.oe.top(); top == nil || !top.IsElement("li") {
			p.recordError(ErrMissingEndTagName)
		}
		p.oe.popUntil(nil, "li")
		return false
	case "dd", "dt":
		if !p.hasInScope(tok.Data) {
			p.recordError(ErrMissingEndTagName)
			return false
		}
		p.generateImpliedEndTags(tok.Data)
		if top := p.oe.top(); top == nil || top.Data != tok.Data {
			p.recordError(ErrMissingEndTagName)
		}
		p.oe.popUntil(nil, tok.Data)
		return false
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if !p.hasInScope("h1") && !p.hasInScope("h2") && !p.hasInScope("h3") &&
			!p.hasInScope("h4") && !p.hasInScope("h5") && !p.hasInScope("h6") {
			p.recordError(ErrMissingEndTagName)
			return false
		}
		p.generateImpliedEndTags("")
		if top := p.oe.top(); top == nil || top.Data != tok.Data {
			p.recordError(ErrMissingEndTagName)
		}
		p.oe.popUntil(nil, "h1", "h2", "h3", "h4", "h5", "h6")
		return false
	case "a", "b", "big", "code", "em", "font", "i", "nobr", "s", "small",
		"strike", "strong", "tt", "u":
		p.adoptionAgency(tok.Data)
		return false
	case "applet", "marquee", "object":
		if !p.hasInScope(tok.Data) {
			p.recordError(ErrMissingEndTagName)
			return false
		}
		p.generateImpliedEndTags("")
		if top := p.oe.top(); top == nil || top.Data != tok.Data {
			p.recordError(ErrMissingEndTagName)
		}
		p.oe.popUntil(nil, tok.Data)
		p.clearActiveFormattingElementsToMarker()
		return false
	case "br":
		p.recordError(ErrMissingEndTagName)
		p.reconstructActiveFormattingElements()
		p.insertVoidElement(Token{Type: StartTagToken, Data: "br"})
		p.framesetOK = false
		return false
	}
	p.anyOtherEndTag(tok.Data)
	return false
}

func endTemplateTag(p *parser) bool {
	if !p.oe.contains("template") {
		return false
	}
	p.generateImpliedEndTagsThoroughly()
	if top := p.oe.top(); top == nil || !top.IsElement("template") {
		p.recordError(ErrMissingEndTagName)
	}
	p.oe.popUntil(nil, "template")
	p.clearActiveFormattingElementsToMarker()
	if len(p.templateModes) > 0 {
		p.templateModes = p.templateModes[:len(p.templateModes)-1]
	}
	p.resetInsertionMode()
	return false
}

// --- Table family, sections 13.2.6.4.9-13 ---

func (p *parser) clearStackToTableContext(stop map[string]bool) {
	for {
		top := p.oe.top()
		if top == nil || stop[top.Data] {
			return
		}
		p.oe.pop()
	}
}

var tableContextStop = map[string]bool{"table": true, "template": true, "html": true}
var tableBodyContextStop = map[string]bool{
	"tbody": true, "tfoot": true, "thead": true, "template": true, "html": true,
}
var rowContextStop = map[string]bool{"tr": true, "template": true, "html": true}

func inTableIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		switch p.oe.top().Data {
		case "table", "tbody", "tfoot", "thead", "tr":
			p.pendingTableText = p.pendingTableText[:0]
			p.pendingTableTextHasNonWS = false
			p.originalModeForText = p.mode
			p.mode = inTableTextIM
			return true
		}
	case CommentToken:
		p.insertComment(tok.Data, nil)
		return false
	case DoctypeToken:
		return false
	case StartTagToken:
		switch tok.Data {
		case "caption":
			p.clearStackToTableContext(tableContextStop)
			p.pushFormattingMarker()
			p.insertHTMLElement(tok)
			p.mode = inCaptionIM
			return false
		case "colgroup":
			p.clearStackToTableContext(tableContextStop)
			p.insertHTMLElement(tok)
			p.mode = inColumnGroupIM
			return false
		case "col":
			p.clearStackToTableContext(tableContextStop)
			p.insertHTMLElement(Token{Type: StartTagToken, Data: "colgroup"})
			p.mode = inColumnGroupIM
			return true
		case "tbody", "tfoot", "thead":
			p.clearStackToTableContext(tableContextStop)
			p.insertHTMLElement(tok)
			p.mode = inTableBodyIM
			return false
		case "td", "th", "tr":
			p.clearStackToTableContext(tableContextStop)
			p.insertHTMLElement(Token{Type: StartTagToken, Data: "tbody"})
			p.mode = inTableBodyIM
			return true
		case "table":
			p.recordError(ErrMissingEndTagName)
			if !p.hasInTableScope("table") {
				return false
			}
			p.oe.popUntil(nil, "table")
			p.resetInsertionMode()
			return true
		case "style", "script", "template":
			return inHeadIM(p)
		case "input":
			if typ, ok := tok.Attribute("type"); ok && strings.EqualFold(typ, "hidden") {
				p.insertVoidElement(tok)
				return false
			}
		case "form":
			if p.form == nil && !p.oe.contains("template") {
				n := p.insertHTMLElement(tok)
				p.form = n
				p.oe.pop()
			}
			return false
		}
	case EndTagToken:
		switch tok.Data {
		case "table":
			if !p.hasInTableScope("table") {
				p.recordError(ErrMissingEndTagName)
				return false
			}
			p.oe.popUntil(nil, "table")
			p.resetInsertionMode()
			return false
		case "body", "caption", "col", "colgroup", "html", "tbody", "td",
			"tfoot", "th", "thead", "tr":
			p.recordError(ErrMissingEndTagName)
			return false
		case "template":
			return endTemplateTag(p)
		}
	case ErrorToken:
		return inBodyIM(p)
	}
	p.fosterParenting = true
	defer func() { p.fosterParenting = false }()
	return inBodyIM(p)
}

func inTableTextIM(p *parser) bool {
	tok := p.cur
	if tok.Type == TextToken {
		if strings.IndexByte(tok.Data, 0) >= 0 {
			p.recordError(ErrUnexpectedNullCharacter)
			tok.Data = strings.ReplaceAll(tok.Data, "\x00", "")
		}
		if !isAllWhitespace(tok.Data) {
			p.pendingTableTextHasNonWS = true
		}
		p.pendingTableText = append(p.pendingTableText, tok.Data...)
		return false
	}
	if p.pendingTableTextHasNonWS {
		p.recordError(ErrMissingEndTagName)
		p.fosterParenting = true
		p.insertText(string(p.pendingTableText))
		p.fosterParenting = false
	} else {
		p.insertText(string(p.pendingTableText))
	}
	p.mode = p.originalModeForText
	return true
}

func inCaptionIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case StartTagToken:
		switch tok.Data {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th",
			"thead", "tr":
			if !p.hasInTableScope("caption") {
				return false
			}
			p.oe.popUntil(nil, "caption")
			p.clearActiveFormattingElementsToMarker()
			p.mode = inTableIM
			return true
		}
	case EndTagToken:
		switch tok.Data {
		case "caption":
			if !p.hasInTableScope("caption") {
				p.recordError(ErrMissingEndTagName)
				return false
			}
			p.generateImpliedEndTags("")
			if top := p.oe.top(); top == nil || !top.IsElement("caption") {
				p.recordError(ErrMissingEndTagName)
			}
			p.oe.popUntil(nil, "caption")
			p.clearActiveFormattingElementsToMarker()
			p.mode = inTableIM
			return false
		case "table":
			if !p.hasInTableScope("caption") {
				return false
			}
			p.oe.popUntil(nil, "caption")
			p.clearActiveFormattingElementsToMarker()
			p.mode = inTableIM
			return true
		case "body", "col", "colgroup", "html", "tbody", "td", "tfoot",
			"th", "thead", "tr":
			return false
		}
	}
	return inBodyIM(p)
}

func inColumnGroupIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		ws, rest := splitLeadingWhitespace(tok.Data)
		if ws != "" {
			p.insertText(ws)
		}
		if rest == "" {
			return false
		}
		p.cur.Data = rest
	case CommentToken:
		p.insertComment(tok.Data, nil)
		return false
	case DoctypeToken:
		return false
	case StartTagToken:
		switch tok.Data {
		case "html":
			return inBodyIM(p)
		case "col":
			p.insertVoidElement(tok)
			return false
		case "template":
			return inHeadIM(p)
		}
	case EndTagToken:
		switch tok.Data {
		case "colgroup":
			if top := p.oe.top(); top == nil || !top.IsElement("colgroup") {
				p.recordError(ErrMissingEndTagName)
				return false
			}
			p.oe.pop()
			p.mode = inTableIM
			return false
		case "col":
			p.recordError(ErrMissingEndTagName)
			return false
		case "template":
			return endTemplateTag(p)
		}
	case ErrorToken:
		return inBodyIM(p)
	}
	if top := p.oe.top(); top == nil || !top.IsElement("colgroup") {
		return false
	}
	p.oe.pop()
	p.mode = inTableIM
	return true
}

func inTableBodyIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case StartTagToken:
		switch tok.Data {
		case "tr":
			p.clearStackToTableContext(tableBodyContextStop)
			p.insertHTMLElement(tok)
			p.mode = inRowIM
			return false
		case "th", "td":
			p.recordError(ErrMissingEndTagName)
			p.clearStackToTableContext(tableBodyContextStop)
			p.insertHTMLElement(Token{Type: StartTagToken, Data: "tr"})
			p.mode = inRowIM
			return true
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead":
			if !p.hasAnyInTableScope("tbody", "thead", "tfoot") {
				return false
			}
			p.clearStackToTableContext(tableBodyContextStop)
			p.oe.pop()
			p.mode = inTableIM
			return true
		}
	case EndTagToken:
		switch tok.Data {
		case "tbody", "tfoot", "thead":
			if !p.hasInTableScope(tok.Data) {
				p.recordError(ErrMissingEndTagName)
				return false
			}
			p.clearStackToTableContext(tableBodyContextStop)
			p.oe.pop()
			p.mode = inTableIM
			return false
		case "table":
			if !p.hasAnyInTableScope("tbody", "thead", "tfoot") {
				return false
			}
			p.clearStackToTableContext(tableBodyContextStop)
			p.oe.pop()
			p.mode = inTableIM
			return true
		case "body", "caption", "col", "colgroup", "html", "td", "th", "tr":
			return false
		}
	}
	return inTableIM(p)
}

func (p *parser) hasAnyInTableScope(names ...string) bool {
	for _, n := range names {
		if p.hasInTableScope(n) {
			return true
		}
	}
	return false
}

func inRowIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case StartTagToken:
		switch tok.Data {
		case "th", "td":
			p.clearStackToTableContext(rowContextStop)
			p.insertHTMLElement(tok)
			p.mode = inCellIM
			p.pushFormattingMarker()
			return false
		case "caption", "col", "colgroup", "tbody", "tfoot", "thead", "tr":
			if !p.hasInTableScope("tr") {
				return false
			}
			p.clearStackToTableContext(rowContextStop)
			p.oe.pop()
			p.mode = inTableBodyIM
			return true
		}
	case EndTagToken:
		switch tok.Data {
		case "tr":
			if !p.hasInTableScope("tr") {
				p.recordError(ErrMissingEndTagName)
				return false
			}
			p.clearStackToTableContext(rowContextStop)
			p.oe.pop()
			p.mode = inTableBodyIM
			return false
		case "table":
			if !p.hasInTableScope("tr") {
				return false
			}
			p.clearStackToTableContext(rowContextStop)
			p.oe.pop()
			p.mode = inTableBodyIM
			return true
		case "tbody", "tfoot", "thead":
			if !p.hasInTableScope(tok.Data) || !p.hasInTableScope("tr") {
				return false
			}
			p.clearStackToTableContext(rowContextStop)
			p.oe.pop()
			p.mode = inTableBodyIM
			return true
		case "body", "caption", "col", "colgroup", "html", "td", "th":
			return false
		}
	}
	return inTableIM(p)
}

func inCellIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case StartTagToken:
		switch tok.Data {
		case "caption", "col", "colgroup", "tbody", "td", "tfoot", "th",
			"thead", "tr":
			if !p.hasAnyInTableScope("td", "th") {
				return false
			}
			p.closeTableCell()
			return true
		}
	case EndTagToken:
		switch tok.Data {
		case "td", "th":
			if !p.hasInTableScope(tok.Data) {
				p.recordError(ErrMissingEndTagName)
				return false
			}
			p.generateImpliedEndTags("")
			if top := p.oe.top(); top == nil || top.Data != tok.Data {
				p.recordError(ErrMissingEndTagName)
			}
			p.oe.popUntil(nil, tok.Data)
			p.clearActiveFormattingElementsToMarker()
			p.mode = inRowIM
			return false
		case "body", "caption", "col", "colgroup", "html":
			return false
		case "table", "tbody", "tfoot", "thead", "tr":
			if !p.hasInTableScope(tok.Data) {
				return false
			}
			p.closeTableCell()
			return true
		}
	}
	return inBodyIM(p)
}

func (p *parser) closeTableCell() {
	p.generateImpliedEndTags("")
	p.oe.popUntil(nil, "td", "th")
	p.clearActiveFormattingElementsToMarker()
	p.mode = inRowIM
}

func inSelectIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		if strings.IndexByte(tok.Data, 0) >= 0 {
			p.recordError(ErrUnexpectedNullCharacter)
			tok.Data = strings.ReplaceAll(tok.Data, "\x00", "")
		}
		p.insertText(tok.Data)
		return false
	case CommentToken:
		p.insertComment(tok.Data, nil)
		return false
	case DoctypeToken:
		return false
	case ErrorToken:
		return inBodyIM(p)
	case StartTagToken:
		switch tok.Data {
		case "html":
			return inBodyIM(p)
		case "option":
			if top := p.oe.top(); top != nil && top.IsElement("option") {
				p.oe.pop()
			}
			p.insertHTMLElement(tok)
			return false
		case "optgroup":
			if top := p.oe.top(); top != nil && top.IsElement("option") {
				p.oe.pop()
			}
			if top := p.oe.top(); top != nil && top.IsElement("optgroup") {
				p.oe.pop()
			}
			p.insertHTMLElement(tok)
			return false
		case "select":
			p.recordError(ErrMissingEndTagName)
			if !p.hasInSelectScope("select") {
				return false
			}
			p.oe.popUntil(nil, "select")
			p.resetInsertionMode()
			return false
		case "input", "keygen", "textarea":
			p.recordError(ErrMissingEndTagName)
			if !p.hasInSelectScope("select") {
				return false
			}
			p.oe.popUntil(nil, "select")
			p.resetInsertionMode()
			return true
		case "script", "template":
			return inHeadIM(p)
		}
	case EndTagToken:
		switch tok.Data {
		case "optgroup":
			if top := p.oe.top(); top != nil && top.IsElement("option") && len(p.oe) >= 2 && p.oe[len(p.oe)-2].IsElement("optgroup") {
				p.oe.pop()
			}
			if top := p.oe.top(); top != nil && top.IsElement("optgroup") {
				p.oe.pop()
			}
			return false
		case "option":
			if top := p.oe.top(); top != nil && top.IsElement("option") {
				p.oe.pop()
			}
			return false
		case "select":
			if !p.hasInSelectScope("select") {
				p.recordError(ErrMissingEndTagName)
				return false
			}
			p.oe.popUntil(nil, "select")
			p.resetInsertionMode()
			return false
		case "template":
			return endTemplateTag(p)
		}
	}
	return false
}

func inSelectInTableIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case StartTagToken:
		switch tok.Data {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			p.recordError(ErrMissingEndTagName)
			p.oe.popUntil(nil, "select")
			p.resetInsertionMode()
			return true
		}
	case EndTagToken:
		switch tok.Data {
		case "caption", "table", "tbody", "tfoot", "thead", "tr", "td", "th":
			if !p.hasInTableScope(tok.Data) {
				return false
			}
			p.oe.popUntil(nil, "select")
			p.resetInsertionMode()
			return true
		}
	}
	return inSelectIM(p)
}

func inTemplateIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken, CommentToken, DoctypeToken:
		return inBodyIM(p)
	case StartTagToken:
		switch tok.Data {
		case "base", "basefont", "bgsound", "link", "meta", "noframes",
			"script", "style", "template", "title":
			return inHeadIM(p)
		case "caption", "colgroup", "tbody", "tfoot", "thead":
			p.templateModes[len(p.templateModes)-1] = inTableIM
			p.mode = inTableIM
			return true
		case "col":
			p.templateModes[len(p.templateModes)-1] = inColumnGroupIM
			p.mode = inColumnGroupIM
			return true
		case "tr":
			p.templateModes[len(p.templateModes)-1] = inTableBodyIM
			p.mode = inTableBodyIM
			return true
		case "td", "th":
			p.templateModes[len(p.templateModes)-1] = inRowIM
			p.mode = inRowIM
			return true
		default:
			p.templateModes[len(p.templateModes)-1] = inBodyIM
			p.mode = inBodyIM
			return true
		}
	case EndTagToken:
		if tok.Data == "template" {
			return endTemplateTag(p)
		}
		return false
	case ErrorToken:
		if !p.oe.contains("template") {
			p.stopped = true
			return false
		}
		p.recordError(ErrEOFInTag)
		p.oe.popUntil(nil, "template")
		p.clearActiveFormattingElementsToMarker()
		if len(p.templateModes) > 0 {
			p.templateModes = p.templateModes[:len(p.templateModes)-1]
		}
		p.resetInsertionMode()
		return true
	}
	return false
}

func afterBodyIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		if isAllWhitespace(tok.Data) {
			return inBodyIM(p)
		}
	case CommentToken:
		p.insertComment(tok.Data, p.oe[0])
		return false
	case DoctypeToken:
		return false
	case StartTagToken:
		if tok.Data == "html" {
			return inBodyIM(p)
		}
	case EndTagToken:
		if tok.Data == "html" {
			p.mode = afterAfterBodyIM
			return false
		}
	case ErrorToken:
		p.stopped = true
		return false
	}
	p.mode = inBodyIM
	return true
}

func inFramesetIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		if isAllWhitespace(tok.Data) {
			p.insertText(tok.Data)
		}
		return false
	case CommentToken:
		p.insertComment(tok.Data, nil)
		return false
	case DoctypeToken:
		return false
	case StartTagToken:
		switch tok.Data {
		case "html":
			return inBodyIM(p)
		case "frameset":
			p.insertHTMLElement(tok)
			return false
		case "frame":
			p.insertVoidElement(tok)
			return false
		case "noframes":
			return inHeadIM(p)
		}
	case EndTagToken:
		if tok.Data == "frameset" {
			if len(p.oe) > 1 {
				p.oe.pop()
			}
			if !p.fragment && (p.oe.top() == nil || !p.oe.top().IsElement("frameset")) {
				p.mode = afterFramesetIM
			}
			return false
		}
	case ErrorToken:
		p.stopped = true
		return false
	}
	return false
}

func afterFramesetIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case TextToken:
		if isAllWhitespace(tok.Data) {
			p.insertText(tok.Data)
		}
		return false
	case CommentToken:
		p.insertComment(tok.Data, nil)
		return false
	case DoctypeToken:
		return false
	case StartTagToken:
		switch tok.Data {
		case "html":
			return inBodyIM(p)
		case "noframes":
			return inHeadIM(p)
		}
	case EndTagToken:
		if tok.Data == "html" {
			p.mode = afterAfterFramesetIM
			return false
		}
	case ErrorToken:
		p.stopped = true
		return false
	}
	return false
}

func afterAfterBodyIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case CommentToken:
		p.insertComment(tok.Data, p.doc)
		return false
	case DoctypeToken:
		return false
	case TextToken:
		if isAllWhitespace(tok.Data) {
			return inBodyIM(p)
		}
	case StartTagToken:
		if tok.Data == "html" {
			return inBodyIM(p)
		}
	case ErrorToken:
		p.stopped = true
		return false
	}
	p.mode = inBodyIM
	return true
}

func afterAfterFramesetIM(p *parser) bool {
	tok := p.cur
	switch tok.Type {
	case CommentToken:
		p.insertComment(tok.Data, p.doc)
		return false
	case DoctypeToken:
		return false
	case TextToken:
		if isAllWhitespace(tok.Data) {
			return inBodyIM(p)
		}
	case StartTagToken:
		switch tok.Data {
		case "html":
			return inBodyIM(p)
		case "noframes":
			return inHeadIM(p)
		}
	case ErrorToken:
		p.stopped = true
		return false
	}
	return false
}
