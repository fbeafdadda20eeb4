// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import (
	"io"
)

// Options configures a single Parse call.
type Options struct {
	// CollectErrors, when true, causes Parse to append every recoverable
	// parse error to *Errors, per section 7. Errors must be non-nil when
	// CollectErrors is set; callers read the accumulated errors back
	// through their own pointer after Parse returns.
	CollectErrors bool
	Errors        *[]ParseError

	// Strict, when true, aborts parsing at the first parse error and
	// returns that error instead of a tree, per section 7's
	// strict-mode-failure policy. Takes precedence over CollectErrors:
	// a strict parse returns (nil, err) on the first error rather than
	// accumulating a list.
	Strict bool

	// ScriptingEnabled affects the InHeadNoscript insertion mode and the
	// choice between the "noscript" and generic RAWTEXT handling for a
	// handful of elements, section 13.2.6.4.
	ScriptingEnabled bool

	// IframeSrcdoc marks the document as the contents of an
	// iframe srcdoc attribute, which disables a handful of quirks-mode
	// checks per section 13.2.6.4.1.
	IframeSrcdoc bool

	// XMLCoercion, when true, runs a post-pass over the finished tree
	// (see xmlcoerce.go) that renames element and attribute names into
	// XML-legal form: U+000C FORM FEED becomes a space and Unicode
	// noncharacters are replaced, per section 7's xml_coercion option.
	XMLCoercion bool
}

// insertionMode is one step of the tree construction state machine,
// section 13.2.6.4. It returns whether the current token should be
// reprocessed by whatever mode p.mode holds after the call (the "anything
// else" / "reprocess" pattern used throughout the specification).
type insertionMode func(p *parser) bool

// nodeStack is the stack of open elements or the list of active
// formatting elements, sections 13.2.4.2 and 13.2.4.3.
type nodeStack []*Node

func (s *nodeStack) push(n *Node)  { *s = append(*s, n) }
func (s *nodeStack) pop() *Node {
	n := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return n
}
func (s nodeStack) top() *Node {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}
func (s nodeStack) index(n *Node) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == n {
			return i
		}
	}
	return -1
}
func (s nodeStack) contains(name string) bool {
	for _, n := range s {
		if n.IsElement(name) {
			return true
		}
	}
	return false
}
func (s *nodeStack) remove(n *Node) {
	i := s.index(n)
	if i < 0 {
		return
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
}
func (s *nodeStack) insertAt(i int, n *Node) {
	*s = append(*s, nil)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = n
}

// popUntil pops the stack until (and including) a node matching one of
// match's names is popped, and reports whether such a node was found
// before a stop-tag was reached. Grounded on the early standard-library
// parser's helper of the same name.
func (s *nodeStack) popUntil(stop map[string]bool, match ...string) bool {
	for i := len(*s) - 1; i >= 0; i-- {
		n := (*s)[i]
		if n.Namespace == NamespaceHTML {
			for _, m := range match {
				if n.Data == m {
					*s = (*s)[:i]
					return true
				}
			}
			if stop != nil && stop[n.Data] {
				return false
			}
		}
	}
	return false
}

// parser drives tokenization and tree construction together.
type parser struct {
	tok       *Tokenizer
	cur       Token
	opts      Options
	errors    *[]ParseError

	doc  *Node
	oe   nodeStack // stack of open elements
	afe  nodeStack // active formatting elements (scopeMarkerNode delimits scopes)

	head *Node
	form *Node

	scripting   bool
	framesetOK  bool
	fosterParenting bool

	// forceHTMLRules is a one-shot bypass set by foreignEndTag's "any
	// other end tag" fallback (section 13.2.6.2 step 7): the stack walk
	// found only HTML-namespace ancestors, so the token must be
	// reprocessed under the current HTML insertion mode instead of the
	// foreign-content rules. useForeignContentRules consumes it.
	forceHTMLRules bool

	mode, originalMode insertionMode
	templateModes      []insertionMode

	quirks quirksMode

	// Fragment parsing context, section 13.4.
	fragment        bool
	fragmentContext *Node

	// InTableText accumulation, section 13.2.6.4.9.
	pendingTableText         []byte
	pendingTableTextHasNonWS bool
	originalModeForText      insertionMode

	stopped   bool
	strictErr *ParseError
}

func (p *parser) currentNamespace() string {
	n := p.adjustedCurrentNode()
	if n == nil {
		return NamespaceHTML
	}
	return n.Namespace
}

// adjustedCurrentNode implements section 13.2.4.1: the fragment
// context element stands in for an empty stack of open elements.
func (p *parser) adjustedCurrentNode() *Node {
	if p.fragment && len(p.oe) == 1 {
		return p.fragmentContext
	}
	return p.oe.top()
}

// recordError appends a parse error for Errors/CollectErrors bookkeeping
// and, in Strict mode, latches it as the call's failure value and stops
// the parser: section 7's "abort at the first parse error" policy.
func (p *parser) recordError(code ErrorCode) {
	err := ParseError{Code: code}
	if p.opts.Strict && p.strictErr == nil {
		p.strictErr = &err
		p.stopped = true
	}
	if p.errors == nil {
		return
	}
	*p.errors = append(*p.errors, err)
}

// Parse reads all of r and parses it as a full HTML document.
func Parse(r io.Reader, opts Options) (*Node, error) {
	b, err := readAllBytes(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(b, opts)
}

// ParseString parses s as a full HTML document.
func ParseString(s string, opts Options) (*Node, error) {
	return ParseBytes([]byte(s), opts)
}

// ParseBytes parses b as a full HTML document.
func ParseBytes(b []byte, opts Options) (*Node, error) {
	p := newParser(b, opts)
	p.mode = initialIM
	p.run()
	if p.strictErr != nil {
		return nil, p.strictErr
	}
	if opts.XMLCoercion {
		coerceToXML(p.doc)
	}
	return p.doc, nil
}

// ParseFragment parses the contents of r as if they were the innerHTML of context, per the
// fragment parsing algorithm, section 13.4. context may be nil, meaning
// an html-namespace <body> context.
func ParseFragment(r io.Reader, context *Node, opts Options) ([]*Node, error) {
	b, err := readAllBytes(r)
	if err != nil {
		return nil, err
	}
	return ParseFragmentBytes(b, context, opts)
}

// ParseFragmentBytes is ParseFragment without the io.Reader indirection.
func ParseFragmentBytes(b []byte, context *Node, opts Options) ([]*Node, error) {
	if context == nil {
		context = &Node{Type: ElementNode, Data: "body", Namespace: NamespaceHTML}
	}
	p := newParser(b, opts)
	p.fragment = true
	p.fragmentContext = context

	root := &Node{Type: ElementNode, Data: "html", Namespace: NamespaceHTML}
	p.doc.Add(root)
	p.oe.push(root)

	if context.IsElement("template") {
		p.templateModes = append(p.templateModes, inTemplateIM)
	}

	p.tok.SetLastStartTag(context.Data)
	p.tok.SetState(rawTokenizerStateFor(context))

	if context.IsElement("form") {
		p.form = context
	}

	p.resetInsertionMode()
	p.run()
	if p.strictErr != nil {
		return nil, p.strictErr
	}

	children := make([]*Node, len(root.Child))
	copy(children, root.Child)
	for _, c := range children {
		root.Remove(c)
	}
	if opts.XMLCoercion {
		for _, c := range children {
			coerceToXML(c)
		}
	}
	return children, nil
}

func rawTokenizerStateFor(context *Node) state {
	if context.Namespace != NamespaceHTML {
		return dataState
	}
	switch context.Data {
	case "title", "textarea":
		return rcdataState
	case "style", "xmp", "iframe", "noembed", "noframes":
		return rawtextState
	case "script":
		return scriptDataState
	case "noscript":
		return rawtextState
	case "plaintext":
		return plaintextState
	}
	return dataState
}

func newParser(b []byte, opts Options) *parser {
	p := &parser{
		opts:       opts,
		framesetOK: true,
		scripting:  opts.ScriptingEnabled,
		doc:        &Node{Type: DocumentNode},
	}
	if opts.CollectErrors {
		p.errors = opts.Errors
	}
	p.tok = NewTokenizer(b, p)
	if p.errors != nil {
		p.tok.CollectErrors(p.errors)
	}
	if opts.Strict {
		p.tok.OnError(func(code ErrorCode) {
			if p.strictErr == nil {
				e := ParseError{Code: code}
				p.strictErr = &e
				p.stopped = true
			}
		})
	}
	return p
}

// run is the tree construction dispatch loop, section 13.2.6: for each
// token, first check whether foreign-content rules apply (section
// 13.2.6.2), then dispatch to the current insertion mode, looping while
// the mode asks for reprocessing.
func (p *parser) run() {
	for !p.stopped {
		p.cur = p.tok.Next()
		if p.cur.Type == ErrorToken {
			p.processEOF()
			return
		}
		for {
			var reprocess bool
			if p.useForeignContentRules() {
				reprocess = p.processForeignContent()
			} else {
				reprocess = p.mode(p)
			}
			if !reprocess {
				break
			}
		}
	}
}

// processEOF runs the current mode (and InTemplate/stack cleanup) against
// a synthetic EOF, per each mode's "anything else" EOF clause, then
// closes out the document.
func (p *parser) processEOF() {
	p.cur = Token{Type: ErrorToken}
	for {
		if !p.mode(p) {
			break
		}
	}
}

func isAllWhitespace(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isWhitespace(s[i]) {
			return false
		}
	}
	return true
}

// --- Insertion helpers, section 13.2.6.1 ---

func (p *parser) appropriateInsertionLocation(override *Node) (parent *Node, before *Node) {
	target := override
	if target == nil {
		target = p.oe.top()
	}
	if p.fosterParenting && target != nil && isFosterTarget(target) {
		return p.fosterInsertionLocation()
	}
	if target != nil && target.IsElement("template") {
		return target.TemplateContent, nil
	}
	return target, nil
}

func isFosterTarget(n *Node) bool {
	switch n.Data {
	case "table", "tbody", "tfoot", "thead", "tr":
		return n.Namespace == NamespaceHTML
	}
	return false
}

// fosterInsertionLocation implements the foster parenting algorithm,
// section 13.2.6.1: content that would otherwise land inside a table is
// instead placed just before the table (or appended to a template's
// content, or to the last non-table ancestor).
func (p *parser) fosterInsertionLocation() (*Node, *Node) {
	var lastTable *Node
	for i := len(p.oe) - 1; i >= 0; i-- {
		if p.oe[i].IsElement("table") {
			lastTable = p.oe[i]
			break
		}
	}
	if lastTable == nil {
		return p.oe[0], nil
	}
	for i := p.oe.index(lastTable) - 1; i >= 0; i-- {
		if p.oe[i].IsElement("template") {
			return p.oe[i].TemplateContent, nil
		}
	}
	if lastTable.Parent != nil {
		return lastTable.Parent, lastTable
	}
	return p.oe[p.oe.index(lastTable)-1], nil
}

// insertNode places n at the appropriate insertion location, coalescing
// adjacent Text nodes as required by section 13.2.6.1's "insert a
// character" step (addText in the early standard-library parser is the
// direct ancestor of this logic).
func (p *parser) insertNode(n *Node, override *Node) {
	parent, before := p.appropriateInsertionLocation(override)
	if parent == nil {
		return
	}
	if n.Type == TextNode {
		var prev *Node
		if before == nil {
			prev = parent.LastChild()
		} else {
			for i, c := range parent.Child {
				if c == before && i > 0 {
					prev = parent.Child[i-1]
				}
			}
		}
		if prev != nil && prev.Type == TextNode {
			prev.Data += n.Data
			return
		}
	}
	parent.InsertBefore(n, before)
}

func (p *parser) insertText(s string) {
	if s == "" {
		return
	}
	p.insertNode(&Node{Type: TextNode, Data: s}, nil)
}

func (p *parser) insertComment(s string, override *Node) {
	p.insertNode(&Node{Type: CommentNode, Data: s}, override)
}

func (p *parser) insertDoctype(tok Token) {
	p.doc.Add(&Node{
		Type:        DoctypeNode,
		Data:        tok.Data,
		PublicID:    tok.PublicID,
		SystemID:    tok.SystemID,
		ForceQuirks: tok.ForceQuirks,
	})
}

// insertElementForToken creates an element from tok and pushes it onto
// the stack of open elements, per "insert an HTML element", section
// 13.2.6.1. A <template> gets a detached DocumentFragment for its
// content, created lazily here rather than by the caller.
func (p *parser) insertElementForToken(tok Token, namespace string) *Node {
	n := &Node{
		Type:      ElementNode,
		Data:      tok.Data,
		Namespace: namespace,
		Attr:      append([]Attribute(nil), tok.Attr...),
	}
	if namespace == NamespaceHTML && tok.Data == "template" {
		n.TemplateContent = &Node{Type: DocumentFragmentNode}
	}
	p.insertNode(n, nil)
	p.oe.push(n)
	return n
}

func (p *parser) insertHTMLElement(tok Token) *Node {
	return p.insertElementForToken(tok, NamespaceHTML)
}

// insertVoidElement inserts an HTML element per the normal rules and
// immediately pops it off the stack of open elements. It records no
// parse error.
func (p *parser) insertVoidElement(tok Token) *Node {
	n := p.insertHTMLElement(tok)
	p.oe.pop()
	return n
}

// --- Active formatting elements list, section 13.2.4.3 ---

func (p *parser) pushFormattingElement(n *Node) {
	// Noah's Ark clause: if there are already three elements after the
	// last marker with the same tag name, namespace and attributes, drop
	// the earliest of them.
	count := 0
	matchIdx := -1
	for i := len(p.afe) - 1; i >= 0; i-- {
		e := p.afe[i]
		if e.Type == scopeMarkerNode {
			break
		}
		if sameFormattingElement(e, n) {
			count++
			matchIdx = i
			if count == 3 {
				p.afe.remove(p.afe[matchIdx])
				break
			}
		}
	}
	p.afe.push(n)
}

func sameFormattingElement(a, b *Node) bool {
	if a.Data != b.Data || a.Namespace != b.Namespace || len(a.Attr) != len(b.Attr) {
		return false
	}
	for _, av := range a.Attr {
		found := false
		for _, bv := range b.Attr {
			if av == bv {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (p *parser) pushFormattingMarker() {
	p.afe.push(&Node{Type: scopeMarkerNode})
}

func (p *parser) clearActiveFormattingElementsToMarker() {
	for len(p.afe) > 0 {
		n := p.afe.pop()
		if n.Type == scopeMarkerNode {
			return
		}
	}
}

// reconstructActiveFormattingElements implements section 13.2.4.3: walk
// back through the list to the last entry already on the stack of open
// elements (or a marker, or the list start), then re-insert and re-push
// clones forward from there, bringing formatting back to life after a
// block element interrupted it.
func (p *parser) reconstructActiveFormattingElements() {
	if len(p.afe) == 0 {
		return
	}
	last := p.afe.top()
	if last.Type == scopeMarkerNode || p.oe.index(last) >= 0 {
		return
	}
	i := len(p.afe) - 1
	for i > 0 {
		i--
		entry := p.afe[i]
		if entry.Type == scopeMarkerNode || p.oe.index(entry) >= 0 {
			i++
			break
		}
	}
	for ; i < len(p.afe); i++ {
		clone := p.afe[i].clone()
		p.insertNode(clone, nil)
		p.oe.push(clone)
		p.afe[i] = clone
	}
}

// --- Scope predicates, section 13.2.4.2 ---

func (p *parser) hasElementInScope(stop map[string]bool, name string) bool {
	return p.hasElementInScopeFn(stop, func(n *Node) bool { return n.IsElement(name) })
}

func (p *parser) hasElementInScopeFn(stop map[string]bool, match func(*Node) bool) bool {
	for i := len(p.oe) - 1; i >= 0; i-- {
		n := p.oe[i]
		if match(n) {
			return true
		}
		if n.Namespace == NamespaceHTML && stop[n.Data] {
			return false
		}
		if n.Namespace != NamespaceHTML && isForeignScopeBoundary(n) {
			return false
		}
	}
	return false
}

func isForeignScopeBoundary(n *Node) bool {
	if n.Namespace == NamespaceMathML {
		return n.Data == "mi" || n.Data == "mo" || n.Data == "mn" || n.Data == "ms" || n.Data == "mtext" || n.Data == "annotation-xml"
	}
	if n.Namespace == NamespaceSVG {
		return n.Data == "foreignObject" || n.Data == "desc" || n.Data == "title"
	}
	return false
}

func (p *parser) hasInScope(name string) bool       { return p.hasElementInScope(defaultScopeStopTags, name) }
func (p *parser) hasInListItemScope(name string) bool { return p.hasElementInScope(listItemScopeStopTags, name) }
func (p *parser) hasInButtonScope(name string) bool { return p.hasElementInScope(buttonScopeStopTags, name) }
func (p *parser) hasInTableScope(name string) bool  { return p.hasElementInScope(tableScopeStopTags, name) }

// hasInSelectScope implements the select-scope predicate, which is
// defined by inversion (section 13.2.4.2): everything stops the scope
// except <optgroup> and <option> themselves.
func (p *parser) hasInSelectScope(name string) bool {
	for i := len(p.oe) - 1; i >= 0; i-- {
		n := p.oe[i]
		if n.Namespace != NamespaceHTML {
			return false
		}
		if n.Data == name {
			return true
		}
		if n.Data != "optgroup" && n.Data != "option" {
			return false
		}
	}
	return false
}

// generateImpliedEndTags pops elements whose tags are implied-end-tag
// eligible (section 13.2.6.1), skipping any whose name equals except.
func (p *parser) generateImpliedEndTags(except string) {
	for {
		n := p.oe.top()
		if n == nil || n.Namespace != NamespaceHTML || !impliedEndTags[n.Data] || n.Data == except {
			return
		}
		p.oe.pop()
	}
}

func (p *parser) generateImpliedEndTagsThoroughly() {
	for {
		n := p.oe.top()
		if n == nil || n.Namespace != NamespaceHTML || !impliedEndTagsThoroughly[n.Data] {
			return
		}
		p.oe.pop()
	}
}

var impliedEndTags = map[string]bool{
	"dd": true, "dt": true, "li": true, "optgroup": true, "option": true,
	"p": true, "rb": true, "rp": true, "rt": true, "rtc": true,
}

var impliedEndTagsThoroughly = union(impliedEndTags, map[string]bool{
	"caption": true, "colgroup": true, "tbody": true, "td": true,
	"tfoot": true, "th": true, "thead": true, "tr": true,
})

// closePElementIfInButtonScope implements the common "if the stack of
// open elements has a p element in button scope, close it" step used by
// many InBody start-tag branches.
func (p *parser) closePElementIfInButtonScope() {
	if !p.hasInButtonScope("p") {
		return
	}
	p.closePElement()
}

func (p *parser) closePElement() {
	p.generateImpliedEndTags("p")
	if top := p.oe.top(); top == nil || !top.IsElement("p") {
		p.recordError(ErrMissingEndTagName)
	}
	p.oe.popUntil(nil, "p")
}

// resetInsertionMode implements the "reset the insertion mode
// appropriately" algorithm, section 13.2.6.4.1, used both at the end of
// fragment-context setup and after a <select> or table cell is closed.
func (p *parser) resetInsertionMode() {
	for i := len(p.oe) - 1; i >= 0; i-- {
		n := p.oe[i]
		last := i == 0
		if last && p.fragment {
			n = p.fragmentContext
		}
		if n.Namespace != NamespaceHTML {
			p.mode = inBodyIM
			continue
		}
		switch n.Data {
		case "select":
			for j := i; j > 0; j-- {
				anc := p.oe[j-1]
				if anc.IsElement("template") {
					break
				}
				if anc.IsElement("table") {
					p.mode = inSelectInTableIM
					return
				}
			}
			p.mode = inSelectIM
			return
		case "td", "th":
			if !last {
				p.mode = inCellIM
				return
			}
		case "tr":
			p.mode = inRowIM
			return
		case "tbody", "thead", "tfoot":
			p.mode = inTableBodyIM
			return
		case "caption":
			p.mode = inCaptionIM
			return
		case "colgroup":
			p.mode = inColumnGroupIM
			return
		case "table":
			p.mode = inTableIM
			return
		case "template":
			p.mode = p.templateModes[len(p.templateModes)-1]
			return
		case "head":
			if !last {
				p.mode = inHeadIM
				return
			}
		case "body":
			p.mode = inBodyIM
			return
		case "frameset":
			p.mode = inFramesetIM
			return
		case "html":
			if p.head == nil {
				p.mode = beforeHeadIM
			} else {
				p.mode = afterHeadIM
			}
			return
		}
		if last {
			p.mode = inBodyIM
			return
		}
	}
	p.mode = inBodyIM
}

// useTheRulesFor switches to mode and immediately runs it once. Nothing
// in the package calls it.
func (p *parser) useTheRulesFor(mode insertionMode) bool {
	p.mode = mode
	return p.mode(p)
}

func attrsHave(attrs []Attribute, key string) (string, bool) {
	for _, a := range attrs {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
