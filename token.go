// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import (
	"strings"
)

// A TokenType distinguishes the handful of structural tokens the
// tokenizer emits. Section 13.2.5.
type TokenType int

const (
	ErrorToken TokenType = iota
	TextToken
	StartTagToken
	EndTagToken
	CommentToken
	DoctypeToken
)

// Attribute looks up the first attribute with the given key, returning
// its value and whether it was found.
func (t Token) Attribute(key string) (string, bool) {
	for _, a := range t.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func (t TokenType) String() string {
	switch t {
	case TextToken:
		return "Text"
	case StartTagToken:
		return "StartTag"
	case EndTagToken:
		return "EndTag"
	case CommentToken:
		return "Comment"
	case DoctypeToken:
		return "Doctype"
	}
	return "Error"
}

// String renders the token in the compact single-line form used by this
// package's tests and by CollectErrors-style debug dumps: a start tag
// renders as "<a href=\"x\">", an end tag as "</a>", a self-closing tag
// keeps its trailing slash, a text token renders as its raw Data, a
// comment as "<!--data-->", and a doctype as "<!DOCTYPE name>".
func (t Token) String() string {
	switch t.Type {
	case TextToken:
		return t.Data
	case CommentToken:
		return "<!--" + t.Data + "-->"
	case DoctypeToken:
		return "<!DOCTYPE " + t.Data + ">"
	case StartTagToken, EndTagToken:
		var sb strings.Builder
		sb.WriteByte('<')
		if t.Type == EndTagToken {
			sb.WriteByte('/')
		}
		sb.WriteString(t.Data)
		for _, a := range t.Attr {
			sb.WriteByte(' ')
			if a.Namespace != "" {
				sb.WriteString(a.Namespace)
				sb.WriteByte(':')
			}
			sb.WriteString(a.Key)
			sb.WriteString(`="`)
			sb.WriteString(a.Val)
			sb.WriteString(`"`)
		}
		if t.SelfClosing {
			sb.WriteByte('/')
		}
		sb.WriteByte('>')
		return sb.String()
	}
	return ""
}

// A Token is a single item from the tokenizer's output stream.
type Token struct {
	Type        TokenType
	Data        string
	Attr        []Attribute
	SelfClosing bool

	// Doctype-only fields.
	ForceQuirks bool
	PublicID    string
	HasPublicID bool
	SystemID    string
	HasSystemID bool
}

// state names the tokenizer's current lexer state, following the WHATWG
// specification's state list (section 13.2.5). The CharacterReference
// family of states has no value in this enum: those states are
// resolved procedurally inside consumeCharacterReference rather than as
// explicit cases in Tokenizer.Next's switch, since the reference
// algorithm is a single reusable subroutine called from Data, RCDATA,
// and the attribute-value states alike -- exactly as section 13.2.5.72
// describes it ("consume the next input character(s) as a character
// reference").
type state int

const (
	dataState state = iota
	rcdataState
	rawtextState
	scriptDataState
	plaintextState
	tagOpenState
	endTagOpenState
	tagNameState
	rcdataLessThanSignState
	rcdataEndTagOpenState
	rcdataEndTagNameState
	rawtextLessThanSignState
	rawtextEndTagOpenState
	rawtextEndTagNameState
	scriptDataLessThanSignState
	scriptDataEndTagOpenState
	scriptDataEndTagNameState
	scriptDataEscapeStartState
	scriptDataEscapeStartDashState
	scriptDataEscapedState
	scriptDataEscapedDashState
	scriptDataEscapedDashDashState
	scriptDataEscapedLessThanSignState
	scriptDataEscapedEndTagOpenState
	scriptDataEscapedEndTagNameState
	scriptDataDoubleEscapeStartState
	scriptDataDoubleEscapedState
	scriptDataDoubleEscapedDashState
	scriptDataDoubleEscapedDashDashState
	scriptDataDoubleEscapedLessThanSignState
	scriptDataDoubleEscapeEndState
	beforeAttributeNameState
	attributeNameState
	afterAttributeNameState
	beforeAttributeValueState
	attributeValueDoubleQuotedState
	attributeValueSingleQuotedState
	attributeValueUnquotedState
	afterAttributeValueQuotedState
	selfClosingStartTagState
	bogusCommentState
	markupDeclarationOpenState
	commentStartState
	commentStartDashState
	commentState
	commentLessThanSignState
	commentLessThanSignBangState
	commentLessThanSignBangDashState
	commentLessThanSignBangDashDashState
	commentEndDashState
	commentEndState
	commentEndBangState
	doctypeState
	beforeDoctypeNameState
	doctypeNameState
	afterDoctypeNameState
	afterDoctypePublicKeywordState
	beforeDoctypePublicIdentifierState
	doctypePublicIdentifierDoubleQuotedState
	doctypePublicIdentifierSingleQuotedState
	afterDoctypePublicIdentifierState
	betweenDoctypePublicAndSystemIdentifiersState
	afterDoctypeSystemKeywordState
	beforeDoctypeSystemIdentifierState
	doctypeSystemIdentifierDoubleQuotedState
	doctypeSystemIdentifierSingleQuotedState
	afterDoctypeSystemIdentifierState
	bogusDoctypeState
	cdataSectionState
)

// ErrorCode is a stable identifier for a parse error, aligned with the
// WHATWG parse-error catalog (section 13.2.5 and 13.2.6 notes).
type ErrorCode string

const (
	ErrEOFInTag                    ErrorCode = "eof-in-tag"
	ErrEOFInComment                ErrorCode = "eof-in-comment"
	ErrEOFInDoctype                ErrorCode = "eof-in-doctype"
	ErrEOFInCDATA                  ErrorCode = "eof-in-cdata"
	ErrEOFBeforeTagName            ErrorCode = "eof-before-tag-name"
	ErrMissingEndTagName           ErrorCode = "missing-end-tag-name"
	ErrDuplicateAttribute          ErrorCode = "duplicate-attribute"
	ErrUnexpectedNullCharacter     ErrorCode = "unexpected-null-character"
	ErrUnexpectedQuestionMark      ErrorCode = "unexpected-question-mark-instead-of-tag-name"
	ErrInvalidFirstCharOfTagName   ErrorCode = "invalid-first-character-of-tag-name"
	ErrMissingWhitespaceBeforeAttr ErrorCode = "missing-whitespace-before-attribute-value"
	ErrUnexpectedCharInAttrName    ErrorCode = "unexpected-character-in-attribute-name"
	ErrMissingAttrValue            ErrorCode = "missing-attribute-value"
	ErrUnexpectedSolidusInTag      ErrorCode = "unexpected-solidus-in-tag"
	ErrAbruptClosingOfEmptyComment ErrorCode = "abrupt-closing-of-empty-comment"
	ErrIncorrectlyClosedComment    ErrorCode = "incorrectly-closed-comment"
	ErrNestedComment               ErrorCode = "nested-comment"
	ErrIncorrectlyOpenedComment    ErrorCode = "incorrectly-opened-comment"
	ErrMissingDoctypeName          ErrorCode = "missing-doctype-name"
	ErrMissingWhitespaceDoctype    ErrorCode = "missing-whitespace-before-doctype-name"
	ErrCDATAInHTMLContent          ErrorCode = "cdata-in-html-content"
	ErrSurrogateCharRef            ErrorCode = "surrogate-character-reference"
	ErrNoncharacterCharRef         ErrorCode = "noncharacter-character-reference"
	ErrControlCharRef              ErrorCode = "control-character-reference"
	ErrAbsenceOfDigitsInCharRef    ErrorCode = "absence-of-digits-in-numeric-character-reference"
	ErrMissingSemicolonCharRef     ErrorCode = "missing-semicolon-after-character-reference"
	ErrUnknownNamedCharRef         ErrorCode = "unknown-named-character-reference"
	ErrNonVoidWithTrailingSolidus  ErrorCode = "non-void-html-element-start-tag-with-trailing-solidus"
)

// ParseError is the error value surfaced for a single recoverable parse
// error, per section 7 of the specification.
type ParseError struct {
	Code   ErrorCode
	Offset int
}

func (e *ParseError) Error() string {
	return string(e.Code)
}

// Tokenizer lexes UTF-8 bytes into Token values following the WHATWG
// tokenizer algorithm. It is driven by a single consumer at a time (the
// tree constructor); see doc.go.
type Tokenizer struct {
	in    *inputBuffer
	state state

	// returnState is the state to resume after a character reference or
	// a script-data escape detour completes.
	returnState state

	// lastStartTag is consulted by the RCDATA/RAWTEXT/ScriptData "end tag
	// open" states to decide whether an end tag is "appropriate" (i.e.
	// matches the most recently emitted start tag), section 13.2.5.
	lastStartTag string

	// Scratch buffers, retained across tokens with cleared length but
	// preserved capacity, per the reusable-buffer contract in section
	// 4.2. This is a deliberate performance property, not incidental.
	nameBuf    []byte
	textBuf    []byte
	commentBuf []byte
	attrNameBuf []byte
	attrValBuf  []byte

	pendingAttr Attribute
	attrs       []Attribute
	seenAttrs   map[string]bool

	tagIsEnd    bool
	selfClosing bool

	doctypeName     []byte
	doctypeHasName  bool
	doctypePublic   []byte
	doctypeHasPub   bool
	doctypeSystem   []byte
	doctypeHasSys   bool
	doctypeForceQuirks bool
	doctypeQuoteState byte

	// pendingText accumulates a run of Character tokens between
	// structural markers so the tree constructor sees coalesced text
	// runs rather than one token per scanned chunk. In the Data state and
	// the escaped script-data states a run is still flushed at every '<',
	// so text containing a literal '<' arrives as more than one token.
	pendingText []byte

	sink tokenSink

	temp []byte // scratch for script-data double-escape comparisons

	errors *[]ParseError
	onError func(ErrorCode)
}

// tokenSink is the interface the tree constructor implements to answer
// the one question the tokenizer cannot answer on its own. Tokens are
// not pushed through it: the tree constructor pulls each token by
// calling Next. The one question is whether the current insertion
// point is inside foreign (SVG/MathML) content, which governs whether a
// CDATA section is legal. Section 6 ("Token sink contract").
type tokenSink interface {
	currentNamespace() string
}

// NewTokenizer returns a Tokenizer positioned at the start of b in the
// Data state.
func NewTokenizer(b []byte, sink tokenSink) *Tokenizer {
	return &Tokenizer{
		in:    newInputBuffer(b),
		state: dataState,
		sink:  sink,
	}
}

// SetState forces the tokenizer into the given state, used by the tree
// constructor after emitting a start tag that switches the content
// model (RAWTEXT/RCDATA/PLAINTEXT/script), and during fragment-context
// setup (section 4.3.8).
func (z *Tokenizer) SetState(s state) {
	z.state = s
}

// SetLastStartTag records the tag name used by the RCDATA/RAWTEXT/
// ScriptData "appropriate end tag" tests.
func (z *Tokenizer) SetLastStartTag(name string) {
	z.lastStartTag = name
}

func (z *Tokenizer) recordError(code ErrorCode) {
	if z.onError != nil {
		z.onError(code)
	}
	if z.errors == nil {
		return
	}
	*z.errors = append(*z.errors, ParseError{Code: code, Offset: z.in.pos})
}

// OnError registers a callback invoked synchronously for every
// tokenizer-level parse error, in addition to any CollectErrors
// accumulation. The tree constructor uses this to implement Strict
// mode's "abort at the first parse error" policy uniformly across both
// tokenizer- and tree-construction-level errors.
func (z *Tokenizer) OnError(f func(ErrorCode)) {
	z.onError = f
}

// CollectErrors directs the tokenizer to append parse errors to dst.
func (z *Tokenizer) CollectErrors(dst *[]ParseError) {
	z.errors = dst
}

// Next lexes and returns the next token. Tag-name and attribute-name
// scratch buffers are cleared (not reallocated) when a new tag or
// attribute begins, per the reusable-buffer contract.
func (z *Tokenizer) Next() Token {
	z.attrs = nil
	z.seenAttrs = nil
	z.selfClosing = false
	for {
		// Guard against a state handler that reaches EOF without making
		// progress or switching state (an unterminated tag, attribute, or
		// markup declaration): rather than spin forever, fall back to an
		// end-of-file token once a full pass makes no progress.
		pos, st := z.in.pos, z.state
		if tok, done := z.stepState(); done {
			return tok
		}
		if z.in.pos == pos && z.state == st && z.in.eof() {
			return Token{Type: ErrorToken}
		}
	}
}

// stepState executes a single step of the state machine, returning a
// token and true if one was produced.
func (z *Tokenizer) stepState() (Token, bool) {
	switch z.state {
	case dataState:
		return z.stepData()
	case rcdataState, rawtextState, scriptDataState:
		return z.stepRawtextLike()
	case plaintextState:
		return z.stepPlaintext()
	case tagOpenState:
		z.stepTagOpen()
	case endTagOpenState:
		z.stepEndTagOpen()
	case tagNameState:
		return z.stepTagName()
	case rcdataLessThanSignState, rawtextLessThanSignState, scriptDataLessThanSignState:
		z.stepTextLessThanSign()
	case rcdataEndTagOpenState, rawtextEndTagOpenState, scriptDataEndTagOpenState:
		z.stepTextEndTagOpen()
	case rcdataEndTagNameState, rawtextEndTagNameState, scriptDataEndTagNameState:
		return z.stepTextEndTagName()
	case scriptDataEscapeStartState:
		z.stepScriptDataEscapeStart()
	case scriptDataEscapeStartDashState:
		z.stepScriptDataEscapeStartDash()
	case scriptDataEscapedState:
		return z.stepScriptDataEscaped()
	case scriptDataEscapedDashState:
		z.stepScriptDataEscapedDash()
	case scriptDataEscapedDashDashState:
		z.stepScriptDataEscapedDashDash()
	case scriptDataEscapedLessThanSignState:
		z.stepScriptDataEscapedLessThanSign()
	case scriptDataEscapedEndTagOpenState:
		z.stepTextEndTagOpen()
	case scriptDataEscapedEndTagNameState:
		return z.stepTextEndTagName()
	case scriptDataDoubleEscapeStartState:
		z.stepScriptDataDoubleEscapeStart()
	case scriptDataDoubleEscapedState:
		return z.stepScriptDataDoubleEscaped()
	case scriptDataDoubleEscapedDashState:
		z.stepScriptDataDoubleEscapedDash()
	case scriptDataDoubleEscapedDashDashState:
		z.stepScriptDataDoubleEscapedDashDash()
	case scriptDataDoubleEscapedLessThanSignState:
		z.stepScriptDataDoubleEscapedLessThanSign()
	case scriptDataDoubleEscapeEndState:
		z.stepScriptDataDoubleEscapeEnd()
	case beforeAttributeNameState:
		z.stepBeforeAttributeName()
	case attributeNameState:
		z.stepAttributeName()
	case afterAttributeNameState:
		z.stepAfterAttributeName()
	case beforeAttributeValueState:
		z.stepBeforeAttributeValue()
	case attributeValueDoubleQuotedState:
		z.stepAttributeValueQuoted('"')
	case attributeValueSingleQuotedState:
		z.stepAttributeValueQuoted('\'')
	case attributeValueUnquotedState:
		return z.stepAttributeValueUnquoted()
	case afterAttributeValueQuotedState:
		z.stepAfterAttributeValueQuoted()
	case selfClosingStartTagState:
		return z.stepSelfClosingStartTag()
	case bogusCommentState:
		return z.stepBogusComment()
	case markupDeclarationOpenState:
		z.stepMarkupDeclarationOpen()
	case commentStartState:
		z.stepCommentStart()
	case commentStartDashState:
		z.stepCommentStartDash()
	case commentState:
		z.stepComment()
	case commentLessThanSignState:
		z.stepCommentLessThanSign()
	case commentLessThanSignBangState:
		z.stepCommentLessThanSignBang()
	case commentLessThanSignBangDashState:
		z.stepCommentLessThanSignBangDash()
	case commentLessThanSignBangDashDashState:
		z.stepCommentLessThanSignBangDashDash()
	case commentEndDashState:
		z.stepCommentEndDash()
	case commentEndState:
		return z.stepCommentEnd()
	case commentEndBangState:
		z.stepCommentEndBang()
	case doctypeState:
		z.stepDoctype()
	case beforeDoctypeNameState:
		return z.stepBeforeDoctypeName()
	case doctypeNameState:
		return z.stepDoctypeName()
	case afterDoctypeNameState:
		return z.stepAfterDoctypeName()
	case afterDoctypePublicKeywordState:
		z.stepAfterDoctypePublicKeyword()
	case beforeDoctypePublicIdentifierState:
		z.stepBeforeDoctypeIdentifier(true)
	case doctypePublicIdentifierDoubleQuotedState:
		return z.stepDoctypeIdentifierQuoted(true, '"')
	case doctypePublicIdentifierSingleQuotedState:
		return z.stepDoctypeIdentifierQuoted(true, '\'')
	case afterDoctypePublicIdentifierState:
		return z.stepAfterDoctypeIdentifier(true)
	case betweenDoctypePublicAndSystemIdentifiersState:
		z.stepBetweenDoctypeIdentifiers()
	case afterDoctypeSystemKeywordState:
		z.stepAfterDoctypeSystemKeyword()
	case beforeDoctypeSystemIdentifierState:
		z.stepBeforeDoctypeIdentifier(false)
	case doctypeSystemIdentifierDoubleQuotedState:
		return z.stepDoctypeIdentifierQuoted(false, '"')
	case doctypeSystemIdentifierSingleQuotedState:
		return z.stepDoctypeIdentifierQuoted(false, '\'')
	case afterDoctypeSystemIdentifierState:
		return z.stepAfterDoctypeIdentifier(false)
	case bogusDoctypeState:
		return z.stepBogusDoctype()
	case cdataSectionState:
		return z.stepCDATASection()
	}
	return Token{}, false
}

func isWhitespace(b byte) bool {
	switch b {
	case '\t', '\n', '\f', ' ':
		return true
	}
	return false
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func isASCIIAlpha(b byte) bool {
	return 'a' <= lower(b) && lower(b) <= 'z'
}

func isASCIIAlnum(b byte) bool {
	return isASCIIAlpha(b) || ('0' <= b && b <= '9')
}

// --- Data state ---

func (z *Tokenizer) stepData() (Token, bool) {
	chunk := z.in.takeUntil(dataSpecials)
	if len(chunk) > 0 {
		z.pendingText = append(z.pendingText, chunk...)
		z.in.advance(len(chunk))
	}
	b, ok := z.in.current()
	if !ok {
		return z.flushPendingText()
	}
	switch b {
	case '&':
		z.in.advance(1)
		z.consumeCharacterReference(dataState, false)
		return Token{}, false
	case '<':
		if tok, ok := z.flushPendingText(); ok {
			return tok, true
		}
		z.in.advance(1)
		z.state = tagOpenState
		return Token{}, false
	case 0:
		z.recordError(ErrUnexpectedNullCharacter)
		z.pendingText = append(z.pendingText, 0)
		z.in.advance(1)
		return Token{}, false
	}
	return Token{}, false
}

func (z *Tokenizer) flushPendingText() (Token, bool) {
	if len(z.pendingText) == 0 {
		if z.in.eof() {
			return Token{Type: ErrorToken}, true
		}
		return Token{}, false
	}
	tok := Token{Type: TextToken, Data: string(z.pendingText)}
	z.pendingText = z.pendingText[:0]
	return tok, true
}

// --- RCDATA / RAWTEXT / ScriptData (non-escaped) ---

func (z *Tokenizer) stepRawtextLike() (Token, bool) {
	chunk := z.in.takeUntil(rawtextSpecials)
	if len(chunk) > 0 {
		z.pendingText = append(z.pendingText, chunk...)
		z.in.advance(len(chunk))
	}
	b, ok := z.in.current()
	if !ok {
		return z.flushPendingText()
	}
	switch b {
	case '<':
		z.in.advance(1)
		switch z.state {
		case rcdataState:
			z.state = rcdataLessThanSignState
		case rawtextState:
			z.state = rawtextLessThanSignState
		case scriptDataState:
			z.state = scriptDataLessThanSignState
		}
		return Token{}, false
	case 0:
		z.recordError(ErrUnexpectedNullCharacter)
		z.pendingText = append(z.pendingText, 0xEF, 0xBF, 0xBD)
		z.in.advance(1)
		return Token{}, false
	}
	return Token{}, false
}

func (z *Tokenizer) stepPlaintext() (Token, bool) {
	chunk := z.in.takeUntil(plaintextSpecial)
	if len(chunk) > 0 {
		z.pendingText = append(z.pendingText, chunk...)
		z.in.advance(len(chunk))
	}
	b, ok := z.in.current()
	if !ok {
		return z.flushPendingText()
	}
	if b == 0 {
		z.recordError(ErrUnexpectedNullCharacter)
		z.pendingText = append(z.pendingText, 0xEF, 0xBF, 0xBD)
		z.in.advance(1)
	}
	return Token{}, false
}

func (z *Tokenizer) stepTextLessThanSign() {
	if b, ok := z.in.byteAt(0); ok && b == '/' {
		z.in.advance(1)
		z.nameBuf = z.nameBuf[:0]
		switch z.state {
		case rcdataLessThanSignState:
			z.state = rcdataEndTagOpenState
		case rawtextLessThanSignState:
			z.state = rawtextEndTagOpenState
		case scriptDataLessThanSignState:
			z.state = scriptDataEndTagOpenState
		}
		return
	}
	if z.state == scriptDataLessThanSignState {
		if z.in.startsWithFold("!") {
			z.pendingText = append(z.pendingText, '<', '!')
			z.in.advance(1)
			z.state = scriptDataEscapeStartState
			return
		}
	}
	z.pendingText = append(z.pendingText, '<')
	switch z.state {
	case rcdataLessThanSignState:
		z.state = rcdataState
	case rawtextLessThanSignState:
		z.state = rawtextState
	case scriptDataLessThanSignState:
		z.state = scriptDataState
	}
}

func (z *Tokenizer) stepTextEndTagOpen() {
	b, ok := z.in.current()
	if ok && isASCIIAlpha(b) {
		z.state = z.endTagNameStateFor()
		return
	}
	z.pendingText = append(z.pendingText, '<', '/')
	z.state = z.rawLikeStateFor()
}

func (z *Tokenizer) endTagNameStateFor() state {
	switch z.state {
	case rcdataEndTagOpenState:
		return rcdataEndTagNameState
	case rawtextEndTagOpenState:
		return rawtextEndTagNameState
	case scriptDataEndTagOpenState:
		return scriptDataEndTagNameState
	case scriptDataEscapedEndTagOpenState:
		return scriptDataEscapedEndTagNameState
	}
	return dataState
}

func (z *Tokenizer) rawLikeStateFor() state {
	switch z.state {
	case rcdataEndTagOpenState, rcdataEndTagNameState:
		return rcdataState
	case rawtextEndTagOpenState, rawtextEndTagNameState:
		return rawtextState
	case scriptDataEndTagOpenState, scriptDataEndTagNameState:
		return scriptDataState
	case scriptDataEscapedEndTagOpenState, scriptDataEscapedEndTagNameState:
		return scriptDataEscapedState
	}
	return dataState
}

func (z *Tokenizer) stepTextEndTagName() (Token, bool) {
	for {
		b, ok := z.in.current()
		if !ok {
			break
		}
		if isASCIIAlpha(b) {
			z.nameBuf = append(z.nameBuf, lower(b))
			z.in.advance(1)
			continue
		}
		break
	}
	name := string(z.nameBuf)
	isAppropriate := name != "" && strings.EqualFold(name, z.lastStartTag)
	if isAppropriate {
		b, ok := z.in.current()
		if ok && (isWhitespace(b) || b == '/' || b == '>') && len(z.pendingText) > 0 {
			// Emit the text run first; the next call re-enters this state with nameBuf intact.
			return z.flushPendingText()
		}
		switch {
		case ok && isWhitespace(b):
			z.in.advance(1)
			z.tagIsEnd = true
			z.state = beforeAttributeNameState
			return Token{}, false
		case ok && b == '/':
			z.in.advance(1)
			z.tagIsEnd = true
			z.state = selfClosingStartTagState
			return Token{}, false
		case ok && b == '>':
			z.in.advance(1)
			z.state = dataState
			return Token{Type: EndTagToken, Data: name}, true
		}
	}
	z.pendingText = append(z.pendingText, '<', '/')
	z.pendingText = append(z.pendingText, z.nameBuf...)
	z.state = z.rawLikeStateFor()
	return Token{}, false
}

// --- script data escape mechanics ---

func (z *Tokenizer) stepScriptDataEscapeStart() {
	if z.in.startsWithFold("-") {
		z.pendingText = append(z.pendingText, '-')
		z.in.advance(1)
		z.state = scriptDataEscapeStartDashState
		return
	}
	z.state = scriptDataState
}

func (z *Tokenizer) stepScriptDataEscapeStartDash() {
	if z.in.startsWithFold("-") {
		z.pendingText = append(z.pendingText, '-')
		z.in.advance(1)
		z.state = scriptDataEscapedDashDashState
		return
	}
	z.state = scriptDataState
}

func (z *Tokenizer) stepScriptDataEscaped() (Token, bool) {
	chunk := z.in.takeUntil(newByteSet('<', '-', 0))
	if len(chunk) > 0 {
		z.pendingText = append(z.pendingText, chunk...)
		z.in.advance(len(chunk))
	}
	b, ok := z.in.current()
	if !ok {
		return z.flushPendingText()
	}
	switch b {
	case '-':
		z.pendingText = append(z.pendingText, '-')
		z.in.advance(1)
		z.state = scriptDataEscapedDashState
	case '<':
		if tok, ok := z.flushPendingText(); ok {
			return tok, true
		}
		z.in.advance(1)
		z.state = scriptDataEscapedLessThanSignState
	case 0:
		z.recordError(ErrUnexpectedNullCharacter)
		z.pendingText = append(z.pendingText, 0xEF, 0xBF, 0xBD)
		z.in.advance(1)
	}
	return Token{}, false
}

func (z *Tokenizer) stepScriptDataEscapedDash() {
	b, ok := z.in.current()
	if !ok {
		z.state = scriptDataEscapedState
		return
	}
	switch b {
	case '-':
		z.pendingText = append(z.pendingText, '-')
		z.in.advance(1)
		z.state = scriptDataEscapedDashDashState
	case '<':
		z.in.advance(1)
		z.state = scriptDataEscapedLessThanSignState
	case 0:
		z.recordError(ErrUnexpectedNullCharacter)
		z.pendingText = append(z.pendingText, 0xEF, 0xBF, 0xBD)
		z.in.advance(1)
		z.state = scriptDataEscapedState
	default:
		z.pendingText = append(z.pendingText, b)
		z.in.advance(1)
		z.state = scriptDataEscapedState
	}
}

func (z *Tokenizer) stepScriptDataEscapedDashDash() {
	b, ok := z.in.current()
	if !ok {
		z.state = scriptDataEscapedState
		return
	}
	switch b {
	case '-':
		z.pendingText = append(z.pendingText, '-')
		z.in.advance(1)
	case '<':
		z.in.advance(1)
		z.state = scriptDataEscapedLessThanSignState
	case '>':
		z.pendingText = append(z.pendingText, '>')
		z.in.advance(1)
		z.state = scriptDataState
	case 0:
		z.recordError(ErrUnexpectedNullCharacter)
		z.pendingText = append(z.pendingText, 0xEF, 0xBF, 0xBD)
		z.in.advance(1)
		z.state = scriptDataEscapedState
	default:
		z.pendingText = append(z.pendingText, b)
		z.in.advance(1)
		z.state = scriptDataEscapedState
	}
}

func (z *Tokenizer) stepScriptDataEscapedLessThanSign() {
	if b, ok := z.in.current(); ok && b == '/' {
		z.in.advance(1)
		z.nameBuf = z.nameBuf[:0]
		z.state = scriptDataEscapedEndTagOpenState
		return
	}
	if b, ok := z.in.current(); ok && isASCIIAlpha(b) {
		z.pendingText = append(z.pendingText, '<')
		z.temp = z.temp[:0]
		z.state = scriptDataDoubleEscapeStartState
		return
	}
	z.pendingText = append(z.pendingText, '<')
	z.state = scriptDataEscapedState
}

func (z *Tokenizer) stepScriptDataDoubleEscapeStart() {
	b, ok := z.in.current()
	if ok && (isWhitespace(b) || b == '/' || b == '>') {
		z.pendingText = append(z.pendingText, b)
		z.in.advance(1)
		if strings.EqualFold(string(z.temp), "script") {
			z.state = scriptDataDoubleEscapedState
		} else {
			z.state = scriptDataEscapedState
		}
		return
	}
	if ok && isASCIIAlpha(b) {
		z.temp = append(z.temp, lower(b))
		z.pendingText = append(z.pendingText, b)
		z.in.advance(1)
		return
	}
	z.state = scriptDataEscapedState
}

func (z *Tokenizer) stepScriptDataDoubleEscaped() (Token, bool) {
	chunk := z.in.takeUntil(newByteSet('<', '-', 0))
	if len(chunk) > 0 {
		z.pendingText = append(z.pendingText, chunk...)
		z.in.advance(len(chunk))
	}
	b, ok := z.in.current()
	if !ok {
		return z.flushPendingText()
	}
	switch b {
	case '-':
		z.pendingText = append(z.pendingText, '-')
		z.in.advance(1)
		z.state = scriptDataDoubleEscapedDashState
	case '<':
		z.pendingText = append(z.pendingText, '<')
		z.in.advance(1)
		z.state = scriptDataDoubleEscapedLessThanSignState
	case 0:
		z.recordError(ErrUnexpectedNullCharacter)
		z.pendingText = append(z.pendingText, 0xEF, 0xBF, 0xBD)
		z.in.advance(1)
	}
	return Token{}, false
}

func (z *Tokenizer) stepScriptDataDoubleEscapedDash() {
	b, ok := z.in.current()
	if !ok {
		z.state = scriptDataDoubleEscapedState
		return
	}
	switch b {
	case '-':
		z.pendingText = append(z.pendingText, '-')
		z.in.advance(1)
		z.state = scriptDataDoubleEscapedDashDashState
	case '<':
		z.pendingText = append(z.pendingText, '<')
		z.in.advance(1)
		z.state = scriptDataDoubleEscapedLessThanSignState
	default:
		z.pendingText = append(z.pendingText, b)
		z.in.advance(1)
		z.state = scriptDataDoubleEscapedState
	}
}

func (z *Tokenizer) stepScriptDataDoubleEscapedDashDash() {
	b, ok := z.in.current()
	if !ok {
		z.state = scriptDataDoubleEscapedState
		return
	}
	switch b {
	case '-':
		z.pendingText = append(z.pendingText, '-')
		z.in.advance(1)
	case '<':
		z.pendingText = append(z.pendingText, '<')
		z.in.advance(1)
		z.state = scriptDataDoubleEscapedLessThanSignState
	case '>':
		z.pendingText = append(z.pendingText, '>')
		z.in.advance(1)
		z.state = scriptDataState
	default:
		z.pendingText = append(z.pendingText, b)
		z.in.advance(1)
		z.state = scriptDataDoubleEscapedState
	}
}

func (z *Tokenizer) stepScriptDataDoubleEscapedLessThanSign() {
	if b, ok := z.in.current(); ok && b == '/' {
		z.pendingText = append(z.pendingText, '/')
		z.in.advance(1)
		z.temp = z.temp[:0]
		z.state = scriptDataDoubleEscapeEndState
		return
	}
	z.state = scriptDataDoubleEscapedState
}

func (z *Tokenizer) stepScriptDataDoubleEscapeEnd() {
	b, ok := z.in.current()
	if ok && (isWhitespace(b) || b == '/' || b == '>') {
		z.pendingText = append(z.pendingText, b)
		z.in.advance(1)
		if strings.EqualFold(string(z.temp), "script") {
			z.state = scriptDataEscapedState
		} else {
			z.state = scriptDataDoubleEscapedState
		}
		return
	}
	if ok && isASCIIAlpha(b) {
		z.temp = append(z.temp, lower(b))
		z.pendingText = append(z.pendingText, b)
		z.in.advance(1)
		return
	}
	z.state = scriptDataDoubleEscapedState
}
