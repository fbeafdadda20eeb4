// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import "strings"

// --- Tag open / names ---

func (z *Tokenizer) stepTagOpen() {
	b, ok := z.in.current()
	if !ok {
		z.pendingText = append(z.pendingText, '<')
		return
	}
	switch {
	case b == '!':
		z.in.advance(1)
		z.state = markupDeclarationOpenState
	case b == '/':
		z.in.advance(1)
		z.state = endTagOpenState
	case isASCIIAlpha(b):
		z.tagIsEnd = false
		z.nameBuf = z.nameBuf[:0]
		z.attrs = nil
		z.seenAttrs = nil
		z.state = tagNameState
	case b == '?':
		z.recordError(ErrUnexpectedQuestionMark)
		z.commentBuf = z.commentBuf[:0]
		z.state = bogusCommentState
	default:
		z.recordError(ErrInvalidFirstCharOfTagName)
		z.pendingText = append(z.pendingText, '<')
		z.state = dataState
	}
}

func (z *Tokenizer) stepEndTagOpen() {
	b, ok := z.in.current()
	if !ok {
		z.pendingText = append(z.pendingText, '<', '/')
		return
	}
	switch {
	case isASCIIAlpha(b):
		z.tagIsEnd = true
		z.nameBuf = z.nameBuf[:0]
		z.attrs = nil
		z.seenAttrs = nil
		z.state = tagNameState
	case b == '>':
		z.recordError(ErrMissingEndTagName)
		z.in.advance(1)
		z.state = dataState
	default:
		z.recordError(ErrInvalidFirstCharOfTagName)
		z.commentBuf = z.commentBuf[:0]
		z.state = bogusCommentState
	}
}

func (z *Tokenizer) stepTagName() (Token, bool) {
	for {
		b, ok := z.in.current()
		if !ok {
			return Token{Type: ErrorToken}, true
		}
		switch {
		case isWhitespace(b):
			z.in.advance(1)
			z.state = beforeAttributeNameState
			return Token{}, false
		case b == '/':
			z.in.advance(1)
			z.state = selfClosingStartTagState
			return Token{}, false
		case b == '>':
			z.in.advance(1)
			z.state = dataState
			return z.emitTag(), true
		case b == 0:
			z.recordError(ErrUnexpectedNullCharacter)
			z.nameBuf = append(z.nameBuf, 0xEF, 0xBF, 0xBD)
			z.in.advance(1)
		case isASCIIAlpha(b):
			z.nameBuf = append(z.nameBuf, lower(b))
			z.in.advance(1)
		default:
			z.nameBuf = append(z.nameBuf, b)
			z.in.advance(1)
		}
	}
}

func (z *Tokenizer) emitTag() Token {
	name := string(z.nameBuf)
	t := Token{
		Data:        name,
		Attr:        z.attrs,
		SelfClosing: z.selfClosing,
	}
	if z.tagIsEnd {
		t.Type = EndTagToken
	} else {
		t.Type = StartTagToken
		z.lastStartTag = name
	}
	return t
}

// --- Attributes ---

func (z *Tokenizer) stepBeforeAttributeName() {
	b, ok := z.in.current()
	if !ok {
		z.state = afterAttributeNameState
		return
	}
	switch {
	case isWhitespace(b):
		z.in.advance(1)
	case b == '/' || b == '>':
		z.state = afterAttributeNameState
	default:
		if b == '=' {
			z.recordError(ErrUnexpectedCharInAttrName)
			z.in.advance(1)
		}
		z.attrNameBuf = z.attrNameBuf[:0]
		z.attrValBuf = z.attrValBuf[:0]
		z.state = attributeNameState
	}
}

func (z *Tokenizer) stepAttributeName() {
	for {
		b, ok := z.in.current()
		if !ok {
			z.finishAttributeName()
			z.state = afterAttributeNameState
			return
		}
		switch {
		case isWhitespace(b) || b == '/' || b == '>':
			z.finishAttributeName()
			z.state = afterAttributeNameState
			return
		case b == '=':
			z.finishAttributeName()
			z.in.advance(1)
			z.state = beforeAttributeValueState
			return
		case b == 0:
			z.recordError(ErrUnexpectedNullCharacter)
			z.attrNameBuf = append(z.attrNameBuf, 0xEF, 0xBF, 0xBD)
			z.in.advance(1)
		case b == '"' || b == '\'' || b == '<':
			z.recordError(ErrUnexpectedCharInAttrName)
			z.attrNameBuf = append(z.attrNameBuf, b)
			z.in.advance(1)
		case isASCIIAlpha(b):
			z.attrNameBuf = append(z.attrNameBuf, lower(b))
			z.in.advance(1)
		default:
			z.attrNameBuf = append(z.attrNameBuf, b)
			z.in.advance(1)
		}
	}
}

// finishAttributeName registers the pending attribute name and prepares
// z.pendingAttr for a value; a duplicate name is recorded as a parse
// error and dropped (section 13.2.5.32), so only the first occurrence
// and its value are kept.
func (z *Tokenizer) finishAttributeName() {
	name := string(z.attrNameBuf)
	if z.seenAttrs == nil {
		z.seenAttrs = make(map[string]bool)
	}
	if z.seenAttrs[name] {
		z.recordError(ErrDuplicateAttribute)
		z.pendingAttr = Attribute{Key: "", Val: ""}
		return
	}
	z.seenAttrs[name] = true
	z.pendingAttr = Attribute{Key: name}
}

func (z *Tokenizer) commitPendingAttr() {
	if z.pendingAttr.Key == "" {
		return
	}
	z.pendingAttr.Val = string(z.attrValBuf)
	z.attrs = append(z.attrs, z.pendingAttr)
	z.pendingAttr = Attribute{}
}

func (z *Tokenizer) stepAfterAttributeName() {
	b, ok := z.in.current()
	if !ok {
		return
	}
	switch {
	case isWhitespace(b):
		z.in.advance(1)
	case b == '/':
		z.commitPendingAttr()
		z.in.advance(1)
		z.state = selfClosingStartTagState
	case b == '=':
		z.in.advance(1)
		z.state = beforeAttributeValueState
	case b == '>':
		// tagNameState emits the tag on this '>'.
		z.commitPendingAttr()
		z.state = tagNameState
	default:
		z.commitPendingAttr()
		z.attrNameBuf = z.attrNameBuf[:0]
		z.attrValBuf = z.attrValBuf[:0]
		z.state = attributeNameState
	}
}

func (z *Tokenizer) stepBeforeAttributeValue() {
	b, ok := z.in.current()
	if !ok {
		z.state = attributeValueUnquotedState
		return
	}
	switch {
	case isWhitespace(b):
		z.in.advance(1)
	case b == '"':
		z.in.advance(1)
		z.state = attributeValueDoubleQuotedState
	case b == '\'':
		z.in.advance(1)
		z.state = attributeValueSingleQuotedState
	case b == '>':
		z.recordError(ErrMissingAttrValue)
		z.commitPendingAttr()
		z.state = tagNameState
	default:
		z.state = attributeValueUnquotedState
	}
}

func (z *Tokenizer) stepAttributeValueQuoted(quote byte) {
	set := newByteSet(quote, '&', 0)
	for {
		chunk := z.in.takeUntil(set)
		if len(chunk) > 0 {
			z.attrValBuf = append(z.attrValBuf, chunk...)
			z.in.advance(len(chunk))
		}
		b, ok := z.in.current()
		if !ok {
			return
		}
		switch b {
		case quote:
			z.in.advance(1)
			z.commitPendingAttr()
			z.state = afterAttributeValueQuotedState
			return
		case '&':
			z.in.advance(1)
			rs := attributeValueDoubleQuotedState
			if quote == '\'' {
				rs = attributeValueSingleQuotedState
			}
			z.consumeCharacterReference(rs, true)
			return
		case 0:
			z.recordError(ErrUnexpectedNullCharacter)
			z.attrValBuf = append(z.attrValBuf, 0xEF, 0xBF, 0xBD)
			z.in.advance(1)
		}
	}
}

func (z *Tokenizer) stepAttributeValueUnquoted() (Token, bool) {
	set := newByteSet('&', '>', 0, '\t', '\n', '\f', ' ')
	for {
		chunk := z.in.takeUntil(set)
		if len(chunk) > 0 {
			z.attrValBuf = append(z.attrValBuf, chunk...)
			z.in.advance(len(chunk))
		}
		b, ok := z.in.current()
		if !ok {
			return Token{Type: ErrorToken}, true
		}
		switch {
		case isWhitespace(b):
			z.in.advance(1)
			z.commitPendingAttr()
			z.state = beforeAttributeNameState
			return Token{}, false
		case b == '&':
			z.in.advance(1)
			z.consumeCharacterReference(attributeValueUnquotedState, true)
			return Token{}, false
		case b == '>':
			z.in.advance(1)
			z.commitPendingAttr()
			z.state = dataState
			return z.emitTag(), true
		case b == 0:
			z.recordError(ErrUnexpectedNullCharacter)
			z.attrValBuf = append(z.attrValBuf, 0xEF, 0xBF, 0xBD)
			z.in.advance(1)
		default:
			z.attrValBuf = append(z.attrValBuf, b)
			z.in.advance(1)
		}
	}
}

func (z *Tokenizer) stepAfterAttributeValueQuoted() {
	b, ok := z.in.current()
	if !ok {
		return
	}
	switch {
	case isWhitespace(b):
		z.in.advance(1)
		z.state = beforeAttributeNameState
	case b == '/':
		z.in.advance(1)
		z.state = selfClosingStartTagState
	case b == '>':
		z.state = tagNameState
	default:
		z.recordError(ErrMissingWhitespaceBeforeAttr)
		z.state = beforeAttributeNameState
	}
}

func (z *Tokenizer) stepSelfClosingStartTag() (Token, bool) {
	b, ok := z.in.current()
	if !ok {
		return Token{Type: ErrorToken}, true
	}
	if b == '>' {
		z.in.advance(1)
		z.selfClosing = true
		z.state = dataState
		return z.emitTag(), true
	}
	z.recordError(ErrUnexpectedSolidusInTag)
	z.state = beforeAttributeNameState
	return Token{}, false
}

// --- Comments, markup declarations ---

func (z *Tokenizer) stepMarkupDeclarationOpen() {
	if z.in.startsWithFold("--") {
		z.in.advance(2)
		z.commentBuf = z.commentBuf[:0]
		z.state = commentStartState
		return
	}
	if z.in.startsWithFold("doctype") {
		z.in.advance(7)
		z.state = doctypeState
		return
	}
	if z.in.startsWithFold("[CDATA[") {
		if z.sink != nil && z.sink.currentNamespace() != NamespaceHTML {
			z.in.advance(7)
			z.state = cdataSectionState
			return
		}
		z.recordError(ErrCDATAInHTMLContent)
		z.in.advance(7)
		z.commentBuf = append(z.commentBuf[:0], "[CDATA["...)
		z.state = bogusCommentState
		return
	}
	z.recordError(ErrIncorrectlyOpenedComment)
	z.commentBuf = z.commentBuf[:0]
	z.state = bogusCommentState
}

func (z *Tokenizer) stepBogusComment() (Token, bool) {
	set := newByteSet('>', 0)
	for {
		chunk := z.in.takeUntil(set)
		if len(chunk) > 0 {
			z.commentBuf = append(z.commentBuf, chunk...)
			z.in.advance(len(chunk))
		}
		b, ok := z.in.current()
		if !ok {
			z.state = dataState
			return Token{Type: CommentToken, Data: string(z.commentBuf)}, true
		}
		if b == '>' {
			z.in.advance(1)
			z.state = dataState
			return Token{Type: CommentToken, Data: string(z.commentBuf)}, true
		}
		z.commentBuf = append(z.commentBuf, 0xEF, 0xBF, 0xBD)
		z.in.advance(1)
	}
}

func (z *Tokenizer) stepCommentStart() {
	b, ok := z.in.current()
	if !ok {
		z.state = commentState
		return
	}
	switch b {
	case '-':
		z.in.advance(1)
		z.state = commentStartDashState
	case '>':
		z.recordError(ErrAbruptClosingOfEmptyComment)
		z.in.advance(1)
		z.state = dataState
	default:
		z.state = commentState
	}
}

func (z *Tokenizer) stepCommentStartDash() {
	b, ok := z.in.current()
	if !ok {
		z.state = commentState
		return
	}
	switch b {
	case '-':
		z.in.advance(1)
		z.state = commentEndState
	case '>':
		z.recordError(ErrAbruptClosingOfEmptyComment)
		z.in.advance(1)
		z.state = dataState
	default:
		z.commentBuf = append(z.commentBuf, '-')
		z.state = commentState
	}
}

func (z *Tokenizer) stepComment() {
	set := newByteSet('<', '-', 0)
	chunk := z.in.takeUntil(set)
	if len(chunk) > 0 {
		z.commentBuf = append(z.commentBuf, chunk...)
		z.in.advance(len(chunk))
	}
	b, ok := z.in.current()
	if !ok {
		return
	}
	switch b {
	case '<':
		z.commentBuf = append(z.commentBuf, '<')
		z.in.advance(1)
		z.state = commentLessThanSignState
	case '-':
		z.in.advance(1)
		z.state = commentEndDashState
	case 0:
		z.recordError(ErrUnexpectedNullCharacter)
		z.commentBuf = append(z.commentBuf, 0xEF, 0xBF, 0xBD)
		z.in.advance(1)
	}
}

func (z *Tokenizer) stepCommentLessThanSign() {
	b, ok := z.in.current()
	if ok && b == '!' {
		z.commentBuf = append(z.commentBuf, '!')
		z.in.advance(1)
		z.state = commentLessThanSignBangState
		return
	}
	if ok && b == '<' {
		z.commentBuf = append(z.commentBuf, '<')
		z.in.advance(1)
		return
	}
	z.state = commentState
}

func (z *Tokenizer) stepCommentLessThanSignBang() {
	if b, ok := z.in.current(); ok && b == '-' {
		z.in.advance(1)
		z.state = commentLessThanSignBangDashState
		return
	}
	z.state = commentState
}

func (z *Tokenizer) stepCommentLessThanSignBangDash() {
	if b, ok := z.in.current(); ok && b == '-' {
		z.in.advance(1)
		z.state = commentLessThanSignBangDashDashState
		return
	}
	z.state = commentEndDashState
}

func (z *Tokenizer) stepCommentLessThanSignBangDashDash() {
	if b, ok := z.in.current(); ok && b == '>' {
		z.state = commentEndState
		return
	}
	z.recordError(ErrNestedComment)
	z.state = commentEndState
}

func (z *Tokenizer) stepCommentEndDash() {
	if b, ok := z.in.current(); ok && b == '-' {
		z.in.advance(1)
		z.state = commentEndState
		return
	}
	z.commentBuf = append(z.commentBuf, '-')
	z.state = commentState
}

func (z *Tokenizer) stepCommentEnd() (Token, bool) {
	b, ok := z.in.current()
	if !ok {
		z.state = dataState
		return Token{Type: CommentToken, Data: string(z.commentBuf)}, true
	}
	switch b {
	case '>':
		z.in.advance(1)
		z.state = dataState
		return Token{Type: CommentToken, Data: string(z.commentBuf)}, true
	case '!':
		z.in.advance(1)
		z.state = commentEndBangState
	case '-':
		z.commentBuf = append(z.commentBuf, '-')
		z.in.advance(1)
	default:
		z.commentBuf = append(z.commentBuf, '-', '-')
		z.state = commentState
	}
	return Token{}, false
}

func (z *Tokenizer) stepCommentEndBang() {
	b, ok := z.in.current()
	if !ok {
		z.state = commentState
		return
	}
	switch b {
	case '-':
		z.commentBuf = append(z.commentBuf, '-', '-', '!')
		z.in.advance(1)
		z.state = commentEndDashState
	case '>':
		z.recordError(ErrIncorrectlyClosedComment)
		z.in.advance(1)
		z.state = dataState
	default:
		z.commentBuf = append(z.commentBuf, '-', '-', '!')
		z.state = commentState
	}
}

// --- DOCTYPE ---

func (z *Tokenizer) stepDoctype() {
	z.doctypeName = nil
	z.doctypeHasName = false
	z.doctypePublic = nil
	z.doctypeHasPub = false
	z.doctypeSystem = nil
	z.doctypeHasSys = false
	z.doctypeForceQuirks = false
	b, ok := z.in.current()
	if !ok {
		z.state = beforeDoctypeNameState
		return
	}
	if isWhitespace(b) {
		z.in.advance(1)
		z.state = beforeDoctypeNameState
		return
	}
	if b == '>' {
		z.state = beforeDoctypeNameState
		return
	}
	z.recordError(ErrMissingWhitespaceDoctype)
	z.state = beforeDoctypeNameState
}

func (z *Tokenizer) emitDoctype() Token {
	t := Token{
		Type:        DoctypeToken,
		ForceQuirks: z.doctypeForceQuirks,
		HasPublicID: z.doctypeHasPub,
		HasSystemID: z.doctypeHasSys,
	}
	if z.doctypeHasName {
		t.Data = string(z.doctypeName)
	}
	if z.doctypeHasPub {
		t.PublicID = string(z.doctypePublic)
	}
	if z.doctypeHasSys {
		t.SystemID = string(z.doctypeSystem)
	}
	return t
}

func (z *Tokenizer) stepBeforeDoctypeName() (Token, bool) {
	b, ok := z.in.current()
	if !ok {
		z.doctypeForceQuirks = true
		z.state = dataState
		return z.emitDoctype(), true
	}
	switch {
	case isWhitespace(b):
		z.in.advance(1)
		return Token{}, false
	case b == 0:
		z.recordError(ErrUnexpectedNullCharacter)
		z.doctypeName = append(z.doctypeName, 0xEF, 0xBF, 0xBD)
		z.doctypeHasName = true
		z.in.advance(1)
		z.state = doctypeNameState
	case b == '>':
		z.recordError(ErrMissingDoctypeName)
		z.doctypeForceQuirks = true
		z.in.advance(1)
		z.state = dataState
		return z.emitDoctype(), true
	default:
		z.doctypeName = append(z.doctypeName, lower(b))
		z.doctypeHasName = true
		z.in.advance(1)
		z.state = doctypeNameState
	}
	return Token{}, false
}

func (z *Tokenizer) stepDoctypeName() (Token, bool) {
	for {
		b, ok := z.in.current()
		if !ok {
			z.doctypeForceQuirks = true
			z.state = dataState
			return z.emitDoctype(), true
		}
		switch {
		case isWhitespace(b):
			z.in.advance(1)
			z.state = afterDoctypeNameState
			return Token{}, false
		case b == '>':
			z.in.advance(1)
			z.state = dataState
			return z.emitDoctype(), true
		case b == 0:
			z.recordError(ErrUnexpectedNullCharacter)
			z.doctypeName = append(z.doctypeName, 0xEF, 0xBF, 0xBD)
			z.in.advance(1)
		default:
			z.doctypeName = append(z.doctypeName, lower(b))
			z.in.advance(1)
		}
	}
}

func (z *Tokenizer) stepAfterDoctypeName() (Token, bool) {
	b, ok := z.in.current()
	if !ok {
		z.doctypeForceQuirks = true
		z.state = dataState
		return z.emitDoctype(), true
	}
	switch {
	case isWhitespace(b):
		z.in.advance(1)
		return Token{}, false
	case b == '>':
		z.in.advance(1)
		z.state = dataState
		return z.emitDoctype(), true
	case z.in.startsWithFold("public"):
		z.in.advance(6)
		z.state = afterDoctypePublicKeywordState
	case z.in.startsWithFold("system"):
		z.in.advance(6)
		z.state = afterDoctypeSystemKeywordState
	default:
		z.recordError(ErrMissingWhitespaceDoctype)
		z.doctypeForceQuirks = true
		z.commentBuf = z.commentBuf[:0]
		z.state = bogusDoctypeState
	}
	return Token{}, false
}

func (z *Tokenizer) stepAfterDoctypePublicKeyword() {
	b, ok := z.in.current()
	if !ok {
		z.state = beforeDoctypePublicIdentifierState
		return
	}
	switch {
	case isWhitespace(b):
		z.in.advance(1)
		z.state = beforeDoctypePublicIdentifierState
	case b == '"':
		z.in.advance(1)
		z.doctypePublic = z.doctypePublic[:0]
		z.doctypeHasPub = true
		z.state = doctypePublicIdentifierDoubleQuotedState
	case b == '\'':
		z.in.advance(1)
		z.doctypePublic = z.doctypePublic[:0]
		z.doctypeHasPub = true
		z.state = doctypePublicIdentifierSingleQuotedState
	case b == '>':
		z.doctypeForceQuirks = true
		z.state = afterDoctypeNameState
	default:
		z.doctypeForceQuirks = true
		z.state = bogusDoctypeState
	}
}

func (z *Tokenizer) stepBeforeDoctypeIdentifier(public bool) {
	b, ok := z.in.current()
	if !ok {
		return
	}
	switch {
	case isWhitespace(b):
		z.in.advance(1)
	case b == '"':
		z.in.advance(1)
		if public {
			z.doctypePublic = z.doctypePublic[:0]
			z.doctypeHasPub = true
			z.state = doctypePublicIdentifierDoubleQuotedState
		} else {
			z.doctypeSystem = z.doctypeSystem[:0]
			z.doctypeHasSys = true
			z.state = doctypeSystemIdentifierDoubleQuotedState
		}
	case b == '\'':
		z.in.advance(1)
		if public {
			z.doctypePublic = z.doctypePublic[:0]
			z.doctypeHasPub = true
			z.state = doctypePublicIdentifierSingleQuotedState
		} else {
			z.doctypeSystem = z.doctypeSystem[:0]
			z.doctypeHasSys = true
			z.state = doctypeSystemIdentifierSingleQuotedState
		}
	case b == '>':
		z.doctypeForceQuirks = true
		z.state = afterDoctypeNameState
	default:
		z.doctypeForceQuirks = true
		z.state = bogusDoctypeState
	}
}

func (z *Tokenizer) stepDoctypeIdentifierQuoted(public bool, quote byte) (Token, bool) {
	dst := &z.doctypeSystem
	if public {
		dst = &z.doctypePublic
	}
	for {
		b, ok := z.in.current()
		if !ok {
			z.doctypeForceQuirks = true
			z.state = dataState
			return z.emitDoctype(), true
		}
		switch {
		case b == quote:
			z.in.advance(1)
			if public {
				z.state = afterDoctypePublicIdentifierState
			} else {
				z.state = afterDoctypeSystemIdentifierState
			}
			return Token{}, false
		case b == 0:
			z.recordError(ErrUnexpectedNullCharacter)
			*dst = append(*dst, 0xEF, 0xBF, 0xBD)
			z.in.advance(1)
		case b == '>':
			z.recordError(ErrAbruptClosingOfEmptyComment)
			z.doctypeForceQuirks = true
			z.in.advance(1)
			z.state = dataState
			return z.emitDoctype(), true
		default:
			*dst = append(*dst, b)
			z.in.advance(1)
		}
	}
}

func (z *Tokenizer) stepAfterDoctypeIdentifier(public bool) (Token, bool) {
	b, ok := z.in.current()
	if !ok {
		z.doctypeForceQuirks = true
		z.state = dataState
		return z.emitDoctype(), true
	}
	switch {
	case isWhitespace(b):
		z.in.advance(1)
		return Token{}, false
	case b == '>':
		z.in.advance(1)
		z.state = dataState
		return z.emitDoctype(), true
	case public:
		z.state = betweenDoctypePublicAndSystemIdentifiersState
		return Token{}, false
	default:
		z.recordError(ErrMissingWhitespaceDoctype)
		z.state = bogusDoctypeState
		return Token{}, false
	}
}

func (z *Tokenizer) stepBetweenDoctypeIdentifiers() {
	b, ok := z.in.current()
	if !ok {
		return
	}
	switch {
	case isWhitespace(b):
		z.in.advance(1)
	case b == '"':
		z.in.advance(1)
		z.doctypeSystem = z.doctypeSystem[:0]
		z.doctypeHasSys = true
		z.state = doctypeSystemIdentifierDoubleQuotedState
	case b == '\'':
		z.in.advance(1)
		z.doctypeSystem = z.doctypeSystem[:0]
		z.doctypeHasSys = true
		z.state = doctypeSystemIdentifierSingleQuotedState
	case b == '>':
		z.state = afterDoctypeNameState
	default:
		z.doctypeForceQuirks = true
		z.state = bogusDoctypeState
	}
}

func (z *Tokenizer) stepAfterDoctypeSystemKeyword() {
	b, ok := z.in.current()
	if !ok {
		z.state = beforeDoctypeSystemIdentifierState
		return
	}
	switch {
	case isWhitespace(b):
		z.in.advance(1)
		z.state = beforeDoctypeSystemIdentifierState
	case b == '"':
		z.in.advance(1)
		z.doctypeSystem = z.doctypeSystem[:0]
		z.doctypeHasSys = true
		z.state = doctypeSystemIdentifierDoubleQuotedState
	case b == '\'':
		z.in.advance(1)
		z.doctypeSystem = z.doctypeSystem[:0]
		z.doctypeHasSys = true
		z.state = doctypeSystemIdentifierSingleQuotedState
	case b == '>':
		z.doctypeForceQuirks = true
		z.state = afterDoctypeNameState
	default:
		z.doctypeForceQuirks = true
		z.state = bogusDoctypeState
	}
}

func (z *Tokenizer) stepBogusDoctype() (Token, bool) {
	for {
		b, ok := z.in.current()
		if !ok {
			z.state = dataState
			return z.emitDoctype(), true
		}
		if b == '>' {
			z.in.advance(1)
			z.state = dataState
			return z.emitDoctype(), true
		}
		z.in.advance(1)
	}
}

// --- CDATA section (foreign content only) ---

func (z *Tokenizer) stepCDATASection() (Token, bool) {
	set := newByteSet(']')
	for {
		chunk := z.in.takeUntil(set)
		if len(chunk) > 0 {
			z.pendingText = append(z.pendingText, chunk...)
			z.in.advance(len(chunk))
		}
		if z.in.eof() {
			return z.flushPendingText()
		}
		if z.in.startsWithFold("]]>") {
			if tok, ok := z.flushPendingText(); ok {
				return tok, true
			}
			z.in.advance(3)
			z.state = dataState
			return Token{}, false
		}
		z.pendingText = append(z.pendingText, ']')
		z.in.advance(1)
	}
}

// --- Character references ---

// consumeCharacterReference implements section 13.2.5.72: it is called
// with the '&' already consumed, resolves a named or numeric reference
// (or finds none), and appends the result to the buffer that is live
// for returnState (pendingText, or the current attribute value), then
// switches back to returnState. inAttribute selects the legacy
// ambiguous-ampersand behavior for unterminated named references.
func (z *Tokenizer) consumeCharacterReference(returnState state, inAttribute bool) {
	dst := z.refDestFor(returnState)

	b, ok := z.in.current()
	if !ok || (!isASCIIAlnum(b) && b != '#') {
		*dst = append(*dst, '&')
		z.state = returnState
		return
	}

	if b == '#' {
		z.consumeNumericCharacterReference(returnState, dst)
		return
	}

	name, value, consumedSemicolon := z.matchNamedCharacterReference()
	if name == "" {
		z.recordError(ErrUnknownNamedCharRef)
		*dst = append(*dst, '&')
		z.state = returnState
		return
	}
	if inAttribute && !consumedSemicolon {
		if nb, ok := z.in.byteAt(0); ok && (nb == '=' || isASCIIAlnum(nb)) {
			*dst = append(*dst, '&')
			*dst = append(*dst, name...)
			z.state = returnState
			return
		}
	}
	if !consumedSemicolon {
		z.recordError(ErrMissingSemicolonCharRef)
	}
	*dst = append(*dst, value...)
	z.state = returnState
}

func (z *Tokenizer) refDestFor(returnState state) *[]byte {
	switch returnState {
	case attributeValueDoubleQuotedState, attributeValueSingleQuotedState, attributeValueUnquotedState:
		return &z.attrValBuf
	default:
		return &z.pendingText
	}
}

// matchNamedCharacterReference performs the longest-match scan against
// entityTable (section 13.2.5.73's "Named character reference state").
// It advances the input past the characters it consumes and reports
// whether the match's trailing ';' was present.
func (z *Tokenizer) matchNamedCharacterReference() (name, value string, semicolon bool) {
	maxLen := entityMaxNameLen
	if maxLen > z.in.remaining() {
		maxLen = z.in.remaining()
	}
	for length := maxLen; length >= 1; length-- {
		cand := z.in.peekString(length)
		if v, ok := entityTable[cand]; ok {
			z.in.advance(length)
			return cand, v, strings.HasSuffix(cand, ";")
		}
	}
	return "", "", false
}

func (z *Tokenizer) consumeNumericCharacterReference(returnState state, dst *[]byte) {
	z.in.advance(1) // '#'
	hex := false
	if b, ok := z.in.current(); ok && (b == 'x' || b == 'X') {
		hex = true
		z.in.advance(1)
	}
	start := z.in.pos
	var cp int64
	digits := 0
	for {
		b, ok := z.in.current()
		if !ok {
			break
		}
		var d int64
		switch {
		case hex && b >= '0' && b <= '9':
			d = int64(b - '0')
		case hex && lower(b) >= 'a' && lower(b) <= 'f':
			d = int64(lower(b)-'a') + 10
		case !hex && b >= '0' && b <= '9':
			d = int64(b - '0')
		default:
			b = 0
		}
		if b == 0 {
			break
		}
		base := int64(10)
		if hex {
			base = 16
		}
		if cp < 0x110000*16 {
			cp = cp*base + d
		}
		digits++
		z.in.advance(1)
	}
	if digits == 0 {
		z.recordError(ErrAbsenceOfDigitsInCharRef)
		// Unconsume back to '&#' / '&#x' and emit literally.
		z.in.pos = start
		*dst = append(*dst, '&', '#')
		if hex {
			*dst = append(*dst, 'x')
		}
		z.state = returnState
		return
	}
	if b, ok := z.in.current(); ok && b == ';' {
		z.in.advance(1)
	} else {
		z.recordError(ErrMissingSemicolonCharRef)
	}
	*dst = append(*dst, decodeNumericCharRef(cp, z)...)
	z.state = returnState
}

func (in *inputBuffer) remaining() int {
	return len(in.buf) - in.pos
}

func (in *inputBuffer) peekString(n int) string {
	if in.pos+n > len(in.buf) {
		n = len(in.buf) - in.pos
	}
	return string(in.buf[in.pos : in.pos+n])
}
