// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import "strings"

// UnescapeString decodes named and numeric character references in s,
// using the same entity table and numeric remapping rules as the
// tokenizer's Data state. It does not apply the legacy
// ambiguous-ampersand rule, since that rule only matters while
// tokenizing an attribute value.
func UnescapeString(s string) string {
	if !strings.ContainsRune(s, '&') {
		return s
	}
	z := &Tokenizer{in: newInputBuffer([]byte(s))}
	var out []byte
	for {
		b, ok := z.in.current()
		if !ok {
			break
		}
		if b != '&' {
			chunk := z.in.takeUntil(newByteSet('&'))
			out = append(out, chunk...)
			z.in.advance(len(chunk))
			continue
		}
		z.in.advance(1)
		z.pendingText = out
		z.consumeCharacterReference(dataState, false)
		out = z.pendingText
		z.pendingText = nil
	}
	return string(out)
}

// escapeTable lists the five characters HTML text and attribute
// contexts require escaped; render.go and collaborators use this for
// serialization instead of hand-rolling their own replacer.
var escapeTable = map[byte]string{
	'&':  "&amp;",
	'\'': "&#39;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&#34;",
}

// EscapeString replaces '&', '\'', '<', '>' and '"' with their entity
// equivalents so that s may be safely embedded as text or inside a
// quoted attribute value.
func EscapeString(s string) string {
	var needsEscape bool
	for i := 0; i < len(s); i++ {
		if _, ok := escapeTable[s[i]]; ok {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	for i := 0; i < len(s); i++ {
		if esc, ok := escapeTable[s[i]]; ok {
			b.WriteString(esc)
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
