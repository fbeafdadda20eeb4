// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import (
	"io"
)

// Render serializes n and its descendants as HTML, using the
// fragment-serialization algorithm (roughly section 13.3): void
// elements get no closing tag, <template> serializes its
// TemplateContent rather than its (always empty) Child list, and
// attribute values are quoted and escaped. It does not attempt to
// reproduce the original source text -- boolean attributes, self-closing
// syntax, and whitespace are all normalized.
func Render(w io.Writer, n *Node) error {
	rw := &renderWriter{w: w}
	rw.renderNode(n)
	return rw.err
}

type renderWriter struct {
	w   io.Writer
	err error
}

// rawTextSerializationElements lists the HTML-namespace elements whose
// text children section 13.3 requires to be written literally rather
// than escaped (script, style, and the other elements the tokenizer
// itself treats as RAWTEXT/PLAINTEXT, plus noscript). Render has no
// scripting-mode context of its own, so noscript is always serialized
// literally here, matching the scripting-enabled case.
var rawTextSerializationElements = map[string]bool{
	"script": true, "style": true, "xmp": true, "iframe": true,
	"noembed": true, "noframes": true, "plaintext": true, "noscript": true,
}

func (rw *renderWriter) writeString(s string) {
	if rw.err != nil {
		return
	}
	_, rw.err = io.WriteString(rw.w, s)
}

func (rw *renderWriter) renderNode(n *Node) {
	if rw.err != nil {
		return
	}
	switch n.Type {
	case DocumentNode, DocumentFragmentNode:
		for _, c := range n.Child {
			rw.renderNode(c)
		}
	case DoctypeNode:
		rw.writeString("<!DOCTYPE ")
		rw.writeString(n.Data)
		rw.writeString(">")
	case TextNode:
		if n.Parent != nil && n.Parent.Namespace == NamespaceHTML && rawTextSerializationElements[n.Parent.Data] {
			rw.writeString(n.Data)
		} else {
			rw.writeString(EscapeString(n.Data))
		}
	case CommentNode:
		rw.writeString("<!--")
		rw.writeString(n.Data)
		rw.writeString("-->")
	case ElementNode:
		rw.renderElement(n)
	}
}

func (rw *renderWriter) renderElement(n *Node) {
	rw.writeString("<")
	rw.writeString(n.Data)
	for _, a := range n.Attr {
		rw.writeString(" ")
		if a.Namespace != "" {
			rw.writeString(a.Namespace)
			rw.writeString(":")
		}
		rw.writeString(a.Key)
		rw.writeString(`="`)
		rw.writeString(EscapeString(a.Val))
		rw.writeString(`"`)
	}
	rw.writeString(">")

	if n.Namespace == NamespaceHTML && voidElements[n.Data] {
		return
	}

	if n.Namespace == NamespaceHTML && n.Data == "template" && n.TemplateContent != nil {
		rw.renderNode(n.TemplateContent)
	} else {
		for _, c := range n.Child {
			rw.renderNode(c)
		}
	}

	rw.writeString("</")
	rw.writeString(n.Data)
	rw.writeString(">")
}

// RenderString is a convenience wrapper around Render for callers that
// want the serialized document as a string rather than streamed to an
// io.Writer.
func RenderString(n *Node) (string, error) {
	var sb stringBuilder
	if err := Render(&sb, n); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// stringBuilder is a tiny io.Writer adapter so RenderString does not
// need to import strings.Builder through render.go's own API surface;
// kept here rather than reused from elsewhere since it is a two-line,
// render-only concern.
type stringBuilder struct {
	buf []byte
}

func (b *stringBuilder) Write(p []byte) (int, error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *stringBuilder) String() string { return string(b.buf) }
