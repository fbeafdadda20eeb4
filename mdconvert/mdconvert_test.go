// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdconvert

import (
	"strings"
	"testing"

	"github.com/justhtml/html5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustConvert(t *testing.T, src string) string {
	t.Helper()
	doc, err := html.ParseString(src, html.Options{})
	require.NoError(t, err)
	out, err := ConvertString(doc)
	require.NoError(t, err)
	return out
}

func TestConvertHeading(t *testing.T) {
	out := mustConvert(t, "<h1>Title</h1><p>Body</p>")
	assert.Contains(t, out, "# Title")
	assert.Contains(t, out, "Body")
}

func TestConvertEmphasis(t *testing.T) {
	out := mustConvert(t, "<p>a <strong>bold</strong> and <em>italic</em></p>")
	assert.Contains(t, out, "**bold**")
	assert.Contains(t, out, "_italic_")
}

func TestConvertLink(t *testing.T) {
	out := mustConvert(t, `<p><a href="/x">text</a></p>`)
	assert.Equal(t, true, strings.Contains(out, "[text](/x)"))
}

func TestConvertList(t *testing.T) {
	out := mustConvert(t, "<ul><li>one</li><li>two</li></ul>")
	assert.Contains(t, out, "- one")
	assert.Contains(t, out, "- two")
}

func TestConvertOrderedList(t *testing.T) {
	out := mustConvert(t, "<ol><li>first</li><li>second</li></ol>")
	assert.Contains(t, out, "1. first")
	assert.Contains(t, out, "2. second")
}

func TestConvertCodeBlock(t *testing.T) {
	out := mustConvert(t, "<pre>x := 1</pre>")
	assert.Contains(t, out, "```\nx := 1\n```")
}

func TestConvertBlockquote(t *testing.T) {
	out := mustConvert(t, "<blockquote><p>quoted</p></blockquote>")
	assert.Contains(t, out, "> quoted")
}
