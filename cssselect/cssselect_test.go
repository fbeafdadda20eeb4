// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cssselect

import (
	"testing"

	"github.com/justhtml/html5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParseDoc(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.ParseString(src, html.Options{})
	require.NoError(t, err)
	return doc
}

func TestQueryAllTypeSelector(t *testing.T) {
	doc := mustParseDoc(t, "<div><p>a</p><p>b</p><span>c</span></div>")
	nodes, err := QueryAll(doc, "p")
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestQueryAllIDAndClass(t *testing.T) {
	doc := mustParseDoc(t, `<div id="main"><p class="intro lead">a</p><p class="lead">b</p></div>`)
	byID, err := QueryAll(doc, "#main")
	require.NoError(t, err)
	assert.Len(t, byID, 1)

	byClass, err := QueryAll(doc, ".lead")
	require.NoError(t, err)
	assert.Len(t, byClass, 2)

	both, err := QueryAll(doc, ".intro.lead")
	require.NoError(t, err)
	assert.Len(t, both, 1)
}

func TestQueryAllDescendantAndChild(t *testing.T) {
	doc := mustParseDoc(t, "<div><section><p>deep</p></section><p>direct</p></div>")
	div, err := Query(doc, "div")
	require.NoError(t, err)
	require.NotNil(t, div)

	descendants, err := QueryAll(div, "div p")
	require.NoError(t, err)
	assert.Len(t, descendants, 2)

	children, err := QueryAll(div, "div > p")
	require.NoError(t, err)
	assert.Len(t, children, 1)
}

func TestQueryAllAttributeSelectors(t *testing.T) {
	doc := mustParseDoc(t, `<a href="/x">x</a><a>y</a><a href="/z" target="_blank">z</a>`)
	present, err := QueryAll(doc, "a[href]")
	require.NoError(t, err)
	assert.Len(t, present, 2)

	equal, err := QueryAll(doc, `a[target=_blank]`)
	require.NoError(t, err)
	assert.Len(t, equal, 1)
}

func TestParseRejectsEmptySelector(t *testing.T) {
	_, err := Parse("   ")
	assert.Error(t, err)
}

func TestQueryNoMatch(t *testing.T) {
	doc := mustParseDoc(t, "<p>a</p>")
	n, err := Query(doc, "span")
	require.NoError(t, err)
	assert.Nil(t, n)
}
