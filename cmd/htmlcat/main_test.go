// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLinks(t *testing.T) {
	in := strings.NewReader(`<a href="/a">a</a><p>no link here</p><a href="/b">b</a>`)
	var out bytes.Buffer
	err := run([]string{"--links"}, in, &out)
	require.NoError(t, err)
	assert.Equal(t, "/a\n/b\n", out.String())
}

func TestRunMarkdown(t *testing.T) {
	in := strings.NewReader("<h1>Title</h1><p>Body text</p>")
	var out bytes.Buffer
	err := run([]string{"--markdown"}, in, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "# Title")
	assert.Contains(t, out.String(), "Body text")
}

func TestRunSelect(t *testing.T) {
	in := strings.NewReader(`<ul><li class="item">one</li><li class="item">two</li></ul>`)
	var out bytes.Buffer
	err := run([]string{"--select", ".item"}, in, &out)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", out.String())
}

func TestRunDefaultRendersTree(t *testing.T) {
	in := strings.NewReader("<p>hi</p>")
	var out bytes.Buffer
	err := run(nil, in, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "<p>hi</p>")
}

func TestRunStrictAbortsOnMalformedInput(t *testing.T) {
	in := strings.NewReader(`<p id=1 id=2>text</p>`)
	var out bytes.Buffer
	err := run([]string{"--strict"}, in, &out)
	assert.Error(t, err)
}
