// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package testformat

import (
	"testing"

	"github.com/justhtml/html5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `#data
<p>One</p>
#errors
#document
| <html>
|   <head>
|   <body>
|     <p>
|       "One"

#data
<div class="a">two</div>
#errors
#document
| <html>
|   <head>
|   <body>
|     <div>
|       class="a"
|       "two"
`

func TestParseSplitsCases(t *testing.T) {
	cases, err := Parse(fixture)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "<p>One</p>", cases[0].Data)
	assert.Equal(t, `<div class="a">two</div>`, cases[1].Data)
}

func TestDumpMatchesFixture(t *testing.T) {
	cases, err := Parse(fixture)
	require.NoError(t, err)

	doc, err := html.ParseString(cases[0].Data, html.Options{})
	require.NoError(t, err)
	assert.Equal(t, cases[0].Document, Dump(doc))
}

func TestDumpAttributes(t *testing.T) {
	cases, err := Parse(fixture)
	require.NoError(t, err)

	doc, err := html.ParseString(cases[1].Data, html.Options{})
	require.NoError(t, err)
	assert.Equal(t, cases[1].Document, Dump(doc))
}

func TestFormatErrorsEmpty(t *testing.T) {
	assert.Equal(t, "", FormatErrors(nil))
}

func TestParseRejectsMissingData(t *testing.T) {
	_, err := Parse("nothing to see here")
	assert.Error(t, err)
}
