// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import "testing"

// FuzzParse exercises the robustness property: no input, however
// malformed, should cause Parse to panic or fail to terminate. It does
// not assert anything about the resulting tree's shape -- that is
// parse_test.go's job.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"<p>Hello</p>",
		"<p><b>1<p>2</b>3",
		"<table><div>x</div><tr><td>y</td></tr></table>",
		"<svg><foreignObject><p>x</p></foreignObject></svg>",
		"<svg>x<p>y</svg>",
		"<template><tr><td>x</td></tr></template>",
		"<p>&amp;copy; &notin; &#x41; &#x110000;</p>",
		"<!DOCTYPE html><html><head></head><body></body></html>",
		"<script>document.write('<p>')</script>",
		"<a href=\"?a=1&b=2\">",
		"<a",
		"<!--",
		"<![CDATA[",
		"",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		doc, err := ParseString(s, Options{})
		if err != nil {
			t.Fatalf("ParseString returned an error in non-strict mode: %v", err)
		}
		if doc == nil {
			t.Fatal("ParseString returned a nil document")
		}
	})
}

// FuzzUnescapeString exercises the character-reference decoder directly
// against arbitrary input, independent of full tree construction.
func FuzzUnescapeString(f *testing.F) {
	for _, s := range []string{"&amp;", "&#x110000;", "&notarealentity;", "&&&", "&#;"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		_ = UnescapeString(s)
	})
}
