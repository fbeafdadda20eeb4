// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package html implements a dependency-free parser for HTML5, as
// specified by the WHATWG. It takes a byte stream or string and produces
// a document tree following the algorithm described at
// https://html.spec.whatwg.org/multipage/parsing.html
//
// Parsing is done in two tightly coupled stages: the tokenizer (token.go)
// lexes the input into a stream of structural tokens, and the tree
// constructor (parse.go, modes.go, adoption.go, foreign.go) consumes that
// stream to build a Node tree, recovering from malformed markup exactly
// the way a browser does.
//
// Everything in this package is dependency-free: it imports only the Go
// standard library. Packages elsewhere in this module (cssselect,
// mdconvert, fetch, testformat, cmd/htmlcat) are external
// collaborators layered on top of the core and may use third-party
// dependencies freely.
package html
