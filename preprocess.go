// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

import (
	"bytes"
	"io"
)

// inputBuffer is the UTF-8-addressable byte buffer the tokenizer reads
// from. It owns the normalized bytes (CR/CRLF collapsed to LF) and a
// byte cursor; slices handed out by takeUntil are views into buf and
// must not be retained past the next mutation of buf.
type inputBuffer struct {
	buf []byte
	pos int

	// sniffedEncoding records what the input preprocessor determined,
	// for diagnostic purposes. Actual decoding is always UTF-8: the
	// dependency-free core does not carry a transcoding table for
	// legacy encodings (see SPEC_FULL.md §4.1).
	sniffedEncoding string
}

// newInputBuffer runs the input preprocessor (section 4.1): BOM sniffing,
// a bounded meta-charset scan, and newline normalization.
func newInputBuffer(raw []byte) *inputBuffer {
	enc, body := sniffEncoding(raw)
	return &inputBuffer{
		buf:             normalizeNewlines(body),
		sniffedEncoding: enc,
	}
}

func readAllBytes(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r)
	return buf.Bytes(), err
}

// sniffEncoding inspects a BOM, then a limited window for a meta charset
// declaration, and returns a label plus the input with any BOM stripped.
// Per the dependency-free mandate only UTF-8 is ever actually decoded;
// UTF-16 input is detected (so callers can report a clear error) but not
// transcoded.
func sniffEncoding(raw []byte) (string, []byte) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return "utf-8", raw[3:]
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return "utf-16be", raw
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return "utf-16le", raw
	}

	window := raw
	if len(window) > 1024 {
		window = window[:1024]
	}
	if enc, ok := scanMetaCharset(window); ok {
		return enc, raw
	}
	return "utf-8", raw
}

// scanMetaCharset performs the bounded pre-scan for
// <meta charset="..."> or <meta http-equiv=... content=...charset=...>,
// per section 4.1. It is intentionally simple: a best-effort scan, not a
// second tokenizer pass.
func scanMetaCharset(window []byte) (string, bool) {
	lower := bytes.ToLower(window)
	idx := 0
	for {
		i := bytes.Index(lower[idx:], []byte("<meta"))
		if i < 0 {
			return "", false
		}
		start := idx + i
		end := bytes.IndexByte(lower[start:], '>')
		if end < 0 {
			return "", false
		}
		tag := lower[start : start+end]
		if enc, ok := extractCharsetAttr(tag); ok {
			return enc, true
		}
		idx = start + end + 1
		if idx >= len(lower) {
			return "", false
		}
	}
}

func extractCharsetAttr(tag []byte) (string, bool) {
	const key = "charset="
	i := bytes.Index(tag, []byte(key))
	if i < 0 {
		return "", false
	}
	rest := tag[i+len(key):]
	if len(rest) == 0 {
		return "", false
	}
	quote := byte(0)
	if rest[0] == '"' || rest[0] == '\'' {
		quote = rest[0]
		rest = rest[1:]
	}
	end := len(rest)
	for j, b := range rest {
		if quote != 0 && b == quote {
			end = j
			break
		}
		if quote == 0 && (b == ' ' || b == ';' || b == '>') {
			end = j
			break
		}
	}
	enc := string(rest[:end])
	if enc == "" {
		return "", false
	}
	return enc, true
}

// normalizeNewlines collapses CRLF and bare CR to LF, per section 4.1 and
// the WHATWG "preprocessing the input stream" step.
func normalizeNewlines(b []byte) []byte {
	if bytes.IndexByte(b, '\r') < 0 {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\r' {
			out = append(out, '\n')
			if i+1 < len(b) && b[i+1] == '\n' {
				i++
			}
			continue
		}
		out = append(out, b[i])
	}
	return out
}

func (in *inputBuffer) eof() bool {
	return in.pos >= len(in.buf)
}

func (in *inputBuffer) byteAt(offset int) (byte, bool) {
	i := in.pos + offset
	if i < 0 || i >= len(in.buf) {
		return 0, false
	}
	return in.buf[i], true
}

func (in *inputBuffer) current() (byte, bool) {
	return in.byteAt(0)
}

func (in *inputBuffer) advance(n int) {
	in.pos += n
	if in.pos > len(in.buf) {
		in.pos = len(in.buf)
	}
}

// startsWithFold reports whether the input at the current position is an
// ASCII case-insensitive match for s, without consuming it.
func (in *inputBuffer) startsWithFold(s string) bool {
	if in.pos+len(s) > len(in.buf) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := in.buf[in.pos+i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		want := s[i]
		if 'A' <= want && want <= 'Z' {
			want += 'a' - 'A'
		}
		if c != want {
			return false
		}
	}
	return true
}

// takeUntil scans forward from the current position until it finds a
// byte in set (or EOF), and returns the zero-copy slice covering
// [start, stop) without advancing the cursor. This is the "take_until"
// performance primitive section 4.1 calls out as the single biggest
// lever: the Data-state hot loop uses it against a 3-byte special set.
func (in *inputBuffer) takeUntil(set *byteSet) []byte {
	start := in.pos
	i := start
	for i < len(in.buf) && !set.has(in.buf[i]) {
		i++
	}
	return in.buf[start:i]
}

// byteSet is a 256-bit membership bitmap for the small alphabets the
// tokenizer scans against (e.g. { '<', '&', '\0' } in Data state; CR is
// already normalized away before tokenizing).
type byteSet [4]uint64

func newByteSet(bytes ...byte) *byteSet {
	var s byteSet
	for _, b := range bytes {
		s.add(b)
	}
	return &s
}

func (s *byteSet) add(b byte) {
	s[b>>6] |= 1 << (b & 63)
}

func (s *byteSet) has(b byte) bool {
	return s[b>>6]&(1<<(b&63)) != 0
}

var (
	dataSpecials     = newByteSet('<', '&', 0)
	rawtextSpecials  = newByteSet('<', 0)
	plaintextSpecial = newByteSet(0)
)
