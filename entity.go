// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

// entityTable maps a named character reference -- as written after the
// '&', including the trailing ';' when the reference requires one --
// to its decoded UTF-8 value. A handful of legacy SGML entities are
// also valid without the semicolon; those are listed twice, once with
// and once without, matching the WHATWG named character reference
// table's own duplication (section 13.5).
//
// This is a curated subset of the full ~2125-entry table (see
// DESIGN.md): the Latin accented letters, Greek alphabet, common
// punctuation/space/dash/quote marks, arrows, and the mathematical
// operators a real document is likely to use. Only 15 names are
// recognized without a semicolon (AMP/amp, LT/lt, GT/gt, QUOT/quot,
// COPY/copy, REG/reg, nbsp, shy, trade); other legacy names written
// without one, such as "&eacute" or "&not", are not recognized.
// Anything outside this set is reported as an unknown named reference
// and passed through literally.
var entityTable = map[string]string{
	// Legacy entities valid with or without a trailing semicolon.
	"AMP": "&", "AMP;": "&",
	"amp": "&", "amp;": "&",
	"LT": "<", "LT;": "<",
	"lt": "<", "lt;": "<",
	"GT": ">", "GT;": ">",
	"gt": ">", "gt;": ">",
	"QUOT": "\"", "QUOT;": "\"",
	"quot": "\"", "quot;": "\"",
	"COPY": "©", "COPY;": "©",
	"copy": "©", "copy;": "©",
	"REG": "®", "REG;": "®",
	"reg": "®", "reg;": "®",
	"nbsp": " ", "nbsp;": " ",
	"shy": "­", "shy;": "­",
	"trade": "™", "trade;": "™",
	"hellip;":  "…",
	"mdash;":   "—",
	"ndash;":   "–",
	"lsquo;":   "‘",
	"rsquo;":   "’",
	"ldquo;":   "“",
	"rdquo;":   "”",
	"sbquo;":   "‚",
	"bdquo;":   "„",
	"dagger;":  "†",
	"Dagger;":  "‡",
	"bull;":    "•",
	"permil;":  "‰",
	"prime;":   "′",
	"Prime;":   "″",
	"lsaquo;":  "‹",
	"rsaquo;":  "›",
	"oline;":   "‾",
	"frasl;":   "⁄",
	"euro;":    "€",
	"image;":   "ℑ",
	"weierp;":  "℘",
	"real;":    "ℜ",
	"alefsym;": "ℵ",
	"larr;":    "←",
	"uarr;":    "↑",
	"rarr;":    "→",
	"darr;":    "↓",
	"harr;":    "↔",
	"crarr;":   "↵",
	"lArr;":    "⇐",
	"uArr;":    "⇑",
	"rArr;":    "⇒",
	"dArr;":    "⇓",
	"hArr;":    "⇔",
	"forall;":  "∀",
	"part;":    "∂",
	"exist;":   "∃",
	"empty;":   "∅",
	"nabla;":   "∇",
	"isin;":    "∈",
	"notin;":   "∉",
	"ni;":      "∋",
	"prod;":    "∏",
	"sum;":     "∑",
	"minus;":   "−",
	"lowast;":  "∗",
	"radic;":   "√",
	"prop;":    "∝",
	"infin;":   "∞",
	"ang;":     "∠",
	"and;":     "∧",
	"or;":      "∨",
	"cap;":     "∩",
	"cup;":     "∪",
	"int;":     "∫",
	"there4;":  "∴",
	"sim;":     "∼",
	"cong;":    "≅",
	"asymp;":   "≈",
	"ne;":      "≠",
	"equiv;":   "≡",
	"le;":      "≤",
	"ge;":      "≥",
	"sub;":     "⊂",
	"sup;":     "⊃",
	"nsub;":    "⊄",
	"sube;":    "⊆",
	"supe;":    "⊇",
	"oplus;":   "⊕",
	"otimes;":  "⊗",
	"perp;":    "⊥",
	"sdot;":    "⋅",
	"lceil;":   "⌈",
	"rceil;":   "⌉",
	"lfloor;":  "⌊",
	"rfloor;":  "⌋",
	"lang;":    "⟨",
	"rang;":    "⟩",
	"loz;":     "◊",
	"spades;":  "♠",
	"clubs;":   "♣",
	"hearts;":  "♥",
	"diams;":   "♦",

	"iexcl;":  "¡", "cent;": "¢", "pound;": "£",
	"curren;": "¤", "yen;": "¥", "brvbar;": "¦",
	"sect;": "§", "uml;": "¨", "ordf;": "ª",
	"laquo;": "«", "not;": "¬", "macr;": "¯",
	"deg;": "°", "plusmn;": "±", "sup2;": "²",
	"sup3;": "³", "acute;": "´", "micro;": "µ",
	"para;": "¶", "middot;": "·", "cedil;": "¸",
	"sup1;": "¹", "ordm;": "º", "raquo;": "»",
	"frac14;": "¼", "frac12;": "½", "frac34;": "¾",
	"iquest;": "¿", "times;": "×", "divide;": "÷",

	"Agrave;": "À", "Aacute;": "Á", "Acirc;": "Â",
	"Atilde;": "Ã", "Auml;": "Ä", "Aring;": "Å",
	"AElig;": "Æ", "Ccedil;": "Ç", "Egrave;": "È",
	"Eacute;": "É", "Ecirc;": "Ê", "Euml;": "Ë",
	"Igrave;": "Ì", "Iacute;": "Í", "Icirc;": "Î",
	"Iuml;": "Ï", "ETH;": "Ð", "Ntilde;": "Ñ",
	"Ograve;": "Ò", "Oacute;": "Ó", "Ocirc;": "Ô",
	"Otilde;": "Õ", "Ouml;": "Ö", "Oslash;": "Ø",
	"Ugrave;": "Ù", "Uacute;": "Ú", "Ucirc;": "Û",
	"Uuml;": "Ü", "Yacute;": "Ý", "THORN;": "Þ",
	"szlig;": "ß",
	"agrave;": "à", "aacute;": "á", "acirc;": "â",
	"atilde;": "ã", "auml;": "ä", "aring;": "å",
	"aelig;": "æ", "ccedil;": "ç", "egrave;": "è",
	"eacute;": "é", "ecirc;": "ê", "euml;": "ë",
	"igrave;": "ì", "iacute;": "í", "icirc;": "î",
	"iuml;": "ï", "eth;": "ð", "ntilde;": "ñ",
	"ograve;": "ò", "oacute;": "ó", "ocirc;": "ô",
	"otilde;": "õ", "ouml;": "ö", "oslash;": "ø",
	"ugrave;": "ù", "uacute;": "ú", "ucirc;": "û",
	"uuml;": "ü", "yacute;": "ý", "thorn;": "þ",
	"yuml;": "ÿ",

	"Alpha;": "Α", "Beta;": "Β", "Gamma;": "Γ",
	"Delta;": "Δ", "Epsilon;": "Ε", "Zeta;": "Ζ",
	"Eta;": "Η", "Theta;": "Θ", "Iota;": "Ι",
	"Kappa;": "Κ", "Lambda;": "Λ", "Mu;": "Μ",
	"Nu;": "Ν", "Xi;": "Ξ", "Omicron;": "Ο",
	"Pi;": "Π", "Rho;": "Ρ", "Sigma;": "Σ",
	"Tau;": "Τ", "Upsilon;": "Υ", "Phi;": "Φ",
	"Chi;": "Χ", "Psi;": "Ψ", "Omega;": "Ω",
	"alpha;": "α", "beta;": "β", "gamma;": "γ",
	"delta;": "δ", "epsilon;": "ε", "zeta;": "ζ",
	"eta;": "η", "theta;": "θ", "iota;": "ι",
	"kappa;": "κ", "lambda;": "λ", "mu;": "μ",
	"nu;": "ν", "xi;": "ξ", "omicron;": "ο",
	"pi;": "π", "rho;": "ρ", "sigmaf;": "ς",
	"sigma;": "σ", "tau;": "τ", "upsilon;": "υ",
	"phi;": "φ", "chi;": "χ", "psi;": "ψ",
	"omega;": "ω",
}

// entityMaxNameLen bounds the longest-match scan in
// matchNamedCharacterReference; it must be >= the longest key in
// entityTable (including the leading letters but not the '&').
const entityMaxNameLen = 8

// decodeNumericCharRef applies the "numeric character reference end
// state" remapping table, section 13.2.5.80: the Windows-1252 mapping
// for the C1 control range, and replacement-with-error for null,
// surrogate, out-of-range and noncharacter code points.
func decodeNumericCharRef(cp int64, z *Tokenizer) string {
	switch {
	case cp == 0:
		z.recordError(ErrControlCharRef)
		cp = 0xFFFD
	case cp > 0x10FFFF:
		z.recordError(ErrControlCharRef)
		cp = 0xFFFD
	case cp >= 0xD800 && cp <= 0xDFFF:
		z.recordError(ErrSurrogateCharRef)
		cp = 0xFFFD
	case isNoncharacter(cp):
		z.recordError(ErrNoncharacterCharRef)
		cp = 0xFFFD
	case isC1ControlRemap(cp):
		z.recordError(ErrControlCharRef)
		cp = int64(c1ControlRemap[byte(cp)])
	case isControl(cp):
		z.recordError(ErrControlCharRef)
	}
	return string(rune(cp))
}

func isNoncharacter(cp int64) bool {
	if cp >= 0xFDD0 && cp <= 0xFDEF {
		return true
	}
	return cp&0xFFFE == 0xFFFE
}

func isControl(cp int64) bool {
	if cp >= 0x0001 && cp <= 0x0008 {
		return true
	}
	switch cp {
	case 0x000B, 0x000E, 0x000F:
		return true
	}
	if cp >= 0x0010 && cp <= 0x001F {
		return true
	}
	if cp >= 0x007F && cp <= 0x009F {
		return true
	}
	return false
}

func isC1ControlRemap(cp int64) bool {
	_, ok := c1ControlRemap[byte(cp)]
	return ok && cp >= 0x80 && cp <= 0x9F
}

// c1ControlRemap is the legacy Windows-1252 substitution table for the
// C1 control range 0x80-0x9F, applied to numeric character references
// that target that range (section 13.2.5.80).
var c1ControlRemap = map[byte]rune{
	0x80: '€', 0x82: '‚', 0x83: 'ƒ', 0x84: '„',
	0x85: '…', 0x86: '†', 0x87: '‡', 0x88: 'ˆ',
	0x89: '‰', 0x8A: 'Š', 0x8B: '‹', 0x8C: 'Œ',
	0x8E: 'Ž', 0x91: '‘', 0x92: '’', 0x93: '“',
	0x94: '”', 0x95: '•', 0x96: '–', 0x97: '—',
	0x98: '˜', 0x99: '™', 0x9A: 'š', 0x9B: '›',
	0x9C: 'œ', 0x9E: 'ž', 0x9F: 'Ÿ',
}
