// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package html

// voidElements are HTML elements that never have children and whose end
// tag (if any) is ignored. Section 13.1.2.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// formattingElements are the inline elements subject to the active
// formatting elements list and the adoption agency algorithm (section
// 12.2.4.3).
var formattingElements = map[string]bool{
	"a": true, "b": true, "big": true, "code": true, "em": true,
	"font": true, "i": true, "nobr": true, "s": true, "small": true,
	"strike": true, "strong": true, "tt": true, "u": true,
}

// specialElements is the "special" category from section 12.2.3.2,
// consulted by the adoption agency algorithm's furthest-block search, by
// the "any other end tag" fallback, and by the li/dd/dt start-tag walks.
var specialElements = map[string]bool{
	"address": true, "applet": true, "area": true, "article": true,
	"aside": true, "base": true, "basefont": true, "bgsound": true,
	"blockquote": true, "body": true, "br": true, "button": true,
	"caption": true, "center": true, "col": true, "colgroup": true,
	"dd": true, "details": true, "dir": true, "div": true, "dl": true,
	"dt": true, "embed": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "frame": true,
	"frameset": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "head": true, "header": true, "hgroup": true,
	"hr": true, "html": true, "iframe": true, "img": true, "input": true,
	"keygen": true, "li": true, "link": true, "listing": true,
	"main": true, "marquee": true, "menu": true, "meta": true, "nav": true,
	"noembed": true, "noframes": true, "noscript": true, "object": true,
	"ol": true, "p": true, "param": true, "plaintext": true, "pre": true,
	"script": true, "section": true, "select": true, "source": true,
	"style": true, "summary": true, "table": true, "tbody": true,
	"td": true, "template": true, "textarea": true, "tfoot": true,
	"th": true, "thead": true, "title": true, "tr": true, "track": true,
	"ul": true, "wbr": true, "xmp": true,
}

// Scope boundary sets, section 12.2.4.2. Each maps an HTML-namespace tag
// name to true if it stops the corresponding scope predicate.
var (
	defaultScopeStopTags = map[string]bool{
		"applet": true, "caption": true, "html": true, "table": true,
		"td": true, "th": true, "marquee": true, "object": true,
		"template": true,
	}
	listItemScopeStopTags = union(defaultScopeStopTags, map[string]bool{
		"ol": true, "ul": true,
	})
	buttonScopeStopTags = union(defaultScopeStopTags, map[string]bool{
		"button": true,
	})
	tableScopeStopTags = map[string]bool{
		"html": true, "table": true, "template": true,
	}
)

func union(a, b map[string]bool) map[string]bool {
	m := make(map[string]bool, len(a)+len(b))
	for k, v := range a {
		m[k] = v
	}
	for k, v := range b {
		m[k] = v
	}
	return m
}

// Foreign-content integration points, section 13.2.6.2's "adjusted
// current node" rules.
var (
	mathmlTextIntegrationPoints = map[string]bool{
		"mi": true, "mo": true, "mn": true, "ms": true, "mtext": true,
	}
	htmlIntegrationPointsSVG = map[string]bool{
		"foreignObject": true, "desc": true, "title": true,
	}
)

// breakoutStartTags, section 13.2.6.2's list of start tags that force a return
// to HTML content from within foreign content.
var breakoutStartTags = map[string]bool{
	"b": true, "big": true, "blockquote": true, "body": true, "br": true,
	"center": true, "code": true, "dd": true, "div": true, "dl": true,
	"dt": true, "em": true, "embed": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "head": true,
	"hr": true, "i": true, "img": true, "li": true, "listing": true,
	"menu": true, "meta": true, "nobr": true, "ol": true, "p": true,
	"pre": true, "ruby": true, "s": true, "small": true, "span": true,
	"strong": true, "strike": true, "sub": true, "sup": true,
	"table": true, "tt": true, "u": true, "ul": true, "var": true,
}

// svgTagNameFixups restores the mixed case of a handful of SVG elements
// that the tokenizer otherwise lowercases, section 13.2.6.1.
var svgTagNameFixups = map[string]string{
	"altglyph":            "altGlyph",
	"altglyphdef":         "altGlyphDef",
	"altglyphitem":        "altGlyphItem",
	"animatecolor":        "animateColor",
	"animatemotion":       "animateMotion",
	"animatetransform":    "animateTransform",
	"clippath":            "clipPath",
	"feblend":             "feBlend",
	"fecolormatrix":       "feColorMatrix",
	"fecomponenttransfer": "feComponentTransfer",
	"fecomposite":         "feComposite",
	"feconvolvematrix":    "feConvolveMatrix",
	"fediffuselighting":   "feDiffuseLighting",
	"fedisplacementmap":   "feDisplacementMap",
	"fedistantlight":      "feDistantLight",
	"fedropshadow":        "feDropShadow",
	"feflood":             "feFlood",
	"fefunca":             "feFuncA",
	"fefuncb":             "feFuncB",
	"fefuncg":             "feFuncG",
	"fefuncr":             "feFuncR",
	"fegaussianblur":      "feGaussianBlur",
	"feimage":             "feImage",
	"femerge":             "feMerge",
	"femergenode":         "feMergeNode",
	"femorphology":        "feMorphology",
	"feoffset":            "feOffset",
	"fepointlight":        "fePointLight",
	"fespecularlighting":  "feSpecularLighting",
	"fespotlight":         "feSpotLight",
	"fetile":              "feTile",
	"feturbulence":        "feTurbulence",
	"foreignobject":       "foreignObject",
	"glyphref":            "glyphRef",
	"lineargradient":      "linearGradient",
	"radialgradient":      "radialGradient",
	"textpath":            "textPath",
}

// foreignAttrFixups renames attributes in foreign content to the
// "prefix space localname" encoding spec.md describes, section
// 13.2.6.3.
var foreignAttrFixups = map[string]Attribute{
	"xlink:actuate": {Namespace: "xlink", Key: "actuate"},
	"xlink:arcrole": {Namespace: "xlink", Key: "arcrole"},
	"xlink:href":    {Namespace: "xlink", Key: "href"},
	"xlink:role":    {Namespace: "xlink", Key: "role"},
	"xlink:show":    {Namespace: "xlink", Key: "show"},
	"xlink:title":   {Namespace: "xlink", Key: "title"},
	"xlink:type":    {Namespace: "xlink", Key: "type"},
	"xml:lang":      {Namespace: "xml", Key: "lang"},
	"xml:space":     {Namespace: "xml", Key: "space"},
	"xmlns":         {Namespace: "", Key: "xmlns"},
	"xmlns:xlink":   {Namespace: "xmlns", Key: "xlink"},
}

// svgAttrFixups restores the camel case of a handful of SVG attributes,
// section 13.2.6.1.
var svgAttrFixups = map[string]string{
	"attributename":       "attributeName",
	"attributetype":       "attributeType",
	"basefrequency":       "baseFrequency",
	"baseprofile":         "baseProfile",
	"calcmode":            "calcMode",
	"clippathunits":       "clipPathUnits",
	"diffuseconstant":     "diffuseConstant",
	"edgemode":            "edgeMode",
	"filterunits":         "filterUnits",
	"glyphref":            "glyphRef",
	"gradienttransform":   "gradientTransform",
	"gradientunits":       "gradientUnits",
	"kernelmatrix":        "kernelMatrix",
	"kernelunitlength":    "kernelUnitLength",
	"keypoints":           "keyPoints",
	"keysplines":          "keySplines",
	"keytimes":            "keyTimes",
	"lengthadjust":        "lengthAdjust",
	"limitingconeangle":   "limitingConeAngle",
	"markerheight":        "markerHeight",
	"markerunits":         "markerUnits",
	"markerwidth":         "markerWidth",
	"maskcontentunits":    "maskContentUnits",
	"maskunits":           "maskUnits",
	"numoctaves":          "numOctaves",
	"pathlength":          "pathLength",
	"patterncontentunits": "patternContentUnits",
	"patterntransform":    "patternTransform",
	"patternunits":        "patternUnits",
	"pointsatx":           "pointsAtX",
	"pointsaty":           "pointsAtY",
	"pointsatz":           "pointsAtZ",
	"preservealpha":       "preserveAlpha",
	"preserveaspectratio": "preserveAspectRatio",
	"primitiveunits":      "primitiveUnits",
	"refx":                "refX",
	"refy":                "refY",
	"repeatcount":         "repeatCount",
	"repeatdur":           "repeatDur",
	"requiredextensions":  "requiredExtensions",
	"requiredfeatures":    "requiredFeatures",
	"specularconstant":    "specularConstant",
	"specularexponent":    "specularExponent",
	"spreadmethod":        "spreadMethod",
	"startoffset":         "startOffset",
	"stddeviation":        "stdDeviation",
	"stitchtiles":         "stitchTiles",
	"surfacescale":        "surfaceScale",
	"systemlanguage":      "systemLanguage",
	"tablevalues":         "tableValues",
	"targetx":             "targetX",
	"targety":             "targetY",
	"textlength":          "textLength",
	"viewbox":             "viewBox",
	"viewtarget":          "viewTarget",
	"xchannelselector":    "xChannelSelector",
	"ychannelselector":    "yChannelSelector",
	"zoomandpan":          "zoomAndPan",
}
