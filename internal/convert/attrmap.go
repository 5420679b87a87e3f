package convert

// attributeNames translates markup attribute names into JSX prop names.
var attributeNames = map[string]string{
	"class": "className",
	"for":   "htmlFor",

	"accept-charset":  "acceptCharset",
	"accesskey":       "accessKey",
	"allowfullscreen": "allowFullScreen",
	"autocapitalize":  "autoCapitalize",
	"autocomplete":    "autoComplete",
	"autocorrect":     "autoCorrect",
	"autofocus":       "autoFocus",
	"autoplay":        "autoPlay",
	"cellpadding":     "cellPadding",
	"cellspacing":     "cellSpacing",
	"charset":         "charSet",
	"classid":         "classID",
	"colspan":         "colSpan",
	"contenteditable": "contentEditable",
	"contextmenu":     "contextMenu",
	"controlslist":    "controlsList",
	"crossorigin":     "crossOrigin",
	"datetime":        "dateTime",
	"enctype":         "encType",
	"enterkeyhint":    "enterKeyHint",
	"formaction":      "formAction",
	"formenctype":     "formEncType",
	"formmethod":      "formMethod",
	"formnovalidate":  "formNoValidate",
	"formtarget":      "formTarget",
	"frameborder":     "frameBorder",
	"hreflang":        "hrefLang",
	"http-equiv":      "httpEquiv",
	"inputmode":       "inputMode",
	"itemprop":        "itemProp",
	"itemref":         "itemRef",
	"itemscope":       "itemScope",
	"itemtype":        "itemType",
	"keyparams":       "keyParams",
	"keytype":         "keyType",
	"marginheight":    "marginHeight",
	"marginwidth":     "marginWidth",
	"maxlength":       "maxLength",
	"mediagroup":      "mediaGroup",
	"minlength":       "minLength",
	"nomodule":        "noModule",
	"novalidate":      "noValidate",
	"playsinline":     "playsInline",
	"radiogroup":      "radioGroup",
	"readonly":        "readOnly",
	"referrerpolicy":  "referrerPolicy",
	"rowspan":         "rowSpan",
	"spellcheck":      "spellCheck",
	"srcdoc":          "srcDoc",
	"srclang":         "srcLang",
	"srcset":          "srcSet",
	"tabindex":        "tabIndex",
	"usemap":          "useMap",

	"onclick":     "onClick",
	"onchange":    "onChange",
	"oninput":     "onInput",
	"onsubmit":    "onSubmit",
	"onkeydown":   "onKeyDown",
	"onkeyup":     "onKeyUp",
	"onblur":      "onBlur",
	"onfocus":     "onFocus",
	"onmouseover": "onMouseOver",
	"onmouseout":  "onMouseOut",

	"xml:lang":      "xmlLang",
	"xml:space":     "xmlSpace",
	"xml:base":      "xmlBase",
	"xmlns:xlink":   "xmlnsXlink",
	"xlink:actuate": "xlinkActuate",
	"xlink:arcrole": "xlinkArcrole",
	"xlink:href":    "xlinkHref",
	"xlink:role":    "xlinkRole",
	"xlink:show":    "xlinkShow",
	"xlink:title":   "xlinkTitle",
	"xlink:type":    "xlinkType",

	"alignment-baseline":           "alignmentBaseline",
	"baseline-shift":               "baselineShift",
	"clip-path":                    "clipPath",
	"clip-rule":                    "clipRule",
	"color-interpolation":          "colorInterpolation",
	"color-profile":                "colorProfile",
	"color-rendering":              "colorRendering",
	"dominant-baseline":            "dominantBaseline",
	"enable-background":            "enableBackground",
	"fill-opacity":                 "fillOpacity",
	"fill-rule":                    "fillRule",
	"flood-color":                  "floodColor",
	"flood-opacity":                "floodOpacity",
	"font-family":                  "fontFamily",
	"font-size":                    "fontSize",
	"font-size-adjust":             "fontSizeAdjust",
	"font-stretch":                 "fontStretch",
	"font-style":                   "fontStyle",
	"font-variant":                 "fontVariant",
	"font-weight":                  "fontWeight",
	"glyph-orientation-horizontal": "glyphOrientationHorizontal",
	"glyph-orientation-vertical":   "glyphOrientationVertical",
	"image-rendering":              "imageRendering",
	"letter-spacing":               "letterSpacing",
	"lighting-color":               "lightingColor",
	"marker-end":                   "markerEnd",
	"marker-mid":                   "markerMid",
	"marker-start":                 "markerStart",
	"overline-position":            "overlinePosition",
	"overline-thickness":           "overlineThickness",
	"paint-order":                  "paintOrder",
	"pointer-events":               "pointerEvents",
	"shape-rendering":              "shapeRendering",
	"stop-color":                   "stopColor",
	"stop-opacity":                 "stopOpacity",
	"strikethrough-position":       "strikethroughPosition",
	"strikethrough-thickness":      "strikethroughThickness",
	"stroke-dasharray":             "strokeDasharray",
	"stroke-dashoffset":            "strokeDashoffset",
	"stroke-linecap":               "strokeLinecap",
	"stroke-linejoin":              "strokeLinejoin",
	"stroke-miterlimit":            "strokeMiterlimit",
	"stroke-opacity":               "strokeOpacity",
	"stroke-width":                 "strokeWidth",
	"text-anchor":                  "textAnchor",
	"text-decoration":              "textDecoration",
	"text-rendering":               "textRendering",
	"underline-position":           "underlinePosition",
	"underline-thickness":          "underlineThickness",
	"unicode-bidi":                 "unicodeBidi",
	"unicode-range":                "unicodeRange",
	"units-per-em":                 "unitsPerEm",
	"vector-effect":                "vectorEffect",
	"word-spacing":                 "wordSpacing",
	"writing-mode":                 "writingMode",
	"x-height":                     "xHeight",
}

// elementAttributeNames overrides attributeNames per element. Live value
// attributes become their "initial value" props.
var elementAttributeNames = map[string]map[string]string{
	"input": {
		"checked": "defaultChecked",
		"value":   "defaultValue",
	},
	"textarea": {
		"value": "defaultValue",
	},
	"select": {
		"value": "defaultValue",
	},
}

// propName returns the JSX prop for attribute name on element tag.
func propName(tag, name string) string {
	if m, ok := elementAttributeNames[tag]; ok {
		if p, ok := m[name]; ok {
			return p
		}
	}
	if p, ok := attributeNames[name]; ok {
		return p
	}
	return name
}
