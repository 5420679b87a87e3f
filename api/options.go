package api

// Options configures one engine instance. It is read from a config file
// (YAML, JSON or HCL) and/or CLI flags.
type Options struct {
	// BaseDir resolves relative document paths. Empty means the current directory.
	BaseDir string `json:"baseDir,omitempty" yaml:"base_dir" hcl:"base_dir,optional"`
	// Extension appended to document paths that have none.
	Extension string `json:"extension,omitempty" yaml:"extension" hcl:"extension,optional"`
	// Permissive turns "selector matched nothing" on sub-directives into a logged warning.
	Permissive bool `json:"permissive,omitempty" yaml:"permissive" hcl:"permissive,optional"`
	// AllowContent lets plain (non-Z) children of a directive become the
	// root children template instead of failing with InvalidChildTag.
	AllowContent bool `json:"allowContent,omitempty" yaml:"allow_content" hcl:"allow_content,optional"`
	// PartialResult returns the best-effort source alongside an error.
	PartialResult bool `json:"partialResult,omitempty" yaml:"partial_result" hcl:"partial_result,optional"`
	// Printer is passed through to the output printer untouched. Not settable from HCL.
	Printer map[string]any `json:"printer,omitempty" yaml:"printer"`
}

// DefaultExtension is appended to document paths without an extension.
const DefaultExtension = ".html"

// Reserved host names.
const (
	DirectiveTag     = "JSXZ"
	SubDirectiveTag  = "Z"
	ChildrenMarker   = "ChildrenZ"
	AttrPath         = "in"
	AttrSelector     = "sel"
	AttrTag          = "tag"
	AttrGuard        = "if"
	AttrInline       = "replace"
	SwapSuffix       = "Z"
	SwapIndexKey     = "indexZ"
	UndefinedLiteral = "undefined"
)

// DefaultOptions returns the options used when no config file is given.
func DefaultOptions() Options {
	return Options{Extension: DefaultExtension}
}

// Ext returns the configured extension, falling back to DefaultExtension.
func (o Options) Ext() string {
	if o.Extension == "" {
		return DefaultExtension
	}
	return o.Extension
}
