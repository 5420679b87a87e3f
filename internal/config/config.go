// Package config loads engine options from YAML, JSON or HCL files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentic-research/jsxz/api"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"gopkg.in/yaml.v3"
)

// PackageSection is the JSONPath of the options block inside package.json.
const PackageSection = "$.jsxz"

// Load reads options from path. The format follows the extension; a file
// named package.json contributes only its "jsxz" section. Relative BaseDir
// values resolve against the config file's directory.
func Load(path string) (api.Options, error) {
	opts := api.DefaultOptions()
	content, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &opts); err != nil {
			return opts, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	case ".json":
		if err := decodeJSON(content, filepath.Base(path) == "package.json", &opts); err != nil {
			return opts, fmt.Errorf("parse json config %s: %w", path, err)
		}
	case ".hcl":
		if err := hclsimple.Decode(path, content, nil, &opts); err != nil {
			return opts, fmt.Errorf("parse hcl config %s: %w", path, err)
		}
	default:
		return opts, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	if opts.Extension == "" {
		opts.Extension = api.DefaultExtension
	}
	if opts.BaseDir != "" && !filepath.IsAbs(opts.BaseDir) {
		opts.BaseDir = filepath.Join(filepath.Dir(path), opts.BaseDir)
	}
	return opts, nil
}

func decodeJSON(content []byte, pkg bool, opts *api.Options) error {
	data, err := oj.Parse(content)
	if err != nil {
		return err
	}
	if pkg {
		x, err := jp.ParseString(PackageSection)
		if err != nil {
			return err
		}
		found := x.Get(data)
		if len(found) == 0 {
			return nil
		}
		data = found[0]
	}
	// round-trip through JSON so struct tags drive decoding
	return oj.Unmarshal([]byte(oj.JSON(data)), opts)
}
