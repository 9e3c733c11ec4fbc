// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL. Expressions can reference the
// built-in patch as builtin.target, builtin.pattern and builtin.replacement.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "patchrc.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"builtin": cty.ObjectVal(map[string]cty.Value{
				"target":      cty.StringVal(BuiltinTarget),
				"pattern":     cty.StringVal(BuiltinPattern),
				"replacement": cty.StringVal(BuiltinReplacement),
			}),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Patches []struct {
			Name            string `hcl:"name,label"`
			Target          string `hcl:"target"`
			Pattern         string `hcl:"pattern"`
			Replacement     string `hcl:"replacement,optional"`
			ReplacementFile string `hcl:"replacement_file,optional"`
			Encoding        string `hcl:"encoding,optional"`
		} `hcl:"patch,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{}
	for _, b := range hclCfg.Patches {
		cfg.Patches = append(cfg.Patches, Patch{
			Name:            b.Name,
			Target:          b.Target,
			Pattern:         b.Pattern,
			Replacement:     b.Replacement,
			ReplacementFile: b.ReplacementFile,
			Encoding:        b.Encoding,
		})
	}

	return cfg, nil
}
