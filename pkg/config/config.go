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
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrNoPatches is returned when a config declares no patches
var ErrNoPatches = errors.Base("no patches defined")

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse decodes a patch set from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🩹 Patch is one pattern substitution applied to one or more target files
type Patch struct {
	Name            string `json:"name" yaml:"name"`                                             // Unique name used in output
	Target          string `json:"target" yaml:"target"`                                         // Workspace-relative path or doublestar glob
	Pattern         string `json:"pattern" yaml:"pattern"`                                       // RE2 expression for the span to replace
	Replacement     string `json:"replacement,omitempty" yaml:"replacement,omitempty"`           // Literal text put in place of the span
	ReplacementFile string `json:"replacement_file,omitempty" yaml:"replacement_file,omitempty"` // File holding the replacement, relative to the config
	Encoding        string `json:"encoding,omitempty" yaml:"encoding,omitempty"`                 // Text encoding of the target, utf-8 by default
}

// Rule converts the patch into a text replacement rule
func (p Patch) Rule() text.ReplacementRule {
	return text.ReplacementRule{
		Name:        p.Name,
		Pattern:     p.Pattern,
		Replacement: p.Replacement,
	}
}

// 📚 Config is an ordered set of patches
type Config struct {
	Patches []Patch `json:"patches" yaml:"patches"`

	location string
}

// Location returns the file the config was loaded from, empty for the built-in set
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads a patch set from a file, picking the parser by extension
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.resolveReplacementFiles(filepath.Dir(path)); err != nil {
		return nil, errors.Errorf("resolving replacement files: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Int("patches", len(cfg.Patches)).Msg("configuration loaded")
	return cfg, nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Patches) == 0 {
		return ErrNoPatches
	}

	seen := make(map[string]bool, len(cfg.Patches))
	rules := make([]text.ReplacementRule, 0, len(cfg.Patches))
	for i := range cfg.Patches {
		p := &cfg.Patches[i]

		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			return errors.Errorf("patch %d: name is required", i)
		}
		if seen[p.Name] {
			return errors.Errorf("patch %q: duplicate name", p.Name)
		}
		seen[p.Name] = true

		if p.Target == "" {
			return errors.Errorf("patch %q: target is required", p.Name)
		}
		if filepath.IsAbs(p.Target) {
			return errors.Errorf("patch %q: target must be relative to the workspace", p.Name)
		}

		if _, err := text.LookupCodec(p.Encoding); err != nil {
			return errors.Errorf("patch %q: %w", p.Name, err)
		}

		rules = append(rules, p.Rule())
	}

	if err := text.NewRegexpReplacer().ValidateRules(rules); err != nil {
		return errors.Errorf("validating patterns: %w", err)
	}

	return nil
}

// 📄 resolveReplacementFiles reads replacement_file entries relative to dir
func (cfg *Config) resolveReplacementFiles(dir string) error {
	for i := range cfg.Patches {
		p := &cfg.Patches[i]
		if p.ReplacementFile == "" {
			continue
		}
		if p.Replacement != "" {
			return errors.Errorf("patch %q: replacement and replacement_file are mutually exclusive", p.Name)
		}

		path := p.ReplacementFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Errorf("patch %q: reading replacement file: %w", p.Name, err)
		}
		p.Replacement = string(data)
	}
	return nil
}
