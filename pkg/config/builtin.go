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
	_ "embed"
)

const (
	// BuiltinPatchName names the default patch
	BuiltinPatchName = "get-admin-products"

	// BuiltinTarget is the data-access file the default patch rewrites
	BuiltinTarget = "src/lib/api/admin.js"

	// BuiltinPattern matches the unfiltered getAdminProducts definition up to
	// and including its trailing order call
	BuiltinPattern = `export const getAdminProducts = async \(\) => \{[\s\S]*?\.order\("created_at", \{ ascending: false \}\);`
)

// BuiltinReplacement is the filtered getAdminProducts body
//
//go:embed builtin/get_admin_products.js
var BuiltinReplacement string

// BuiltinPatch returns the patch run when no config file is given
func BuiltinPatch() Patch {
	return Patch{
		Name:        BuiltinPatchName,
		Target:      BuiltinTarget,
		Pattern:     BuiltinPattern,
		Replacement: BuiltinReplacement,
	}
}

// Default returns the built-in patch set
func Default() *Config {
	return &Config{
		Patches: []Patch{BuiltinPatch()},
	}
}
