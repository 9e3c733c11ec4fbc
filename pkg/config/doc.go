/*
Package config defines patch sets and loads them from YAML, JSON or HCL.

	            +-------------+
	            |   Config    |
	            |  (Patches)  |
	            +------+------+
	                   |
	      +-----------+-----------+-----------+
	      |           |           |           |
	+-----+-----+ +---+---+ +-----+-----+ +---+-----+
	|  Builtin  | | YAML  | |   JSON    | |   HCL   |
	+-----------+ +-------+ +-----------+ +---------+

🎯 Purpose:
- Ships the built-in getAdminProducts patch used when no file is given
- Parses patch sets through a registry keyed on file extension
- Validates names, targets, patterns and encodings before anything runs

📝 Formats:

YAML (and the same shape in JSON):

	patches:
	  - name: get-admin-products
	    target: src/lib/api/admin.js
	    pattern: 'export const getAdminProducts = async \(\) => \{[\s\S]*?\.order\("created_at", \{ ascending: false \}\);'
	    replacement_file: get_admin_products.js

HCL, where the built-in values are in scope:

	patch "get-admin-products" {
	  target      = builtin.target
	  pattern     = builtin.pattern
	  replacement = builtin.replacement
	}

HCL quoted strings and heredocs are templates, so a literal "${" in a
replacement has to be written "$${". YAML, JSON and replacement_file have no
such escaping.

🔍 Example:

	cfg, err := config.Load(ctx, "patchrc.yaml")
	if err != nil {
		return err
	}
	for _, p := range cfg.Patches {
		fmt.Println(p.Name, "->", p.Target)
	}
*/
package config
