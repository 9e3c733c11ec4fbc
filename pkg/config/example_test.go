package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/patchrc/pkg/config"
)

func ExampleLoad() {
	dir, err := os.MkdirTemp("", "patchrc")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "patchrc.yaml")
	err = os.WriteFile(path, []byte(`
patches:
  - name: rename-helper
    target: "src/**/*.js"
    pattern: 'fetchAll\(\)'
    replacement: 'fetchAll({ limit: 50 })'
`), 0644)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	cfg, err := config.Load(context.Background(), path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	for _, p := range cfg.Patches {
		fmt.Printf("%s: %s\n", p.Name, p.Target)
	}

	// Output:
	// rename-helper: src/**/*.js
}

func ExampleDefault() {
	p := config.Default().Patches[0]
	fmt.Println(p.Name)
	fmt.Println(p.Target)

	// Output:
	// get-admin-products
	// src/lib/api/admin.js
}
