package main

import (
	"os"
	"path/filepath"
	"slices"
)

// editor reads the solution file each time a form needs it. No file
// configured, or one that cannot be read, means there is no editor.
func editor(path string) func() (string, bool) {
	return func() (string, bool) {
		if path == "" {
			return "", false
		}
		body, err := os.ReadFile(path)
		if err != nil {
			return "", false
		}
		return string(body), true
	}
}

// fileOptions offers the files next to the solution file to file inputs.
func fileOptions(path string) func() []string {
	return func() []string {
		if path == "" {
			return nil
		}
		entries, err := os.ReadDir(filepath.Dir(path))
		if err != nil {
			return nil
		}
		var names []string
		for _, e := range entries {
			if e.Type().IsRegular() {
				names = append(names, e.Name())
			}
		}
		slices.Sort(names)
		return names
	}
}
