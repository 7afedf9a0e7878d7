// Package pathutil implements the two pure path helpers spec.md §6 lists
// as an external collaborator ("Path utilities — isRelative, resolve").
// This module needs one concrete implementation to build and be tested;
// it follows the host conventions evanw/esbuild's internal/fs.FS
// interface exposes (IsAbs, Join, Dir), using Go's path/filepath.
package pathutil

import (
	"path/filepath"
	"strings"
)

// IsRelative reports whether s is a relative or absolute filesystem
// specifier (as opposed to a bare package name like "lodash" or a
// synthetic id). True for "./x", "../x", and any OS-absolute path.
func IsRelative(s string) bool {
	if strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../") || s == "." || s == ".." {
		return true
	}
	return filepath.IsAbs(s)
}

// Resolve joins base (a directory) with the given specifier and cleans
// the result into an absolute identifier, the way node/esbuild-style
// resolvers join an importer's directory with a relative import path.
func Resolve(base string, specifier string) string {
	if filepath.IsAbs(specifier) {
		return filepath.Clean(specifier)
	}
	return filepath.Clean(filepath.Join(base, specifier))
}

// Dir returns the directory portion of an absolute module id.
func Dir(id string) string {
	return filepath.Dir(id)
}
