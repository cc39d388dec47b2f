package common

import "strings"

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// ModuleAlias returns the last element of a dotted Python module path.
// Returns empty string if modPath is empty.
func ModuleAlias(modPath string) string {
	if modPath == "" {
		return ""
	}

	if i := strings.LastIndexByte(modPath, '.'); i >= 0 {
		return modPath[i+1:]
	}

	return modPath
}

// JoinModule joins dotted Python module path elements, skipping empty ones.
func JoinModule(parts ...string) string {
	var nonEmpty []string

	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	return strings.Join(nonEmpty, ".")
}
