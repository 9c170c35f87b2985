// Package pathmatch decides whether a navigation entry is active for the
// current URL path.
package pathmatch

import "strings"

// Normalize strips every trailing slash. The empty result maps to "/".
func Normalize(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" {
		return "/"
	}
	return trimmed
}

// IsActive reports whether itemPath matches currentPath. Without exact, a
// match is equality or currentPath starting with itemPath followed by "/".
//
// The root item is effectively exact-only: "/" + "/" never prefixes a
// normalised path.
func IsActive(itemPath, currentPath string, exact bool) bool {
	item := Normalize(itemPath)
	current := Normalize(currentPath)
	if exact {
		return item == current
	}
	return item == current || strings.HasPrefix(current, item+"/")
}

// IsChildActive reports whether any of childPaths is active for currentPath.
func IsChildActive(childPaths []string, currentPath string) bool {
	for _, p := range childPaths {
		if IsActive(p, currentPath, false) {
			return true
		}
	}
	return false
}
