package common

import (
	"path"
	"strings"
)

// UnknownStr is returned by String methods for out-of-range enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty. Major version suffixes ("/v2") are skipped
// so that "gopkg.in/yaml.v3" and "example.com/orm/v2" alias to their package names.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		base = path.Base(path.Dir(pkgPath))
	}

	if i := strings.Index(base, ".v"); i > 0 {
		base = base[:i]
	}

	return base
}

// MatchPath reports whether pkgPath satisfies filter. An empty filter matches
// everything; a filter ending in "/..." matches the prefix and all sub-packages;
// anything else must match exactly.
func MatchPath(filter, pkgPath string) bool {
	if filter == "" {
		return true
	}

	if prefix, ok := strings.CutSuffix(filter, "/..."); ok {
		return pkgPath == prefix || strings.HasPrefix(pkgPath, prefix+"/")
	}

	return pkgPath == filter
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
