package util

import (
	"runtime"
	"strings"
)

const (
	ArchAMD64 = "amd64"
	ArchARM64 = "arm64"
)

// ArchAlias returns the uname -m style alias for a Go CPU architecture.
// For example, "amd64" becomes "x86_64".
// Returns the input unchanged if no alias is defined, so callers always get
// a usable architecture string.
func ArchAlias(goArch string) string {
	switch strings.ToLower(goArch) {
	case ArchAMD64:
		return "x86_64"
	case ArchARM64:
		return "aarch64"
	default:
		return goArch
	}
}

// HostArch returns the uname -m style architecture of the host this process
// runs on.
func HostArch() string {
	return ArchAlias(runtime.GOARCH)
}

// FirstNonEmpty returns the first non-empty string from a list of strings.
// If all strings are empty, it returns an empty string.
func FirstNonEmpty(strs ...string) string {
	for _, s := range strs {
		if s != "" {
			return s
		}
	}
	return ""
}

// UniqueStrings returns a new slice containing only the unique strings from
// the input slice. The order of first appearance is preserved.
func UniqueStrings(slice []string) []string {
	if len(slice) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(slice))
	result := make([]string, 0, len(slice))
	for _, str := range slice {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
