package store

import "strings"

// pathSep separates hops in store-addressable paths. User-facing syntax is
// dotted; the double underscore appears only at this boundary.
const pathSep = "__"

// annotationPrefix namespaces computed columns so they can never collide
// with schema field names.
const annotationPrefix = "mgp"

// JoinPath joins path segments into a store-addressable identifier.
func JoinPath(parts []string) string {
	return strings.Join(parts, pathSep)
}

// SplitPath splits a store-addressable identifier into its segments.
func SplitPath(path string) []string {
	return strings.Split(path, pathSep)
}

// AnnotationName synthesizes the reserved column name for a computed value
// identified by its full path.
func AnnotationName(fullPath []string) string {
	return annotationPrefix + pathSep + JoinPath(fullPath)
}
