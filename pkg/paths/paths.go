// Package paths implements the relative path algebra shared by the
// filesystem registry and the permission hierarchy.
//
// Paths are slash-delimited relative paths. The empty string is the root.
// Both "/" and "\" are accepted as separators on input; paths produced by
// this package always use "/". No canonicalization of "." or ".." is
// performed here; callers validate entry names before building paths.
package paths

import "strings"

// Separator is the canonical segment separator used in stored paths.
const Separator = "/"

// Split breaks a path into its segments.
//
// The root path ("") yields an empty slice. Both forward and backward
// slashes act as separators; empty segments produced by doubled or
// trailing separators are dropped.
func Split(path string) []string {
	if path == "" {
		return nil
	}

	normalized := strings.ReplaceAll(path, "\\", Separator)

	segments := make([]string, 0, strings.Count(normalized, Separator)+1)
	for _, segment := range strings.Split(normalized, Separator) {
		if segment != "" {
			segments = append(segments, segment)
		}
	}

	return segments
}

// Join assembles segments into a canonical path. Empty segments are
// skipped, so Join("a", "", "b") == "a/b".
func Join(segments ...string) string {
	nonEmpty := make([]string, 0, len(segments))
	for _, segment := range segments {
		if segment != "" {
			nonEmpty = append(nonEmpty, segment)
		}
	}
	return strings.Join(nonEmpty, Separator)
}

// Child appends a name to a parent path. The root parent produces the
// bare name.
func Child(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + Separator + name
}

// Parent returns the parent path of the given path. The root's parent is
// the root itself.
func Parent(path string) string {
	segments := Split(path)
	if len(segments) <= 1 {
		return ""
	}
	return Join(segments[:len(segments)-1]...)
}

// Basename returns the last segment of the path, or "" for the root.
func Basename(path string) string {
	segments := Split(path)
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// Depth returns the number of segments in the path. The root has depth 0.
func Depth(path string) int {
	return len(Split(path))
}

// IsDescendant reports whether path is a strict descendant of ancestor.
// Every non-root path is a descendant of the root. A path is not a
// descendant of itself.
func IsDescendant(path, ancestor string) bool {
	if path == ancestor {
		return false
	}
	if ancestor == "" {
		return path != ""
	}
	return strings.HasPrefix(path, ancestor+Separator)
}

// IsDirectChild reports whether path is exactly one segment below parent.
func IsDirectChild(path, parent string) bool {
	return IsDescendant(path, parent) && Depth(path) == Depth(parent)+1
}
