// Package match evaluates shell-glob patterns against directory entry names.
package match

import (
	"github.com/danwakefield/fnmatch"
)

// directorySuffix is appended to a directory name so that patterns written
// with a trailing slash, such as "build/", match directories only.
const directorySuffix = "/"

// Name reports whether name matches pattern using shell-glob semantics:
// '*' matches any run of characters including the empty run, '?' matches a
// single character, '[seq]' matches any character in the set, and '[!seq]'
// negates the set. Matching is case-sensitive and anchored to the whole name.
func Name(name string, pattern string) bool {
	return fnmatch.Match(pattern, name, 0)
}

// DirectoryName reports whether a directory entry matches pattern, accepting
// both bare names ("build") and trailing-slash forms ("build/").
func DirectoryName(name string, pattern string) bool {
	if Name(name, pattern) {
		return true
	}
	return Name(name+directorySuffix, pattern)
}
