// Package wildmat implements the shell-style glob used by LIST NEWSGROUPS
// and NEWNEWS to filter newsgroup names (RFC 3977 §4.2). Patterns support
// '*' (any run of characters), '?' (any single character), and
// comma-separated alternatives where a leading '!' negates that term.
package wildmat

import "strings"

// Match reports whether name satisfies pattern. An empty pattern matches
// everything. Multiple comma-separated terms are OR'd together, except
// that a term prefixed with '!' excludes names it would otherwise match;
// a later positive term can still re-include a name a '!' term excluded.
func Match(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	matched := false
	for _, term := range strings.Split(pattern, ",") {
		if term == "" {
			continue
		}
		negate := false
		if strings.HasPrefix(term, "!") {
			negate = true
			term = term[1:]
		}
		if matchGlob(term, name) {
			matched = !negate
		}
	}
	return matched
}

// matchGlob matches a single '*'/'?' glob term against name, anchored at
// both ends.
func matchGlob(pattern, name string) bool {
	return matchHere(pattern, name)
}

func matchHere(pattern, name string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			// Collapse consecutive '*' and try every split point.
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 0 {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if matchHere(pattern, name[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(name) == 0 {
				return false
			}
			pattern = pattern[1:]
			name = name[1:]
		default:
			if len(name) == 0 || name[0] != pattern[0] {
				return false
			}
			pattern = pattern[1:]
			name = name[1:]
		}
	}
	return len(name) == 0
}
