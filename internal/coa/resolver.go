package coa

import (
	"strings"

	"ctfiler/pkg/models"
)

var normReplacer = strings.NewReplacer(
	"–", "-", // en dash
	"—", "-", // em dash
	"‘", "", "’", "", // curly single quotes
	"“", "", "”", "", // curly double quotes
	"\"", "", "'", "", "`", "",
)

// Normalize prepares a category or account string for matching: trim,
// lowercase, dashes flattened, quotes stripped, "&" spelled out, whitespace
// runs collapsed.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = normReplacer.Replace(s)
	s = strings.ReplaceAll(s, "&", "and")
	return strings.Join(strings.Fields(s), " ")
}

// normalizePath normalizes every segment of a category string and rejoins
// them with the canonical separator.
func normalizePath(s string) string {
	segs := SplitPath(s)
	for i, seg := range segs {
		segs[i] = Normalize(seg)
	}
	return strings.Join(segs, PathSeparator)
}

// Resolve maps an arbitrary category string (AI output, imported cell, legacy
// value) onto the canonical chart of accounts, trying custom categories first
// and progressively looser matches after. It never fails: unmatchable input
// resolves to the UNCATEGORIZED sentinel.
func Resolve(input string, customCategories []string) string {
	segs := SplitPath(input)
	if len(segs) == 0 {
		return models.Uncategorized
	}
	normFull := normalizePath(input)

	// Custom categories win exact matches outright; a user-created category
	// must never be shadowed by a standard account of the same name.
	for _, c := range customCategories {
		if normalizePath(c) == normFull {
			return c
		}
	}

	// Match the trailing segment against CoA leaves and return the chart's
	// canonical path, not the input's casing. For single-segment input this
	// is the direct leaf search across the flattened chart.
	leaf := Normalize(segs[len(segs)-1])
	if p, ok := lookupLeaf(leaf); ok {
		return p
	}

	// Retry with a literal main-category prefix and leading punctuation
	// stripped ("expenses - rent expense" -> "rent expense").
	if stripped := stripMainPrefix(leaf); stripped != leaf && stripped != "" {
		if p, ok := lookupLeaf(stripped); ok {
			return p
		}
	}

	// Loose containment against CoA leaves, first hit in chart order.
	if p, ok := containsLeaf(leaf); ok {
		return p
	}

	// Loose containment against custom categories.
	for _, c := range customCategories {
		nc := normalizePath(c)
		if nc == "" {
			continue
		}
		if strings.Contains(nc, leaf) || strings.Contains(leaf, nc) {
			return c
		}
	}

	return models.Uncategorized
}

// lookupLeaf finds a CoA account whose normalized name equals the query and
// returns its canonical path.
func lookupLeaf(normLeaf string) (string, bool) {
	if normLeaf == "" {
		return "", false
	}
	path, found := "", false
	ForEachLeaf(func(main, sub, leaf string) bool {
		if Normalize(leaf) == normLeaf {
			path, found = Path(main, sub, leaf), true
			return false
		}
		return true
	})
	return path, found
}

// containsLeaf finds the first CoA account related to the query by substring
// containment in either direction.
func containsLeaf(q string) (string, bool) {
	if q == "" {
		return "", false
	}
	path, found := "", false
	ForEachLeaf(func(main, sub, leaf string) bool {
		nl := Normalize(leaf)
		if strings.Contains(nl, q) || strings.Contains(q, nl) {
			path, found = Path(main, sub, leaf), true
			return false
		}
		return true
	})
	return path, found
}

// stripMainPrefix removes a leading main-category name and any punctuation
// that follows it from an already-normalized string.
func stripMainPrefix(s string) string {
	for _, mc := range MainCategories {
		prefix := strings.ToLower(mc)
		if strings.HasPrefix(s, prefix) {
			rest := strings.TrimPrefix(s, prefix)
			rest = strings.TrimLeft(rest, " -:.,;")
			return rest
		}
	}
	return s
}
