package core

import (
	"slices"

	"pkt.systems/keymirror/schema"
)

// Generic sequence helpers shared by the per-type reconcilers. They operate on
// the record's own slice; callers adjust the length counter from the counts
// they return.

func appendEntries[S ~[]E, E any](cur, add S) S {
	return append(cur, add...)
}

func prependEntries[S ~[]E, E any](cur, add S) S {
	out := make(S, 0, len(cur)+len(add))
	out = append(out, add...)
	return append(out, cur...)
}

// upsertBy overwrites the first element whose identity matches each incoming
// element, appending the ones that match nothing.
func upsertBy[S ~[]E, E any](cur, add S, key func(E) string, merge func(dst *E, src E)) (S, int, int) {
	updated, added := 0, 0
	for _, entry := range add {
		id := key(entry)
		idx := slices.IndexFunc(cur, func(e E) bool { return key(e) == id })
		if idx >= 0 {
			merge(&cur[idx], entry)
			updated++
			continue
		}
		cur = append(cur, entry)
		added++
	}
	return cur, updated, added
}

// renameBy resolves every replacement exactly once: first against the hinted
// positions, then by a linear scan on the old identity. Replacements that match
// nothing are appended under their new identity.
func renameBy[S ~[]E, E any, R any](
	cur S,
	repl []R,
	hints []int,
	key func(E) string,
	oldKey func(R) string,
	apply func(dst *E, r R),
	fresh func(r R) E,
) (S, int, int) {
	resolved := make([]bool, len(repl))
	updated, added := 0, 0

	visited := make(map[int]struct{}, len(hints))
	for _, pos := range hints {
		if pos < 0 || pos >= len(cur) {
			continue
		}
		if _, ok := visited[pos]; ok {
			continue
		}
		visited[pos] = struct{}{}
		current := key(cur[pos])
		for i, r := range repl {
			if resolved[i] || oldKey(r) != current {
				continue
			}
			apply(&cur[pos], r)
			resolved[i] = true
			updated++
			break
		}
	}

	for i, r := range repl {
		if resolved[i] {
			continue
		}
		id := oldKey(r)
		idx := slices.IndexFunc(cur, func(e E) bool { return key(e) == id })
		if idx >= 0 {
			apply(&cur[idx], r)
			updated++
			continue
		}
		cur = append(cur, fresh(r))
		added++
	}
	return cur, updated, added
}

// removeFirstBy deletes the first element matching each identifier. A missing
// identifier removes nothing.
func removeFirstBy[S ~[]E, E any](cur S, ids []string, key func(E) string) (S, int) {
	removed := 0
	for _, id := range ids {
		idx := slices.IndexFunc(cur, func(e E) bool { return key(e) == id })
		if idx < 0 {
			continue
		}
		cur = slices.Delete(cur, idx, idx+1)
		removed++
	}
	return cur, removed
}

// entriesAs returns the record content as S. A record with no content yields an
// empty S; content of another kind is reported as a mismatch.
func entriesAs[S schema.Entries](t *tabRecord) (S, bool) {
	var zero S
	if t.entries == nil {
		return zero, true
	}
	s, ok := t.entries.(S)
	return s, ok
}

// store writes back the content and moves the length counter by the delta.
func (t *tabRecord) store(entries schema.Entries, added, removed int) {
	t.entries = entries
	t.length += added - removed
}
