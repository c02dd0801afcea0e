package core

import (
	"slices"

	"pkt.systems/keymirror/schema"
)

func listValue(e schema.ListEntry) string { return e.Value }

func (t *tabRecord) insertList(add schema.ListEntries, prepend bool) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.ListEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	if prepend {
		cur = prependEntries(cur, add)
	} else {
		cur = appendEntries(cur, add)
	}
	t.store(cur, len(add), 0)
	return schema.ApplyResult{Added: len(add)}, true
}

// replaceList overwrites elements by explicit position. Positions outside the
// current bounds append instead.
func (t *tabRecord) replaceList(repl schema.ListReplaces) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.ListEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	var res schema.ApplyResult
	for _, r := range repl {
		entry := schema.ListEntry{Value: r.Value, DisplayValue: r.DisplayValue}
		if r.Index >= 0 && r.Index < len(cur) {
			cur[r.Index] = entry
			res.Updated++
			continue
		}
		cur = append(cur, entry)
		res.Added++
	}
	t.store(cur, res.Added, 0)
	return res, true
}

// removeListAt deletes by position, highest first so earlier deletions do not
// shift later ones. Duplicate and out-of-range positions are ignored.
func (t *tabRecord) removeListAt(positions schema.EntryIndexes) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.ListEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	order := slices.Clone([]int(positions))
	slices.Sort(order)
	order = slices.Compact(order)
	removed := 0
	for i := len(order) - 1; i >= 0; i-- {
		pos := order[i]
		if pos < 0 || pos >= len(cur) {
			continue
		}
		cur = slices.Delete(cur, pos, pos+1)
		removed++
	}
	t.store(cur, 0, removed)
	return schema.ApplyResult{Removed: removed}, true
}

// removeListValues deletes one element per identifier occurrence, the first
// match each time. Duplicated values in the list are not all removed.
func (t *tabRecord) removeListValues(values schema.EntryKeys) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.ListEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	cur, removed := removeFirstBy(cur, values, listValue)
	t.store(cur, 0, removed)
	return schema.ApplyResult{Removed: removed}, true
}
