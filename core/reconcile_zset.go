package core

import "pkt.systems/keymirror/schema"

func zsetValue(e schema.ZSetEntry) string { return e.Value }

func (t *tabRecord) insertZSet(add schema.ZSetEntries) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.ZSetEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	t.store(appendEntries(cur, add), len(add), 0)
	return schema.ApplyResult{Added: len(add)}, true
}

func (t *tabRecord) updateZSet(add schema.ZSetEntries) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.ZSetEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	cur, updated, added := upsertBy(cur, add, zsetValue, func(dst *schema.ZSetEntry, src schema.ZSetEntry) {
		dst.Score = src.Score
		dst.DisplayValue = src.DisplayValue
	})
	t.store(cur, added, 0)
	return schema.ApplyResult{Added: added, Updated: updated}, true
}

func (t *tabRecord) replaceZSet(repl schema.ZSetReplaces, hints []int) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.ZSetEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	cur, updated, added := renameBy(cur, repl, hints, zsetValue,
		func(r schema.ZSetReplace) string { return r.Value },
		func(dst *schema.ZSetEntry, r schema.ZSetReplace) {
			dst.Score = r.Score
			dst.Value = r.NewValue
			dst.DisplayValue = r.DisplayValue
		},
		func(r schema.ZSetReplace) schema.ZSetEntry {
			return schema.ZSetEntry{Score: r.Score, Value: r.NewValue, DisplayValue: r.DisplayValue}
		},
	)
	t.store(cur, added, 0)
	return schema.ApplyResult{Added: added, Updated: updated}, true
}

func (t *tabRecord) removeZSet(members schema.EntryKeys) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.ZSetEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	cur, removed := removeFirstBy(cur, members, zsetValue)
	t.store(cur, 0, removed)
	return schema.ApplyResult{Removed: removed}, true
}
