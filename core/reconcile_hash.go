package core

import "pkt.systems/keymirror/schema"

func hashField(e schema.HashEntry) string { return e.Field }

func (t *tabRecord) insertHash(add schema.HashEntries) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.HashEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	t.store(appendEntries(cur, add), len(add), 0)
	return schema.ApplyResult{Added: len(add)}, true
}

func (t *tabRecord) updateHash(add schema.HashEntries) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.HashEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	cur, updated, added := upsertBy(cur, add, hashField, func(dst *schema.HashEntry, src schema.HashEntry) {
		dst.Value = src.Value
		dst.DisplayValue = src.DisplayValue
	})
	t.store(cur, added, 0)
	return schema.ApplyResult{Added: added, Updated: updated}, true
}

func (t *tabRecord) replaceHash(repl schema.HashReplaces, hints []int) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.HashEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	cur, updated, added := renameBy(cur, repl, hints, hashField,
		func(r schema.HashReplace) string { return r.Field },
		func(dst *schema.HashEntry, r schema.HashReplace) {
			dst.Field = r.NewField
			dst.Value = r.Value
			dst.DisplayValue = r.DisplayValue
		},
		func(r schema.HashReplace) schema.HashEntry {
			return schema.HashEntry{Field: r.NewField, Value: r.Value, DisplayValue: r.DisplayValue}
		},
	)
	t.store(cur, added, 0)
	return schema.ApplyResult{Added: added, Updated: updated}, true
}

func (t *tabRecord) removeHash(fields schema.EntryKeys) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.HashEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	cur, removed := removeFirstBy(cur, fields, hashField)
	t.store(cur, 0, removed)
	return schema.ApplyResult{Removed: removed}, true
}
