package core

import "pkt.systems/keymirror/schema"

func setValue(e schema.SetEntry) string { return e.Value }

func (t *tabRecord) insertSet(add schema.SetEntries) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.SetEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	t.store(appendEntries(cur, add), len(add), 0)
	return schema.ApplyResult{Added: len(add)}, true
}

func (t *tabRecord) removeSet(members schema.EntryKeys) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.SetEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	cur, removed := removeFirstBy(cur, members, setValue)
	t.store(cur, 0, removed)
	return schema.ApplyResult{Removed: removed}, true
}
