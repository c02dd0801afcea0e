package core

import "pkt.systems/keymirror/schema"

func streamID(e schema.StreamEntry) string { return e.ID }

// insertStream always prepends: streams are shown newest first.
func (t *tabRecord) insertStream(add schema.StreamEntries) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.StreamEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	t.store(prependEntries(cur, add), len(add), 0)
	return schema.ApplyResult{Added: len(add)}, true
}

func (t *tabRecord) removeStream(ids schema.EntryKeys) (schema.ApplyResult, bool) {
	cur, ok := entriesAs[schema.StreamEntries](t)
	if !ok {
		return schema.ApplyResult{}, false
	}
	cur, removed := removeFirstBy(cur, ids, streamID)
	t.store(cur, 0, removed)
	return schema.ApplyResult{Removed: removed}, true
}
