package core

import "pkt.systems/keymirror/schema"

// The dispatchers below return ok=false when the payload kind does not fit the
// request type or the current content. Every switch lists all key types.

func (t *tabRecord) insert(typ schema.KeyType, entries schema.Entries, prepend bool) (schema.ApplyResult, bool) {
	switch typ {
	case schema.TypeList:
		add, ok := entries.(schema.ListEntries)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.insertList(add, prepend)
	case schema.TypeHash:
		add, ok := entries.(schema.HashEntries)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.insertHash(add)
	case schema.TypeSet:
		add, ok := entries.(schema.SetEntries)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.insertSet(add)
	case schema.TypeZSet:
		add, ok := entries.(schema.ZSetEntries)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.insertZSet(add)
	case schema.TypeStream:
		add, ok := entries.(schema.StreamEntries)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.insertStream(add)
	case schema.TypeString, schema.TypeUnknown:
		return schema.ApplyResult{}, false
	default:
		return schema.ApplyResult{}, false
	}
}

// update is defined for hashes and sorted sets only.
func (t *tabRecord) update(typ schema.KeyType, entries schema.Entries) (schema.ApplyResult, bool) {
	switch typ {
	case schema.TypeHash:
		add, ok := entries.(schema.HashEntries)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.updateHash(add)
	case schema.TypeZSet:
		add, ok := entries.(schema.ZSetEntries)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.updateZSet(add)
	case schema.TypeList, schema.TypeSet, schema.TypeStream, schema.TypeString, schema.TypeUnknown:
		return schema.ApplyResult{}, false
	default:
		return schema.ApplyResult{}, false
	}
}

func (t *tabRecord) replace(typ schema.KeyType, repl schema.Replacements, hints []int) (schema.ApplyResult, bool) {
	switch typ {
	case schema.TypeList:
		r, ok := repl.(schema.ListReplaces)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.replaceList(r)
	case schema.TypeHash:
		r, ok := repl.(schema.HashReplaces)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.replaceHash(r, hints)
	case schema.TypeZSet:
		r, ok := repl.(schema.ZSetReplaces)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.replaceZSet(r, hints)
	case schema.TypeSet, schema.TypeStream, schema.TypeString, schema.TypeUnknown:
		return schema.ApplyResult{}, false
	default:
		return schema.ApplyResult{}, false
	}
}

func (t *tabRecord) remove(typ schema.KeyType, targets schema.Targets) (schema.ApplyResult, bool) {
	switch typ {
	case schema.TypeList:
		switch ids := targets.(type) {
		case schema.EntryIndexes:
			return t.removeListAt(ids)
		case schema.EntryKeys:
			return t.removeListValues(ids)
		default:
			return schema.ApplyResult{}, false
		}
	case schema.TypeHash:
		ids, ok := targets.(schema.EntryKeys)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.removeHash(ids)
	case schema.TypeSet:
		ids, ok := targets.(schema.EntryKeys)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.removeSet(ids)
	case schema.TypeZSet:
		ids, ok := targets.(schema.EntryKeys)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.removeZSet(ids)
	case schema.TypeStream:
		ids, ok := targets.(schema.EntryKeys)
		if !ok {
			return schema.ApplyResult{}, false
		}
		return t.removeStream(ids)
	case schema.TypeString, schema.TypeUnknown:
		return schema.ApplyResult{}, false
	default:
		return schema.ApplyResult{}, false
	}
}

// load applies one chunk of a streamed content load. Chunks append in arrival
// order; Reset starts over from the chunk. A rejected chunk leaves the record
// untouched, metadata included.
func (t *tabRecord) load(req schema.LoadRequest) (schema.ApplyResult, bool) {
	if !t.acceptsLoad(req) {
		return schema.ApplyResult{}, false
	}
	if req.Format != "" {
		t.Format = req.Format
	}
	if req.Decode != "" {
		t.Decode = req.Decode
	}
	t.MatchPattern = req.MatchPattern
	if req.End != nil {
		t.End = *req.End
	}

	if req.Type == schema.TypeString {
		t.entries = nil
		t.length = 0
		t.stringValue = req.StringValue
		return schema.ApplyResult{Updated: 1}, true
	}
	var res schema.ApplyResult
	if req.Reset {
		res.Removed = t.length
		t.entries = nil
		t.length = 0
	}
	if schema.EntriesLen(req.Entries) == 0 {
		return res, true
	}
	r, ok := t.appendChunk(req.Entries)
	res.Added = r.Added
	return res, ok
}

// acceptsLoad reports whether the chunk fits the request type and, unless it
// resets, the content already loaded.
func (t *tabRecord) acceptsLoad(req schema.LoadRequest) bool {
	switch req.Type {
	case schema.TypeString:
		return true
	case schema.TypeList, schema.TypeHash, schema.TypeSet, schema.TypeZSet, schema.TypeStream:
		if req.Entries != nil && req.Entries.Kind() != req.Type {
			return false
		}
		if !req.Reset && t.entries != nil && t.entries.Kind() != req.Type {
			return false
		}
		return true
	case schema.TypeUnknown:
		return false
	default:
		return false
	}
}

// appendChunk appends loaded entries in backend order, streams included.
func (t *tabRecord) appendChunk(entries schema.Entries) (schema.ApplyResult, bool) {
	switch add := entries.(type) {
	case schema.ListEntries:
		return t.insertList(add, false)
	case schema.HashEntries:
		return t.insertHash(add)
	case schema.SetEntries:
		return t.insertSet(add)
	case schema.ZSetEntries:
		return t.insertZSet(add)
	case schema.StreamEntries:
		cur, ok := entriesAs[schema.StreamEntries](t)
		if !ok {
			return schema.ApplyResult{}, false
		}
		t.store(appendEntries(cur, add), len(add), 0)
		return schema.ApplyResult{Added: len(add)}, true
	default:
		return schema.ApplyResult{}, false
	}
}
