package core

import (
	"pkt.systems/keymirror/internal/logx"
	"pkt.systems/keymirror/schema"
)

// Insert adds entries to the tab showing the key. Lists honor Prepend,
// streams always prepend, hashes and sets append.
func (r *Registry) Insert(req schema.InsertRequest) schema.ApplyResult {
	return r.apply(schema.ContentInsert, req.Server, req.DB, req.Key, req.Type, schema.EntriesLen(req.Entries), func(t *tabRecord) (schema.ApplyResult, bool) {
		return t.insert(req.Type, req.Entries, req.Prepend)
	})
}

// BulkUpdate overwrites hash fields or sorted-set members in place, appending
// the ones not yet present. Applying the same payload twice is a no-op the
// second time.
func (r *Registry) BulkUpdate(req schema.UpdateRequest) schema.ApplyResult {
	return r.apply(schema.ContentUpdate, req.Server, req.DB, req.Key, req.Type, schema.EntriesLen(req.Entries), func(t *tabRecord) (schema.ApplyResult, bool) {
		return t.update(req.Type, req.Entries)
	})
}

// Replace repositions list elements or renames hash fields and sorted-set
// members. Index lists positions checked before the linear scan; the result
// does not depend on it.
func (r *Registry) Replace(req schema.ReplaceRequest) schema.ApplyResult {
	n := 0
	if req.Entries != nil {
		n = req.Entries.Len()
	}
	return r.apply(schema.ContentReplace, req.Server, req.DB, req.Key, req.Type, n, func(t *tabRecord) (schema.ApplyResult, bool) {
		return t.replace(req.Type, req.Entries, req.Index)
	})
}

// Remove deletes entries by position (lists) or identity.
func (r *Registry) Remove(req schema.RemoveRequest) schema.ApplyResult {
	n := 0
	if req.Targets != nil {
		n = req.Targets.Len()
	}
	return r.apply(schema.ContentRemove, req.Server, req.DB, req.Key, req.Type, n, func(t *tabRecord) (schema.ApplyResult, bool) {
		return t.remove(req.Type, req.Targets)
	})
}

// LoadContent applies one chunk of a streamed load, including its format,
// decode, match pattern, and end flag.
func (r *Registry) LoadContent(req schema.LoadRequest) schema.ApplyResult {
	log := logx.WithTab(r.logger, req.Server, req.DB, req.Key)
	r.mu.Lock()
	tab := r.findLocked(req.Server, req.DB, req.Key)
	if tab == nil {
		r.mu.Unlock()
		log.Debug("reconcile load skipped", "reason", "tab not found")
		return schema.ApplyResult{}
	}
	res, ok := tab.load(req)
	res.Found = true
	length := tab.length
	r.mu.Unlock()
	if !ok {
		log.Debug("reconcile load skipped", "reason", "payload mismatch", "type", req.Type)
		return res
	}
	log.Trace("reconcile load applied", "type", req.Type, "added", res.Added, "reset", req.Reset, "length", length)
	r.emitContentEvent(schema.ContentEvent{
		Op:     schema.ContentLoad,
		Server: req.Server,
		DB:     req.DB,
		Key:    req.Key,
		Type:   req.Type,
		Result: res,
		Length: length,
	})
	return res
}

func (r *Registry) apply(op schema.ContentOp, server schema.ServerName, db int, key string, typ schema.KeyType, size int, fn func(*tabRecord) (schema.ApplyResult, bool)) schema.ApplyResult {
	log := logx.WithTab(r.logger, server, db, key)
	r.mu.Lock()
	tab := r.findLocked(server, db, key)
	if tab == nil {
		r.mu.Unlock()
		log.Debug("reconcile skipped", "op", op, "reason", "tab not found")
		return schema.ApplyResult{}
	}
	if size == 0 {
		r.mu.Unlock()
		return schema.ApplyResult{Found: true}
	}
	res, ok := fn(tab)
	res.Found = true
	length := tab.length
	r.mu.Unlock()

	if !ok {
		log.Debug("reconcile skipped", "op", op, "reason", "payload mismatch", "type", typ)
		return res
	}
	log.Trace("reconcile applied", "op", op, "type", typ, "added", res.Added, "updated", res.Updated, "removed", res.Removed, "length", length)
	if res.Changed() {
		r.emitContentEvent(schema.ContentEvent{
			Op:     op,
			Server: server,
			DB:     db,
			Key:    key,
			Type:   typ,
			Result: res,
			Length: length,
		})
	}
	return res
}
