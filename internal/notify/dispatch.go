package notify

import (
	"fmt"

	"pkt.systems/keymirror/schema"
)

// Target receives decoded notifications. *core.Registry satisfies it.
type Target interface {
	OpenOrUpdate(desc schema.TabDescriptor) schema.TabSnapshot
	CloseByName(name schema.ServerName)
	OnConnectionClosed(server schema.ServerName)
	SetLoading(server schema.ServerName, db int, loading bool)
	SetTTL(server schema.ServerName, db int, key string, ttl int64)
	Insert(req schema.InsertRequest) schema.ApplyResult
	BulkUpdate(req schema.UpdateRequest) schema.ApplyResult
	Replace(req schema.ReplaceRequest) schema.ApplyResult
	Remove(req schema.RemoveRequest) schema.ApplyResult
	LoadContent(req schema.LoadRequest) schema.ApplyResult
}

// Dispatch applies note to target. Lifecycle ops return an empty result.
func Dispatch(target Target, note Note) (schema.ApplyResult, error) {
	switch note.Op {
	case OpInsert:
		return target.Insert(schema.InsertRequest{
			Server:  note.Server,
			DB:      note.DB,
			Key:     note.Key,
			Type:    note.Type,
			Entries: note.Entries,
			Prepend: note.Prepend,
		}), nil
	case OpUpdate:
		return target.BulkUpdate(schema.UpdateRequest{
			Server:  note.Server,
			DB:      note.DB,
			Key:     note.Key,
			Type:    note.Type,
			Entries: note.Entries,
		}), nil
	case OpReplace:
		return target.Replace(schema.ReplaceRequest{
			Server:  note.Server,
			DB:      note.DB,
			Key:     note.Key,
			Type:    note.Type,
			Entries: note.Replacements,
			Index:   note.Index,
		}), nil
	case OpRemove:
		return target.Remove(schema.RemoveRequest{
			Server:  note.Server,
			DB:      note.DB,
			Key:     note.Key,
			Type:    note.Type,
			Targets: note.Targets,
		}), nil
	case OpLoad:
		return target.LoadContent(schema.LoadRequest{
			Server:       note.Server,
			DB:           note.DB,
			Key:          note.Key,
			Type:         note.Type,
			Entries:      note.Entries,
			StringValue:  note.Value,
			Format:       note.Format,
			Decode:       note.Decode,
			MatchPattern: note.MatchPattern,
			Reset:        note.Reset,
			End:          note.End,
		}), nil
	case OpOpen:
		target.OpenOrUpdate(schema.TabDescriptor{
			SubTab:       note.SubTab,
			Server:       note.Server,
			DB:           note.DB,
			Type:         note.Type,
			TTL:          note.TTL,
			Key:          note.Key,
			Size:         note.Size,
			Length:       note.Length,
			MatchPattern: note.MatchPattern,
		})
	case OpClose:
		target.CloseByName(note.Server)
	case OpTTL:
		target.SetTTL(note.Server, note.DB, note.Key, note.TTL)
	case OpLoading:
		target.SetLoading(note.Server, note.DB, note.Loading)
	case OpClosed:
		target.OnConnectionClosed(note.Server)
	default:
		return schema.ApplyResult{}, fmt.Errorf("op %q: %w", note.Op, schema.ErrInvalidOp)
	}
	return schema.ApplyResult{}, nil
}
