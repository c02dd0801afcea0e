package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"pkt.systems/keymirror/schema"
)

type wireNote struct {
	Op      string          `json:"op"`
	Server  string          `json:"server"`
	DB      int             `json:"db"`
	Key     string          `json:"key"`
	Type    string          `json:"type"`
	Entries json.RawMessage `json:"entries"`
	Prepend bool            `json:"prepend"`
	Index   []int           `json:"index"`
	Targets json.RawMessage `json:"targets"`
	Reset   bool            `json:"reset"`
	End     *bool           `json:"end"`
	Value   string          `json:"value"`
	Format  string          `json:"format"`
	Decode  string          `json:"decode"`
	Match   string          `json:"match"`
	SubTab  string          `json:"sub_tab"`
	Size    int64           `json:"size"`
	Length  int64           `json:"length"`
	TTL     int64           `json:"ttl"`
	Loading bool            `json:"loading"`
}

type wireEntry struct {
	Index *int            `json:"index"`
	K     *string         `json:"k"`
	NK    *string         `json:"nk"`
	V     json.RawMessage `json:"v"`
	NV    *string         `json:"nv"`
	DV    string          `json:"dv"`
	S     json.RawMessage `json:"s"`
	ID    string          `json:"id"`
}

// Decode parses one notification line.
func Decode(line []byte) (Note, error) {
	var raw wireNote
	if err := json.Unmarshal(line, &raw); err != nil {
		return Note{}, err
	}
	op := Op(strings.ToLower(strings.TrimSpace(raw.Op)))
	if !op.valid() {
		return Note{}, fmt.Errorf("op %q: %w", raw.Op, schema.ErrInvalidOp)
	}
	server, err := schema.NormalizeServerName(raw.Server)
	if err != nil {
		return Note{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := schema.ValidateDB(raw.DB); err != nil {
		return Note{}, fmt.Errorf("%s db %d: %w", op, raw.DB, err)
	}
	note := Note{
		Op:           op,
		Server:       server,
		DB:           raw.DB,
		Key:          raw.Key,
		Index:        raw.Index,
		Prepend:      raw.Prepend,
		Reset:        raw.Reset,
		End:          raw.End,
		Value:        raw.Value,
		Format:       raw.Format,
		Decode:       raw.Decode,
		MatchPattern: raw.Match,
		SubTab:       raw.SubTab,
		Size:         raw.Size,
		Length:       raw.Length,
		TTL:          raw.TTL,
		Loading:      raw.Loading,
	}
	if strings.TrimSpace(raw.Type) != "" {
		typ, err := schema.ParseKeyType(raw.Type)
		if err != nil {
			return Note{}, fmt.Errorf("%s type %q: %w", op, raw.Type, err)
		}
		note.Type = typ
	}
	if !op.Content() {
		return note, nil
	}
	if !note.Type.Valid() {
		return Note{}, fmt.Errorf("%s: type is required: %w", op, schema.ErrInvalidKeyType)
	}

	switch op {
	case OpReplace:
		note.Replacements, err = decodeReplacements(note.Type, raw.Entries)
	case OpRemove:
		note.Targets, err = decodeTargets(note.Type, raw.Targets)
	default:
		note.Entries, err = decodeEntries(note.Type, raw.Entries)
	}
	if err != nil {
		return Note{}, fmt.Errorf("%s %s: %w", op, note.Type, err)
	}
	return note, nil
}

func decodeWireEntries(data json.RawMessage) ([]wireEntry, error) {
	if isNull(data) {
		return nil, nil
	}
	var entries []wireEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func decodeEntries(typ schema.KeyType, data json.RawMessage) (schema.Entries, error) {
	wire, err := decodeWireEntries(data)
	if err != nil {
		return nil, err
	}
	switch typ {
	case schema.TypeList:
		out := make(schema.ListEntries, 0, len(wire))
		for i, e := range wire {
			v, err := stringValue(e.V)
			if err != nil {
				return nil, entryErr(i, err)
			}
			out = append(out, schema.ListEntry{Value: v, DisplayValue: e.DV})
		}
		return out, nil
	case schema.TypeHash:
		out := make(schema.HashEntries, 0, len(wire))
		for i, e := range wire {
			if e.K == nil {
				return nil, entryErr(i, errors.New("missing field name"))
			}
			v, err := stringValue(e.V)
			if err != nil {
				return nil, entryErr(i, err)
			}
			out = append(out, schema.HashEntry{Field: *e.K, Value: v, DisplayValue: e.DV})
		}
		return out, nil
	case schema.TypeSet:
		out := make(schema.SetEntries, 0, len(wire))
		for i, e := range wire {
			v, err := stringValue(e.V)
			if err != nil {
				return nil, entryErr(i, err)
			}
			out = append(out, schema.SetEntry{Value: v, DisplayValue: e.DV})
		}
		return out, nil
	case schema.TypeZSet:
		out := make(schema.ZSetEntries, 0, len(wire))
		for i, e := range wire {
			v, err := stringValue(e.V)
			if err != nil {
				return nil, entryErr(i, err)
			}
			score, err := scoreValue(e.S)
			if err != nil {
				return nil, entryErr(i, err)
			}
			out = append(out, schema.ZSetEntry{Score: score, Value: v, DisplayValue: e.DV})
		}
		return out, nil
	case schema.TypeStream:
		out := make(schema.StreamEntries, 0, len(wire))
		for i, e := range wire {
			if e.ID == "" {
				return nil, entryErr(i, errors.New("missing stream id"))
			}
			var fields map[string]any
			if !isNull(e.V) {
				if err := json.Unmarshal(e.V, &fields); err != nil {
					return nil, entryErr(i, err)
				}
			}
			out = append(out, schema.StreamEntry{ID: e.ID, Fields: fields, DisplayValue: e.DV})
		}
		return out, nil
	case schema.TypeString, schema.TypeUnknown:
		return nil, nil
	default:
		return nil, schema.ErrInvalidKeyType
	}
}

func decodeReplacements(typ schema.KeyType, data json.RawMessage) (schema.Replacements, error) {
	wire, err := decodeWireEntries(data)
	if err != nil {
		return nil, err
	}
	switch typ {
	case schema.TypeList:
		out := make(schema.ListReplaces, 0, len(wire))
		for i, e := range wire {
			if e.Index == nil {
				return nil, entryErr(i, errors.New("missing index"))
			}
			v, err := stringValue(e.V)
			if err != nil {
				return nil, entryErr(i, err)
			}
			out = append(out, schema.ListReplace{Index: *e.Index, Value: v, DisplayValue: e.DV})
		}
		return out, nil
	case schema.TypeHash:
		out := make(schema.HashReplaces, 0, len(wire))
		for i, e := range wire {
			if e.K == nil {
				return nil, entryErr(i, errors.New("missing field name"))
			}
			v, err := stringValue(e.V)
			if err != nil {
				return nil, entryErr(i, err)
			}
			newField := *e.K
			if e.NK != nil {
				newField = *e.NK
			}
			out = append(out, schema.HashReplace{Field: *e.K, NewField: newField, Value: v, DisplayValue: e.DV})
		}
		return out, nil
	case schema.TypeZSet:
		out := make(schema.ZSetReplaces, 0, len(wire))
		for i, e := range wire {
			v, err := stringValue(e.V)
			if err != nil {
				return nil, entryErr(i, err)
			}
			score, err := scoreValue(e.S)
			if err != nil {
				return nil, entryErr(i, err)
			}
			newValue := v
			if e.NV != nil {
				newValue = *e.NV
			}
			out = append(out, schema.ZSetReplace{Score: score, Value: v, NewValue: newValue, DisplayValue: e.DV})
		}
		return out, nil
	case schema.TypeSet, schema.TypeStream, schema.TypeString, schema.TypeUnknown:
		return nil, fmt.Errorf("no replace path: %w", schema.ErrInvalidRequest)
	default:
		return nil, schema.ErrInvalidKeyType
	}
}

// decodeTargets reads remove identifiers. List targets that are all numbers
// are positions; anything else is matched by value.
func decodeTargets(typ schema.KeyType, data json.RawMessage) (schema.Targets, error) {
	if isNull(data) {
		return schema.EntryKeys(nil), nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	if typ == schema.TypeList && len(items) > 0 {
		if indexes, ok := allIndexes(items); ok {
			return indexes, nil
		}
	}
	keys := make(schema.EntryKeys, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			keys = append(keys, v)
		case json.Number:
			keys = append(keys, v.String())
		default:
			return nil, entryErr(i, fmt.Errorf("unsupported target %T", item))
		}
	}
	return keys, nil
}

func allIndexes(items []any) (schema.EntryIndexes, bool) {
	out := make(schema.EntryIndexes, 0, len(items))
	for _, item := range items {
		n, ok := item.(json.Number)
		if !ok {
			return nil, false
		}
		idx, err := strconv.Atoi(n.String())
		if err != nil {
			return nil, false
		}
		out = append(out, idx)
	}
	return out, true
}

func stringValue(data json.RawMessage) (string, error) {
	if isNull(data) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return "", fmt.Errorf("value must be a string: %w", schema.ErrInvalidRequest)
	}
	return n.String(), nil
}

// scoreValue accepts a JSON number or a numeric string such as "inf".
func scoreValue(data json.RawMessage) (float64, error) {
	if isNull(data) {
		return 0, fmt.Errorf("missing score: %w", schema.ErrInvalidRequest)
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return 0, fmt.Errorf("score: %w", schema.ErrInvalidRequest)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("score %q: %w", s, schema.ErrInvalidRequest)
	}
	return f, nil
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func entryErr(i int, err error) error {
	return fmt.Errorf("entry %d: %w", i, err)
}
