package schema

import "maps"

// Values and field names may carry arbitrary bytes; they are held as Go strings.

// ListEntry is one list element.
type ListEntry struct {
	Value        string
	DisplayValue string
}

// ListReplace overwrites the list element at Index.
type ListReplace struct {
	Index        int
	Value        string
	DisplayValue string
}

// HashEntry is one hash field.
type HashEntry struct {
	Field        string
	Value        string
	DisplayValue string
}

// HashReplace renames Field to NewField and sets its value.
type HashReplace struct {
	Field        string
	NewField     string
	Value        string
	DisplayValue string
}

// SetEntry is one set member.
type SetEntry struct {
	Value        string
	DisplayValue string
}

// ZSetEntry is one sorted-set member.
type ZSetEntry struct {
	Score        float64
	Value        string
	DisplayValue string
}

// ZSetReplace renames member Value to NewValue and sets its score.
type ZSetReplace struct {
	Score        float64
	Value        string
	NewValue     string
	DisplayValue string
}

// StreamEntry is one stream entry.
type StreamEntry struct {
	ID           string
	Fields       map[string]any
	DisplayValue string
}

// Entries is the sealed set of element sequences a tab can hold.
type Entries interface {
	Kind() KeyType
	Len() int
	clone() Entries
}

type (
	// ListEntries holds list elements in list order.
	ListEntries []ListEntry
	// HashEntries holds hash fields in arrival order.
	HashEntries []HashEntry
	// SetEntries holds set members in arrival order.
	SetEntries []SetEntry
	// ZSetEntries holds sorted-set members in arrival order.
	ZSetEntries []ZSetEntry
	// StreamEntries holds stream entries, newest first.
	StreamEntries []StreamEntry
)

func (ListEntries) Kind() KeyType   { return TypeList }
func (HashEntries) Kind() KeyType   { return TypeHash }
func (SetEntries) Kind() KeyType    { return TypeSet }
func (ZSetEntries) Kind() KeyType   { return TypeZSet }
func (StreamEntries) Kind() KeyType { return TypeStream }

func (e ListEntries) Len() int   { return len(e) }
func (e HashEntries) Len() int   { return len(e) }
func (e SetEntries) Len() int    { return len(e) }
func (e ZSetEntries) Len() int   { return len(e) }
func (e StreamEntries) Len() int { return len(e) }

func (e ListEntries) clone() Entries { return append(ListEntries(nil), e...) }
func (e HashEntries) clone() Entries { return append(HashEntries(nil), e...) }
func (e SetEntries) clone() Entries  { return append(SetEntries(nil), e...) }
func (e ZSetEntries) clone() Entries { return append(ZSetEntries(nil), e...) }

func (e StreamEntries) clone() Entries {
	out := make(StreamEntries, len(e))
	for i, entry := range e {
		entry.Fields = maps.Clone(entry.Fields)
		out[i] = entry
	}
	return out
}

// CloneEntries returns a copy of e that shares no backing storage with it.
func CloneEntries(e Entries) Entries {
	if e == nil {
		return nil
	}
	return e.clone()
}

// EntriesLen returns e.Len(), treating nil as empty.
func EntriesLen(e Entries) int {
	if e == nil {
		return 0
	}
	return e.Len()
}

// Replacements is the sealed set of replace payloads.
type Replacements interface {
	Kind() KeyType
	Len() int
	isReplacements()
}

type (
	// ListReplaces overwrites list elements by position.
	ListReplaces []ListReplace
	// HashReplaces renames hash fields.
	HashReplaces []HashReplace
	// ZSetReplaces renames sorted-set members.
	ZSetReplaces []ZSetReplace
)

func (ListReplaces) Kind() KeyType { return TypeList }
func (HashReplaces) Kind() KeyType { return TypeHash }
func (ZSetReplaces) Kind() KeyType { return TypeZSet }

func (r ListReplaces) Len() int { return len(r) }
func (r HashReplaces) Len() int { return len(r) }
func (r ZSetReplaces) Len() int { return len(r) }

func (ListReplaces) isReplacements() {}
func (HashReplaces) isReplacements() {}
func (ZSetReplaces) isReplacements() {}

// Targets identifies the elements a remove request deletes.
type Targets interface {
	Len() int
	isTargets()
}

// EntryIndexes removes list elements by position.
type EntryIndexes []int

// EntryKeys removes elements by identity: list value, hash field, set or
// sorted-set member, or stream id.
type EntryKeys []string

func (t EntryIndexes) Len() int { return len(t) }
func (t EntryKeys) Len() int    { return len(t) }

func (EntryIndexes) isTargets() {}
func (EntryKeys) isTargets()    {}
