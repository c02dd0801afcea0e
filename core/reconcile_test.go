package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkt.systems/keymirror/schema"
)

const (
	testServer schema.ServerName = "local"
	testKey                      = "k"
)

func newLoadedRegistry(t *testing.T, typ schema.KeyType, entries schema.Entries) *Registry {
	t.Helper()
	reg := NewRegistry(schema.RegistryConfig{}, Deps{})
	reg.OpenOrUpdate(schema.TabDescriptor{Server: testServer, Key: testKey, Type: typ})
	if entries != nil {
		res := reg.LoadContent(schema.LoadRequest{Server: testServer, Key: testKey, Type: typ, Entries: entries, Reset: true})
		require.True(t, res.Found)
		require.Equal(t, entries.Len(), res.Added)
	}
	return reg
}

func currentTab(t *testing.T, reg *Registry) schema.TabSnapshot {
	t.Helper()
	tab, ok := reg.Find(testServer, 0, testKey)
	require.True(t, ok, "tab not found")
	return tab
}

func requireLengthInvariant(t *testing.T, tab schema.TabSnapshot) {
	t.Helper()
	require.Equal(t, schema.EntriesLen(tab.Entries), tab.Length, "length diverged from entries")
}

func TestLengthInvariantAcrossOperations(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeHash, schema.HashEntries{{Field: "a", Value: "1"}, {Field: "b", Value: "2"}})
	base := schema.UpdateRequest{Server: testServer, Key: testKey, Type: schema.TypeHash}

	reg.Insert(schema.InsertRequest{Server: testServer, Key: testKey, Type: schema.TypeHash, Entries: schema.HashEntries{{Field: "c", Value: "3"}}})
	requireLengthInvariant(t, currentTab(t, reg))

	upd := base
	upd.Entries = schema.HashEntries{{Field: "a", Value: "10"}, {Field: "d", Value: "4"}}
	reg.BulkUpdate(upd)
	requireLengthInvariant(t, currentTab(t, reg))

	reg.Replace(schema.ReplaceRequest{Server: testServer, Key: testKey, Type: schema.TypeHash, Entries: schema.HashReplaces{
		{Field: "b", NewField: "bb", Value: "2"},
		{Field: "zz", NewField: "new", Value: "9"},
	}, Index: []int{5, 1, 1}})
	requireLengthInvariant(t, currentTab(t, reg))

	reg.Remove(schema.RemoveRequest{Server: testServer, Key: testKey, Type: schema.TypeHash, Targets: schema.EntryKeys{"a", "missing", "new"}})
	tab := currentTab(t, reg)
	requireLengthInvariant(t, tab)
	assert.Equal(t, schema.HashEntries{
		{Field: "bb", Value: "2"},
		{Field: "c", Value: "3"},
		{Field: "d", Value: "4"},
	}, tab.Entries)
}

func TestLengthInvariantPerType(t *testing.T) {
	cases := []struct {
		name    string
		typ     schema.KeyType
		load    schema.Entries
		insert  schema.Entries
		targets schema.Targets
		want    int
	}{
		{"list", schema.TypeList, schema.ListEntries{{Value: "a"}, {Value: "b"}}, schema.ListEntries{{Value: "c"}}, schema.EntryIndexes{0, 9}, 2},
		{"set", schema.TypeSet, schema.SetEntries{{Value: "a"}}, schema.SetEntries{{Value: "b"}, {Value: "c"}}, schema.EntryKeys{"a", "x"}, 2},
		{"zset", schema.TypeZSet, schema.ZSetEntries{{Score: 1, Value: "a"}}, schema.ZSetEntries{{Score: 2, Value: "b"}}, schema.EntryKeys{"b"}, 1},
		{"stream", schema.TypeStream, schema.StreamEntries{{ID: "1-0"}}, schema.StreamEntries{{ID: "2-0"}}, schema.EntryKeys{"1-0", "1-0"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := newLoadedRegistry(t, tc.typ, tc.load)
			reg.Insert(schema.InsertRequest{Server: testServer, Key: testKey, Type: tc.typ, Entries: tc.insert})
			requireLengthInvariant(t, currentTab(t, reg))
			reg.Remove(schema.RemoveRequest{Server: testServer, Key: testKey, Type: tc.typ, Targets: tc.targets})
			tab := currentTab(t, reg)
			requireLengthInvariant(t, tab)
			assert.Equal(t, tc.want, tab.Length)
		})
	}
}

func TestBulkUpdateIsIdempotent(t *testing.T) {
	cases := []struct {
		name    string
		typ     schema.KeyType
		load    schema.Entries
		payload schema.Entries
	}{
		{"hash", schema.TypeHash, schema.HashEntries{{Field: "a", Value: "1"}}, schema.HashEntries{{Field: "a", Value: "2", DisplayValue: "two"}, {Field: "b", Value: "3"}}},
		{"zset", schema.TypeZSet, schema.ZSetEntries{{Score: 1, Value: "a"}}, schema.ZSetEntries{{Score: 5, Value: "a"}, {Score: 2, Value: "b"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reg := newLoadedRegistry(t, tc.typ, tc.load)
			req := schema.UpdateRequest{Server: testServer, Key: testKey, Type: tc.typ, Entries: tc.payload}

			first := reg.BulkUpdate(req)
			assert.Equal(t, 1, first.Added)
			assert.Equal(t, 1, first.Updated)
			once := currentTab(t, reg)

			second := reg.BulkUpdate(req)
			assert.Equal(t, 0, second.Added)
			assert.Equal(t, 2, second.Updated)
			twice := currentTab(t, reg)

			assert.Equal(t, once.Entries, twice.Entries)
			assert.Equal(t, once.Length, twice.Length)
		})
	}
}

func TestBulkUpdateIgnoresOtherTypes(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeList, schema.ListEntries{{Value: "a"}})
	res := reg.BulkUpdate(schema.UpdateRequest{Server: testServer, Key: testKey, Type: schema.TypeList, Entries: schema.ListEntries{{Value: "b"}}})
	assert.True(t, res.Found)
	assert.False(t, res.Changed())
	assert.Equal(t, schema.ListEntries{{Value: "a"}}, currentTab(t, reg).Entries)
}

func TestReplaceWithoutHintsMatchesEmptyHints(t *testing.T) {
	load := schema.HashEntries{{Field: "a", Value: "1"}, {Field: "b", Value: "2"}, {Field: "c", Value: "3"}}
	payload := schema.HashReplaces{
		{Field: "c", NewField: "c2", Value: "30"},
		{Field: "a", NewField: "a2", Value: "10"},
		{Field: "x", NewField: "x", Value: "0"},
	}

	withNil := newLoadedRegistry(t, schema.TypeHash, load)
	withNil.Replace(schema.ReplaceRequest{Server: testServer, Key: testKey, Type: schema.TypeHash, Entries: payload})

	withEmpty := newLoadedRegistry(t, schema.TypeHash, load)
	withEmpty.Replace(schema.ReplaceRequest{Server: testServer, Key: testKey, Type: schema.TypeHash, Entries: payload, Index: []int{}})

	withHints := newLoadedRegistry(t, schema.TypeHash, load)
	withHints.Replace(schema.ReplaceRequest{Server: testServer, Key: testKey, Type: schema.TypeHash, Entries: payload, Index: []int{2, 0, -1, 7}})

	a, b, c := currentTab(t, withNil), currentTab(t, withEmpty), currentTab(t, withHints)
	assert.Equal(t, a.Entries, b.Entries)
	assert.Equal(t, a.Length, b.Length)
	assert.Equal(t, a.Entries, c.Entries)
	assert.Equal(t, schema.HashEntries{
		{Field: "a2", Value: "10"},
		{Field: "b", Value: "2"},
		{Field: "c2", Value: "30"},
		{Field: "x", Value: "0"},
	}, a.Entries)
	assert.Equal(t, 4, a.Length)
}

func TestReplaceHintResolvesEachEntryOnce(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeZSet, schema.ZSetEntries{{Score: 1, Value: "a"}, {Score: 2, Value: "b"}})
	res := reg.Replace(schema.ReplaceRequest{
		Server:  testServer,
		Key:     testKey,
		Type:    schema.TypeZSet,
		Entries: schema.ZSetReplaces{{Score: 9, Value: "a", NewValue: "b2"}},
		Index:   []int{0, 0, 1},
	})
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 0, res.Added)
	tab := currentTab(t, reg)
	assert.Equal(t, schema.ZSetEntries{{Score: 9, Value: "b2"}, {Score: 2, Value: "b"}}, tab.Entries)
	requireLengthInvariant(t, tab)
}

func TestListPositionalDeleteDescending(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeList, schema.ListEntries{{Value: "a"}, {Value: "b"}, {Value: "c"}, {Value: "d"}})
	res := reg.Remove(schema.RemoveRequest{Server: testServer, Key: testKey, Type: schema.TypeList, Targets: schema.EntryIndexes{0, 2}})
	assert.Equal(t, 2, res.Removed)
	tab := currentTab(t, reg)
	assert.Equal(t, schema.ListEntries{{Value: "b"}, {Value: "d"}}, tab.Entries)
	assert.Equal(t, 2, tab.Length)
}

func TestListPositionalDeleteIgnoresDuplicatesAndOutOfRange(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeList, schema.ListEntries{{Value: "a"}, {Value: "b"}, {Value: "c"}})
	res := reg.Remove(schema.RemoveRequest{Server: testServer, Key: testKey, Type: schema.TypeList, Targets: schema.EntryIndexes{1, 1, -3, 8}})
	assert.Equal(t, 1, res.Removed)
	tab := currentTab(t, reg)
	assert.Equal(t, schema.ListEntries{{Value: "a"}, {Value: "c"}}, tab.Entries)
	requireLengthInvariant(t, tab)
}

func TestListRemoveByValueFirstMatchOnly(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeList, schema.ListEntries{{Value: "x"}, {Value: "y"}, {Value: "x"}})
	res := reg.Remove(schema.RemoveRequest{Server: testServer, Key: testKey, Type: schema.TypeList, Targets: schema.EntryKeys{"x"}})
	assert.Equal(t, 1, res.Removed)
	tab := currentTab(t, reg)
	assert.Equal(t, schema.ListEntries{{Value: "y"}, {Value: "x"}}, tab.Entries)
	requireLengthInvariant(t, tab)
}

func TestListInsertAndReplace(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeList, schema.ListEntries{{Value: "b"}})
	reg.Insert(schema.InsertRequest{Server: testServer, Key: testKey, Type: schema.TypeList, Entries: schema.ListEntries{{Value: "a"}}, Prepend: true})
	reg.Insert(schema.InsertRequest{Server: testServer, Key: testKey, Type: schema.TypeList, Entries: schema.ListEntries{{Value: "c"}}})
	res := reg.Replace(schema.ReplaceRequest{Server: testServer, Key: testKey, Type: schema.TypeList, Entries: schema.ListReplaces{
		{Index: 1, Value: "B", DisplayValue: "bee"},
		{Index: 10, Value: "z"},
		{Index: -1, Value: "w"},
	}})
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 2, res.Added)
	tab := currentTab(t, reg)
	assert.Equal(t, schema.ListEntries{{Value: "a"}, {Value: "B", DisplayValue: "bee"}, {Value: "c"}, {Value: "z"}, {Value: "w"}}, tab.Entries)
	requireLengthInvariant(t, tab)
}

func TestHashRenameRoundTrip(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeHash, schema.HashEntries{{Field: "f1", Value: "v1"}})
	res := reg.Replace(schema.ReplaceRequest{Server: testServer, Key: testKey, Type: schema.TypeHash, Entries: schema.HashReplaces{
		{Field: "f1", NewField: "f2", Value: "v2"},
	}})
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 0, res.Added)
	tab := currentTab(t, reg)
	assert.Equal(t, schema.HashEntries{{Field: "f2", Value: "v2"}}, tab.Entries)
	assert.Equal(t, 1, tab.Length)
}

func TestStreamPrependOrder(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeStream, nil)
	reg.Insert(schema.InsertRequest{Server: testServer, Key: testKey, Type: schema.TypeStream, Entries: schema.StreamEntries{{ID: "2-0", Fields: map[string]any{"a": "1"}}}})
	reg.Insert(schema.InsertRequest{Server: testServer, Key: testKey, Type: schema.TypeStream, Entries: schema.StreamEntries{{ID: "3-0", Fields: map[string]any{"a": "2"}}}, Prepend: false})
	tab := currentTab(t, reg)
	entries, ok := tab.Entries.(schema.StreamEntries)
	require.True(t, ok)
	require.Len(t, entries, 2)
	assert.Equal(t, "3-0", entries[0].ID)
	assert.Equal(t, "2-0", entries[1].ID)
	assert.Equal(t, 2, tab.Length)
}

func TestSetAndHashIgnorePrepend(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeSet, schema.SetEntries{{Value: "a"}})
	reg.Insert(schema.InsertRequest{Server: testServer, Key: testKey, Type: schema.TypeSet, Entries: schema.SetEntries{{Value: "b"}}, Prepend: true})
	assert.Equal(t, schema.SetEntries{{Value: "a"}, {Value: "b"}}, currentTab(t, reg).Entries)
}

func TestEmptyPayloadIsNoop(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeList, schema.ListEntries{{Value: "a"}, {Value: "b"}})
	sink := &recordingSink{}
	reg.sink = sink
	before := currentTab(t, reg)
	reg.mu.Lock()
	backing := &reg.tabs[0].entries.(schema.ListEntries)[0]
	reg.mu.Unlock()

	res := reg.Insert(schema.InsertRequest{Server: testServer, Key: testKey, Type: schema.TypeList, Entries: schema.ListEntries{}})
	assert.Equal(t, schema.ApplyResult{Found: true}, res)
	res = reg.Remove(schema.RemoveRequest{Server: testServer, Key: testKey, Type: schema.TypeList, Targets: schema.EntryIndexes{}})
	assert.Equal(t, schema.ApplyResult{Found: true}, res)
	res = reg.Remove(schema.RemoveRequest{Server: testServer, Key: testKey, Type: schema.TypeList})
	assert.Equal(t, schema.ApplyResult{Found: true}, res)

	assert.Equal(t, before, currentTab(t, reg))
	reg.mu.Lock()
	after := &reg.tabs[0].entries.(schema.ListEntries)[0]
	reg.mu.Unlock()
	assert.Same(t, backing, after)
	assert.Empty(t, sink.content())
}

func TestMissingTabIsSilentNoop(t *testing.T) {
	reg := NewRegistry(schema.RegistryConfig{}, Deps{})
	res := reg.Insert(schema.InsertRequest{Server: "gone", Key: "k", Type: schema.TypeList, Entries: schema.ListEntries{{Value: "a"}}})
	assert.False(t, res.Found)
	assert.Empty(t, reg.Tabs().Tabs)
}

func TestPayloadMismatchIsNoop(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeHash, schema.HashEntries{{Field: "a", Value: "1"}})
	res := reg.Insert(schema.InsertRequest{Server: testServer, Key: testKey, Type: schema.TypeHash, Entries: schema.SetEntries{{Value: "x"}}})
	assert.True(t, res.Found)
	assert.False(t, res.Changed())
	res = reg.Insert(schema.InsertRequest{Server: testServer, Key: testKey, Type: schema.TypeSet, Entries: schema.SetEntries{{Value: "x"}}})
	assert.False(t, res.Changed())
	tab := currentTab(t, reg)
	assert.Equal(t, schema.HashEntries{{Field: "a", Value: "1"}}, tab.Entries)
	requireLengthInvariant(t, tab)
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	reg := newLoadedRegistry(t, schema.TypeList, schema.ListEntries{{Value: "a"}})
	snap := currentTab(t, reg)
	snap.Entries.(schema.ListEntries)[0].Value = "mutated"
	assert.Equal(t, schema.ListEntries{{Value: "a"}}, currentTab(t, reg).Entries)
}
