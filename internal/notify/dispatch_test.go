package notify

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkt.systems/keymirror/core"
	"pkt.systems/keymirror/schema"
)

func replay(t *testing.T, target Target, input string) []schema.ApplyResult {
	t.Helper()
	stream := NewStream(strings.NewReader(input))
	var results []schema.ApplyResult
	for {
		note, err := stream.Next(context.Background())
		if err != nil {
			require.ErrorContains(t, err, "EOF")
			return results
		}
		res, err := Dispatch(target, note)
		require.NoError(t, err)
		results = append(results, res)
	}
}

func TestDispatchHashSession(t *testing.T) {
	reg := core.NewRegistry(schema.RegistryConfig{}, core.Deps{})
	input := strings.Join([]string{
		`{"op":"open","server":"local","db":0,"key":"user:1","type":"hash","length":2}`,
		`{"op":"load","server":"local","key":"user:1","type":"hash","reset":true,"entries":[{"k":"name","v":"ann"},{"k":"age","v":"30"}],"end":true}`,
		`{"op":"replace","server":"local","key":"user:1","type":"hash","index":[0],"entries":[{"k":"name","nk":"first","v":"Ann"}]}`,
		`{"op":"update","server":"local","key":"user:1","type":"hash","entries":[{"k":"age","v":"31"}]}`,
		`{"op":"remove","server":"local","key":"user:1","type":"hash","targets":["missing"]}`,
		`{"op":"ttl","server":"local","key":"user:1","ttl":60}`,
	}, "\n")
	results := replay(t, reg, input)
	require.Len(t, results, 6)
	assert.Equal(t, 2, results[1].Added)
	assert.Equal(t, 1, results[2].Updated)
	assert.Equal(t, 0, results[4].Removed)

	tab, ok := reg.Find("local", 0, "user:1")
	require.True(t, ok)
	assert.Equal(t, schema.HashEntries{
		{Field: "first", Value: "Ann"},
		{Field: "age", Value: "31"},
	}, tab.Entries)
	assert.Equal(t, 2, tab.Length)
	assert.True(t, tab.End)
	assert.Equal(t, int64(60), tab.TTL)
}

func TestDispatchConnectionClosed(t *testing.T) {
	reg := core.NewRegistry(schema.RegistryConfig{}, core.Deps{})
	input := strings.Join([]string{
		`{"op":"open","server":"a","key":"k1","type":"list"}`,
		`{"op":"open","server":"b","key":"k2","type":"set"}`,
		`{"op":"loading","server":"b","loading":true}`,
		`{"op":"closed","server":"a"}`,
	}, "\n")
	replay(t, reg, input)

	list := reg.Tabs()
	require.Len(t, list.Tabs, 1)
	assert.Equal(t, schema.ServerName("b"), list.Tabs[0].Server)
	assert.True(t, list.Tabs[0].Loading)
	assert.Equal(t, 0, list.ActivatedIndex)

	replay(t, reg, `{"op":"close","server":"b"}`)
	assert.Equal(t, -1, reg.ActivatedIndex())
	assert.Equal(t, schema.NavServer, reg.Nav())
}

func TestDispatchRejectsUnknownOp(t *testing.T) {
	reg := core.NewRegistry(schema.RegistryConfig{}, core.Deps{})
	_, err := Dispatch(reg, Note{Op: "frob"})
	assert.ErrorIs(t, err, schema.ErrInvalidOp)
}
