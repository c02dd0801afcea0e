// Package notify decodes change notifications from the data source and applies
// them to a tab registry.
package notify

import "pkt.systems/keymirror/schema"

// Op names a notification operation.
type Op string

const (
	OpInsert  Op = "insert"
	OpUpdate  Op = "update"
	OpReplace Op = "replace"
	OpRemove  Op = "remove"
	OpLoad    Op = "load"
	OpOpen    Op = "open"
	OpClose   Op = "close"
	OpTTL     Op = "ttl"
	OpLoading Op = "loading"
	// OpClosed reports that the connection to a server went away.
	OpClosed Op = "closed"
)

func (o Op) valid() bool {
	switch o {
	case OpInsert, OpUpdate, OpReplace, OpRemove, OpLoad, OpOpen, OpClose, OpTTL, OpLoading, OpClosed:
		return true
	default:
		return false
	}
}

// Content reports whether the op carries a typed collection payload.
func (o Op) Content() bool {
	switch o {
	case OpInsert, OpUpdate, OpReplace, OpRemove, OpLoad:
		return true
	default:
		return false
	}
}

// Note is one decoded notification. Only the fields relevant to Op are set.
type Note struct {
	Op     Op
	Server schema.ServerName
	DB     int
	Key    string
	Type   schema.KeyType

	Entries      schema.Entries
	Replacements schema.Replacements
	Index        []int
	Targets      schema.Targets
	Prepend      bool

	Reset        bool
	End          *bool
	Value        string
	Format       string
	Decode       string
	MatchPattern string

	SubTab string
	Size   int64
	Length int64

	TTL     int64
	Loading bool
}
