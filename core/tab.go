package core

import "pkt.systems/keymirror/schema"

// tabRecord tracks the mirrored state of one key.
type tabRecord struct {
	ID           schema.TabID
	Name         schema.ServerName
	Title        string
	Blank        bool
	SubTab       string
	Server       schema.ServerName
	DB           int
	Key          string
	KeyCode      []byte
	Type         schema.KeyType
	TTL          int64
	Size         int64
	RemoteLength int64
	MatchPattern string
	Format       string
	Decode       string
	SelectedKeys []string
	Loading      bool
	End          bool
	profile      schema.Profile

	// entries and length change together on every mutating path.
	entries     schema.Entries
	length      int
	stringValue string
}

func (t *tabRecord) matches(server schema.ServerName, db int, key string) bool {
	return t.Name == server && t.DB == db && t.Key == key
}

// clearContent drops the mirrored collection.
func (t *tabRecord) clearContent() {
	t.entries = nil
	t.length = 0
	t.stringValue = ""
	t.End = false
}

// Snapshot returns a copy of the tab that shares no mutable state with it.
func (t *tabRecord) Snapshot(active bool) schema.TabSnapshot {
	return schema.TabSnapshot{
		ID:            t.ID,
		Name:          t.Name,
		Title:         t.Title,
		Blank:         t.Blank,
		SubTab:        t.SubTab,
		Server:        t.Server,
		DB:            t.DB,
		Key:           t.Key,
		KeyCode:       append([]byte(nil), t.KeyCode...),
		Type:          t.Type,
		TTL:           t.TTL,
		Size:          t.Size,
		RemoteLength:  t.RemoteLength,
		Entries:       schema.CloneEntries(t.entries),
		StringValue:   t.stringValue,
		Length:        t.length,
		Loading:       t.Loading,
		End:           t.End,
		MatchPattern:  t.MatchPattern,
		Format:        t.Format,
		Decode:        t.Decode,
		SelectedKeys:  append([]string(nil), t.SelectedKeys...),
		MarkColor:     t.profile.MarkColor,
		KeySeparator:  t.profile.KeySeparator,
		DefaultFilter: t.profile.DefaultFilter,
		Active:        active,
	}
}
