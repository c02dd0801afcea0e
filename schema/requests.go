package schema

// Content reconciliation.

// InsertRequest adds entries to a tab's collection.
type InsertRequest struct {
	Server  ServerName
	DB      int
	Key     string
	Type    KeyType
	Entries Entries
	// Prepend inserts at the front. Only lists honor it; streams always prepend.
	Prepend bool
}

// UpdateRequest overwrites matching hash fields or sorted-set members in place.
type UpdateRequest struct {
	Server  ServerName
	DB      int
	Key     string
	Type    KeyType
	Entries Entries
}

// ReplaceRequest repositions or renames entries.
type ReplaceRequest struct {
	Server  ServerName
	DB      int
	Key     string
	Type    KeyType
	Entries Replacements
	// Index lists candidate positions checked before the linear scan.
	Index []int
}

// RemoveRequest deletes entries.
type RemoveRequest struct {
	Server  ServerName
	DB      int
	Key     string
	Type    KeyType
	Targets Targets
}

// LoadRequest delivers one chunk of a streamed content load.
type LoadRequest struct {
	Server       ServerName
	DB           int
	Key          string
	Type         KeyType
	Entries      Entries
	StringValue  string
	Format       string
	Decode       string
	MatchPattern string
	// Reset replaces the current content instead of appending to it.
	Reset bool
	// End, when set, records whether the backend has sent everything.
	End *bool
}

// ApplyResult reports what a reconciliation call changed.
type ApplyResult struct {
	Found   bool
	Added   int
	Updated int
	Removed int
}

// Changed reports whether the call touched the tab content.
func (r ApplyResult) Changed() bool {
	return r.Added > 0 || r.Updated > 0 || r.Removed > 0
}
