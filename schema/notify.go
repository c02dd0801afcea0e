package schema

// TabEventType describes tab lifecycle or state changes.
type TabEventType string

const (
	// TabEventOpened indicates a tab was created.
	TabEventOpened TabEventType = "opened"
	// TabEventUpdated indicates an existing tab was re-used for a new key.
	TabEventUpdated TabEventType = "updated"
	// TabEventClosed indicates a tab was closed.
	TabEventClosed TabEventType = "closed"
	// TabEventActivated indicates the activated index changed.
	TabEventActivated TabEventType = "activated"
	// TabEventStatus indicates a loading, ttl, or selection change.
	TabEventStatus TabEventType = "status"
)

// TabEvent represents a change to a tab or the tab list.
type TabEvent struct {
	Type           TabEventType
	Tab            TabSnapshot
	ActivatedIndex int
	Nav            NavMode
}

// ContentOp names the reconciliation operation behind a ContentEvent.
type ContentOp string

const (
	ContentInsert  ContentOp = "insert"
	ContentUpdate  ContentOp = "update"
	ContentReplace ContentOp = "replace"
	ContentRemove  ContentOp = "remove"
	ContentLoad    ContentOp = "load"
)

// ContentEvent reports a reconciliation call that changed tab content.
type ContentEvent struct {
	Op     ContentOp
	Server ServerName
	DB     int
	Key    string
	Type   KeyType
	Result ApplyResult
	Length int
}
