package schema

// ServerName identifies a connection profile. Tabs are named after the server.
type ServerName string

// TabID identifies a tab record.
type TabID string

// NavMode describes which pane the UI shows.
type NavMode string

const (
	// NavServer shows the server list.
	NavServer NavMode = "server"
	// NavBrowser shows the key browser of the activated tab.
	NavBrowser NavMode = "browser"
)

// Profile is the subset of a connection profile the tab registry consumes.
type Profile struct {
	DefaultFilter string
	KeySeparator  string
	MarkColor     string
}

const (
	// DefaultKeyFilter is used when a profile has no default filter.
	DefaultKeyFilter = "*"
	// DefaultKeySeparator is used when a profile has no key separator.
	DefaultKeySeparator = ":"
)

// TabDescriptor carries the navigational fields used to open or re-use a tab.
type TabDescriptor struct {
	SubTab       string
	Server       ServerName
	DB           int
	Type         KeyType
	TTL          int64
	Key          string
	KeyCode      []byte
	Size         int64
	Length       int64
	MatchPattern string
}
