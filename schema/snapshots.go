package schema

// TabSnapshot is a read-only copy of a tab record for UI readers.
type TabSnapshot struct {
	ID            TabID
	Name          ServerName
	Title         string
	Blank         bool
	SubTab        string
	Server        ServerName
	DB            int
	Key           string
	KeyCode       []byte
	Type          KeyType
	TTL           int64
	Size          int64
	RemoteLength  int64
	Entries       Entries
	StringValue   string
	Length        int
	Loading       bool
	End           bool
	MatchPattern  string
	Format        string
	Decode        string
	SelectedKeys  []string
	MarkColor     string
	KeySeparator  string
	DefaultFilter string
	Active        bool
}

// TabListSnapshot is the tab bar state.
type TabListSnapshot struct {
	Tabs           []TabSnapshot
	ActivatedIndex int
	Nav            NavMode
}
