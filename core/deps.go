package core

import (
	"pkt.systems/keymirror/schema"
	"pkt.systems/pslog"
)

// ProfileSource looks up connection profile settings by server name.
type ProfileSource interface {
	ProfileFor(server schema.ServerName) (schema.Profile, bool)
}

// Deps captures optional collaborators of the registry.
type Deps struct {
	Profiles  ProfileSource
	EventSink EventSink
	Logger    pslog.Logger
}
