package core

import "pkt.systems/keymirror/schema"

// EventSink receives tab lifecycle and content events from the registry.
type EventSink interface {
	OnTabEvent(event schema.TabEvent)
	OnContentEvent(event schema.ContentEvent)
}
