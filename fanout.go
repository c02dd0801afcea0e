package keymirror

import (
	"pkt.systems/keymirror/core"
	"pkt.systems/keymirror/schema"
)

type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnTabEvent(event schema.TabEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnTabEvent(event)
	}
}

func (f eventFanout) OnContentEvent(event schema.ContentEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnContentEvent(event)
	}
}
