package core

import (
	"github.com/google/uuid"

	"pkt.systems/keymirror/schema"
)

func newTabID() schema.TabID {
	id, err := uuid.NewRandom()
	if err != nil {
		return "tab-unknown"
	}
	return schema.TabID(id.String())
}
