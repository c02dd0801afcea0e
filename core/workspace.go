package core

import (
	"fmt"

	"pkt.systems/keymirror/internal/persist"
	"pkt.systems/keymirror/schema"
)

// Workspace captures the tab bar without content.
func (r *Registry) Workspace() persist.Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws := persist.Workspace{
		Tabs:           make([]persist.TabState, 0, len(r.tabs)),
		ActivatedIndex: r.activated,
		Nav:            r.nav,
	}
	for _, tab := range r.tabs {
		ws.Tabs = append(ws.Tabs, persist.TabState{
			ID:           tab.ID,
			Name:         tab.Name,
			Blank:        tab.Blank,
			SubTab:       tab.SubTab,
			Server:       tab.Server,
			DB:           tab.DB,
			Key:          tab.Key,
			KeyCode:      append([]byte(nil), tab.KeyCode...),
			Type:         tab.Type,
			TTL:          tab.TTL,
			MatchPattern: tab.MatchPattern,
			Format:       tab.Format,
			Decode:       tab.Decode,
			SelectedKeys: append([]string(nil), tab.SelectedKeys...),
		})
	}
	return ws
}

// RestoreWorkspace replaces every tab with the persisted ones. Restored tabs
// have no content until the data source loads it again. The workspace is
// validated before any state changes.
func (r *Registry) RestoreWorkspace(ws persist.Workspace) error {
	seen := make(map[schema.ServerName]struct{}, len(ws.Tabs))
	for i, state := range ws.Tabs {
		if _, err := schema.NormalizeServerName(string(state.Name)); err != nil {
			return fmt.Errorf("restore tab %d: %w", i, err)
		}
		if _, dup := seen[state.Name]; dup {
			return fmt.Errorf("restore tab %d: duplicate tab %q: %w", i, state.Name, schema.ErrInvalidRequest)
		}
		seen[state.Name] = struct{}{}
		if err := schema.ValidateDB(state.DB); err != nil {
			return fmt.Errorf("restore tab %d: %w", i, err)
		}
	}
	if ws.ActivatedIndex < -1 || ws.ActivatedIndex >= len(ws.Tabs) {
		return fmt.Errorf("restore activated index %d: %w", ws.ActivatedIndex, schema.ErrInvalidRequest)
	}
	switch ws.Nav {
	case "", schema.NavServer, schema.NavBrowser:
	default:
		return fmt.Errorf("restore nav %q: %w", ws.Nav, schema.ErrInvalidRequest)
	}

	tabs := make([]*tabRecord, 0, len(ws.Tabs))
	for _, state := range ws.Tabs {
		id := state.ID
		if id == "" {
			id = newTabID()
		}
		subTab := state.SubTab
		if subTab == "" {
			subTab = r.cfg.DefaultSubTab
		}
		tabs = append(tabs, &tabRecord{
			ID:           id,
			Name:         state.Name,
			Title:        string(state.Name),
			Blank:        state.Blank,
			SubTab:       subTab,
			Server:       state.Server,
			DB:           state.DB,
			Key:          state.Key,
			KeyCode:      append([]byte(nil), state.KeyCode...),
			Type:         state.Type,
			TTL:          state.TTL,
			MatchPattern: state.MatchPattern,
			Format:       state.Format,
			Decode:       state.Decode,
			SelectedKeys: append([]string(nil), state.SelectedKeys...),
			profile:      r.profileFor(state.Server),
		})
	}

	r.mu.Lock()
	r.tabs = tabs
	r.activated = ws.ActivatedIndex
	r.nav = ws.Nav
	if r.nav == "" || ws.ActivatedIndex == -1 {
		r.nav = schema.NavServer
	}
	var snap schema.TabSnapshot
	if r.activated >= 0 {
		snap = r.tabs[r.activated].Snapshot(true)
	}
	event := r.tabEventLocked(schema.TabEventActivated, snap)
	r.mu.Unlock()

	r.emitTabEvent(event)
	r.logger.Info("registry workspace restored", "tabs", len(tabs), "activated", ws.ActivatedIndex)
	return nil
}
