package core

import (
	"context"
	"sync"

	"pkt.systems/keymirror/internal/logx"
	"pkt.systems/keymirror/schema"
	"pkt.systems/pslog"
)

// Registry owns the open tabs, the activated index, and the navigation mode.
// Every mutation of tab state goes through its methods.
type Registry struct {
	cfg       schema.RegistryConfig
	profiles  ProfileSource
	sink      EventSink
	logger    pslog.Logger
	mu        sync.Mutex
	tabs      []*tabRecord
	activated int
	nav       schema.NavMode
}

// NewRegistry constructs an empty registry with no activated tab.
func NewRegistry(cfg schema.RegistryConfig, deps Deps) *Registry {
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Registry{
		cfg:       schema.NormalizeRegistryConfig(cfg),
		profiles:  deps.Profiles,
		sink:      deps.EventSink,
		logger:    logger,
		activated: -1,
		nav:       schema.NavServer,
	}
}

// OpenOrUpdate activates the tab named after desc.Server, creating it when
// missing. A re-used tab takes the new navigational fields and drops its
// content.
func (r *Registry) OpenOrUpdate(desc schema.TabDescriptor) schema.TabSnapshot {
	return r.upsert(desc, false)
}

// OpenBlank opens a placeholder tab for the server.
func (r *Registry) OpenBlank(server schema.ServerName) schema.TabSnapshot {
	return r.upsert(schema.TabDescriptor{Server: server}, true)
}

func (r *Registry) upsert(desc schema.TabDescriptor, blank bool) schema.TabSnapshot {
	profile := r.profileFor(desc.Server)

	r.mu.Lock()
	idx := r.indexByNameLocked(desc.Server)
	eventType := schema.TabEventUpdated
	if idx == -1 {
		subTab := desc.SubTab
		if subTab == "" {
			subTab = r.cfg.DefaultSubTab
		}
		r.tabs = append(r.tabs, &tabRecord{
			ID:     newTabID(),
			Name:   desc.Server,
			SubTab: subTab,
		})
		idx = len(r.tabs) - 1
		eventType = schema.TabEventOpened
	}
	tab := r.tabs[idx]
	// A reused tab always becomes a real tab.
	tab.Blank = blank && eventType == schema.TabEventOpened
	if desc.SubTab != "" {
		tab.SubTab = desc.SubTab
	}
	tab.Title = string(desc.Server)
	tab.Server = desc.Server
	tab.DB = desc.DB
	tab.Type = desc.Type
	tab.TTL = desc.TTL
	tab.Key = desc.Key
	tab.KeyCode = append([]byte(nil), desc.KeyCode...)
	tab.Size = desc.Size
	tab.RemoteLength = desc.Length
	tab.MatchPattern = desc.MatchPattern
	tab.profile = profile
	tab.clearContent()
	r.setActivatedLocked(idx, true)
	snap := tab.Snapshot(true)
	event := r.tabEventLocked(eventType, snap)
	r.mu.Unlock()

	r.emitTabEvent(event)
	logx.WithTab(r.logger, desc.Server, desc.DB, desc.Key).Debug("registry tab opened", "event", eventType, "index", idx, "type", desc.Type, "blank", blank)
	return snap
}

// Activate sets the activated index and switches navigation to the key
// browser, or to the server list when idx is -1.
func (r *Registry) Activate(idx int) {
	r.mu.Lock()
	if idx < -1 || idx >= len(r.tabs) {
		r.mu.Unlock()
		r.logger.Debug("registry activate ignored", "index", idx)
		return
	}
	r.setActivatedLocked(idx, true)
	var snap schema.TabSnapshot
	if idx >= 0 {
		snap = r.tabs[idx].Snapshot(true)
	}
	event := r.tabEventLocked(schema.TabEventActivated, snap)
	r.mu.Unlock()
	r.emitTabEvent(event)
}

// Close removes the tab at idx. The sole remaining blank tab is never removed.
// The tab before the removed one becomes active, or the first tab, or none.
func (r *Registry) Close(idx int) (schema.TabSnapshot, bool) {
	r.mu.Lock()
	snap, ok := r.closeLocked(idx)
	if !ok {
		r.mu.Unlock()
		r.logger.Debug("registry close ignored", "index", idx)
		return schema.TabSnapshot{}, false
	}
	event := r.tabEventLocked(schema.TabEventClosed, snap)
	r.mu.Unlock()

	r.emitTabEvent(event)
	logx.WithTab(r.logger, snap.Server, snap.DB, snap.Key).Debug("registry tab closed", "index", idx, "activated", event.ActivatedIndex)
	return snap, true
}

func (r *Registry) closeLocked(idx int) (schema.TabSnapshot, bool) {
	if len(r.tabs) == 1 && r.tabs[0].Blank {
		return schema.TabSnapshot{}, false
	}
	if idx < 0 || idx >= len(r.tabs) {
		return schema.TabSnapshot{}, false
	}
	removed := r.tabs[idx]
	r.tabs = append(r.tabs[:idx], r.tabs[idx+1:]...)

	next := idx - 1
	if next < 0 {
		if len(r.tabs) > 0 {
			next = 0
		} else {
			next = -1
		}
	}
	r.setActivatedLocked(next, false)
	return removed.Snapshot(false), true
}

// CloseByName closes the tab named after the server, if any.
func (r *Registry) CloseByName(name schema.ServerName) {
	r.mu.Lock()
	idx := r.indexByNameLocked(name)
	r.mu.Unlock()
	if idx == -1 {
		return
	}
	r.Close(idx)
}

// CloseServer closes every tab connected to server.
func (r *Registry) CloseServer(server schema.ServerName) int {
	closed := 0
	for {
		r.mu.Lock()
		idx := -1
		for i, tab := range r.tabs {
			if tab.Server == server {
				idx = i
				break
			}
		}
		r.mu.Unlock()
		if idx == -1 {
			break
		}
		if _, ok := r.Close(idx); !ok {
			break
		}
		closed++
	}
	return closed
}

// OnConnectionClosed handles a connection teardown notification.
func (r *Registry) OnConnectionClosed(server schema.ServerName) {
	closed := r.CloseServer(server)
	logx.WithTab(r.logger, server, 0, "").Info("registry connection closed", "tabs_closed", closed)
}

// CloseAll removes every tab and clears the activated index.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	count := len(r.tabs)
	r.tabs = nil
	r.setActivatedLocked(-1, false)
	event := r.tabEventLocked(schema.TabEventClosed, schema.TabSnapshot{})
	r.mu.Unlock()
	r.emitTabEvent(event)
	r.logger.Debug("registry tabs cleared", "count", count)
}

// SetLoading marks the first tab of server/db as loading or idle.
func (r *Registry) SetLoading(server schema.ServerName, db int, loading bool) {
	r.updateTab(func(t *tabRecord) bool { return t.Name == server && t.DB == db }, func(t *tabRecord) {
		t.Loading = loading
	})
}

// SetSelectedKeys stores the keys selected in the browser tree. A nil slice
// selects nothing and is stored as the server name itself.
func (r *Registry) SetSelectedKeys(server schema.ServerName, keys []string) {
	r.updateTab(func(t *tabRecord) bool { return t.Name == server }, func(t *tabRecord) {
		if keys == nil {
			t.SelectedKeys = []string{string(server)}
			return
		}
		t.SelectedKeys = append(make([]string, 0, len(keys)), keys...)
	})
}

// SelectKey selects a single key in the browser tree.
func (r *Registry) SelectKey(server schema.ServerName, key string) {
	r.SetSelectedKeys(server, []string{key})
}

// SetTTL records a new ttl for the tab showing server/db/key.
func (r *Registry) SetTTL(server schema.ServerName, db int, key string, ttl int64) {
	r.updateTab(func(t *tabRecord) bool { return t.matches(server, db, key) }, func(t *tabRecord) {
		t.TTL = ttl
	})
}

// EmptyTab clears the key and content of the named tab.
func (r *Registry) EmptyTab(name schema.ServerName) {
	r.updateTab(func(t *tabRecord) bool { return t.Name == name }, func(t *tabRecord) {
		t.Key = ""
		t.KeyCode = nil
		t.clearContent()
	})
}

// SwitchSubTab changes the secondary tab of the activated tab.
func (r *Registry) SwitchSubTab(subTab string) {
	r.mu.Lock()
	if r.activated < 0 || r.activated >= len(r.tabs) {
		r.mu.Unlock()
		return
	}
	tab := r.tabs[r.activated]
	tab.SubTab = subTab
	event := r.tabEventLocked(schema.TabEventStatus, tab.Snapshot(true))
	r.mu.Unlock()
	r.emitTabEvent(event)
}

func (r *Registry) updateTab(match func(*tabRecord) bool, apply func(*tabRecord)) {
	r.mu.Lock()
	var event schema.TabEvent
	found := false
	for i, tab := range r.tabs {
		if !match(tab) {
			continue
		}
		apply(tab)
		event = r.tabEventLocked(schema.TabEventStatus, tab.Snapshot(i == r.activated))
		found = true
		break
	}
	r.mu.Unlock()
	if found {
		r.emitTabEvent(event)
	}
}

// Tabs returns snapshots of every tab in order.
func (r *Registry) Tabs() schema.TabListSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	tabs := make([]schema.TabSnapshot, 0, len(r.tabs))
	for i, tab := range r.tabs {
		tabs = append(tabs, tab.Snapshot(i == r.activated))
	}
	return schema.TabListSnapshot{Tabs: tabs, ActivatedIndex: r.activated, Nav: r.nav}
}

// Current returns the activated tab.
func (r *Registry) Current() (schema.TabSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.activated < 0 || r.activated >= len(r.tabs) {
		return schema.TabSnapshot{}, false
	}
	return r.tabs[r.activated].Snapshot(true), true
}

// Find returns the tab showing server/db/key.
func (r *Registry) Find(server schema.ServerName, db int, key string) (schema.TabSnapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, tab := range r.tabs {
		if tab.matches(server, db, key) {
			return tab.Snapshot(i == r.activated), true
		}
	}
	return schema.TabSnapshot{}, false
}

// ActivatedIndex returns the activated index, -1 when none.
func (r *Registry) ActivatedIndex() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activated
}

// Nav returns the navigation mode.
func (r *Registry) Nav() schema.NavMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.nav
}

// setActivatedLocked moves the activated index. With switchNav the navigation
// follows the index; otherwise it only falls back to the server list at -1.
func (r *Registry) setActivatedLocked(idx int, switchNav bool) {
	r.activated = idx
	if switchNav {
		if idx >= 0 {
			r.nav = schema.NavBrowser
		} else {
			r.nav = schema.NavServer
		}
		return
	}
	if idx < 0 {
		r.nav = schema.NavServer
	}
}

func (r *Registry) indexByNameLocked(name schema.ServerName) int {
	for i, tab := range r.tabs {
		if tab.Name == name {
			return i
		}
	}
	return -1
}

func (r *Registry) findLocked(server schema.ServerName, db int, key string) *tabRecord {
	for _, tab := range r.tabs {
		if tab.matches(server, db, key) {
			return tab
		}
	}
	return nil
}

func (r *Registry) profileFor(server schema.ServerName) schema.Profile {
	profile := schema.Profile{}
	if r.profiles != nil {
		if p, ok := r.profiles.ProfileFor(server); ok {
			profile = p
		}
	}
	if profile.DefaultFilter == "" {
		profile.DefaultFilter = schema.DefaultKeyFilter
	}
	if profile.KeySeparator == "" {
		profile.KeySeparator = schema.DefaultKeySeparator
	}
	return profile
}

func (r *Registry) tabEventLocked(eventType schema.TabEventType, snap schema.TabSnapshot) schema.TabEvent {
	return schema.TabEvent{
		Type:           eventType,
		Tab:            snap,
		ActivatedIndex: r.activated,
		Nav:            r.nav,
	}
}

func (r *Registry) emitTabEvent(event schema.TabEvent) {
	if r.sink == nil {
		return
	}
	r.sink.OnTabEvent(event)
}

func (r *Registry) emitContentEvent(event schema.ContentEvent) {
	if r.sink == nil {
		return
	}
	r.sink.OnContentEvent(event)
}
