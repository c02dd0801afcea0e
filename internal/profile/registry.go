// Package profile provides the in-memory connection profile lookup used by the
// tab registry.
package profile

import (
	"sync"

	"pkt.systems/keymirror/schema"
)

// Registry is a flat lookup of display profiles by server name.
type Registry struct {
	mu       sync.RWMutex
	profiles map[schema.ServerName]schema.Profile
}

// New builds a registry seeded with profiles.
func New(profiles map[schema.ServerName]schema.Profile) *Registry {
	r := &Registry{profiles: make(map[schema.ServerName]schema.Profile, len(profiles))}
	for name, p := range profiles {
		r.profiles[name] = withDefaults(p)
	}
	return r
}

// Set stores or replaces the profile of a server.
func (r *Registry) Set(server schema.ServerName, p schema.Profile) error {
	if _, err := schema.NormalizeServerName(string(server)); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profiles == nil {
		r.profiles = make(map[schema.ServerName]schema.Profile)
	}
	r.profiles[server] = withDefaults(p)
	return nil
}

// Delete removes the profile of a server.
func (r *Registry) Delete(server schema.ServerName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, server)
}

// ProfileFor returns the profile of a server.
func (r *Registry) ProfileFor(server schema.ServerName) (schema.Profile, bool) {
	if r == nil {
		return schema.Profile{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[server]
	return p, ok
}

func withDefaults(p schema.Profile) schema.Profile {
	if p.DefaultFilter == "" {
		p.DefaultFilter = schema.DefaultKeyFilter
	}
	if p.KeySeparator == "" {
		p.KeySeparator = schema.DefaultKeySeparator
	}
	return p
}
