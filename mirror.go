// Package keymirror composes the tab registry with its event bus, profile
// lookup, and workspace store.
package keymirror

import (
	"context"
	"errors"
	"io"

	"pkt.systems/keymirror/core"
	"pkt.systems/keymirror/internal/eventbus"
	"pkt.systems/keymirror/internal/logx"
	"pkt.systems/keymirror/internal/notify"
	"pkt.systems/keymirror/internal/persist"
	"pkt.systems/keymirror/internal/profile"
	"pkt.systems/keymirror/schema"
	"pkt.systems/pslog"
)

// MirrorConfig configures the compositor.
type MirrorConfig struct {
	Registry  schema.RegistryConfig
	Profiles  map[schema.ServerName]schema.Profile
	StateDir  string
	Workspace string
}

// MirrorDeps captures optional collaborators.
type MirrorDeps struct {
	EventSink core.EventSink
	Logger    pslog.Logger
}

// MirrorOption toggles compositor components.
type MirrorOption func(*mirrorOptions)

type mirrorOptions struct {
	enableBus     bool
	enablePersist bool
}

// WithEventBus publishes registry events on an event bus.
func WithEventBus() MirrorOption {
	return func(o *mirrorOptions) { o.enableBus = true }
}

// WithPersistence enables the workspace store under MirrorConfig.StateDir.
func WithPersistence() MirrorOption {
	return func(o *mirrorOptions) { o.enablePersist = true }
}

// Mirror bundles a registry and the components it feeds.
type Mirror struct {
	cfg      MirrorConfig
	registry *core.Registry
	profiles *profile.Registry
	bus      *eventbus.Bus
	store    *persist.Store
	logger   pslog.Logger
}

// New constructs a mirror.
func New(cfg MirrorConfig, deps MirrorDeps, opts ...MirrorOption) (*Mirror, error) {
	options := mirrorOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	if cfg.Workspace == "" {
		cfg.Workspace = "default"
	}

	m := &Mirror{
		cfg:      cfg,
		profiles: profile.New(cfg.Profiles),
		logger:   logger,
	}
	if options.enablePersist {
		store, err := persist.NewStoreWithLogger(cfg.StateDir, logger)
		if err != nil {
			return nil, err
		}
		m.store = store
	}

	sinks := make([]core.EventSink, 0, 2)
	if deps.EventSink != nil {
		sinks = append(sinks, deps.EventSink)
	}
	if options.enableBus {
		m.bus = eventbus.New(logger)
		sinks = append(sinks, m.bus)
	}
	var sink core.EventSink
	switch len(sinks) {
	case 0:
	case 1:
		sink = sinks[0]
	default:
		sink = eventFanout{sinks: sinks}
	}

	m.registry = core.NewRegistry(cfg.Registry, core.Deps{
		Profiles:  m.profiles,
		EventSink: sink,
		Logger:    logger,
	})
	return m, nil
}

// Registry returns the tab registry.
func (m *Mirror) Registry() *core.Registry { return m.registry }

// Profiles returns the profile lookup.
func (m *Mirror) Profiles() *profile.Registry { return m.profiles }

// Bus returns the event bus, or nil when disabled.
func (m *Mirror) Bus() *eventbus.Bus { return m.bus }

// Restore loads the persisted workspace into the registry. It reports false
// when there is nothing to restore.
func (m *Mirror) Restore() (bool, error) {
	if m.store == nil {
		return false, errors.New("persistence is disabled")
	}
	ws, ok, err := m.store.Load(m.cfg.Workspace)
	if err != nil || !ok {
		return false, err
	}
	if err := m.registry.RestoreWorkspace(ws); err != nil {
		return false, err
	}
	return true, nil
}

// Save persists the registry workspace.
func (m *Mirror) Save() (string, error) {
	if m.store == nil {
		return "", errors.New("persistence is disabled")
	}
	if err := m.store.Save(m.cfg.Workspace, m.registry.Workspace()); err != nil {
		return "", err
	}
	return m.store.Path(m.cfg.Workspace), nil
}

// ReplayOptions controls Replay.
type ReplayOptions struct {
	// Source names the input in log lines.
	Source string
	// Server, when set, drops notifications for other servers.
	Server schema.ServerName
	// StopOnError aborts on the first malformed line instead of skipping it.
	StopOnError bool
}

// ReplayStats counts what Replay did.
type ReplayStats struct {
	Notes     int
	Applied   int
	Unchanged int
	Filtered  int
	Malformed int
}

// Replay applies every notification read from r in order.
func (m *Mirror) Replay(ctx context.Context, r io.Reader, opts ReplayOptions) (ReplayStats, error) {
	var stats ReplayStats
	stream := notify.NewStream(r)
	for {
		note, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.logger.Debug("replay done", "source", opts.Source, "notes", stats.Notes, "malformed", stats.Malformed)
				return stats, nil
			}
			var decodeErr *notify.DecodeError
			if errors.As(err, &decodeErr) {
				stats.Malformed++
				logx.WithSource(m.logger, opts.Source, decodeErr.Number).Warn("replay line skipped", "err", decodeErr.Unwrap())
				if opts.StopOnError {
					return stats, err
				}
				continue
			}
			return stats, err
		}
		stats.Notes++
		if opts.Server != "" && note.Server != opts.Server {
			stats.Filtered++
			continue
		}
		res, err := notify.Dispatch(m.registry, note)
		if err != nil {
			return stats, err
		}
		if res.Changed() || !note.Op.Content() {
			stats.Applied++
		} else {
			stats.Unchanged++
		}
	}
}
