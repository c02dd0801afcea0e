package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"pkt.systems/keymirror/schema"
	"pkt.systems/pslog"
)

// WorkspaceVersion is the on-disk format version written by Save.
const WorkspaceVersion = 1

// TabState captures the navigational metadata of one tab. Content is never
// persisted; a restored tab reloads it from the data source.
type TabState struct {
	ID           schema.TabID      `json:"id"`
	Name         schema.ServerName `json:"name"`
	Blank        bool              `json:"blank,omitempty"`
	SubTab       string            `json:"sub_tab,omitempty"`
	Server       schema.ServerName `json:"server"`
	DB           int               `json:"db"`
	Key          string            `json:"key,omitempty"`
	KeyCode      []byte            `json:"key_code,omitempty"`
	Type         schema.KeyType    `json:"type"`
	TTL          int64             `json:"ttl"`
	MatchPattern string            `json:"match_pattern,omitempty"`
	Format       string            `json:"format,omitempty"`
	Decode       string            `json:"decode,omitempty"`
	SelectedKeys []string          `json:"selected_keys,omitempty"`
}

// Workspace captures the tab bar for persistence.
type Workspace struct {
	Version        int            `json:"version"`
	Tabs           []TabState     `json:"tabs"`
	ActivatedIndex int            `json:"activated_index"`
	Nav            schema.NavMode `json:"nav,omitempty"`
}

// Store persists workspaces to disk, one file per workspace name.
type Store struct {
	dir string
	log pslog.Logger
}

// NewStore constructs a persistent store at the given directory.
func NewStore(dir string) (*Store, error) {
	return NewStoreWithLogger(dir, nil)
}

// NewStoreWithLogger constructs a persistent store with logging.
func NewStoreWithLogger(dir string, logger pslog.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	if logger != nil {
		logger = logger.With("state_dir", dir)
	}
	return &Store{dir: dir, log: logger}, nil
}

// Path returns the file a workspace name is stored in.
func (s *Store) Path(name string) string {
	file := sanitize(name)
	if file == "" {
		file = "default"
	}
	return filepath.Join(s.dir, file+".json")
}

// Load reads a workspace from disk. A missing file is reported with ok=false
// and no error.
func (s *Store) Load(name string) (Workspace, bool, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.log != nil {
				s.log.Debug("workspace load miss", "workspace", name)
			}
			return Workspace{}, false, nil
		}
		return Workspace{}, false, s.fail("workspace load failed", name, err)
	}
	var ws Workspace
	if err := json.Unmarshal(data, &ws); err != nil {
		return Workspace{}, false, s.fail("workspace load failed", name, err)
	}
	if ws.Version > WorkspaceVersion {
		return Workspace{}, false, s.fail("workspace load failed", name, fmt.Errorf("unsupported workspace version %d", ws.Version))
	}
	if s.log != nil {
		s.log.Debug("workspace load ok", "workspace", name, "tabs", len(ws.Tabs))
	}
	return ws, true, nil
}

// Save atomically writes a workspace to disk.
func (s *Store) Save(name string, ws Workspace) error {
	path := s.Path(name)
	ws.Version = WorkspaceVersion
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return s.fail("workspace save failed", name, err)
	}
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return s.fail("workspace save failed", name, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "workspace-*.json")
	if err != nil {
		return s.fail("workspace save failed", name, err)
	}
	if err := writeTemp(tmp, data); err != nil {
		_ = os.Remove(tmp.Name())
		return s.fail("workspace save failed", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return s.fail("workspace save failed", name, err)
	}
	if s.log != nil {
		s.log.Trace("workspace save ok", "workspace", name, "tabs", len(ws.Tabs))
	}
	return nil
}

func writeTemp(tmp *os.File, data []byte) error {
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Chmod(tmp.Name(), 0o600)
}

func (s *Store) fail(msg, name string, err error) error {
	if s.log != nil {
		s.log.Warn(msg, "workspace", name, "err", err)
	}
	return err
}

func sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
