package logx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"pkt.systems/pslog"
)

func TestWithTabAddsFields(t *testing.T) {
	capture := &logCapture{}
	log := WithTab(newLogger(capture), "local", 3, "user:1")
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["server"] != "local" {
		t.Fatalf("expected server field, got %+v", entry)
	}
	if fmt.Sprint(entry["db"]) != "3" {
		t.Fatalf("expected db field, got %+v", entry)
	}
	if entry["key"] != "user:1" {
		t.Fatalf("expected key field, got %+v", entry)
	}
}

func TestWithTabSkipsEmptyKey(t *testing.T) {
	capture := &logCapture{}
	log := WithTab(newLogger(capture), "local", 0, "")
	log.Info("hello")

	entry := capture.firstEntry(t)
	if _, ok := entry["key"]; ok {
		t.Fatalf("did not expect key for server-only tab, got %+v", entry)
	}
}

func TestWithServerDeduplicatesContextMarker(t *testing.T) {
	capture := &logCapture{}
	logger := newLogger(capture).With("server", "local")
	ctx := ContextWithServerLogger(context.Background(), logger, "local")
	log := WithServer(ctx, "local")
	log.Info("hello")

	line := bytes.TrimSpace(capture.buf.Bytes())
	if bytes.Count(line, []byte(`"server"`)) != 1 {
		t.Fatalf("expected a single server field, got %s", line)
	}
}

func TestWithSourceAddsFields(t *testing.T) {
	capture := &logCapture{}
	log := WithSource(newLogger(capture), "notes.jsonl", 7)
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["source"] != "notes.jsonl" || fmt.Sprint(entry["line"]) != "7" {
		t.Fatalf("expected source and line fields, got %+v", entry)
	}
}

func newLogger(capture *logCapture) pslog.Logger {
	return pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
}

type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) firstEntry(t *testing.T) map[string]any {
	t.Helper()
	data := c.buf.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	line := bytes.TrimSpace(data[:idx])
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	return entry
}
