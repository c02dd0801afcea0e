package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"pkt.systems/keymirror/internal/appconfig"
)

func TestRootHasCommands(t *testing.T) {
	root := newRootCmd()
	want := map[string]bool{"replay": false, "config": false, "version": false}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("expected root command to include %s", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), " v") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestConfigLoggerWarnLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_MODE", "")
	var out bytes.Buffer
	logger := configLogger(context.Background(), &out, appconfig.LoggingConfig{Level: "warn", Structured: true})
	logger.Info("quiet info line")
	logger.Warn("loud warn line")
	if strings.Contains(out.String(), "quiet info line") {
		t.Fatalf("info logged at warn level: %q", out.String())
	}
	if !strings.Contains(out.String(), "loud warn line") {
		t.Fatalf("warn line missing: %q", out.String())
	}
}
