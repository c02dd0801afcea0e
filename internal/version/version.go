package version

import (
	"runtime/debug"
	"strings"
	"time"
)

const defaultModule = "pkt.systems/keymirror"

// buildVersion is set via -ldflags "-X pkt.systems/keymirror/internal/version.buildVersion=...".
var buildVersion = ""

// Current returns the best available version string (without dirty suffix).
func Current() string {
	return resolve(false)
}

// CurrentWithDirty returns the best available version string, keeping the
// +dirty suffix of modified checkouts.
func CurrentWithDirty() string {
	return resolve(true)
}

// Module returns the module path from build info when available.
func Module() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			return path
		}
	}
	return defaultModule
}

func resolve(includeDirty bool) string {
	if v := strings.TrimSpace(buildVersion); v != "" {
		return normalize(v, includeDirty)
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "v0.0.0-unknown"
	}
	if v := strings.TrimSpace(info.Main.Version); v != "" && v != "(devel)" {
		return normalize(v, includeDirty)
	}
	if v := pseudoVersion(info, includeDirty); v != "" {
		return v
	}
	return "v0.0.0-unknown"
}

func normalize(v string, includeDirty bool) string {
	if includeDirty {
		return v
	}
	return strings.TrimSuffix(v, "+dirty")
}

// pseudoVersion derives v0.0.0-<time>-<rev> from VCS build settings.
func pseudoVersion(info *debug.BuildInfo, includeDirty bool) string {
	if info == nil {
		return ""
	}
	var revision, vcsTime string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" || vcsTime == "" {
		return ""
	}
	parsed, err := time.Parse(time.RFC3339, vcsTime)
	if err != nil {
		return ""
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	v := "v0.0.0-" + parsed.UTC().Format("20060102150405") + "-" + revision
	if modified && includeDirty {
		v += "+dirty"
	}
	return v
}
