package format

import (
	"fmt"
	"strings"

	"pkt.systems/keymirror/schema"
)

// PlainRenderer formats tabs and registry events as plain text lines.
type PlainRenderer struct{}

// NewPlainRenderer returns a default plain-text renderer.
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// FormatTabs renders one summary line per tab: an activation marker, server,
// db, key, type, and length. String tabs report the value length.
func (p *PlainRenderer) FormatTabs(list schema.TabListSnapshot) []string {
	lines := make([]string, 0, len(list.Tabs))
	for i, tab := range list.Tabs {
		marker := " "
		if i == list.ActivatedIndex {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %s %d %s %s %d", marker, tab.Server, tab.DB, keyLabel(tab.Key), tab.Type, tabLength(tab)))
	}
	return lines
}

// FormatTabEvent converts a tab event into user-facing lines.
func (p *PlainRenderer) FormatTabEvent(event schema.TabEvent) []string {
	switch event.Type {
	case schema.TabEventOpened, schema.TabEventUpdated:
		label := string(event.Type)
		if event.Tab.Blank {
			label += " blank"
		}
		return []string{fmt.Sprintf("tab %s: %s", label, tabLabel(event.Tab))}
	case schema.TabEventClosed:
		if event.Tab.Name == "" {
			return []string{"tabs closed"}
		}
		return []string{fmt.Sprintf("tab closed: %s", tabLabel(event.Tab))}
	case schema.TabEventActivated:
		if event.ActivatedIndex < 0 {
			return []string{"tab activated: none"}
		}
		return []string{fmt.Sprintf("tab activated: %d %s", event.ActivatedIndex, tabLabel(event.Tab))}
	case schema.TabEventStatus:
		return []string{fmt.Sprintf("tab status: %s%s", tabLabel(event.Tab), statusFlags(event.Tab))}
	default:
		return nil
	}
}

// FormatContentEvent converts a reconciled change into user-facing lines.
func (p *PlainRenderer) FormatContentEvent(event schema.ContentEvent) []string {
	parts := make([]string, 0, 3)
	if event.Result.Added > 0 {
		parts = append(parts, fmt.Sprintf("+%d", event.Result.Added))
	}
	if event.Result.Updated > 0 {
		parts = append(parts, fmt.Sprintf("~%d", event.Result.Updated))
	}
	if event.Result.Removed > 0 {
		parts = append(parts, fmt.Sprintf("-%d", event.Result.Removed))
	}
	if len(parts) == 0 {
		parts = append(parts, "no change")
	}
	return []string{fmt.Sprintf("%s %s/%d/%s %s: %s (length %d)",
		event.Op, event.Server, event.DB, keyLabel(event.Key), event.Type, strings.Join(parts, " "), event.Length)}
}

func tabLabel(tab schema.TabSnapshot) string {
	return fmt.Sprintf("%s/%d/%s", tab.Server, tab.DB, keyLabel(tab.Key))
}

func statusFlags(tab schema.TabSnapshot) string {
	var flags []string
	if tab.Loading {
		flags = append(flags, "loading")
	}
	if tab.TTL > 0 {
		flags = append(flags, fmt.Sprintf("ttl=%d", tab.TTL))
	}
	if tab.SubTab != "" {
		flags = append(flags, "sub="+tab.SubTab)
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, " ") + "]"
}

func keyLabel(key string) string {
	if key == "" {
		return "-"
	}
	return key
}

func tabLength(tab schema.TabSnapshot) int {
	if tab.Type == schema.TypeString {
		return len(tab.StringValue)
	}
	return tab.Length
}
