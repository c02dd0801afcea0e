package logx

import (
	"context"

	"pkt.systems/keymirror/schema"
	"pkt.systems/pslog"
)

type contextKey int

const (
	serverKey contextKey = iota
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithServer annotates the context logger with the server name if present.
func WithServer(ctx context.Context, server schema.ServerName) pslog.Logger {
	log := pslog.Ctx(ctx)
	if server != "" {
		if current, ok := ctx.Value(serverKey).(schema.ServerName); ok && current == server {
			return log
		}
		log = log.With("server", server)
	}
	return log
}

// WithTab annotates the logger with the server, database, and key of a tab.
func WithTab(log pslog.Logger, server schema.ServerName, db int, key string) pslog.Logger {
	if server != "" {
		log = log.With("server", server, "db", db)
	}
	if key != "" {
		log = log.With("key", key)
	}
	return log
}

// WithSource annotates the logger with the input a notification came from.
func WithSource(log pslog.Logger, source string, line int) pslog.Logger {
	if source != "" {
		log = log.With("source", source)
	}
	if line > 0 {
		log = log.With("line", line)
	}
	return log
}

// ContextWithServer stores the server marker on the context for log de-duplication.
func ContextWithServer(ctx context.Context, server schema.ServerName) context.Context {
	if ctx == nil || server == "" {
		return ctx
	}
	return context.WithValue(ctx, serverKey, server)
}

// ContextWithServerLogger attaches the logger and server marker to the context.
func ContextWithServerLogger(ctx context.Context, log pslog.Logger, server schema.ServerName) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithServer(ctx, server)
}
