// Package logging configures the process-wide slog logger and records the
// structured events the server and CLI emit.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

type ctxKey struct{}

// Level is a slog level.
type Level = slog.Level

// Log levels accepted by ParseLevel.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format selects the handler encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatText
)

var logger *slog.Logger

func init() {
	InitLogger(LevelInfo, FormatJSON)
}

// ParseLevel maps "debug", "info", "warn" or "error" to a Level. An empty
// string is info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat maps "json" or "text" to a Format. An empty string is json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	}
	return FormatJSON, fmt.Errorf("unknown log format %q", s)
}

// InitLogger installs the global logger on stderr. Stdout is left to
// command output.
func InitLogger(level Level, format Format) {
	InitLoggerTo(os.Stderr, level, format)
}

// InitLoggerTo installs the global logger on w and makes it the slog
// default.
func InitLoggerTo(w io.Writer, level Level, format Format) {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}
	var h slog.Handler = slog.NewJSONHandler(w, opts)
	if format == FormatText {
		h = slog.NewTextHandler(w, opts)
	}
	logger = slog.New(requestIDHandler{h})
	slog.SetDefault(logger)
}

// requestIDHandler adds the request_id carried by the record's context.
type requestIDHandler struct {
	slog.Handler
}

func (h requestIDHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := GetRequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h requestIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return requestIDHandler{h.Handler.WithAttrs(attrs)}
}

func (h requestIDHandler) WithGroup(name string) slog.Handler {
	return requestIDHandler{h.Handler.WithGroup(name)}
}

// WithRequestID returns ctx carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// GetRequestID returns the request ID in ctx, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func Info(msg string, args ...any)  { logger.Info(msg, args...) }
func Warn(msg string, args ...any)  { logger.Warn(msg, args...) }
func Error(msg string, args ...any) { logger.Error(msg, args...) }

// InfoContext logs at info, tagging the line with ctx's request ID.
func InfoContext(ctx context.Context, msg string, args ...any) {
	logger.InfoContext(ctx, msg, args...)
}

// ErrorContext logs at error, tagging the line with ctx's request ID.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	logger.ErrorContext(ctx, msg, args...)
}

func event(ctx context.Context, level Level, name string, fields []any, extra []any) {
	logger.Log(ctx, level, name, append(fields, extra...)...)
}

// HTTPRequestContext records one served request.
func HTTPRequestContext(ctx context.Context, method, path, remoteAddr string, statusCode int, duration time.Duration, args ...any) {
	event(ctx, LevelInfo, "http_request", []any{
		"method", method,
		"path", path,
		"remote_addr", remoteAddr,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	}, args)
}

// SearchExecuted records a completed search. Cached is true when the page
// came from the result cache.
func SearchExecuted(ctx context.Context, mode, query string, versions []string, results int, duration time.Duration, cached bool) {
	event(ctx, LevelInfo, "search_executed", []any{
		"mode", mode,
		"query", query,
		"versions", versions,
		"results", results,
		"duration_ms", duration.Milliseconds(),
		"cached", cached,
	}, nil)
}

// ReferenceUnresolved records, at debug, input the resolver rejected.
func ReferenceUnresolved(ctx context.Context, input string, err error) {
	event(ctx, LevelDebug, "reference_unresolved", []any{"input", input, "error", err.Error()}, nil)
}

// CorpusLoaded records a freshly loaded corpus snapshot.
func CorpusLoaded(versions, verses, crossRefs, commentaries int, duration time.Duration, args ...any) {
	event(context.Background(), LevelInfo, "corpus_loaded", []any{
		"versions", versions,
		"verses", verses,
		"cross_references", crossRefs,
		"commentaries", commentaries,
		"duration_ms", duration.Milliseconds(),
	}, args)
}

// ImportEvent records one import run; runs with failed rows log at warn.
func ImportEvent(kind, path string, succeeded, failed int, args ...any) {
	level := LevelInfo
	if failed > 0 {
		level = LevelWarn
	}
	event(context.Background(), level, "import", []any{
		"kind", kind,
		"path", path,
		"succeeded", succeeded,
		"failed", failed,
	}, args)
}

// WebSocketEvent records a hub connection change.
func WebSocketEvent(name string, clientCount int, args ...any) {
	event(context.Background(), LevelInfo, "websocket_event", []any{"event", name, "client_count", clientCount}, args)
}

// ServerStartup records a listener coming up.
func ServerStartup(serverType, protocol string, port int, args ...any) {
	event(context.Background(), LevelInfo, "server_startup", []any{
		"server_type", serverType,
		"protocol", protocol,
		"port", port,
	}, args)
}

// SecurityEvent records rejected auth, rate limiting and similar, at warn.
func SecurityEvent(name, component string, args ...any) {
	event(context.Background(), LevelWarn, "security_event", []any{"event", name, "component", component}, args)
}
