package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeImport  LogType = "IMP"
	TypeAPI     LogType = "API"
	TypeError   LogType = "ERR"
)

// CustomHandler prints one colored line per record:
// [KeyBot] [time] [LEVEL] [TYPE] message [cmd by user] [Status: x] (took Nms) k=v...
type CustomHandler struct {
	opts   *slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	color  bool
	attrs  []slog.Attr
	groups []string
}

// NewHandler logs to stdout.
func NewHandler(level slog.Leveler, color, addSource bool) *CustomHandler {
	return NewHandlerWithWriter(os.Stdout, level, color, addSource)
}

// NewHandlerWithWriter logs to out. With addSource every line carries its
// file:line; error lines always do.
func NewHandlerWithWriter(out io.Writer, level slog.Leveler, color, addSource bool) *CustomHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &CustomHandler{
		opts:   &slog.HandlerOptions{Level: level, AddSource: addSource},
		out:    out,
		mu:     &sync.Mutex{},
		color:  color,
		attrs:  make([]slog.Attr, 0),
		groups: make([]string, 0),
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(slices.Clip(h.attrs), attrs...)
	return &clone
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(slices.Clip(h.groups), name)
	return &clone
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	timestamp := r.Time.Format("15:04:05")
	if r.Time.IsZero() {
		timestamp = time.Now().Format("15:04:05")
	}

	var levelColor, levelText string
	switch {
	case r.Level >= slog.LevelError:
		levelColor, levelText = colorRed, "ERROR"
	case r.Level >= slog.LevelWarn:
		levelColor, levelText = colorYellow, "WARN"
	case r.Level >= slog.LevelInfo:
		levelColor, levelText = colorGreen, "INFO"
	default:
		levelColor, levelText = colorPurple, "DEBUG"
	}

	all := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	all = append(all, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		all = append(all, a)
		return true
	})

	logType := getLogType(all)
	status := findAttr(all, "status")
	userName := findAttr(all, "user_name")
	cmdName := findAttr(all, "name")

	message := r.Message
	if r.Level >= slog.LevelError {
		location := findAttr(all, "error_location")
		if location == "" {
			location = sourceLocation(r.PC)
		}
		if location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
		if details := findAttr(all, "error"); details != "" {
			message = fmt.Sprintf("%s: %s", message, details)
		}
	} else if h.opts.AddSource {
		if location := sourceLocation(r.PC); location != "" {
			message = fmt.Sprintf("%s (%s)", message, location)
		}
	}

	if cmdName != "" && userName != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, cmdName, userName)
	}
	if status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}
	if took, ok := findDuration(all, "took"); ok {
		message = fmt.Sprintf("%s (took %dms)", message, took.Milliseconds())
	}

	var b strings.Builder
	prefix := strings.Join(h.groups, ".")
	for _, attr := range all {
		if isInternalAttr(attr.Key) {
			continue
		}
		key := attr.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&b, " %s=%v", key, attr.Value)
	}

	var line string
	if h.color {
		line = fmt.Sprintf("%s[KeyBot] [%s] [%s%s%s] [%s] %s%s%s\n",
			colorWhite, timestamp, levelColor, levelText, colorWhite, logType, message, b.String(), colorReset)
	} else {
		line = fmt.Sprintf("[KeyBot] [%s] [%s] [%s] %s%s\n",
			timestamp, levelText, logType, message, b.String())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line)
	return err
}

func shouldSkipLog(r *slog.Record) bool {
	// gateway and rest chatter from disgo
	skippedMessages := []string{
		"locking buckets",
		"unlocking buckets",
		"gateway event",
		"cleaning up bucket",
		"cleaned up rate limit buckets",
		"binary message received",
		"received gateway message",
		"opening gateway connection",
		"locking gateway rate limiter",
		"unlocking gateway rate limiter",
		"sending gateway command",
		"new request",
		"new response",
		"locking rest bucket",
		"unlocking rest bucket",
		"rate limit response headers",
		"sending heartbeat",
	}

	msg := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}

func getLogType(attrs []slog.Attr) LogType {
	switch findAttr(attrs, "type") {
	case "cmd":
		return TypeCommand
	case "db":
		return TypeDB
	case "import":
		return TypeImport
	case "api":
		return TypeAPI
	case "error":
		return TypeError
	default:
		return TypeSystem
	}
}

func sourceLocation(pc uintptr) string {
	if pc == 0 {
		return ""
	}
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)
}

func isInternalAttr(key string) bool {
	switch key {
	case "type", "name", "user_name", "status", "took", "error", "error_location":
		return true
	}
	return false
}

func findAttr(attrs []slog.Attr, key string) string {
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == key {
			return attrs[i].Value.String()
		}
	}
	return ""
}

func findDuration(attrs []slog.Attr, key string) (time.Duration, bool) {
	for i := len(attrs) - 1; i >= 0; i-- {
		if attrs[i].Key == key && attrs[i].Value.Kind() == slog.KindDuration {
			return attrs[i].Value.Duration(), true
		}
	}
	return 0, false
}
