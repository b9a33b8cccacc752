package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const (
	LevelFatal slog.Level = 12
)

// ColorHandler writes one colorized line per record:
// time | LEVEL | message key=value...
type ColorHandler struct {
	mu       *sync.Mutex
	writer   io.Writer
	attrs    []slog.Attr
	group    string
	logLevel slog.Level
}

func NewColorHandler(w io.Writer, logLevel slog.Level) *ColorHandler {
	return &ColorHandler{
		mu:       &sync.Mutex{},
		writer:   w,
		logLevel: logLevel,
	}
}

func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.logLevel
}

func (h *ColorHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String()

	switch r.Level {
	case slog.LevelDebug:
		level = color.MagentaString(level)
	case slog.LevelInfo:
		level = color.BlueString(level)
	case slog.LevelWarn:
		level = color.YellowString(level)
	case slog.LevelError:
		level = color.RedString(level)
	case LevelFatal:
		level = color.HiRedString("FATAL")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s | %-5s | %s",
		color.GreenString(r.Time.Format("2006-01-02T15:04:05")),
		level,
		color.CyanString(r.Message),
	)

	for _, attr := range h.attrs {
		b.WriteString(color.CyanString(" %s=%v", attr.Key, attr.Value))
	}
	r.Attrs(func(attr slog.Attr) bool {
		key := attr.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		b.WriteString(color.CyanString(" %s=%v", key, attr.Value))
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.writer, b.String())
	return err
}

func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		newAttrs = append(newAttrs, a)
	}

	return &ColorHandler{
		mu:       h.mu,
		writer:   h.writer,
		attrs:    newAttrs,
		group:    h.group,
		logLevel: h.logLevel,
	}
}

func (h *ColorHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &ColorHandler{
		mu:       h.mu,
		writer:   h.writer,
		attrs:    h.attrs,
		group:    group,
		logLevel: h.logLevel,
	}
}

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Init installs a ColorHandler on stdout as the default slog logger.
func Init(level string) {
	InitWriter(os.Stdout, level)
}

func InitWriter(w io.Writer, level string) {
	slog.SetDefault(slog.New(NewColorHandler(w, ParseLevel(level))))
	slog.Debug("Logger initialized")
}

func Debug(msg string, v ...any) {
	slog.Debug(msg, v...)
}

func DebugF(msg string, v ...any) {
	slog.Debug(fmt.Sprintf(msg, v...))
}

func Info(msg string, v ...any) {
	slog.Info(msg, v...)
}

func InfoF(msg string, v ...any) {
	slog.Info(fmt.Sprintf(msg, v...))
}

func Warn(msg string, v ...any) {
	slog.Warn(msg, v...)
}

func WarnF(msg string, v ...any) {
	slog.Warn(fmt.Sprintf(msg, v...))
}

func Error(msg string, v ...any) {
	slog.Error(msg, v...)
}

func ErrorF(msg string, v ...any) {
	slog.Error(fmt.Sprintf(msg, v...))
}

// FatalF logs at LevelFatal and exits.
func FatalF(msg string, v ...any) {
	slog.Log(context.Background(), LevelFatal, fmt.Sprintf(msg, v...))
	os.Exit(1)
}
