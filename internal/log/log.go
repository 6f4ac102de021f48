// Package log provides the info/warn/error/debug facade spec.md §1 and §6
// name as the core's logging collaborator, wrapping it with structured
// fields (level, category, timestamp) the way the teacher's logging
// package does, and fanning entries out over a pubsub.Broker so the
// renderer's bounded log ring (internal/logring) can read the last few
// lines without the log package knowing the renderer exists.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"scrawl/internal/pubsub"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Category groups related log messages by subsystem.
type Category string

const (
	CatCanvas   Category = "canvas"
	CatEditor   Category = "editor"
	CatRouter   Category = "router"
	CatRender   Category = "render"
	CatSnapshot Category = "snapshot"
	CatConfig   Category = "config"
	CatGPS      Category = "gps"
	CatWatcher  Category = "watcher"
	CatHistory  Category = "history"
	CatAutosave Category = "autosave"
)

// Logger provides structured logging. Info, warn and error entries publish
// to the ring broker; entries of every level are written to a file only
// when debug mode opened one.
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	writer   io.Writer
	enabled  bool
	minLevel Level
	broker   *pubsub.Broker[string]
}

var (
	defaultLogger *Logger
	once          sync.Once
)

func newDefaultLogger() *Logger {
	return &Logger{
		enabled:  true,
		minLevel: LevelInfo,
		broker:   pubsub.NewBroker[string](),
	}
}

// Init sets up the global logger. With an empty path, entries still reach
// the ring broker (so the renderer's log panel works with no --debug
// flag) but nothing is written to disk. Returns a cleanup func to close
// the file, if one was opened.
func Init(path string, minLevel Level) (func(), error) {
	var initErr error
	once.Do(func() {
		defaultLogger = newDefaultLogger()
		defaultLogger.minLevel = minLevel
		if path != "" {
			f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G304: user-supplied debug log path
			if err != nil {
				initErr = err
				return
			}
			defaultLogger.file = f
			defaultLogger.writer = f
		}
	})
	if initErr != nil {
		return nil, initErr
	}
	if defaultLogger == nil {
		defaultLogger = newDefaultLogger()
	}
	return func() {
		if defaultLogger != nil && defaultLogger.file != nil {
			_ = defaultLogger.file.Close()
		}
	}, nil
}

// Broker exposes the ring-feeding broker so internal/logring can subscribe.
func Broker() *pubsub.Broker[string] {
	if defaultLogger == nil {
		defaultLogger = newDefaultLogger()
	}
	return defaultLogger.broker
}

// SetMinLevel sets the minimum log level recorded.
func SetMinLevel(level Level) {
	if defaultLogger == nil {
		defaultLogger = newDefaultLogger()
	}
	defaultLogger.mu.Lock()
	defaultLogger.minLevel = level
	defaultLogger.mu.Unlock()
}

// Debug logs at debug level (file only, never the ring, matching
// spec.md §6: "the ring captures info+warn+error only").
func Debug(cat Category, msg string, fields ...any) { log(LevelDebug, cat, msg, fields...) }

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) { log(LevelInfo, cat, msg, fields...) }

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) { log(LevelWarn, cat, msg, fields...) }

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) { log(LevelError, cat, msg, fields...) }

// ErrorErr logs an error at error level with the error value attached.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	if defaultLogger == nil {
		defaultLogger = newDefaultLogger()
	}
	if level < defaultLogger.minLevel {
		return
	}

	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()

	timestamp := time.Now().Format("15:04:05")
	entry := fmt.Sprintf("%s [%s] [%s] %s", timestamp, level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		entry += fmt.Sprintf(" %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		entry += fmt.Sprintf(" %v=<missing>", fields[len(fields)-1])
	}

	if defaultLogger.enabled && defaultLogger.writer != nil {
		_, _ = defaultLogger.writer.Write([]byte(entry + "\n"))
	}
	if level >= LevelInfo {
		defaultLogger.broker.Publish(pubsub.CreatedEvent, entry)
	}
}

// Listener subscribes to the log broker for the lifetime of ctx.
func Listener(ctx context.Context) <-chan pubsub.Event[string] {
	return Broker().Subscribe(ctx)
}
