package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
)

// Logger writes colored console lines tagged with the owning component.
type Logger struct {
	component string
}

var debugEnabled = os.Getenv("LOG_DEBUG") == "true"

func New(component string) *Logger {
	if component == "" {
		component = "app"
	}
	return &Logger{component: component}
}

func (l *Logger) line(level, emoji, msg string) string {
	_, file, lineNo, _ := runtime.Caller(2)

	return fmt.Sprintf("%s%s | %-7s | %s | %s:%d | %s",
		emoji,
		time.Now().Format("2006-01-02 15:04:05"),
		level,
		l.component,
		filepath.Base(file),
		lineNo,
		msg,
	)
}

func (l *Logger) Info(msg string, args ...interface{}) {
	color.Cyan(l.line("INFO", "ℹ️ ", fmt.Sprintf(msg, args...)))
}

func (l *Logger) Success(msg string, args ...interface{}) {
	color.Green(l.line("SUCCESS", "✅ ", fmt.Sprintf(msg, args...)))
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	color.Yellow(l.line("WARN", "⚠️ ", fmt.Sprintf(msg, args...)))
}

// Error logs the message with the cause appended and returns the wrapped
// error, so call sites can `return log.Error(...)`.
func (l *Logger) Error(msg string, err error, args ...interface{}) error {
	formatted := fmt.Sprintf(msg, args...)
	color.Red(l.line("ERROR", "❌ ", fmt.Sprintf("%s: %v", formatted, err)))
	return fmt.Errorf("%s: %w", formatted, err)
}

// Debug lines are dropped unless LOG_DEBUG=true.
func (l *Logger) Debug(msg string, args ...interface{}) {
	if !debugEnabled {
		return
	}
	color.Magenta(l.line("DEBUG", "🔍 ", fmt.Sprintf(msg, args...)))
}
