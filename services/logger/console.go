package logsvc

import (
	"log"

	"github.com/trezcool/gradebook/core"
)

// ConsoleLogger writes every entry to a std logger. Entries under minLevel are dropped.
type ConsoleLogger struct {
	std      *log.Logger
	minLevel Level
}

var _ core.Logger = (*ConsoleLogger)(nil)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

func NewConsoleLogger(std *log.Logger, minLevel Level) *ConsoleLogger {
	return &ConsoleLogger{std: std, minLevel: minLevel}
}

func (l ConsoleLogger) print(level Level, msg string, args []interface{}) {
	if level < l.minLevel {
		return
	}
	l.std.Printf("[%s] %s", levelNames[level], msg)
	for _, arg := range args {
		if id, ok := arg.(core.TeacherID); ok {
			l.std.Printf("  teacher=%s", id)
			continue
		}
		l.std.Printf("  %+v", arg)
	}
}

func (l ConsoleLogger) Debug(msg string, args ...interface{}) { l.print(LevelDebug, msg, args) }
func (l ConsoleLogger) Info(msg string, args ...interface{})  { l.print(LevelInfo, msg, args) }
func (l ConsoleLogger) Warn(msg string, args ...interface{})  { l.print(LevelWarn, msg, args) }
func (l ConsoleLogger) Error(msg string, args ...interface{}) { l.print(LevelError, msg, args) }

func (l ConsoleLogger) Fatal(msg string, args ...interface{}) {
	l.print(LevelFatal, msg, args)
	l.std.Fatal(msg)
}
