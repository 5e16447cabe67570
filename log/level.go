package log

import (
	"fmt"
	"strings"
)

type LogLevel int

const (
	Debug LogLevel = iota
	Info
	Warn
	Error
	Fatal
)

// levels is indexed by LogLevel.
var levels = [...]struct {
	name string
	ansi string
}{
	Debug: {"DEBUG", "\033[34m"},
	Info:  {"INFO", "\033[32m"},
	Warn:  {"WARN", "\033[33m"},
	Error: {"ERROR", "\033[31m"},
	Fatal: {"FATAL", "\033[35m"},
}

var levelAliases = map[string]LogLevel{
	"":        Info,
	"WARNING": Warn,
}

func (l LogLevel) valid() bool {
	return l >= Debug && l <= Fatal
}

func (l LogLevel) String() string {
	if !l.valid() {
		return "UNKNOWN"
	}
	return levels[l].name
}

// ParseLevel resolves a level name case-insensitively.
// An empty name means Info and "WARNING" is accepted for Warn.
func ParseLevel(level string) (LogLevel, error) {
	name := strings.ToUpper(strings.TrimSpace(level))
	if alias, ok := levelAliases[name]; ok {
		return alias, nil
	}
	for l, info := range levels {
		if info.name == name {
			return LogLevel(l), nil
		}
	}
	return Info, fmt.Errorf("invalid log level '%s'", level)
}
