package log

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

const timeLayout = time.DateTime

// Logger writes leveled messages to the terminal, a rotated log file, or both.
// Sub-loggers created by Named share the sink of their parent.
type Logger struct {
	sink *sink

	Name  string
	Level LogLevel

	// JSON switches the output to one JSON object per line.
	JSON bool
}

type entry struct {
	Time      string `json:"time"`
	Level     string `json:"level"`
	Component string `json:"component,omitempty"`
	Message   string `json:"message"`
}

// NewLogger creates a logger for the application. With noTerminal set it only
// writes to file, and color is disabled.
func NewLogger(name string, level LogLevel, file string, noTerminal bool) *Logger {
	return &Logger{
		sink:  newSink(file, !noTerminal),
		Name:  name,
		Level: level,
	}
}

// NewWriterLogger creates a logger without color that writes to w only.
func NewWriterLogger(name string, level LogLevel, w io.Writer) *Logger {
	s := newSink("", false)
	s.out = w
	return &Logger{sink: s, Name: name, Level: level}
}

// NewDiscard returns a logger that drops every message.
func NewDiscard() *Logger {
	return NewWriterLogger("", Fatal+1, io.Discard)
}

func (l *Logger) enabled(level LogLevel) bool {
	return l != nil && level >= l.Level
}

func (l *Logger) format(level LogLevel, now time.Time, msg string) []byte {
	if l.JSON {
		line, err := json.Marshal(entry{
			Time:      now.Format(timeLayout),
			Level:     level.String(),
			Component: l.Name,
			Message:   msg,
		})
		if err != nil {
			line = fmt.Appendf(nil, `{"level":"ERROR","message":%q}`, err.Error())
		}
		return append(line, '\n')
	}

	var line []byte
	if l.sink.color && level.valid() {
		line = append(line, levels[level].ansi...)
	}
	line = now.AppendFormat(line, timeLayout)
	line = fmt.Appendf(line, " %-5s", level)
	if l.Name != "" {
		line = fmt.Appendf(line, " [%s]", l.Name)
	}
	line = append(line, ' ')
	line = append(line, msg...)
	if l.sink.color {
		line = append(line, "\033[0m"...)
	}
	return append(line, '\n')
}

func (l *Logger) emit(level LogLevel, msg string, args []any) {
	if !l.enabled(level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	l.sink.write(l.format(level, time.Now(), msg))

	if level == Fatal {
		l.sink.exit(1)
	}
}

func (l *Logger) Debug(msg string, args ...any) { l.emit(Debug, msg, args) }
func (l *Logger) Info(msg string, args ...any)  { l.emit(Info, msg, args) }
func (l *Logger) Warn(msg string, args ...any)  { l.emit(Warn, msg, args) }
func (l *Logger) Error(msg string, args ...any) { l.emit(Error, msg, args) }
func (l *Logger) Fatal(msg string, args ...any) { l.emit(Fatal, msg, args) }

// Named returns a child logger whose name is appended to the parent's.
func (l *Logger) Named(name string) *Logger {
	if l == nil {
		return nil
	}

	child := *l
	if l.Name != "" {
		child.Name = l.Name + "/" + name
	} else {
		child.Name = name
	}
	return &child
}
