package log

import (
	"io"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	rotateMaxSizeMB  = 64
	rotateMaxBackups = 3
	rotateMaxAgeDays = 14
)

// sink is the destination shared by a logger and all of its Named children.
type sink struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
	exit  func(int)
}

// newSink writes to stderr when terminal is set and to a rotated file when
// file is non-empty. Without either it falls back to stderr.
func newSink(file string, terminal bool) *sink {
	var outs []io.Writer
	if terminal {
		outs = append(outs, os.Stderr)
	}
	if file != "" {
		outs = append(outs, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    rotateMaxSizeMB,
			MaxBackups: rotateMaxBackups,
			MaxAge:     rotateMaxAgeDays,
		})
	}

	s := &sink{exit: os.Exit, color: terminal}
	switch len(outs) {
	case 0:
		s.out = os.Stderr
	case 1:
		s.out = outs[0]
	default:
		s.out = io.MultiWriter(outs...)
	}
	return s
}

func (s *sink) write(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(line)
}
