package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

// Init configures the standard logger shared by every package.
// LOG_PREFIX is prepended to each line when set.
func Init() {
	InitWriter(os.Stdout)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer) {
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.LUTC | log.Lmsgprefix)
	if prefix := strings.TrimSpace(os.Getenv("LOG_PREFIX")); prefix != "" {
		log.SetPrefix(prefix + " ")
	} else {
		log.SetPrefix("")
	}
}

// WithRun returns a logger whose lines carry the run ID.
func WithRun(runID string) *log.Logger {
	return log.New(log.Writer(), log.Prefix()+"[run "+shortID(runID)+"] ", log.Flags())
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
