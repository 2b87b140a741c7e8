// Package log sets up apex/log for the breedfetch binary and bridges it to
// the observe.Logger interface used by the library packages.
package log

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/apex/log"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "BREEDFETCH_LOG"

// InitLogger sets up Apex with a custom handler writing to stderr and a log
// level from the BREEDFETCH_LOG env variable.
func InitLogger() {
	InitLoggerWithWriter(os.Stderr)
}

// InitLoggerWithWriter is InitLogger with an explicit destination. Unknown
// levels fall back to ERROR.
func InitLoggerWithWriter(w io.Writer) {
	level, err := log.ParseLevel(strings.ToLower(os.Getenv(EnvLevel)))
	if err != nil {
		level = log.ErrorLevel
	}
	log.SetHandler(NewHandler(w))
	log.SetLevel(level)
}

// CustomHandler formats log messages as a single line:
// "2006-01-02 15:04:05 I message key=value ..." with keys sorted.
type CustomHandler struct {
	mu sync.Mutex
	w  io.Writer
}

// NewHandler creates a handler writing to w.
func NewHandler(w io.Writer) *CustomHandler {
	return &CustomHandler{w: w}
}

// HandleLog implements the log.Handler interface
func (h *CustomHandler) HandleLog(e *log.Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s",
		e.Timestamp.Format("2006-01-02 15:04:05"),
		strings.ToUpper(e.Level.String()),
		e.Message)
	for _, k := range slices.Sorted(maps.Keys(e.Fields)) {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}
