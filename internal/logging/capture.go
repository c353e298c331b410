package logging

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Buffer collects log output for the run-report attachment. Safe for
// concurrent writes.
type Buffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewWithCapture returns a logger that writes to stderr and also records
// output into the returned buffer, so the full run log can be attached to
// the report email.
func NewWithCapture() (*slog.Logger, *Buffer) {
	buf := &Buffer{}
	level := levelFromEnv()
	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, buf), &slog.HandlerOptions{Level: level})
	return slog.New(handler), buf
}
