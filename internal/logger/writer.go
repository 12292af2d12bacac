package logger

import (
	"io"
	"sync"
)

// asyncWriter buffers log lines on a channel and writes them from a single
// goroutine so handlers never block on slow sinks.
type asyncWriter struct {
	writers []io.Writer
	lines   chan []byte
	flushCh chan chan error
	done    chan struct{}
	once    sync.Once

	wmu  sync.Mutex
	mu   sync.Mutex
	werr error
}

func newAsyncWriter(writers []io.Writer, bufSize int) *asyncWriter {
	if bufSize <= 0 {
		bufSize = 1024
	}
	w := &asyncWriter{
		writers: writers,
		lines:   make(chan []byte, bufSize),
		flushCh: make(chan chan error),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *asyncWriter) loop() {
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				close(w.done)
				return
			}
			w.writeAll(line)
		case ack := <-w.flushCh:
			w.drain()
			ack <- w.getErr()
		}
	}
}

func (w *asyncWriter) drain() {
	for {
		select {
		case line, ok := <-w.lines:
			if !ok {
				return
			}
			w.writeAll(line)
		default:
			return
		}
	}
}

// Write enqueues a line; if the buffer is full the line is written inline.
func (w *asyncWriter) Write(p []byte) error {
	line := make([]byte, len(p))
	copy(line, p)
	select {
	case w.lines <- line:
		return nil
	default:
		w.writeAll(line)
		return w.getErr()
	}
}

// Flush blocks until all queued lines are written.
func (w *asyncWriter) Flush() error {
	ack := make(chan error, 1)
	select {
	case w.flushCh <- ack:
		return <-ack
	case <-w.done:
		return w.getErr()
	}
}

// Close drains remaining lines and stops the writer goroutine.
func (w *asyncWriter) Close() error {
	w.once.Do(func() {
		close(w.lines)
	})
	<-w.done
	return w.getErr()
}

func (w *asyncWriter) writeAll(p []byte) {
	w.wmu.Lock()
	defer w.wmu.Unlock()
	for _, dst := range w.writers {
		if _, err := dst.Write(p); err != nil {
			w.setErr(err)
		}
	}
}

func (w *asyncWriter) getErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.werr
}

func (w *asyncWriter) setErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.werr == nil {
		w.werr = err
	}
}
