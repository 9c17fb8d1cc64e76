package logger

import (
	"errors"
	"io"
	"sync"
)

// asyncWriter fans log lines out to one or more sinks from a single
// background goroutine so handlers never block on slow disks.
type asyncWriter struct {
	queue    chan []byte
	flushReq chan chan error
	done     chan struct{}
	once     sync.Once

	mu       sync.Mutex
	sinks    []io.Writer
	writeErr error
}

func newAsyncWriter(writers []io.Writer, queueSize int) *asyncWriter {
	if queueSize <= 0 {
		queueSize = 256
	}
	sinks := make([]io.Writer, 0, len(writers))
	for _, w := range writers {
		if w != nil {
			sinks = append(sinks, w)
		}
	}
	aw := &asyncWriter{
		queue:    make(chan []byte, queueSize),
		flushReq: make(chan chan error),
		done:     make(chan struct{}),
		sinks:    sinks,
	}
	go aw.loop()
	return aw
}

func (w *asyncWriter) loop() {
	for {
		select {
		case line, ok := <-w.queue:
			if !ok {
				close(w.done)
				return
			}
			if len(line) == 0 {
				continue
			}
			if err := w.writeAll(line); err != nil {
				w.setErr(err)
			}
		case ack := <-w.flushReq:
			w.drainPending()
			ack <- w.getErr()
		}
	}
}

// drainPending writes out whatever is already buffered in the queue.
func (w *asyncWriter) drainPending() {
	for {
		select {
		case line, ok := <-w.queue:
			if !ok {
				return
			}
			if len(line) == 0 {
				continue
			}
			if err := w.writeAll(line); err != nil {
				w.setErr(err)
			}
		default:
			return
		}
	}
}

// Write enqueues the payload, blocking only when the queue is saturated.
func (w *asyncWriter) Write(p []byte) error {
	if err := w.getErr(); err != nil {
		return err
	}
	if len(p) == 0 {
		return nil
	}
	line := make([]byte, len(p))
	copy(line, p)
	w.queue <- line
	return nil
}

// Flush waits until previously queued lines have reached the sinks.
func (w *asyncWriter) Flush() error {
	if err := w.getErr(); err != nil {
		return err
	}
	ack := make(chan error, 1)
	w.flushReq <- ack
	return <-ack
}

// Close drains the queue and reports the first encountered write error.
func (w *asyncWriter) Close() error {
	w.once.Do(func() {
		close(w.queue)
	})
	<-w.done
	return w.getErr()
}

func (w *asyncWriter) writeAll(line []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errs []error
	for _, sink := range w.sinks {
		if _, err := sink.Write(line); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (w *asyncWriter) getErr() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeErr
}

func (w *asyncWriter) setErr(err error) {
	if err == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writeErr == nil {
		w.writeErr = err
	}
}
