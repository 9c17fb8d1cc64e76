package sender

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "dial tcp: i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func newTestDispatcher() *Dispatcher {
	return NewDispatcher(Options{
		QueueSize:    8,
		Workers:      1,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
		MaxDuration:  time.Second,
	})
}

func TestDispatcherRunsJob(t *testing.T) {
	d := newTestDispatcher()

	done := make(chan struct{})
	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job not executed")
	}
	d.Close()
	if n := d.ErrorCount(); n != 0 {
		t.Fatalf("ErrorCount = %d, want 0", n)
	}
}

func TestDispatcherRetriesTransientErrors(t *testing.T) {
	d := newTestDispatcher()

	var mu sync.Mutex
	calls := 0
	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return timeoutErr{}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	if calls != 2 {
		t.Fatalf("calls = %d, want 2 (one retry)", calls)
	}
	if n := d.ErrorCount(); n != 0 {
		t.Fatalf("ErrorCount = %d, want 0", n)
	}
}

func TestDispatcherDoesNotRetryPermanentErrors(t *testing.T) {
	d := newTestDispatcher()

	var mu sync.Mutex
	calls := 0
	_ = d.Enqueue(context.Background(), "send.text", "sendMessage", func() error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return errors.New("telegram: bot was blocked by the user (403)")
	})
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (no retry)", calls)
	}
	if n := d.ErrorCount(); n != 1 {
		t.Fatalf("ErrorCount = %d, want 1", n)
	}
}

func TestDispatcherRejectsAfterClose(t *testing.T) {
	d := newTestDispatcher()
	d.Close()
	err := d.Enqueue(context.Background(), "send.text", "sendMessage", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{timeoutErr{}, "timeout"},
		{errors.New("telegram: Too Many Requests (429)"), "http_4xx"},
		{errors.New("telegram: Internal Server Error (500)"), "http_5xx"},
		{errors.New("weird"), "unknown"},
	}
	for _, tc := range cases {
		if got := classifyError(tc.err); got != tc.want {
			t.Errorf("classifyError(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	err := errors.New("post https://api.telegram.org/bot12345:AAAbbbCCC-ddd/sendMessage: boom")
	got := sanitizeErrorMessage(err)
	if got != "post https://api.telegram.org/bot<redacted>/sendMessage: boom" {
		t.Fatalf("token not redacted: %s", got)
	}
}
