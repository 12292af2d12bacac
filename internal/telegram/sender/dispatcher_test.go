package sender

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"
)

func TestDoRetriesTransientErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})
	defer d.Close()

	var calls atomic.Int32
	err := d.Do(context.Background(), "test", func() error {
		if calls.Add(1) < 3 {
			return &net.OpError{Op: "dial", Err: errors.New("connection refused")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, MaxRetries: 3, RetryBackoff: time.Millisecond})
	defer d.Close()

	permanent := errors.New("telegram: bot was blocked by the user (403)")
	var calls atomic.Int32
	err := d.Do(context.Background(), "test", func() error {
		calls.Add(1)
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v, want %v", err, permanent)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
	if d.ErrorCount() != 1 {
		t.Fatalf("error count = %d, want 1", d.ErrorCount())
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1})
	d.Close()
	err := d.Enqueue(context.Background(), "test", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("err = %v, want ErrQueueClosed", err)
	}
}

func TestEnqueueDrainsOnClose(t *testing.T) {
	d := NewDispatcher(Options{Workers: 2})

	var done atomic.Int32
	for i := 0; i < 10; i++ {
		if err := d.Enqueue(context.Background(), "test", func() error {
			done.Add(1)
			return nil
		}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	d.Close()
	if got := done.Load(); got != 10 {
		t.Fatalf("completed jobs = %d, want 10", got)
	}
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind string
	}{
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"dns", &net.DNSError{Name: "api.telegram.org"}, "dns"},
		{"dial", &net.OpError{Op: "dial", Err: errors.New("refused")}, "dial"},
		{"http status suffix", errors.New("telegram: Bad Request (400)"), "http_4xx"},
		{"server status suffix", errors.New("telegram: Internal (502)"), "http_5xx"},
		{"unknown", errors.New("weird"), "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyError(tc.err); got != tc.kind {
				t.Fatalf("classifyError = %q, want %q", got, tc.kind)
			}
		})
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	err := errors.New(`Post "https://api.telegram.org/bot123456:AAAbbbCCC-ddd/sendMessage": timeout`)
	got := sanitizeErrorMessage(err)
	if want := `Post "https://api.telegram.org/bot<redacted>/sendMessage": timeout`; got != want {
		t.Fatalf("sanitized = %q, want %q", got, want)
	}
}
