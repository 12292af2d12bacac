package broadcast

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeSender struct {
	mu       sync.Mutex
	received map[int64]string
	failFor  map[int64]error
}

func newFakeSender() *fakeSender {
	return &fakeSender{
		received: make(map[int64]string),
		failFor:  make(map[int64]error),
	}
}

func (s *fakeSender) SendTo(_ context.Context, id int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[id]; ok {
		return err
	}
	s.received[id] = text
	return nil
}

type fakeLister struct{ ids []int64 }

func (l *fakeLister) AllIDs(context.Context) ([]int64, error) { return l.ids, nil }

func TestBroadcastToleratesFailingRecipient(t *testing.T) {
	sender := newFakeSender()
	sender.failFor[2] = errors.New("bot was blocked by the user")

	d := New(&fakeLister{ids: []int64{1, 2, 3}}, sender, Options{Workers: 2})
	if err := d.Broadcast(context.Background(), "hello"); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.received) != 2 {
		t.Fatalf("delivered = %d, want 2", len(sender.received))
	}
	for _, id := range []int64{1, 3} {
		if sender.received[id] != "hello" {
			t.Fatalf("recipient %d did not receive the message", id)
		}
	}
}

func TestBroadcastEmptyAudience(t *testing.T) {
	d := New(&fakeLister{}, newFakeSender(), Options{})
	if err := d.Broadcast(context.Background(), "hello"); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
}

type failingLister struct{}

func (failingLister) AllIDs(context.Context) ([]int64, error) {
	return nil, errors.New("db down")
}

func TestBroadcastPropagatesListError(t *testing.T) {
	d := New(failingLister{}, newFakeSender(), Options{})
	if err := d.Broadcast(context.Background(), "hello"); err == nil {
		t.Fatal("expected error when the id list cannot be read")
	}
}
