package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/soundforge/beatscan/internal/models"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishSampleEvent(t *testing.T) {
	b := NewBroker()
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishSampleEvent(&models.SampleRecord{Filename: "kick.wav", Path: "/lib/kick.wav"})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: sample.registered") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"path":"/lib/kick.wav"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishAfterClose(t *testing.T) {
	b := NewBroker()
	b.Close()
	// Must not panic or block.
	b.Publish(Event{Type: "sample.registered", Data: map[string]string{}})
	if b.ClientCount() != 0 {
		t.Error("closed broker should report 0 clients")
	}
}

func TestServeHTTPStreamsEvents(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(rec, req)
		close(done)
	}()

	// Wait for the subscription to land, then publish and disconnect.
	deadline := time.After(time.Second)
	for b.ClientCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("client never subscribed")
		case <-time.After(5 * time.Millisecond):
		}
	}
	b.Publish(Event{Type: "sample.registered", Data: map[string]string{"path": "a.wav"}})
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	if !strings.Contains(body, "event: sample.registered") {
		t.Errorf("stream missing event, got %q", body)
	}
	if rec.Header().Get("Content-Type") != "text/event-stream" {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}
}
