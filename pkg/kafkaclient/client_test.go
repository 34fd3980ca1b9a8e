package kafkaclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/paulmach/orb/maptile"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// mockWriter captures written messages in place of a Kafka connection.
type mockWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (mw *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if mw.err != nil {
		return mw.err
	}
	mw.messages = append(mw.messages, msgs...)
	return nil
}

func (mw *mockWriter) Close() error {
	mw.closed = true
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestPublisherTileWritten(t *testing.T) {
	mw := &mockWriter{}
	p := newPublisher(mw, "landmarks", true, testLogger())

	tile := maptile.New(3456, 2578, 10)
	if err := p.TileWritten(context.Background(), tile); err != nil {
		t.Fatalf("TileWritten: %v", err)
	}

	if len(mw.messages) != 1 {
		t.Fatalf("wrote %d messages, want 1", len(mw.messages))
	}
	msg := mw.messages[0]
	if string(msg.Key) != "landmarks-3456-2578-10" {
		t.Errorf("message key = %q, want the layer-qualified tile name", msg.Key)
	}

	var event TileEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatalf("event is not valid JSON: %v", err)
	}
	if event.Zoom != 10 || event.TileX != 3456 || event.TileY != 2578 {
		t.Errorf("event key = (%d, %d, %d), want (10, 3456, 2578)", event.Zoom, event.TileX, event.TileY)
	}
	if event.Image != "png/10/tile-3456-2578.png" {
		t.Errorf("event image = %q", event.Image)
	}
	if event.Fragment != "js/10/tile-3456-2578.js" {
		t.Errorf("event fragment = %q, want the jsonp script key", event.Fragment)
	}
	if event.GeneratedAt.IsZero() {
		t.Error("event timestamp is zero")
	}
}

func TestPublisherWriteFailure(t *testing.T) {
	mw := &mockWriter{err: errors.New("broker gone")}
	p := newPublisher(mw, "", false, testLogger())

	if err := p.TileWritten(context.Background(), maptile.New(0, 0, 1)); err == nil {
		t.Error("expected the writer error to surface")
	}
}

func TestPublisherClose(t *testing.T) {
	mw := &mockWriter{}
	p := newPublisher(mw, "", false, testLogger())

	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !mw.closed {
		t.Error("Close did not close the underlying writer")
	}
}
