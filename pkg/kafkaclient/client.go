// Package kafkaclient publishes tile generation events so downstream
// consumers (CDN cache invalidators, search indexers) learn which tiles of a
// layer were regenerated.
package kafkaclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paulmach/orb/maptile"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"hotspots/internal/keys"
)

// KafkaWriter defines the interface for a Kafka message writer.
// This allows for easy mocking in unit tests.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// TileEvent is the message body published for every persisted tile.
type TileEvent struct {
	Name        string    `json:"name"`
	Zoom        int       `json:"zoom"`
	TileX       int       `json:"tileX"`
	TileY       int       `json:"tileY"`
	Image       string    `json:"image"`
	Fragment    string    `json:"fragment"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Publisher emits one TileEvent per fully persisted tile. It satisfies the
// engine's Notifier contract and is safe for concurrent use.
type Publisher struct {
	writer   KafkaWriter
	baseName string
	jsonp    bool
	log      *logrus.Logger
}

// NewPublisher connects a Publisher to the given broker and topic. Events
// are keyed by the layer-qualified tile name so per-tile ordering survives
// partitioning.
func NewPublisher(broker, topic, baseName string, jsonp bool, log *logrus.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(broker),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
	return newPublisher(writer, baseName, jsonp, log)
}

func newPublisher(writer KafkaWriter, baseName string, jsonp bool, log *logrus.Logger) *Publisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Publisher{writer: writer, baseName: baseName, jsonp: jsonp, log: log}
}

// TileWritten publishes the event for one tile.
func (p *Publisher) TileWritten(ctx context.Context, tile maptile.Tile) error {
	event := TileEvent{
		Name:        keys.TileName(p.baseName, tile),
		Zoom:        int(tile.Z),
		TileX:       int(tile.X),
		TileY:       int(tile.Y),
		Image:       keys.TileImage(tile),
		Fragment:    keys.TileFragment(tile, p.jsonp),
		GeneratedAt: time.Now().UTC(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling tile event: %w", err)
	}

	msg := kafka.Message{Key: []byte(event.Name), Value: value}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing tile event %s: %w", event.Name, err)
	}
	p.log.Debugf("published tile event %s", event.Name)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
