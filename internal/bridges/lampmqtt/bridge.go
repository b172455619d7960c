package lampmqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-lamps/internal/lamp"
)

const (
	// commandTimeout bounds applying one inbound command.
	commandTimeout = 5 * time.Second

	// stateQueueSize is how many state changes may wait for the publisher.
	stateQueueSize = 64
)

// MQTTClient is the subset of *mqtt.Client used by the bridge.
type MQTTClient interface {
	PublishRetained(topic string, payload []byte) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Updater applies a validated lamp update. Satisfied by *lamp.Service.
type Updater interface {
	Update(ctx context.Context, l lamp.Lamp, source string) (lamp.Lamp, error)
}

// Logger is the logging interface used by the bridge.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// Bridge publishes lamp changes and applies lamp commands over MQTT.
// It implements lamp.Observer.
//
// Thread Safety: All methods are safe for concurrent use.
type Bridge struct {
	mqtt   MQTTClient
	lamps  Updater
	qos    byte
	logger Logger

	ctx   context.Context
	ctxMu sync.RWMutex

	// pending feeds the publisher goroutine. Command handlers run on the
	// MQTT client's router goroutine and must never wait for a publish ack.
	pending chan lamp.Change
}

// New creates a bridge. qos applies to the command subscription; state is
// published at the client's configured QoS.
func New(client MQTTClient, lamps Updater, qos byte) *Bridge {
	return &Bridge{
		mqtt:   client,
		lamps:  lamps,
		qos:    qos,
		logger:  noopLogger{},
		ctx:     context.Background(),
		pending: make(chan lamp.Change, stateQueueSize),
	}
}

// SetLogger sets the logger for the bridge.
func (b *Bridge) SetLogger(logger Logger) {
	b.logger = logger
}

// Start subscribes to lamp commands and launches the state publisher.
// Changes queued before Start are published once it runs. Commands received
// after ctx is cancelled fail without touching the store.
func (b *Bridge) Start(ctx context.Context) error {
	b.ctxMu.Lock()
	b.ctx = ctx
	b.ctxMu.Unlock()

	topic := mqtt.Topics{}.AllLampCommands()
	if err := b.mqtt.Subscribe(topic, b.qos, b.handleCommand); err != nil {
		return fmt.Errorf("subscribe to commands: %w", err)
	}
	go b.publishLoop(ctx)
	b.logger.Info("subscribed to lamp commands", "topic", topic)
	return nil
}

// LampChanged queues the change for publishing as retained state. It never
// blocks; a change is dropped with a warning if the queue is full.
// Implements lamp.Observer.
func (b *Bridge) LampChanged(_ context.Context, change lamp.Change) {
	select {
	case b.pending <- change:
	default:
		b.logger.Warn("state queue full, dropping lamp state", "lamp", change.Name, "status", change.Status)
	}
}

// publishLoop publishes queued changes in order until ctx is cancelled.
func (b *Bridge) publishLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-b.pending:
			b.publishState(change)
		}
	}
}

// publishState publishes one change retained on lamps/state/<lamp>.
func (b *Bridge) publishState(change lamp.Change) {
	payload, err := json.Marshal(stateMessage(change))
	if err != nil {
		b.logger.Warn("encoding lamp state failed", "lamp", change.Name, "error", err)
		return
	}
	topic := mqtt.Topics{}.LampState(string(change.Name))
	if err := b.mqtt.PublishRetained(topic, payload); err != nil {
		b.logger.Warn("publishing lamp state failed", "lamp", change.Name, "error", err)
	}
}

// handleCommand applies a command message. Errors are logged by the MQTT client.
func (b *Bridge) handleCommand(topic string, payload []byte) error {
	kind, rawName, ok := mqtt.ParseLampTopic(topic)
	if !ok || kind != mqtt.KindCommand {
		return fmt.Errorf("%w: %s", ErrInvalidTopic, topic)
	}
	name, err := lamp.ParseName(rawName)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	var cmd CommandMessage
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCommand, err)
	}

	b.ctxMu.RLock()
	parent := b.ctx
	b.ctxMu.RUnlock()
	ctx, cancel := context.WithTimeout(parent, commandTimeout)
	defer cancel()

	if _, err := b.lamps.Update(ctx, lamp.Lamp{Name: name, Status: cmd.Status}, lamp.SourceMQTT); err != nil {
		return fmt.Errorf("applying command for %s: %w", name, err)
	}
	return nil
}
