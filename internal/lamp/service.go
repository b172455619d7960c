package lamp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/gray-logic-lamps/internal/infrastructure/kvstore"
)

// defaultStoreTimeout bounds a store call when Options.StoreTimeout is unset.
const defaultStoreTimeout = 2 * time.Second

// Logger defines the logging interface used by the Service.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Observer is notified after a lamp status has been written to the store.
// LampChanged runs on the writer's goroutine and must not block for long.
type Observer interface {
	LampChanged(ctx context.Context, change Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, change Change)

// LampChanged calls f(ctx, change).
func (f ObserverFunc) LampChanged(ctx context.Context, change Change) {
	f(ctx, change)
}

// Options configures a Service.
type Options struct {
	// StoreTimeout bounds every individual store call.
	StoreTimeout time.Duration

	// StrictHardware makes ListHardware fail on malformed stored values
	// instead of reporting them as off.
	StrictHardware bool
}

// Service reads and writes lamp state through a kvstore.Store.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
//   - No lamp state is held in memory; the store is the source of truth.
type Service struct {
	store   kvstore.Store
	opts    Options
	logger  Logger
	now     func() time.Time
	obsMu   sync.RWMutex
	observe []Observer
}

// NewService creates a lamp service over store.
func NewService(store kvstore.Store, opts Options) *Service {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	return &Service{
		store:  store,
		opts:   opts,
		logger: noopLogger{},
		now:    time.Now,
	}
}

// SetLogger sets the logger for the service.
func (s *Service) SetLogger(logger Logger) {
	s.logger = logger
}

// AddObserver registers o to be notified of every successful write.
func (s *Service) AddObserver(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observe = append(s.observe, o)
}

// Initialize sets every registry lamp to off.
//
// It must complete before the service accepts requests: afterwards every
// registry lamp has a status in the store.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - error: wrapping ErrStoreUnavailable if any write fails
func (s *Service) Initialize(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range registry {
		g.Go(func() error {
			if err := s.write(gctx, name, StatusOff); err != nil {
				return err
			}
			s.logger.Info("lamp reset", "lamp", name, "status", StatusOff)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("initialising lamps: %w", err)
	}

	for _, name := range registry {
		s.notify(ctx, Lamp{Name: name, Status: StatusOff}, SourceStartup)
	}
	return nil
}

// List returns every registry lamp with its status, in registry order.
//
// Any store failure or malformed stored value fails the whole call.
//
// Returns:
//   - []Lamp: One entry per registry lamp
//   - error: ErrStoreUnavailable or ErrMalformedState (wrapped)
func (s *Service) List(ctx context.Context) ([]Lamp, error) {
	raw, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	lamps := make([]Lamp, len(registry))
	for i, name := range registry {
		status, err := s.parseStored(name, raw[i])
		if err != nil {
			return nil, err
		}
		lamps[i] = Lamp{Name: name, Status: status}
	}
	return lamps, nil
}

// ListHardware returns every registry lamp in the compact hardware format,
// in registry order.
//
// Unless Options.StrictHardware is set, a stored value other than "on"
// (including a missing one) is reported as "0". Store failures always fail the call.
func (s *Service) ListHardware(ctx context.Context) ([]HardwareLamp, error) {
	if s.opts.StrictHardware {
		lamps, err := s.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]HardwareLamp, len(lamps))
		for i, l := range lamps {
			out[i] = hardware(l.Name, string(l.Status))
		}
		return out, nil
	}

	raw, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]HardwareLamp, len(registry))
	for i, name := range registry {
		if raw[i].found && Status(raw[i].value) != StatusOn && Status(raw[i].value) != StatusOff {
			s.logger.Warn("malformed lamp state reported as off", "lamp", name)
		}
		out[i] = hardware(name, raw[i].value)
	}
	return out, nil
}

// Get returns a single lamp with its status.
//
// Returns:
//   - Lamp: The lamp record
//   - error: ErrUnknownLamp, ErrStoreUnavailable or ErrMalformedState (wrapped)
func (s *Service) Get(ctx context.Context, name Name) (Lamp, error) {
	if !name.Valid() {
		return Lamp{}, fmt.Errorf("%w: %q", ErrUnknownLamp, name)
	}

	v, err := s.read(ctx, name)
	if err != nil {
		return Lamp{}, err
	}
	status, err := s.parseStored(name, v)
	if err != nil {
		return Lamp{}, err
	}
	return Lamp{Name: name, Status: status}, nil
}

// Update writes the lamp's status and returns the record as stored.
//
// The record is validated before the store is touched, so an invalid
// record never causes a partial effect. Any status may follow any status.
//
// Parameters:
//   - ctx: Context for cancellation
//   - l: Lamp record to store
//   - source: Origin of the change (SourceAPI, SourceMQTT)
//
// Returns:
//   - Lamp: The stored record
//   - error: ErrUnknownLamp, ErrInvalidStatus or ErrStoreUnavailable (wrapped)
func (s *Service) Update(ctx context.Context, l Lamp, source string) (Lamp, error) {
	if err := l.Validate(); err != nil {
		return Lamp{}, err
	}

	if err := s.write(ctx, l.Name, l.Status); err != nil {
		return Lamp{}, err
	}

	s.logger.Info("lamp updated", "lamp", l.Name, "status", l.Status, "source", source)
	s.notify(ctx, l, source)
	return l, nil
}

// HealthCheck reports whether the store is reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// stored is a raw store read. found is false when the key does not exist.
type stored struct {
	value string
	found bool
}

// read fetches one lamp's raw value within the store timeout.
func (s *Service) read(ctx context.Context, name Name) (stored, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	v, err := s.store.Get(ctx, name.Key())
	switch {
	case err == nil:
		return stored{value: v, found: true}, nil
	case errors.Is(err, kvstore.ErrNotFound):
		return stored{}, nil
	default:
		return stored{}, fmt.Errorf("%w: reading %s: %w", ErrStoreUnavailable, name, err)
	}
}

// readAll fetches every registry lamp concurrently. Results are indexed by
// registry position; the first failure cancels the remaining reads.
func (s *Service) readAll(ctx context.Context) ([]stored, error) {
	out := make([]stored, len(registry))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range registry {
		g.Go(func() error {
			v, err := s.read(gctx, name)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseStored applies strict parsing to a raw read.
func (s *Service) parseStored(name Name, v stored) (Status, error) {
	if !v.found {
		return "", fmt.Errorf("%w: %s has no stored status", ErrMalformedState, name)
	}
	status, err := ParseStatus(v.value)
	if err != nil {
		s.logger.Error("malformed lamp state", "lamp", name)
		return "", fmt.Errorf("%w: %s holds %q", ErrMalformedState, name, v.value)
	}
	return status, nil
}

// write stores one lamp's status within the store timeout.
func (s *Service) write(ctx context.Context, name Name, status Status) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.StoreTimeout)
	defer cancel()

	if err := s.store.Set(ctx, name.Key(), string(status)); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrStoreUnavailable, name, err)
	}
	return nil
}

// notify tells every observer about a completed write.
func (s *Service) notify(ctx context.Context, l Lamp, source string) {
	s.obsMu.RLock()
	observers := s.observe
	s.obsMu.RUnlock()

	if len(observers) == 0 {
		return
	}
	change := Change{Lamp: l, Source: source, At: s.now().UTC()}
	for _, o := range observers {
		o.LampChanged(ctx, change)
	}
}
