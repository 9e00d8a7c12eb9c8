package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/events"
	"campground-nav-service/internal/ports"
)

// SessionConfig carries everything needed to start navigating one route.
type SessionConfig struct {
	Route domain.Route
	// Destination overrides the route's final point as the reroute target.
	// Leave nil to use the route geometry's end.
	Destination *orb.Point
	Mode        domain.TravelMode
	// Cooldown between reroute attempts, zero for the default.
	Cooldown time.Duration
}

// NavigationSession owns one traveler's navigation lifecycle. It consumes a
// position stream, runs the tracker and reroute policy on a single
// goroutine, and publishes progress and events on the bus. Tracker and
// policy state is only ever touched from that goroutine.
type NavigationSession struct {
	id      string
	tracker *RouteTracker
	policy  *ReroutePolicy
	source  ports.PositionSource
	bus     *events.Bus
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	lastPos        domain.Position
	offRouteActive bool
}

// StartNavigationSession wires a session and launches its loop. The session
// runs until the source ends, ctx is canceled, or Stop is called.
func StartNavigationSession(
	ctx context.Context,
	cfg SessionConfig,
	source ports.PositionSource,
	provider ports.RouteProvider,
	bus *events.Bus,
	logger *zap.Logger,
) (*NavigationSession, error) {
	if source == nil {
		return nil, errors.New("start session: position source is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Route.Mode == "" {
		cfg.Route.Mode = cfg.Mode
	}

	id := uuid.NewString()
	logger = logger.With(zap.String("session_id", id))

	s := &NavigationSession{
		id:     id,
		source: source,
		bus:    bus,
		logger: logger,
		done:   make(chan struct{}),
	}

	s.policy = NewReroutePolicy(provider, logger, cfg.Cooldown)
	s.policy.SetRealSource(source.Real())
	if cfg.Destination != nil {
		s.policy.SetDestination(*cfg.Destination, cfg.Mode)
	} else if end, ok := cfg.Route.Destination(); ok {
		s.policy.SetDestination(end, cfg.Mode)
	}

	s.tracker = NewRouteTracker(cfg.Route, TrackerCallbacks{
		OnStepChange:    s.onStepChange,
		OnRouteComplete: s.onRouteComplete,
		OnOffRoute:      s.onOffRoute,
	})

	runCtx, cancel := context.WithCancel(ctx)
	s.ctx, s.cancel = runCtx, cancel

	positions, err := source.Positions(runCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start session: open position stream: %w", err)
	}

	go s.run(runCtx, positions)

	logger.Info("navigation session started",
		zap.String("mode", string(cfg.Mode)),
		zap.Int("route_points", len(cfg.Route.Geometry)),
		zap.Int("instructions", len(cfg.Route.Instructions)),
		zap.Bool("real_source", source.Real()))
	return s, nil
}

func (s *NavigationSession) run(ctx context.Context, positions <-chan domain.Position) {
	defer close(s.done)
	defer s.cancel()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("navigation session stopped", zap.String("reason", "canceled"))
			return

		case pos, ok := <-positions:
			if !ok {
				s.logger.Info("navigation session stopped", zap.String("reason", "position stream ended"))
				return
			}
			s.lastPos = pos
			progress := s.tracker.UpdatePosition(pos)
			if !progress.OffRoute {
				s.offRouteActive = false
			}
			s.publishProgress(progress)

		case res := <-s.policy.Results():
			route, ok := s.policy.Apply(res)
			if !ok {
				if res.Err != nil {
					s.publishEvent(events.NavigationEvent{
						Type:  events.TypeRerouteFailed,
						Error: res.Err.Error(),
					})
				}
				continue
			}
			s.tracker.UpdateRoute(route)
			s.offRouteActive = false
			s.logger.Info("reroute applied",
				zap.Float64("distance_m", route.DistanceMeters),
				zap.Int("instructions", len(route.Instructions)),
				zap.String("source", route.Source))
			s.publishEvent(events.NavigationEvent{
				Type:  events.TypeRerouted,
				Route: &route,
			})
		}
	}
}

// Tracker callbacks. These run inside UpdatePosition on the session
// goroutine, so touching policy state here is safe.

func (s *NavigationSession) onStepChange(step int, instruction string) {
	s.logger.Info("step advanced", zap.Int("step", step), zap.String("instruction", instruction))
	s.publishEvent(events.NavigationEvent{
		Type:        events.TypeStepChanged,
		Step:        step,
		Instruction: instruction,
	})
}

func (s *NavigationSession) onRouteComplete() {
	s.logger.Info("destination reached")
	s.publishEvent(events.NavigationEvent{Type: events.TypeArrived})
}

func (s *NavigationSession) onOffRoute(distance float64) {
	if !s.offRouteActive {
		s.offRouteActive = true
		s.publishEvent(events.NavigationEvent{
			Type:     events.TypeOffRoute,
			Distance: distance,
		})
	}
	if s.policy.HandleOffRoute(s.ctx, s.lastPos) {
		s.publishEvent(events.NavigationEvent{
			Type:     events.TypeRerouteStarted,
			Distance: distance,
		})
	}
}

func (s *NavigationSession) publishProgress(p domain.Progress) {
	if s.bus == nil {
		return
	}
	update := events.ProgressUpdate{SessionID: s.id, At: time.Now(), Progress: p}
	if err := s.bus.Publish(events.TopicProgress, update); err != nil {
		s.logger.Warn("publish progress", zap.Error(err))
	}
}

func (s *NavigationSession) publishEvent(ev events.NavigationEvent) {
	if s.bus == nil {
		return
	}
	ev.SessionID = s.id
	ev.At = time.Now()
	if err := s.bus.Publish(events.TopicEvents, ev); err != nil {
		s.logger.Warn("publish event", zap.Error(err))
	}
}

// ID returns the session identifier carried by every published frame.
func (s *NavigationSession) ID() string { return s.id }

// Done closes when the session loop has exited.
func (s *NavigationSession) Done() <-chan struct{} { return s.done }

// Stop cancels the session and waits for its loop to exit.
func (s *NavigationSession) Stop() {
	s.cancel()
	<-s.done
}
