package services

import (
	"context"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"campground-nav-service/internal/domain"
	"campground-nav-service/internal/ports"
)

// DefaultRerouteCooldown spaces successive reroute requests. Seven seconds
// sits between GPS update cadence and the patience of someone walking the
// wrong way.
const DefaultRerouteCooldown = 7 * time.Second

// Reroute lifecycle states.
type RerouteState int

const (
	RerouteIdle RerouteState = iota
	RerouteInFlight
	RerouteCooldown
)

func (s RerouteState) String() string {
	switch s {
	case RerouteInFlight:
		return "in_flight"
	case RerouteCooldown:
		return "cooldown"
	default:
		return "idle"
	}
}

// Outcome of one reroute attempt, delivered on Results.
type RerouteResult struct {
	Route domain.Route
	Err   error

	generation uint64
}

// ReroutePolicy decides when an off-route traveler gets a fresh route and
// runs at most one provider request at a time. All methods must be called
// from the owning session goroutine; only the provider call itself runs
// concurrently, and it communicates back solely through the results channel.
type ReroutePolicy struct {
	provider ports.RouteProvider
	logger   *zap.Logger
	cooldown time.Duration
	now      func() time.Time

	destination *orb.Point
	mode        domain.TravelMode
	realSource  bool

	inFlight      bool
	cooldownUntil time.Time
	generation    uint64
	results       chan RerouteResult
}

func NewReroutePolicy(provider ports.RouteProvider, logger *zap.Logger, cooldown time.Duration) *ReroutePolicy {
	if cooldown <= 0 {
		cooldown = DefaultRerouteCooldown
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReroutePolicy{
		provider: provider,
		logger:   logger,
		cooldown: cooldown,
		now:      time.Now,
		results:  make(chan RerouteResult, 1),
	}
}

// SetDestination arms the policy. Without a destination every off-route
// report is dropped.
func (p *ReroutePolicy) SetDestination(dest orb.Point, mode domain.TravelMode) {
	d := dest
	p.destination = &d
	p.mode = mode
}

// SetRealSource marks whether fixes come from a physical GPS device.
// Simulated sources never trigger rerouting.
func (p *ReroutePolicy) SetRealSource(real bool) { p.realSource = real }

// State derives the lifecycle state from in-flight and cooldown
// bookkeeping. The cooldown is a deadline compared against the clock, so
// no timer handle can outlive the session.
func (p *ReroutePolicy) State() RerouteState {
	switch {
	case p.inFlight:
		return RerouteInFlight
	case p.now().Before(p.cooldownUntil):
		return RerouteCooldown
	default:
		return RerouteIdle
	}
}

// HandleOffRoute runs the guard chain for one off-route report and starts a
// provider request from the current raw position when every guard passes.
// It reports whether a request was started.
func (p *ReroutePolicy) HandleOffRoute(ctx context.Context, pos domain.Position) bool {
	if p.provider == nil || p.destination == nil {
		p.logger.Debug("reroute skipped: no destination")
		return false
	}
	if !p.realSource {
		p.logger.Debug("reroute skipped: simulated position source")
		return false
	}
	if p.inFlight || p.now().Before(p.cooldownUntil) {
		return false
	}

	p.inFlight = true
	gen := p.generation
	start, dest, mode := pos.Point, *p.destination, p.mode
	p.logger.Info("reroute started",
		zap.Float64("lat", start[1]),
		zap.Float64("lng", start[0]),
		zap.String("mode", string(mode)))

	go func() {
		route, err := p.provider.CalculateRoute(ctx, start, dest, mode)
		select {
		case p.results <- RerouteResult{Route: route, Err: err, generation: gen}:
		case <-ctx.Done():
		}
	}()
	return true
}

// Results delivers finished reroute attempts. The owning session feeds
// each one back through Apply.
func (p *ReroutePolicy) Results() <-chan RerouteResult { return p.results }

// Apply settles one attempt: the cooldown always starts, stale results are
// dropped, failures keep the active route. Only a fresh successful result
// is returned for adoption.
func (p *ReroutePolicy) Apply(res RerouteResult) (domain.Route, bool) {
	p.inFlight = false
	p.cooldownUntil = p.now().Add(p.cooldown)

	if res.generation != p.generation {
		p.logger.Debug("dropping stale reroute result")
		return domain.Route{}, false
	}
	if res.Err != nil {
		p.logger.Warn("reroute failed, keeping active route", zap.Error(res.Err))
		return domain.Route{}, false
	}

	p.generation++
	return res.Route, true
}

// Invalidate marks any in-flight request stale, for when the active route
// changes underneath the policy.
func (p *ReroutePolicy) Invalidate() { p.generation++ }
