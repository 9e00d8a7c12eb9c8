package directions

import (
	"context"
	"sync"

	"github.com/paulmach/orb"

	"campground-nav-service/internal/domain"
)

// MockRouteProvider is a scriptable RouteProvider for tests and for local
// runs without an ORS key. By default it answers with a straight two-point
// route. Safe for concurrent use.
type MockRouteProvider struct {
	mu    sync.Mutex
	calls int
	err   error
	route *domain.Route
	gate  chan struct{}
}

func NewMockRouteProvider() *MockRouteProvider { return &MockRouteProvider{} }

// SetRoute fixes the route returned by every successful call.
func (m *MockRouteProvider) SetRoute(route domain.Route) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.route = &route
}

// SetError makes every call fail with err. Pass nil to clear.
func (m *MockRouteProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Gate makes subsequent calls block until the returned release func runs
// or the caller's context ends. Used to hold a request in flight.
func (m *MockRouteProvider) Gate() (release func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	gate := make(chan struct{})
	m.gate = gate
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// Calls reports how many CalculateRoute invocations have happened.
func (m *MockRouteProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockRouteProvider) CalculateRoute(
	ctx context.Context,
	start, end orb.Point,
	mode domain.TravelMode,
) (domain.Route, error) {
	m.mu.Lock()
	m.calls++
	err := m.err
	route := m.route
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.Route{}, ctx.Err()
		}
	}

	if err != nil {
		return domain.Route{}, err
	}
	if route != nil {
		return *route, nil
	}
	return NewStraightLineProvider().CalculateRoute(ctx, start, end, mode)
}
