package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Base point inside the Sittard site.
var base = orb.Point{5.8687, 51.0032}

// offset displaces a point by meters east and north.
func offset(p orb.Point, east, north float64) orb.Point {
	mPerLat := 111319.49
	mPerLon := mPerLat * math.Cos(p[1]*math.Pi/180)
	return orb.Point{p[0] + east/mPerLon, p[1] + north/mPerLat}
}

func TestDistance(t *testing.T) {
	d := Distance(base, offset(base, 100, 0))
	assert.InDelta(t, 100, d, 1)

	d = Distance(base, offset(base, 30, 40))
	assert.InDelta(t, 50, d, 1)
}

func TestPathLength(t *testing.T) {
	line := orb.LineString{base, offset(base, 100, 0), offset(base, 100, 100)}
	assert.InDelta(t, 200, PathLength(line), 2)

	assert.Zero(t, PathLength(nil))
	assert.Zero(t, PathLength(orb.LineString{base}))
}

func TestProjectOnLine(t *testing.T) {
	line := orb.LineString{base, offset(base, 200, 0)}

	t.Run("midpoint offset north", func(t *testing.T) {
		proj, ok := ProjectOnLine(line, offset(base, 100, 30))
		require.True(t, ok)
		assert.Equal(t, 0, proj.Segment)
		assert.InDelta(t, 0.5, proj.Fraction, 0.01)
		assert.InDelta(t, 30, proj.Distance, 1)
		assert.InDelta(t, 100, Distance(line[0], proj.Point), 1)
	})

	t.Run("beyond the end clamps", func(t *testing.T) {
		proj, ok := ProjectOnLine(line, offset(base, 250, 10))
		require.True(t, ok)
		assert.InDelta(t, 1.0, proj.Fraction, 0.001)
		assert.InDelta(t, 0, Distance(proj.Point, line[1]), 1)
	})

	t.Run("before the start clamps", func(t *testing.T) {
		proj, ok := ProjectOnLine(line, offset(base, -50, 0))
		require.True(t, ok)
		assert.Zero(t, proj.Fraction)
		assert.InDelta(t, 50, proj.Distance, 1)
	})

	t.Run("single point line", func(t *testing.T) {
		proj, ok := ProjectOnLine(orb.LineString{base}, offset(base, 0, 40))
		require.True(t, ok)
		assert.Equal(t, base, proj.Point)
		assert.InDelta(t, 40, proj.Distance, 1)
	})

	t.Run("empty line", func(t *testing.T) {
		_, ok := ProjectOnLine(nil, base)
		assert.False(t, ok)
	})

	t.Run("non finite input", func(t *testing.T) {
		_, ok := ProjectOnLine(line, orb.Point{math.NaN(), 51.0})
		assert.False(t, ok)

		bad := orb.LineString{{math.NaN(), math.NaN()}, {math.Inf(1), 0}}
		_, ok = ProjectOnLine(bad, base)
		assert.False(t, ok)
	})
}

func TestDistanceAlong(t *testing.T) {
	line := orb.LineString{base, offset(base, 100, 0), offset(base, 200, 0)}

	proj, ok := ProjectOnLine(line, offset(base, 50, 10))
	require.True(t, ok)
	require.Equal(t, 0, proj.Segment)

	assert.Zero(t, DistanceAlong(line, proj, 0))
	assert.InDelta(t, 50, DistanceAlong(line, proj, 1), 2)
	assert.InDelta(t, 150, DistanceAlong(line, proj, 2), 2)
	assert.InDelta(t, 150, DistanceAlong(line, proj, 99), 2)
	assert.InDelta(t, 150, RemainingDistance(line, proj), 2)
}

func TestPointAlong(t *testing.T) {
	line := orb.LineString{base, offset(base, 100, 0), offset(base, 100, 100)}

	p, ok := PointAlong(line, 150)
	require.True(t, ok)
	assert.InDelta(t, 0, Distance(p, offset(base, 100, 50)), 2)

	p, ok = PointAlong(line, 0)
	require.True(t, ok)
	assert.Equal(t, line[0], p)

	p, ok = PointAlong(line, 10_000)
	require.True(t, ok)
	assert.Equal(t, line[2], p)

	_, ok = PointAlong(nil, 5)
	assert.False(t, ok)
}
