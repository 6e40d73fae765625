package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_ZeroAtIdentity(t *testing.T) {
	p := Point{Lat: -12.0464, Lng: -77.0428}
	assert.Equal(t, 0.0, DistanceKm(p, p))
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := Point{Lat: -12.0464, Lng: -77.0428} // Lima
	b := Point{Lat: -16.4090, Lng: -71.5375} // Arequipa

	assert.Equal(t, DistanceKm(a, b), DistanceKm(b, a))
	assert.Greater(t, DistanceKm(a, b), 0.0)
}

func TestDistanceKm_KnownDistance(t *testing.T) {
	lima := Point{Lat: -12.0464, Lng: -77.0428}
	arequipa := Point{Lat: -16.4090, Lng: -71.5375}

	// ~766 km en línea recta; toleramos el redondeo a un decimal.
	d := DistanceKm(lima, arequipa)
	assert.InDelta(t, 766, d, 5)
}

func TestRankByDistance_NonDecreasing(t *testing.T) {
	ref := FallbackCenter

	type clinic struct {
		name string
		at   Point
	}
	items := []clinic{
		{"far", Point{Lat: -16.4090, Lng: -71.5375}},
		{"near", Point{Lat: -12.05, Lng: -77.05}},
		{"mid", Point{Lat: -13.5, Lng: -76.2}},
	}

	ranked := RankByDistance(ref, items, func(c clinic) Point { return c.at })

	assert.Len(t, ranked, 3)
	assert.Equal(t, "near", ranked[0].Item.name)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i].DistanceKm, ranked[i-1].DistanceKm)
	}
}

func TestWithinKm_FiltersByRadius(t *testing.T) {
	ref := FallbackCenter

	items := []Point{
		{Lat: -12.05, Lng: -77.05},  // a ~1 km
		{Lat: -16.4090, Lng: -71.5375}, // a cientos de km
	}

	ranked := RankByDistance(ref, items, func(p Point) Point { return p })
	near := WithinKm(ranked, 5)

	assert.Len(t, near, 1)
	assert.LessOrEqual(t, near[0].DistanceKm, 5.0)
}
