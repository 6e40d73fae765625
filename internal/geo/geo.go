package geo

import (
	"math"
	"sort"
)

// Radio medio de la Tierra en km (haversine estándar).
const earthRadiusKm = 6371.0

// FallbackCenter es el centro de ciudad usado cuando el cliente no
// manda coordenadas (Lima, Perú).
var FallbackCenter = Point{Lat: -12.0464, Lng: -77.0428}

type Point struct {
	Lat float64
	Lng float64
}

// IsZero trata (0,0) como "sin coordenadas". Ningún usuario real está
// en el golfo de Guinea exacto, y el cliente manda 0 cuando no hay pin.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// DistanceKm calcula la distancia de círculo máximo entre dos puntos,
// redondeada a un decimal. Es simétrica y cero cuando a == b.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return round1(earthRadiusKm * c)
}

// Ranked anota un elemento arbitrario con su distancia al punto de referencia.
type Ranked[T any] struct {
	Item       T
	DistanceKm float64
}

// RankByDistance anota cada candidato con su distancia a ref y devuelve
// la lista ordenada ascendente. Se recalcula completo en cada fetch;
// no hay índice espacial ni updates incrementales.
func RankByDistance[T any](ref Point, items []T, at func(T) Point) []Ranked[T] {
	out := make([]Ranked[T], 0, len(items))
	for _, it := range items {
		out = append(out, Ranked[T]{
			Item:       it,
			DistanceKm: DistanceKm(ref, at(it)),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// WithinKm filtra un ranking ya calculado (toggle "a menos de N km").
func WithinKm[T any](ranked []Ranked[T], maxKm float64) []Ranked[T] {
	out := make([]Ranked[T], 0, len(ranked))
	for _, r := range ranked {
		if r.DistanceKm <= maxKm {
			out = append(out, r)
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
