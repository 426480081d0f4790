package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm_SamePoint(t *testing.T) {
	points := [][2]float64{{14.5995, 120.9842}, {0, 0}, {-33.86, 151.2}, {90, 0}}
	for _, p := range points {
		assert.Equal(t, 0.0, DistanceKm(p[0], p[1], p[0], p[1]))
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	manilaLat, manilaLon := 14.5995, 120.9842
	cebuLat, cebuLon := 10.3157, 123.8854

	ab := DistanceKm(manilaLat, manilaLon, cebuLat, cebuLon)
	ba := DistanceKm(cebuLat, cebuLon, manilaLat, manilaLon)

	assert.InDelta(t, ab, ba, 1e-9)
	// Манила - Себу около 570 км
	assert.InDelta(t, 570, ab, 10)
}

func TestDistanceKm_ShortDistance(t *testing.T) {
	// Макати - Кесон-Сити, порядка 13 км
	d := DistanceKm(14.5547, 121.0244, 14.6760, 121.0437)
	assert.InDelta(t, 13.6, d, 0.5)
}

func TestDistanceKm_OneDegreeOnEquator(t *testing.T) {
	assert.InDelta(t, 111.19, DistanceKm(0, 0, 0, 1), 0.01)
}
