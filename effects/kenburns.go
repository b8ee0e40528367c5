package effects

import (
	"math"
	"math/rand"

	"faceless-pipeline/types"
)

// panPaths are normalized start/end focus points for the zoompan camera.
// {0.5,0.5} is frame center.
var panPaths = [][4]float64{
	{0.5, 0.5, 0.5, 0.5},
	{0.3, 0.5, 0.7, 0.5},
	{0.7, 0.5, 0.3, 0.5},
	{0.5, 0.3, 0.5, 0.7},
	{0.5, 0.7, 0.5, 0.3},
}

// NewKenBurns picks a random zoom direction and pan path for a still image.
// The rng is injected so a seeded source reproduces the same effect.
func NewKenBurns(rng *rand.Rand, durationSec float64, fps int, maxZoom float64) types.ZoomPanEffect {
	if maxZoom < 1.05 {
		maxZoom = 1.05
	}

	var zoomStart, zoomEnd float64
	if rng.Intn(2) == 0 {
		// zoom in
		zoomStart = 1.0
		zoomEnd = 1.05 + rng.Float64()*(maxZoom-1.05)
	} else {
		// zoom out
		zoomStart = 1.05 + rng.Float64()*(maxZoom-1.05)
		zoomEnd = 1.0
	}

	pan := panPaths[rng.Intn(len(panPaths))]

	return types.ZoomPanEffect{
		ZoomStart:      zoomStart,
		ZoomEnd:        zoomEnd,
		PanXStart:      pan[0],
		PanYStart:      pan[1],
		PanXEnd:        pan[2],
		PanYEnd:        pan[3],
		DurationFrames: int(math.Round(durationSec * float64(fps))),
	}
}
