package capture

import "math"

// rms computes the root-mean-square of a frame of normalized amplitudes.
// An empty frame reads as complete silence.
func rms(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}
