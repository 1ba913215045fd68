package engine

// Combine multiplies the interpolated aurora probability, cloud
// attenuation, and darkness factor into a bounded visibility score.
// Zero cloud cover and full darkness reproduce the raw probability
// exactly; full overcast or full daylight force the score to 0.
// Pure function, clamped to [0,100].
func Combine(auroraProbability float64, cloudCoverPercent int, darkness float64) float64 {
	score := auroraProbability * (1 - float64(cloudCoverPercent)/100) * darkness
	return clampFloat(score, 0, 100)
}
