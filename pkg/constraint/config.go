package constraint

// Config holds the anatomical bounds used by the evaluators
type Config struct {
	// Hip
	HipBumper    float64 // Distance along the leg image x axis probed against the pelvis
	HipTurnLimit float64 // Maximum leg turn in degrees (symmetric)

	// Shoulder
	ShoulderReach     float64 // Distance along the arm image y axis probed against the torso
	ShoulderClearance float64 // How far the probe may cross the torso midplane
	ShoulderBack      float64 // Probe x below which a raised arm counts as reaching behind the back
	ShoulderTurnLimit float64 // Maximum arm turn in degrees (symmetric)

	// Tolerance for the greedy accept test
	Epsilon float64
}

// DefaultConfig returns the bounds of the reference mannequin
func DefaultConfig() Config {
	return Config{
		HipBumper:    5,
		HipTurnLimit: 60,

		ShoulderReach:     15,
		ShoulderClearance: 3,
		ShoulderBack:      -7,
		ShoulderTurnLimit: 90,

		Epsilon: 1e-5,
	}
}
