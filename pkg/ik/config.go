package ik

// Config holds the hill-climb parameters
type Config struct {
	StartStep float64 // First step size in degrees (or scene units for moves)
	MinStep   float64 // Iteration stops once the step drops to this
	Decay     float64 // Step multiplier per iteration
	Probe     float64 // Size of the direction probe
	Epsilon   float64 // Tolerance for limit and constraint checks
}

// DefaultConfig returns the editor's solver settings
func DefaultConfig() Config {
	return Config{
		StartStep: 5,
		MinStep:   0.1,
		Decay:     0.75,
		Probe:     0.001,
		Epsilon:   1e-5,
	}
}
