// Package dynamics provides level-dependent gain processors: a peak
// compressor, a brickwall limiter and an RMS noise gate.
//
// Gain curves are computed in the log2 domain. Building with the fastmath
// tag swaps the per-sample log2, exp2 and sqrt for algo-approx
// approximations.
package dynamics
