//go:build fastmath

package dynamics

import (
	"math"

	"github.com/meko-christian/algo-approx"
)

// The detector and gain computer run per sample; approximations trade a
// little curve accuracy for speed.

func log2(x float64) float64 { return approx.FastLog(x) / math.Ln2 }

func pow2(x float64) float64 { return approx.FastExp(x * math.Ln2) }

func sqrt(x float64) float64 { return approx.FastSqrt(x) }
