package protect

import (
	"fmt"
	"math/rand/v2"
)

const (
	// randomLowerFrac and randomUpperFrac bound the random insertion point
	// to the interior of the original video.
	randomLowerFrac = 0.10
	randomUpperFrac = 0.90

	// minSplittableSec is the original duration below which middle/random
	// plans degrade to a plain midpoint split.
	minSplittableSec = 2.0
)

// Strategy selects how the composer merges the clip with the original.
type Strategy string

const (
	// StrategyConcat joins exactly two streams: clip+original or
	// original+clip. Used when the offset is at either boundary.
	StrategyConcat Strategy = "concat"
	// StrategySplit cuts the original at the offset and joins
	// segment1+clip+segment2. Used for interior offsets.
	StrategySplit Strategy = "split"
)

// Plan is the resolved insertion decision for one job.
type Plan struct {
	// Position is the symbolic position the plan was derived from.
	Position Position
	// OffsetSec is the concrete insertion timestamp in seconds.
	OffsetSec float64
	// OriginalSec is the probed duration of the original video.
	OriginalSec float64
}

// Strategy returns the composition strategy implied by the offset:
// boundary offsets concatenate, interior offsets split the original.
func (p Plan) Strategy() Strategy {
	if p.OffsetSec <= 0 || p.OffsetSec >= p.OriginalSec {
		return StrategyConcat
	}
	return StrategySplit
}

// ClipFirst reports whether the clip precedes the original in a
// concatenation plan.
func (p Plan) ClipFirst() bool {
	return p.OffsetSec <= 0
}

// PlanInsertion maps a symbolic position and the original's duration to a
// concrete insertion offset. The random draw is made once per call and is
// not reproducible across jobs. Originals too short to split cleanly are
// cut at their midpoint regardless of how small that makes either segment;
// the composer skips near-zero segments rather than failing.
func PlanInsertion(position Position, originalSec float64) (Plan, error) {
	if originalSec <= 0 {
		return Plan{}, fmt.Errorf("%w: original duration %.3fs is not positive", ErrValidation, originalSec)
	}

	plan := Plan{Position: position, OriginalSec: originalSec}

	switch position {
	case PositionStart:
		plan.OffsetSec = 0
	case PositionEnd:
		plan.OffsetSec = originalSec
	case PositionMiddle:
		plan.OffsetSec = originalSec / 2
	case PositionRandom:
		if originalSec < minSplittableSec {
			plan.OffsetSec = originalSec / 2
		} else {
			lo := originalSec * randomLowerFrac
			hi := originalSec * randomUpperFrac
			plan.OffsetSec = lo + rand.Float64()*(hi-lo)
		}
	default:
		return Plan{}, fmt.Errorf("%w: unknown position %q", ErrValidation, position)
	}

	return plan, nil
}
