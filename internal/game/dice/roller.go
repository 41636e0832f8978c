package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged draws.
// Every draw is logged at debug level so encounter, critical-hit, and loot
// decisions can be audited after the fact.
//
// Roller satisfies Source.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the underlying Source and logs the result.
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("dice draw",
		zap.String("kind", "intn"),
		zap.Int("n", n),
		zap.Int("value", v),
	)
	return v
}

// Float64 draws from the underlying Source and logs the result.
func (r *Roller) Float64() float64 {
	v := r.src.Float64()
	r.logger.Debug("dice draw",
		zap.String("kind", "float64"),
		zap.Float64("value", v),
	)
	return v
}

// Chance reports whether a single Float64 draw from src fell below p.
//
// Postcondition: exactly one value is drawn from src. p >= 1 always succeeds;
// p <= 0 never succeeds.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
