// Package smoothrate turns a fractional per-second rate into a whole
// count per step by truncating, with no random rounding: the leftover
// fraction carries forward so the long-run average tracks the rate
// exactly.
package smoothrate

// SmoothRate accumulates rate*dt across calls to Next and emits the
// integer part each time, carrying the remainder forward. It is not
// safe for concurrent use.
type SmoothRate struct {
	rate      float64
	remainder float64
}

// New creates a SmoothRate for the given units-per-second rate.
func New(rate float64) *SmoothRate {
	return &SmoothRate{rate: rate}
}

// Next advances by dt seconds and returns how many whole units occurred,
// deterministically carrying the fractional remainder into the next call.
func (s *SmoothRate) Next(dt float64) int {
	n := s.rate*dt + s.remainder
	quotient := int(n)
	s.remainder = n - float64(quotient)
	return quotient
}
