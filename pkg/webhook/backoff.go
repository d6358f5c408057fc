package webhook

import (
	"math/rand"
	"time"
)

// Backoff computes retry delays: Initial doubling up to Max, with a
// random jitter fraction added so a burst of failures does not retry in
// lockstep.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
	Jitter  float64
}

// DefaultBackoff starts at two seconds and caps at five minutes.
var DefaultBackoff = Backoff{
	Initial: 2 * time.Second,
	Max:     5 * time.Minute,
	Jitter:  0.2,
}

// Delay returns the wait before the given attempt number. Attempt 1 is
// the first retry.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	d := b.Initial
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= b.Max {
			d = b.Max
			break
		}
	}

	if b.Jitter > 0 {
		d += time.Duration(rand.Float64() * b.Jitter * float64(d))
		if d > b.Max {
			d = b.Max
		}
	}

	return d
}
