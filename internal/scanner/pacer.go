package scanner

import "time"

// minWait keeps the GUI event pump alive.
const minWait = time.Millisecond

// Pacer decides how long each iteration waits for a key.
type Pacer struct {
	Budget   time.Duration
	Adaptive bool
}

// Next returns the wait in milliseconds after an iteration that took elapsed.
// It is never below 1 ms.
func (p Pacer) Next(elapsed time.Duration) int {
	wait := p.Budget
	if p.Adaptive {
		wait -= elapsed
	}
	if wait < minWait {
		wait = minWait
	}
	return int(wait / time.Millisecond)
}
