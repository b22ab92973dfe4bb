// Package common provides timing and memory helpers shared by the scan loop.
package common

import (
	"fmt"
	"strings"
	"time"
)

// Stage is one named, measured span of a Timer.
type Stage struct {
	Name     string
	Duration time.Duration
}

// Timer measures consecutive stages of one iteration. Each Mark closes the
// span that started at the previous Mark (or at creation).
type Timer struct {
	start  time.Time
	last   time.Time
	stages []Stage
	now    func() time.Time
}

// NewTimer creates a timer starting now.
func NewTimer() *Timer {
	return newTimer(time.Now)
}

func newTimer(now func() time.Time) *Timer {
	t := now()
	return &Timer{start: t, last: t, now: now}
}

// Mark ends the current stage under name and returns its duration.
func (t *Timer) Mark(name string) time.Duration {
	n := t.now()
	d := n.Sub(t.last)
	t.last = n
	t.stages = append(t.stages, Stage{Name: name, Duration: d})
	return d
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return t.now().Sub(t.start)
}

// Stages returns the recorded stages in order.
func (t *Timer) Stages() []Stage { return t.stages }

// String formats the stages as "name=duration" pairs.
func (t *Timer) String() string {
	parts := make([]string, 0, len(t.stages))
	for _, s := range t.stages {
		parts = append(parts, fmt.Sprintf("%s=%v", s.Name, s.Duration))
	}
	return strings.Join(parts, " ")
}
