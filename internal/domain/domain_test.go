package domain

import (
	"fmt"
	"time"
)

// stepClock returns base, base+step, base+2*step, ...
type stepClock struct {
	now  time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC), step: time.Second}
}

func (c *stepClock) Now() time.Time {
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

// seqIDs returns n-1, n-2, ...
type seqIDs struct {
	n int
}

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("n-%d", s.n)
}

// newTestRecord builds a record with actions ["A", ["B", "C"], "D"] and
// results ["R"]. Identities: record rec, A n-1, list n-2, B n-3, C n-4,
// D n-5, R n-6.
func newTestRecord() (*TaskRecord, *stepClock) {
	clock := newStepClock()
	rec := NewTaskRecord("rec", clock)
	b := rec.Builder(&seqIDs{})
	rec.SetTrees(
		b.Build(KindAction, OutlineOf("A", []any{"B", "C"}, "D")),
		b.Build(KindResult, OutlineOf("R")),
	)
	return rec, clock
}
