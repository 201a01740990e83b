package recorder

import (
	"time"
)

// ShouldTick reports whether now is on a cadence boundary (seconds within
// the minute divisible by interval) in a whole second other than last's.
func ShouldTick(now, last time.Time, interval int) bool {
	return now.Second()%interval == 0 && now.Unix() != last.Unix()
}

// Scheduler fires once per cadence boundary (:00/:15/:30/:45 by default).
// Boundaries missed while a tick was running are skipped, not caught up.
type Scheduler struct {
	interval int // seconds, divides 60
	poll     time.Duration
	now      func() time.Time
}

func NewScheduler(interval int, poll time.Duration) *Scheduler {
	if interval <= 0 || 60%interval != 0 {
		interval = 15
	}
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}
	return &Scheduler{
		interval: interval,
		poll:     poll,
		now:      time.Now,
	}
}

func (s *Scheduler) ShouldTick(now, last time.Time) bool {
	return ShouldTick(now, last, s.interval)
}

// nextDelay is how long to sleep before checking again: until the next
// boundary, or one poll period if that is closer than a poll period away.
func (s *Scheduler) nextDelay(now time.Time) time.Duration {
	step := time.Duration(s.interval) * time.Second
	d := now.Truncate(step).Add(step).Sub(now)
	if d < s.poll {
		return s.poll
	}
	return d
}

// Wait blocks until the next boundary not yet fired for. Returns false when
// stop is signalled first.
func (s *Scheduler) Wait(stop <-chan bool, last time.Time) (time.Time, bool) {
	for {
		now := s.now()
		if s.ShouldTick(now, last) {
			return now, true
		}

		timer := time.NewTimer(s.nextDelay(now))
		select {
		case <-stop:
			timer.Stop()
			return time.Time{}, false
		case <-timer.C:
		}
	}
}
