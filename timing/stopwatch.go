package timing

import "time"

// A Stopwatch measures a run as a whole and accumulates the time spent in
// each phase. The total is sampled once around the run, never summed from
// the phases.
type Stopwatch struct {
	clock    Clock
	record   Record
	runStart time.Time
	running  bool
	finished bool
}

// NewStopwatch creates a Stopwatch that reads the given clock.
func NewStopwatch(clock Clock) *Stopwatch {
	if clock == nil {
		clock = WallClock()
	}

	return &Stopwatch{clock: clock}
}

// StartRun samples the start of the run.
func (s *Stopwatch) StartRun() {
	if s.running || s.finished {
		panic("stopwatch already started")
	}

	s.running = true
	s.runStart = s.clock.Now()
}

// EndRun samples the end of the run and freezes the record.
func (s *Stopwatch) EndRun() {
	if !s.running {
		panic("stopwatch is not running")
	}

	s.record.Total = s.clock.Now().Sub(s.runStart)
	s.running = false
	s.finished = true
}

// StartPhase samples the start of a phase.
func (s *Stopwatch) StartPhase() time.Time {
	return s.clock.Now()
}

// EndPhase samples the end of a phase that started at start, adds the
// duration to the phase, and returns the end sample.
func (s *Stopwatch) EndPhase(p Phase, start time.Time) time.Time {
	end := s.clock.Now()
	s.record.add(p, end.Sub(start))

	return end
}

// RunStart returns the sample taken by StartRun.
func (s *Stopwatch) RunStart() time.Time {
	return s.runStart
}

// Record returns the accumulated times.
func (s *Stopwatch) Record() Record {
	return s.record
}
