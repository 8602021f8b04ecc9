package stencil

import (
	"runtime"
	"sync"

	"github.com/sarchlab/heatbench/grid"
)

// StageParallel splits the interior rows into contiguous ranges, one per
// worker goroutine.
const StageParallel = "parallel"

func init() {
	Register(StageParallel, NewParallel)
}

// NewParallel creates a solver that sweeps disjoint row ranges concurrently.
// The sweep returns only after every worker has finished, so the boundary
// phase always sees a complete interior.
func NewParallel(opts Options) Solver {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	return newSolver(StageParallel, opts, &parallelSweeper{
		maxWorkers: workers,
	})
}

type rowRange struct {
	lo, hi int
}

type sweepJob struct {
	cur, next *grid.Grid
	r         float64
	rows      rowRange
}

type parallelSweeper struct {
	maxWorkers int

	ranges    []rowRange
	jobChan   chan sweepJob
	waitGroup sync.WaitGroup
}

func (s *parallelSweeper) begin(p Params) {
	s.ranges = partitionRows(p.Size, s.maxWorkers)
	s.jobChan = make(chan sweepJob, len(s.ranges))

	for range s.ranges {
		go s.worker(s.jobChan)
	}
}

func (s *parallelSweeper) worker(jobs <-chan sweepJob) {
	for job := range jobs {
		UpdateRows(job.cur, job.next, job.r, job.rows.lo, job.rows.hi)
		s.waitGroup.Done()
	}
}

func (s *parallelSweeper) sweep(cur, next *grid.Grid, r float64) {
	s.waitGroup.Add(len(s.ranges))

	for _, rows := range s.ranges {
		s.jobChan <- sweepJob{cur: cur, next: next, r: r, rows: rows}
	}

	s.waitGroup.Wait()
}

func (s *parallelSweeper) end() {
	close(s.jobChan)
	s.ranges = nil
}

// partitionRows splits the interior rows [1, size-1) into at most workers
// contiguous ranges whose lengths differ by at most one.
func partitionRows(size, workers int) []rowRange {
	interior := size - 2
	if workers > interior {
		workers = interior
	}

	ranges := make([]rowRange, 0, workers)
	base := interior / workers
	extra := interior % workers

	lo := 1
	for w := 0; w < workers; w++ {
		n := base
		if w < extra {
			n++
		}

		ranges = append(ranges, rowRange{lo: lo, hi: lo + n})
		lo += n
	}

	return ranges
}
