package tracing

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/heatbench/hooking"
	"github.com/sarchlab/heatbench/stencil"
	"github.com/sarchlab/heatbench/timing"
	"go.uber.org/mock/gomock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func task(id, what string, start, end time.Duration) Task {
	return Task{
		ID:        id,
		Kind:      KindPhase,
		What:      what,
		Where:     "baseline",
		StartTime: epoch.Add(start),
		EndTime:   epoch.Add(end),
	}
}

// tickClock advances by a fixed amount on every reading.
type tickClock struct {
	now  time.Time
	tick time.Duration
}

func (c *tickClock) Now() time.Time {
	c.now = c.now.Add(c.tick)
	return c.now
}

var _ = Describe("TotalTimeTracer", func() {
	It("should add up the tasks that pass the filter", func() {
		t := NewTotalTimeTracer(PhaseFilter("stencil"))

		for _, tk := range []Task{
			task("a", "stencil", 0, 3*time.Millisecond),
			task("b", "boundary", 3*time.Millisecond, 4*time.Millisecond),
			task("c", "stencil", 4*time.Millisecond, 9*time.Millisecond),
		} {
			t.StartTask(tk)
			t.EndTask(tk)
		}

		Expect(t.TotalTime()).To(Equal(8 * time.Millisecond))
	})

	It("should ignore tasks that never started", func() {
		t := NewTotalTimeTracer(AllTasks)

		t.EndTask(task("a", "swap", 0, time.Second))

		Expect(t.TotalTime()).To(BeZero())
	})
})

var _ = Describe("AverageTimeTracer", func() {
	It("should average the completed tasks", func() {
		t := NewAverageTimeTracer(AllTasks)

		Expect(t.AverageTime()).To(BeZero())

		for _, tk := range []Task{
			task("a", "swap", 0, 2*time.Microsecond),
			task("b", "swap", 0, 4*time.Microsecond),
		} {
			t.StartTask(tk)
			t.EndTask(tk)
		}

		Expect(t.TotalCount()).To(Equal(uint64(2)))
		Expect(t.AverageTime()).To(Equal(3 * time.Microsecond))
	})
})

var _ = Describe("CollectTrace", func() {
	It("should match the stopwatch totals of a solver run", func() {
		s := stencil.NewBaseline(stencil.Options{
			Clock: &tickClock{now: epoch, tick: time.Microsecond},
		})

		tracers := map[timing.Phase]*TotalTimeTracer{}
		for _, p := range timing.Phases {
			tracers[p] = NewTotalTimeTracer(PhaseFilter(p.String()))
			CollectTrace(s, tracers[p])
		}

		res, err := s.Run(stencil.Params{
			Size: 6, Timesteps: 5, Alpha: 0.2, Dx: 0.01})
		Expect(err).NotTo(HaveOccurred())

		for _, p := range timing.Phases {
			Expect(tracers[p].TotalTime()).To(Equal(res.Timing.Phase(p)))
		}
	})

	It("should refuse to attach the same tracer twice", func() {
		s := stencil.NewBaseline(stencil.Options{})
		t := NewTotalTimeTracer(AllTasks)

		CollectTrace(s, t)

		Expect(func() { CollectTrace(s, t) }).To(Panic())
	})

	It("should ignore step hooks", func() {
		t := NewTotalTimeTracer(AllTasks)
		h := &traceHook{t: t, where: "baseline"}

		h.Func(hooking.HookCtx{Pos: stencil.HookPosStepEnd})

		Expect(t.TotalTime()).To(BeZero())
	})
})

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl *gomock.Controller
		recorder *MockDataRecorder
		tracer   *DBTracer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		recorder = NewMockDataRecorder(mockCtrl)
		recorder.EXPECT().CreateTable(TraceTable, TaskTableEntry{})
		tracer = NewDBTracer(recorder, "run-7")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should write finished tasks relative to the first start", func() {
		first := task("stencil@1", "stencil", 0, 3*time.Millisecond)
		first.Step = 1
		second := task("boundary@1", "boundary",
			3*time.Millisecond, 5*time.Millisecond)
		second.Step = 1

		recorder.EXPECT().InsertData(TraceTable, TaskTableEntry{
			RunID:     "run-7",
			ID:        "stencil@1",
			Kind:      KindPhase,
			What:      "stencil",
			Location:  "baseline",
			Step:      1,
			StartTime: 0,
			EndTime:   0.003,
		})
		recorder.EXPECT().InsertData(TraceTable, gomock.Any()).
			Do(func(_ string, entry any) {
				e := entry.(TaskTableEntry)
				Expect(e.What).To(Equal("boundary"))
				Expect(e.StartTime).To(BeNumerically("~", 0.003, 1e-12))
				Expect(e.EndTime).To(BeNumerically("~", 0.005, 1e-12))
			})

		tracer.StartTask(first)
		tracer.EndTask(first)
		tracer.StartTask(second)
		tracer.EndTask(second)
	})

	It("should drop tasks that never started", func() {
		tracer.EndTask(task("x", "swap", 0, time.Second))
	})

	It("should panic on incomplete tasks", func() {
		Expect(func() { tracer.StartTask(Task{ID: "x"}) }).To(Panic())
	})

	It("should flush on terminate", func() {
		recorder.EXPECT().Flush()

		tracer.Terminate()
	})
})
