package monitoring

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/heatbench/hooking"
	"github.com/sarchlab/heatbench/stencil"
	"github.com/sarchlab/heatbench/timing"
)

func get(m *Monitor, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	m.router().ServeHTTP(rec, req)

	return rec
}

var _ = Describe("Monitor", func() {
	var (
		m *Monitor
		p stencil.Params
	)

	BeforeEach(func() {
		m = NewMonitor()
		p = stencil.Params{Size: 8, Timesteps: 5, Alpha: 0.2, Dx: 0.01}
	})

	It("should fall back to a random port for reserved ports", func() {
		Expect(m.WithPortNumber(80).portNumber).To(Equal(0))
		Expect(m.WithPortNumber(8080).portNumber).To(Equal(8080))
	})

	It("should advance the progress bar once per step", func() {
		s := stencil.NewBaseline(stencil.Options{})
		bar := m.Watch(s, p)

		_, err := s.Run(p)
		Expect(err).NotTo(HaveOccurred())

		Expect(bar.Finished).To(Equal(uint64(5)))
		Expect(bar.InProgress).To(BeZero())
		Expect(bar.Fraction()).To(Equal(1.0))

		status := m.Status()
		Expect(status.Stage).To(Equal(stencil.StageBaseline))
		Expect(status.Step).To(Equal(5))
		Expect(status.TimeSteps).To(Equal(5))
		Expect(status.Done).To(BeFalse())

		m.CompleteProgressBar(bar)
		Expect(m.Status().Done).To(BeTrue())
	})

	It("should count the step in flight as in progress", func() {
		s := stencil.NewBaseline(stencil.Options{})
		bar := m.Watch(s, p)

		var inFlight []uint64
		s.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			if ctx.Pos != stencil.HookPosPhaseEnd {
				return
			}

			if ctx.Item.(stencil.PhaseSpan).Phase == timing.PhaseSwap {
				inFlight = append(inFlight, bar.state().InProgress)
			}
		}))

		_, err := s.Run(p)
		Expect(err).NotTo(HaveOccurred())

		Expect(inFlight).To(Equal([]uint64{1, 1, 1, 1, 1}))
		Expect(bar.state().InProgress).To(BeZero())
	})

	It("should list the active progress bars", func() {
		bar := m.CreateProgressBar("blocked", 10)
		bar.IncrementInProgress(3)
		bar.MoveInProgressToFinished(2)

		rec := get(m, "/api/progress")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var bars []progressBarState
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0].Name).To(Equal("blocked"))
		Expect(bars[0].Total).To(Equal(uint64(10)))
		Expect(bars[0].Finished).To(Equal(uint64(2)))
		Expect(bars[0].InProgress).To(Equal(uint64(1)))

		m.CompleteProgressBar(bar)
		rec = get(m, "/api/progress")
		Expect(rec.Body.String()).To(Equal("[]"))
	})

	It("should report the status as JSON", func() {
		s := stencil.NewParallel(stencil.Options{Workers: 2})
		m.Watch(s, p)
		_, err := s.Run(p)
		Expect(err).NotTo(HaveOccurred())

		rec := get(m, "/api/status")
		Expect(rec.Code).To(Equal(http.StatusOK))

		status := Status{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &status)).To(Succeed())
		Expect(status.Stage).To(Equal(stencil.StageParallel))
		Expect(status.GridSize).To(Equal(8))
		Expect(status.Step).To(Equal(5))
	})

	It("should report the resources of the process", func() {
		rec := get(m, "/api/resource")
		Expect(rec.Code).To(Equal(http.StatusOK))

		rsp := resourceRsp{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.MemorySize).To(BeNumerically(">", 0))
	})

	It("should serialize the parameters", func() {
		m.Watch(stencil.NewBaseline(stencil.Options{}), p)

		rec := get(m, "/api/params")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should serve over a real listener", func() {
		url := m.StartServer()
		defer m.StopServer()

		rsp, err := http.Get(url + "/api/status")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(rsp.StatusCode).To(Equal(http.StatusOK))
		Expect(string(body)).To(ContainSubstring(`"done":false`))
	})

	It("should stop serving after StopServer", func() {
		url := m.StartServer()
		m.StopServer()

		_, err := http.Get(url + "/api/status")
		Expect(err).To(HaveOccurred())

		Expect(m.StopServer).NotTo(Panic())
	})
})
