// Package monitoring serves the state of a running benchmark over HTTP.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"

	// Enable profiling
	_ "net/http/pprof"
	"os"
	"runtime/pprof"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/sarchlab/heatbench/hooking"
	"github.com/sarchlab/heatbench/stencil"
	"github.com/sarchlab/heatbench/timing"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Status is a snapshot of the run being monitored.
type Status struct {
	Stage     string  `json:"stage"`
	GridSize  int     `json:"grid_size"`
	Step      int     `json:"step"`
	TimeSteps int     `json:"time_steps"`
	Elapsed   float64 `json:"elapsed"`
	Done      bool    `json:"done"`
}

// Monitor turns a benchmark into a server that reports the progress of the
// solver and the resources of the process.
type Monitor struct {
	portNumber int
	profileFor time.Duration

	server *http.Server

	lock         sync.Mutex
	params       stencil.Params
	status       Status
	progressBars []*ProgressBar
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{
		profileFor: time.Second,
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// Watch follows a solver through a run with the given parameters. The
// returned bar advances once per completed step.
func (m *Monitor) Watch(s stencil.Solver, p stencil.Params) *ProgressBar {
	bar := m.CreateProgressBar(s.Name(), uint64(p.Timesteps))

	m.lock.Lock()
	m.params = p
	m.status = Status{
		Stage:     s.Name(),
		GridSize:  p.Size,
		TimeSteps: p.Timesteps,
	}
	m.lock.Unlock()

	s.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
		switch ctx.Pos {
		case stencil.HookPosPhaseEnd:
			// A step is in flight from its first phase to its step end.
			if ctx.Item.(stencil.PhaseSpan).Phase == timing.PhaseStencil {
				bar.IncrementInProgress(1)
			}
		case stencil.HookPosStepEnd:
			info := ctx.Item.(stencil.StepInfo)
			bar.MoveInProgressToFinished(1)

			m.lock.Lock()
			m.status.Step = info.Step
			m.status.Elapsed = info.Elapsed.Seconds()
			m.lock.Unlock()
		}
	}))

	return bar
}

// Status returns the latest snapshot of the run.
func (m *Monitor) Status() Status {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.status
}

// CreateProgressBar creates a new progress bar.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := newProgressBar(name, total)

	m.lock.Lock()
	defer m.lock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar and marks the run as done.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.lock.Lock()
	defer m.lock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
	m.status.Done = true
}

func (m *Monitor) router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/status", m.reportStatus)
	r.HandleFunc("/api/params", m.reportParams)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return r
}

// StartServer starts the monitor as a web server and returns its address.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring benchmark with %s\n", url)

	m.server = &http.Server{
		Handler:           m.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func(server *http.Server) {
		err := server.Serve(listener)
		if err != http.ErrServerClosed {
			dieOnErr(err)
		}
	}(m.server)

	return url
}

// StopServer closes the listener and the connections of a started server.
func (m *Monitor) StopServer() {
	if m.server == nil {
		return
	}

	err := m.server.Close()
	dieOnErr(err)

	m.server = nil
}

// OpenBrowser shows the status page of a started server.
func OpenBrowser(url string) error {
	return browser.OpenURL(url + "/api/status")
}

func (m *Monitor) reportStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.Status())
}

func (m *Monitor) reportParams(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	params := m.params
	m.lock.Unlock()

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&params)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.lock.Lock()
	bars := make([]progressBarState, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.state())
	}
	m.lock.Unlock()

	writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileFor)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
