package datarecording

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ExecTable is the table that execution information is recorded into.
const ExecTable = "exec_info"

const timeLayout = "2006-01-02 15:04:05.000000000"

// ExecInfo is one property of a program execution.
type ExecInfo struct {
	RunID    string
	Property string
	Value    string
}

// ExecRecorder records when and how a benchmark process ran.
type ExecRecorder struct {
	runID    string
	recorder DataRecorder
	entries  []ExecInfo
	now      func() time.Time
}

// NewExecRecorder creates an ExecRecorder that tags its entries with runID.
func NewExecRecorder(recorder DataRecorder, runID string) *ExecRecorder {
	e := &ExecRecorder{
		runID:    runID,
		recorder: recorder,
		now:      time.Now,
	}

	recorder.CreateTable(ExecTable, ExecInfo{})

	return e
}

func (e *ExecRecorder) add(property, value string) {
	e.entries = append(e.entries, ExecInfo{
		RunID:    e.runID,
		Property: property,
		Value:    value,
	})
}

// Start captures the start time, the command line, and the working
// directory.
func (e *ExecRecorder) Start() {
	e.add("Start Time", e.now().Format(timeLayout))
	e.add("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.add("Working Directory", cwd)
}

// End adds the end time and the resident memory of the process, and writes
// everything into the database.
func (e *ExecRecorder) End() {
	e.add("End Time", e.now().Format(timeLayout))

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			e.add("Memory RSS", strconv.FormatUint(mem.RSS, 10))
		}
	}

	for _, entry := range e.entries {
		e.recorder.InsertData(ExecTable, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
