package tracing

import (
	"sync"
	"time"

	"github.com/sarchlab/heatbench/datarecording"
)

// TraceTable is the table that the DBTracer writes into.
const TraceTable = "trace"

// TaskTableEntry is the row stored for each traced task. Times are in seconds
// since the first task of the run started.
type TaskTableEntry struct {
	RunID     string
	ID        string
	Kind      string
	What      string
	Location  string
	Step      int
	StartTime float64
	EndTime   float64
}

// DBTracer is a tracer that can store tasks into a database.
type DBTracer struct {
	mu      sync.Mutex
	runID   string
	backend datarecording.DataRecorder

	origin       time.Time
	tracingTasks map[string]Task
}

// NewDBTracer creates a new DBTracer that tags its rows with runID.
func NewDBTracer(
	dataRecorder datarecording.DataRecorder,
	runID string,
) *DBTracer {
	dataRecorder.CreateTable(TraceTable, TaskTableEntry{})

	t := &DBTracer{
		runID:        runID,
		backend:      dataRecorder,
		tracingTasks: make(map[string]Task),
	}

	return t
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startingTaskMustBeValid(task)

	if t.origin.IsZero() {
		t.origin = task.StartTime
	}

	t.tracingTasks[task.ID] = task
}

func (t *DBTracer) startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Where == "" {
		panic("task location must be set")
	}
}

// EndTask marks the end of a task and queues it for writing.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	originalTask, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	originalTask.EndTime = task.EndTime

	t.backend.InsertData(TraceTable, TaskTableEntry{
		RunID:     t.runID,
		ID:        originalTask.ID,
		Kind:      originalTask.Kind,
		What:      originalTask.What,
		Location:  originalTask.Where,
		Step:      originalTask.Step,
		StartTime: originalTask.StartTime.Sub(t.origin).Seconds(),
		EndTime:   originalTask.EndTime.Sub(t.origin).Seconds(),
	})

	delete(t.tracingTasks, task.ID)
}

// Terminate drops the unfinished tasks and flushes the backend.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tracingTasks = make(map[string]Task)
	t.backend.Flush()
}
