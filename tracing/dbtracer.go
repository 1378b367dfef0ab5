package tracing

import (
	"sync"

	"github.com/sarchlab/occugrid/datarecording"
	"github.com/sarchlab/occugrid/sim"
)

// Tables written by the DBTracer.
const (
	TraceTableName     = "trace"
	TraceStepTableName = "trace_step"
)

// TaskEntry is a row of the trace table.
type TaskEntry struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Location  string
	StartTime float64
	EndTime   float64
	NumSteps  int
}

// StepEntry is a row of the trace step table.
type StepEntry struct {
	TaskID string
	What   string
	Time   float64
}

// DBTracer is a tracer that stores finished tasks into a DataRecorder.
type DBTracer struct {
	mu         sync.Mutex
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder

	startTime, endTime sim.VTimeInSec

	tracingTasks map[string]*Task
}

// NewDBTracer creates a new DBTracer and the tables it writes into.
func NewDBTracer(
	timeTeller sim.TimeTeller,
	dataRecorder datarecording.DataRecorder,
) *DBTracer {
	dataRecorder.CreateTable(TraceTableName, TaskEntry{})
	dataRecorder.CreateTable(TraceStepTableName, StepEntry{})

	return &DBTracer{
		timeTeller:   timeTeller,
		backend:      dataRecorder,
		tracingTasks: make(map[string]*Task),
	}
}

// SetTimeRange limits the tracer to tasks that overlap with [start, end]. A
// zero bound is open.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTimeInSec) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// StartTask marks the start of a task.
func (t *DBTracer) StartTask(task Task) {
	startingTaskMustBeValid(task)

	t.mu.Lock()
	defer t.mu.Unlock()

	task.StartTime = t.timeTeller.CurrentTime()
	if t.endTime > 0 && task.StartTime > t.endTime {
		return
	}

	t.tracingTasks[task.ID] = &task
}

func startingTaskMustBeValid(task Task) {
	if task.ID == "" {
		panic("task ID must be set")
	}

	if task.Kind == "" {
		panic("task kind must be set")
	}

	if task.What == "" {
		panic("task what must be set")
	}

	if task.Location == "" {
		panic("task location must be set")
	}
}

// StepTask records the steps of a task that is being traced.
func (t *DBTracer) StepTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	original, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	now := t.timeTeller.CurrentTime()
	for _, step := range task.Steps {
		step.Time = now
		original.Steps = append(original.Steps, step)
	}
}

// EndTask writes a finished task and its steps.
func (t *DBTracer) EndTask(task Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	original, ok := t.tracingTasks[task.ID]
	if !ok {
		return
	}

	delete(t.tracingTasks, task.ID)

	original.EndTime = t.timeTeller.CurrentTime()
	if t.startTime > 0 && original.EndTime < t.startTime {
		return
	}

	t.write(original)
}

func (t *DBTracer) write(task *Task) {
	t.backend.InsertData(TraceTableName, TaskEntry{
		ID:        task.ID,
		ParentID:  task.ParentID,
		Kind:      task.Kind,
		What:      task.What,
		Location:  task.Location,
		StartTime: float64(task.StartTime),
		EndTime:   float64(task.EndTime),
		NumSteps:  len(task.Steps),
	})

	for _, step := range task.Steps {
		t.backend.InsertData(TraceStepTableName, StepEntry{
			TaskID: task.ID,
			What:   step.What,
			Time:   float64(step.Time),
		})
	}
}

// Terminate drops the unfinished tasks and flushes the recorder.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.tracingTasks = make(map[string]*Task)
	t.backend.Flush()
}
