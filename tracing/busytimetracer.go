package tracing

import (
	"sort"

	"github.com/sarchlab/occugrid/sim"
)

type taskInterval struct {
	start, end sim.VTimeInSec
}

// BusyTimeTracer traces the time that a domain spends processing a kind of
// task. If the processing of two tasks overlaps, the overlapped time is only
// counted once.
type BusyTimeTracer struct {
	timeTeller    sim.TimeTeller
	filter        TaskFilter
	inflightTasks map[string]sim.VTimeInSec
	finished      []taskInterval
	busyTime      sim.VTimeInSec
}

// NewBusyTimeTracer creates a new BusyTimeTracer. A nil filter accepts all
// tasks.
func NewBusyTimeTracer(
	timeTeller sim.TimeTeller,
	filter TaskFilter,
) *BusyTimeTracer {
	return &BusyTimeTracer{
		timeTeller:    timeTeller,
		filter:        filter,
		inflightTasks: make(map[string]sim.VTimeInSec),
	}
}

// BusyTime returns the total time that has been spent on the traced tasks.
// Time spent on tasks that overlap with an unfinished task is added once the
// unfinished task completes.
func (t *BusyTimeTracer) BusyTime() sim.VTimeInSec {
	return t.busyTime
}

// TerminateAllTasks marks all the unfinished tasks as completed at now.
func (t *BusyTimeTracer) TerminateAllTasks(now sim.VTimeInSec) {
	for id, start := range t.inflightTasks {
		t.finished = append(t.finished, taskInterval{start: start, end: now})
		delete(t.inflightTasks, id)
	}

	t.collapse()
}

// StartTask records the task start time
func (t *BusyTimeTracer) StartTask(task Task) {
	if t.filter != nil && !t.filter(task) {
		return
	}

	t.inflightTasks[task.ID] = t.timeTeller.CurrentTime()
}

// StepTask does nothing
func (t *BusyTimeTracer) StepTask(_ Task) {
	// Do nothing
}

// EndTask records the end of the task
func (t *BusyTimeTracer) EndTask(task Task) {
	start, ok := t.inflightTasks[task.ID]
	if !ok {
		return
	}

	delete(t.inflightTasks, task.ID)

	t.finished = append(t.finished, taskInterval{
		start: start,
		end:   t.timeTeller.CurrentTime(),
	})

	if len(t.inflightTasks) == 0 {
		t.collapse()
	}
}

func (t *BusyTimeTracer) collapse() {
	if len(t.finished) == 0 {
		return
	}

	sort.Slice(t.finished, func(i, j int) bool {
		return t.finished[i].start < t.finished[j].start
	})

	current := t.finished[0]
	for _, next := range t.finished[1:] {
		if next.start > current.end {
			t.busyTime += current.end - current.start
			current = next

			continue
		}

		if next.end > current.end {
			current.end = next.end
		}
	}

	t.busyTime += current.end - current.start
	t.finished = t.finished[:0]
}
