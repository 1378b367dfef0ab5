package tracing

import (
	"context"
	"database/sql"

	"github.com/sarchlab/occugrid/datarecording"
	"github.com/sarchlab/occugrid/sim"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type manualTimeTeller struct {
	now sim.VTimeInSec
}

func (t *manualTimeTeller) CurrentTime() sim.VTimeInSec {
	return t.now
}

var _ = Describe("DBTracer", func() {
	var (
		db         *sql.DB
		timeTeller *manualTimeTeller
		recorder   datarecording.DataRecorder
		tracer     *DBTracer
	)

	BeforeEach(func() {
		var err error
		db, err = sql.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())

		timeTeller = &manualTimeTeller{}
		recorder = datarecording.NewWithDB(db)
		tracer = NewDBTracer(timeTeller, recorder)
	})

	AfterEach(func() {
		Expect(recorder.Close()).To(Succeed())
	})

	readTasks := func() []*TaskEntry {
		reader := datarecording.NewReaderWithDB(db)
		reader.MapTable(TraceTableName, TaskEntry{})

		results, _, err := reader.Query(
			context.Background(), TraceTableName, datarecording.QueryParams{})
		Expect(err).NotTo(HaveOccurred())

		tasks := make([]*TaskEntry, 0, len(results))
		for _, r := range results {
			tasks = append(tasks, r.(*TaskEntry))
		}

		return tasks
	}

	task := func(id string) Task {
		return Task{ID: id, Kind: "req", What: "read", Location: "Grid"}
	}

	It("should create the tables", func() {
		Expect(recorder.ListTables()).To(ConsistOf(
			TraceTableName, TraceStepTableName))
	})

	It("should write finished tasks with their steps", func() {
		timeTeller.now = 1
		tracer.StartTask(task("1"))
		timeTeller.now = 2
		tracer.StepTask(Task{ID: "1", Steps: []TaskStep{{What: "wait"}}})
		timeTeller.now = 3
		tracer.StepTask(Task{ID: "1", Steps: []TaskStep{{What: "finish"}}})
		tracer.EndTask(Task{ID: "1"})
		tracer.Terminate()

		tasks := readTasks()
		Expect(tasks).To(HaveLen(1))
		Expect(tasks[0].ID).To(Equal("1"))
		Expect(tasks[0].Location).To(Equal("Grid"))
		Expect(tasks[0].StartTime).To(Equal(1.0))
		Expect(tasks[0].EndTime).To(Equal(3.0))
		Expect(tasks[0].NumSteps).To(Equal(2))

		reader := datarecording.NewReaderWithDB(db)
		reader.MapTable(TraceStepTableName, StepEntry{})
		count, err := reader.Count(context.Background(), TraceStepTableName,
			datarecording.QueryParams{Where: "TaskID = ?", Args: []any{"1"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(2))
	})

	It("should drop unfinished tasks", func() {
		tracer.StartTask(task("1"))
		tracer.Terminate()

		Expect(readTasks()).To(BeEmpty())
	})

	It("should only keep tasks inside the time range", func() {
		tracer.SetTimeRange(10, 20)

		timeTeller.now = 5
		tracer.StartTask(task("early"))
		timeTeller.now = 8
		tracer.EndTask(Task{ID: "early"})

		tracer.StartTask(task("overlap"))
		timeTeller.now = 12
		tracer.EndTask(Task{ID: "overlap"})

		timeTeller.now = 25
		tracer.StartTask(task("late"))
		tracer.EndTask(Task{ID: "late"})
		tracer.Terminate()

		tasks := readTasks()
		Expect(tasks).To(HaveLen(1))
		Expect(tasks[0].ID).To(Equal("overlap"))
	})

	It("should panic on incomplete tasks", func() {
		Expect(func() { tracer.StartTask(Task{ID: "1"}) }).To(Panic())
	})
})
