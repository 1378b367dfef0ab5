package datarecording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExecTableName is the table that holds the execution information.
const ExecTableName = "exec_info"

const execTimeLayout = "2006-01-02 15:04:05.000000000"

// ExecInfo is one property of a program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records when and how the program was executed.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates the exec_info table in the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(ExecTableName, ExecInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start collects the start time, the command line and the working directory.
func (e *ExecRecorder) Start() {
	e.entries = append(e.entries,
		ExecInfo{"Start Time", time.Now().Format(execTimeLayout)},
		ExecInfo{"Command", strings.Join(os.Args, " ")},
	)

	wd, err := os.Getwd()
	if err != nil {
		ex, exErr := os.Executable()
		if exErr != nil {
			panic(exErr)
		}

		wd = filepath.Dir(ex)
	}

	e.entries = append(e.entries, ExecInfo{"Working Directory", wd})
}

// End writes the collected properties together with the end time.
func (e *ExecRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(ExecTableName, entry)
	}

	e.recorder.InsertData(ExecTableName,
		ExecInfo{"End Time", time.Now().Format(execTimeLayout)})

	e.entries = nil

	e.recorder.Flush()
}
