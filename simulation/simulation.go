// Package simulation assembles the engine, the clock and the optional
// services that a grid simulation runs with.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sarchlab/occugrid/datarecording"
	"github.com/sarchlab/occugrid/monitoring"
	"github.com/sarchlab/occugrid/sim"
	"github.com/sarchlab/occugrid/tracing"
)

const monitorShutdownTimeout = 5 * time.Second

// A Simulation provides the service requires to define a simulation.
type Simulation struct {
	id         string
	outputPath string

	engine sim.Engine
	clock  *sim.Clock

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	tracer       *tracing.DBTracer

	components    []sim.Component
	compNameIndex map[string]int
	terminated    bool
}

// ID returns the unique ID of the run.
func (s *Simulation) ID() string {
	return s.id
}

// OutputPath returns the recording file, or an empty string when the
// simulation does not record.
func (s *Simulation) OutputPath() string {
	return s.outputPath
}

// GetEngine returns the engine used in the simulation.
func (s *Simulation) GetEngine() sim.Engine {
	return s.engine
}

// GetClock returns the clock that drives the registered circuits.
func (s *Simulation) GetClock() *sim.Clock {
	return s.clock
}

// GetDataRecorder returns the data recorder used in the simulation. It is
// nil when recording is off.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when
// monitoring is off.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetTracer returns the tracer that records tasks. It is nil when recording
// is off.
func (s *Simulation) GetTracer() *tracing.DBTracer {
	return s.tracer
}

// RegisterComponent registers a component with the simulation.
//
// Components that handle clock edges are attached to the clock, in
// registration order. When recording is on, the tasks of the component are
// traced into the recording.
func (s *Simulation) RegisterComponent(c sim.Component) {
	compName := c.Name()
	if _, found := s.compNameIndex[compName]; found {
		panic("component " + compName + " already registered")
	}

	s.components = append(s.components, c)
	s.compNameIndex[compName] = len(s.components) - 1

	if circuit, ok := c.(sim.Clocked); ok {
		s.clock.Register(circuit)
	}

	if faller, ok := c.(sim.FallingEdgeHandler); ok {
		s.clock.RegisterFallingEdgeHandler(faller)
	}

	if s.tracer != nil {
		if domain, ok := c.(tracing.NamedHookable); ok {
			tracing.CollectTrace(domain, s.tracer)
		}
	}

	if s.monitor != nil {
		s.monitor.RegisterComponent(c)
	}
}

// GetComponentByName returns the component with the given name, or nil if
// no such component is registered.
func (s *Simulation) GetComponentByName(name string) sim.Component {
	index, found := s.compNameIndex[name]
	if !found {
		return nil
	}

	return s.components[index]
}

// Components returns all the registered components.
func (s *Simulation) Components() []sim.Component {
	return s.components
}

// Run starts the clock and runs the engine until no circuit is busy.
func (s *Simulation) Run() error {
	s.clock.Start()

	if err := s.engine.Run(); err != nil {
		return fmt.Errorf("simulation %s: %w", s.id, err)
	}

	return nil
}

// Terminate flushes the recording and stops the monitoring server. Calling
// it more than once has no effect.
func (s *Simulation) Terminate() error {
	if s.terminated {
		return nil
	}

	s.terminated = true

	var errs []error

	if s.tracer != nil {
		s.tracer.Terminate()
	}

	if s.dataRecorder != nil {
		errs = append(errs, s.dataRecorder.Close())
	}

	if s.monitor != nil {
		ctx, cancel := context.WithTimeout(
			context.Background(), monitorShutdownTimeout)
		defer cancel()

		errs = append(errs, s.monitor.StopServer(ctx))
	}

	return errors.Join(errs...)
}
