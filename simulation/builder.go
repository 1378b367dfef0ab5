package simulation

import (
	"errors"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/occugrid/datarecording"
	"github.com/sarchlab/occugrid/monitoring"
	"github.com/sarchlab/occugrid/sim"
	"github.com/sarchlab/occugrid/tracing"
)

// DefaultFreq is the frequency of the clock when none is given.
const DefaultFreq = 500 * sim.MHz

// Builder can be used to build a simulation.
type Builder struct {
	freq           sim.Freq
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	recordOn       bool
	outputFileName string
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		freq:      DefaultFreq,
		monitorOn: true,
	}
}

// WithFreq sets the frequency of the clock that drives the simulation.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowser opens the monitoring page once the server is up.
func (b Builder) WithBrowser() Builder {
	b.openBrowser = true
	return b
}

// WithRecording makes the simulation record traces into a SQLite file.
func (b Builder) WithRecording() Builder {
	b.recordOn = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
// The ".sqlite3" suffix is added by the recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.openBrowser {
		panic("browser cannot be opened when monitoring is disabled")
	}

	if !b.recordOn && b.outputFileName != "" {
		panic("output file name cannot be set when recording is disabled")
	}

	if err := b.freq.Validate(); err != nil {
		panic(err)
	}
}

// Build builds the simulation. It returns an error if the recording file
// cannot be created or the monitoring server cannot be started.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	s := &Simulation{
		id:            xid.New().String(),
		compNameIndex: make(map[string]int),
	}

	s.engine = sim.NewSerialEngine()
	s.clock = sim.NewClock("Sim.Clock", s.engine, b.freq)

	if b.recordOn {
		outputPath := b.outputFileName
		if outputPath == "" {
			outputPath = "occugrid_sim_" + s.id
		}

		recorder, err := datarecording.New(outputPath)
		if err != nil {
			return nil, err
		}

		s.dataRecorder = recorder
		s.outputPath = outputPath + ".sqlite3"
		s.tracer = tracing.NewDBTracer(s.engine, s.dataRecorder)
	}

	if b.monitorOn {
		if err := b.startMonitor(s); err != nil {
			return nil, errors.Join(err, s.Terminate())
		}
	}

	return s, nil
}

func (b Builder) startMonitor(s *Simulation) error {
	s.monitor = monitoring.NewMonitor()
	if b.monitorPort > 0 {
		s.monitor.WithPortNumber(b.monitorPort)
	}

	s.monitor.RegisterEngine(s.engine)

	if err := s.monitor.StartServer(); err != nil {
		return err
	}

	if b.openBrowser {
		if err := s.monitor.OpenInBrowser(); err != nil {
			logrus.WithError(err).Warn("cannot open the monitoring page")
		}
	}

	return nil
}
