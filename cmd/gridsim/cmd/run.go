package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/occugrid/mem/occupancygrid"
	"github.com/sarchlab/occugrid/monitoring"
	"github.com/sarchlab/occugrid/sim"
	"github.com/sarchlab/occugrid/simulation"
	"github.com/sarchlab/occugrid/testbench"
	"github.com/sarchlab/occugrid/tracing"
)

type runConfig struct {
	spec        occupancygrid.Spec
	freq        sim.Freq
	numOps      int
	seed        int64
	record      bool
	output      string
	monitor     bool
	monitorPort int
	openBrowser bool
	wait        bool
}

// Summary is what a run reports after all the requests complete.
type Summary struct {
	Cycles         uint64
	Stats          occupancygrid.Stats
	AverageLatency sim.VTimeInSec
	BusyTime       sim.VTimeInSec
	NumReads       int
	RecordingFile  string
}

func newRunCommand() *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run random requests against a controller and check the reads.",
		Long: `Run random requests against a controller and check the reads. ` +
			`The run starts with a write and a read of cell (1, 1), issues ` +
			`the random writes and reads back every written cell.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := parseRunFlags(cmd)
			if err != nil {
				return err
			}

			summary, err := runGrid(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(),
				"cycles=%d reads=%d writes=%d dropped=%d avg_latency=%.3e\n",
				summary.Cycles,
				summary.Stats.CompletedReads,
				summary.Stats.CompletedWrites,
				summary.Stats.DroppedRequests,
				float64(summary.AverageLatency))

			return nil
		},
	}

	defaults := occupancygrid.Defaults()
	flags := runCmd.Flags()
	flags.Int("width-log2", defaults.GridWidthLog2, "log2 of the grid width")
	flags.Int("height-log2", defaults.GridHeightLog2, "log2 of the grid height")
	flags.Int("data-width", defaults.DataWidth, "bits in a cell")
	flags.Int("addr-width", defaults.AddrWidth, "bits in an array address")
	flags.Float64("freq-mhz", float64(simulation.DefaultFreq/sim.MHz),
		"clock frequency in MHz")
	flags.Int("ops", 50, "number of random writes")
	flags.Int64("seed", 1, "seed of the random requests")
	flags.Bool("record", false, "record the requests into a SQLite file")
	flags.String("output", "", "recording file name without the extension")
	flags.Bool("monitor", false, "serve the monitoring web page")
	flags.Int("monitor-port", 0, "port of the monitoring server")
	flags.Bool("open-browser", false, "open the monitoring page in a browser")
	flags.Bool("wait", false,
		"keep the monitoring server up after the run until interrupted")

	return runCmd
}

func parseRunFlags(cmd *cobra.Command) (runConfig, error) {
	flags := cmd.Flags()
	cfg := runConfig{}

	cfg.spec.GridWidthLog2, _ = flags.GetInt("width-log2")
	cfg.spec.GridHeightLog2, _ = flags.GetInt("height-log2")
	cfg.spec.DataWidth, _ = flags.GetInt("data-width")
	cfg.spec.AddrWidth, _ = flags.GetInt("addr-width")

	mhz, _ := flags.GetFloat64("freq-mhz")
	cfg.freq = sim.Freq(mhz) * sim.MHz

	cfg.numOps, _ = flags.GetInt("ops")
	cfg.seed, _ = flags.GetInt64("seed")
	cfg.record, _ = flags.GetBool("record")
	cfg.output, _ = flags.GetString("output")
	cfg.monitor, _ = flags.GetBool("monitor")
	cfg.monitorPort, _ = flags.GetInt("monitor-port")
	cfg.openBrowser, _ = flags.GetBool("open-browser")
	cfg.wait, _ = flags.GetBool("wait")

	if err := cfg.spec.Validate(); err != nil {
		return cfg, err
	}

	if cfg.freq <= 0 {
		return cfg, sim.ErrZeroFrequency
	}

	if cfg.numOps < 0 {
		return cfg, fmt.Errorf("ops must not be negative, got %d", cfg.numOps)
	}

	if !cfg.record && cfg.output != "" {
		return cfg, errors.New("--output requires --record")
	}

	if !cfg.monitor && (cfg.monitorPort != 0 || cfg.openBrowser || cfg.wait) {
		return cfg, errors.New(
			"--monitor-port, --open-browser and --wait require --monitor")
	}

	return cfg, nil
}

func buildSimulation(cfg runConfig) (*simulation.Simulation, error) {
	b := simulation.MakeBuilder().WithFreq(cfg.freq)

	if cfg.monitor {
		b = b.WithMonitorPort(cfg.monitorPort)
		if cfg.openBrowser {
			b = b.WithBrowser()
		}
	} else {
		b = b.WithoutMonitoring()
	}

	if cfg.record {
		b = b.WithRecording().WithOutputFileName(cfg.output)
	}

	return b.Build()
}

func runGrid(ctx context.Context, cfg runConfig) (summary Summary, err error) {
	s, err := buildSimulation(cfg)
	if err != nil {
		return summary, err
	}

	defer func() {
		if termErr := s.Terminate(); termErr != nil && err == nil {
			err = termErr
		}
	}()

	grid := occupancygrid.MakeBuilder().WithSpec(cfg.spec).Build("Grid")
	agent := testbench.NewAgent("Agent", grid)
	s.RegisterComponent(grid)
	s.RegisterComponent(agent)

	latency := tracing.NewAverageTimeTracer(s.GetEngine(), nil)
	busy := tracing.NewBusyTimeTracer(s.GetEngine(), nil)
	tracing.CollectTrace(grid, latency)
	tracing.CollectTrace(grid, busy)

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		grid.AcceptHook(occupancygrid.NewTransitionLogger(logrus.StandardLogger()))
	}

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		s.GetEngine().AcceptHook(sim.NewEventLogger(logrus.StandardLogger()))
	}

	ops := planOps(cfg)
	model := testbench.NewModel(cfg.spec)

	for _, op := range ops {
		model.Apply(op)
	}

	agent.Enqueue(ops...)

	if monitor := s.GetMonitor(); monitor != nil {
		trackProgress(monitor, grid, len(ops))
	}

	logrus.WithFields(logrus.Fields{
		"width":  cfg.spec.GridWidth(),
		"height": cfg.spec.GridHeight(),
		"ops":    len(ops),
		"seed":   cfg.seed,
	}).Info("starting simulation")

	if err = s.Run(); err != nil {
		return summary, err
	}

	if !agent.Idle() {
		return summary, fmt.Errorf("agent stopped with %d ops issued of %d",
			agent.NumIssued(), len(ops))
	}

	if err = checkResults(model, agent.Results()); err != nil {
		return summary, err
	}

	summary = Summary{
		Cycles:         s.GetClock().CurrentCycle(),
		Stats:          grid.Stats(),
		AverageLatency: latency.AverageTime(),
		BusyTime:       busy.BusyTime(),
		NumReads:       len(agent.Results()),
		RecordingFile:  s.OutputPath(),
	}

	logSummary(summary)

	if cfg.wait {
		waitForInterrupt(ctx, s.GetMonitor())
	}

	return summary, nil
}

// planOps returns the single-cell check followed by the random writes and a
// read of every written cell.
func planOps(cfg runConfig) []testbench.Op {
	rng := rand.New(rand.NewSource(cfg.seed))
	writes := testbench.RandomOps(rng, cfg.spec, cfg.numOps)

	ops := []testbench.Op{testbench.Write(1, 1, 1), testbench.Read(1, 1)}
	ops = append(ops, writes...)

	model := testbench.NewModel(cfg.spec)
	for _, op := range ops {
		model.Apply(op)
	}

	return append(ops, model.Written()...)
}

// checkResults checks the single-cell read against the value written right
// before it, and the read-back of every written cell against the model.
func checkResults(model *testbench.Model, results []testbench.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("%w: no read completed", testbench.ErrMismatch)
	}

	if first := results[0]; first.Value != 1 {
		return fmt.Errorf("%w: cell (1, 1) read %d after writing 1",
			testbench.ErrMismatch, first.Value)
	}

	return model.Check(results[1:])
}

func trackProgress(
	monitor *monitoring.Monitor,
	grid *occupancygrid.Comp,
	numOps int,
) {
	bar := monitor.CreateProgressBar("Requests", uint64(numOps))

	grid.AcceptHook(sim.HookFunc(func(ctx sim.HookCtx) {
		if ctx.Pos != occupancygrid.HookPosTransition {
			return
		}

		evt := ctx.Item.(occupancygrid.TransitionEvent)

		if evt.Accepted {
			bar.IncrementInProgress(1)
		}

		if evt.Completed {
			bar.MoveInProgressToFinished(1)
		}
	}))
}

func logSummary(summary Summary) {
	fields := logrus.Fields{
		"cycles":           summary.Cycles,
		"completed_reads":  summary.Stats.CompletedReads,
		"completed_writes": summary.Stats.CompletedWrites,
		"dropped":          summary.Stats.DroppedRequests,
		"busy_cycles":      summary.Stats.BusyCycles,
		"avg_latency":      float64(summary.AverageLatency),
		"busy_time":        float64(summary.BusyTime),
	}

	if summary.RecordingFile != "" {
		fields["recording"] = summary.RecordingFile
	}

	logrus.WithFields(fields).Info("simulation completed")
}

func waitForInterrupt(ctx context.Context, monitor *monitoring.Monitor) {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logrus.WithField("url", monitor.URL()).
		Info("simulation finished, press Ctrl+C to stop the monitoring server")

	<-ctx.Done()
}
