package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/occugrid/mem/occupancygrid"
	"github.com/sarchlab/occugrid/testbench"
)

var _ = Describe("Command line", func() {
	var (
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	)

	execute := func(args ...string) error {
		root := NewRootCommand()
		root.SetOut(stdout)
		root.SetErr(stderr)
		root.SetArgs(args)

		return root.Execute()
	}

	BeforeEach(func() {
		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)

		original := EnvFile
		EnvFile = filepath.Join(GinkgoT().TempDir(), "missing.env")

		DeferCleanup(func() {
			EnvFile = original
			logrus.SetOutput(os.Stderr)
			logrus.SetLevel(logrus.InfoLevel)
			logrus.SetFormatter(&logrus.TextFormatter{})
		})
	})

	Context("prng", func() {
		It("should print the seed and the following outputs", func() {
			Expect(execute("prng", "--seed", "1", "--count", "2")).To(Succeed())

			lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
			Expect(lines).To(HaveLen(3))
			Expect(lines[0]).To(Equal("1"))
			Expect(lines[1]).To(Equal("1082269761"))
		})

		It("should reject a negative count", func() {
			Expect(execute("prng", "--count", "-1")).NotTo(Succeed())
		})

		It("should read defaults from the environment", func() {
			GinkgoT().Setenv("GRIDSIM_SEED", "42")

			Expect(execute("prng", "--count", "0")).To(Succeed())
			Expect(stdout.String()).To(Equal("42\n"))
		})

		It("should prefer flags over the environment", func() {
			GinkgoT().Setenv("GRIDSIM_SEED", "42")

			Expect(execute("prng", "--seed", "7", "--count", "0")).To(Succeed())
			Expect(stdout.String()).To(Equal("7\n"))
		})

		It("should load the env file", func() {
			EnvFile = filepath.Join(GinkgoT().TempDir(), ".env")
			Expect(os.WriteFile(EnvFile, []byte("GRIDSIM_COUNT=0\n"), 0o600)).
				To(Succeed())
			DeferCleanup(os.Unsetenv, "GRIDSIM_COUNT")

			Expect(execute("prng", "--seed", "3")).To(Succeed())
			Expect(stdout.String()).To(Equal("3\n"))
		})

		It("should report malformed environment values", func() {
			GinkgoT().Setenv("GRIDSIM_SEED", "not-a-number")

			Expect(execute("prng")).NotTo(Succeed())
		})
	})

	Context("run", func() {
		It("should run the single-cell check", func() {
			Expect(execute("run", "--ops", "0")).To(Succeed())

			Expect(stdout.String()).
				To(ContainSubstring("reads=2 writes=1 dropped=0"))
		})

		It("should run random requests", func() {
			Expect(execute("run",
				"--ops", "30",
				"--seed", "5",
				"--width-log2", "3",
				"--height-log2", "2",
				"--addr-width", "5",
				"--data-width", "1",
			)).To(Succeed())

			Expect(stdout.String()).To(ContainSubstring("writes=31 dropped=0"))
			Expect(stderr.String()).To(ContainSubstring("simulation completed"))
		})

		It("should log transitions at debug level", func() {
			Expect(execute("run", "--ops", "0",
				"--log-level", "debug", "--log-format", "json")).To(Succeed())

			Expect(stderr.String()).To(ContainSubstring(`"msg":"transition"`))
			Expect(stderr.String()).NotTo(ContainSubstring(`"msg":"event"`))
		})

		It("should log engine events at trace level", func() {
			Expect(execute("run", "--ops", "0",
				"--log-level", "trace", "--log-format", "json")).To(Succeed())

			Expect(stderr.String()).To(ContainSubstring(`"msg":"event"`))
			Expect(stderr.String()).To(ContainSubstring(`"handler":"Sim.Clock"`))
		})

		It("should reject an invalid grid", func() {
			GinkgoT().Setenv("GRIDSIM_WIDTH_LOG2", "9")

			Expect(execute("run")).NotTo(Succeed())
		})

		It("should reject an unknown log format", func() {
			Expect(execute("run", "--log-format", "xml")).NotTo(Succeed())
		})

		It("should reject inconsistent flags", func() {
			Expect(execute("run", "--output", "file")).NotTo(Succeed())
			Expect(execute("run", "--open-browser")).NotTo(Succeed())
			Expect(execute("run", "--freq-mhz", "0")).NotTo(Succeed())
		})

		It("should record into the output file", func() {
			output := filepath.Join(GinkgoT().TempDir(), "run")

			Expect(execute("run", "--ops", "4",
				"--record", "--output", output)).To(Succeed())

			_, err := os.Stat(output + ".sqlite3")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("plan", func() {
		It("should read back every written cell", func() {
			cfg := runConfig{spec: occupancygrid.Defaults(), numOps: 20, seed: 3}

			ops := planOps(cfg)

			Expect(ops[0]).To(Equal(testbench.Write(1, 1, 1)))
			Expect(ops[1]).To(Equal(testbench.Read(1, 1)))

			writes := 0
			for _, op := range ops[2:] {
				if op.Kind == testbench.OpWrite {
					writes++
				}
			}
			Expect(writes).To(Equal(20))
			Expect(ops[len(ops)-1].Kind).To(Equal(testbench.OpRead))
		})

		It("should check the single-cell read on its own", func() {
			model := testbench.NewModel(occupancygrid.Defaults())
			model.Apply(testbench.Write(1, 1, 0))

			err := checkResults(model, []testbench.Result{
				{Op: testbench.Read(1, 1), Value: 1},
				{Op: testbench.Read(1, 1), Value: 0},
			})
			Expect(err).NotTo(HaveOccurred())

			err = checkResults(model, []testbench.Result{
				{Op: testbench.Read(1, 1), Value: 0},
			})
			Expect(err).To(MatchError(testbench.ErrMismatch))

			Expect(checkResults(model, nil)).To(MatchError(testbench.ErrMismatch))
		})
	})
})
