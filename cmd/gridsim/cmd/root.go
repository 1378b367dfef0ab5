// Package cmd provides the command-line interface of gridsim.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
)

// EnvPrefix is the prefix of the environment variables that set flag
// defaults. The flag "width-log2" is read from GRIDSIM_WIDTH_LOG2.
const EnvPrefix = "GRIDSIM_"

// EnvFile is the file that environment defaults are loaded from, if present.
var EnvFile = ".env"

// NewRootCommand creates the gridsim command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gridsim",
		Short: "gridsim simulates a cycle-accurate occupancy-grid controller.",
		Long: `gridsim simulates a cycle-accurate occupancy-grid controller. ` +
			`It drives the controller with random requests, checks every ` +
			`read against a golden model and reports the timing.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadEnvDefaults(cmd); err != nil {
				return err
			}

			return configureLogging(cmd)
		},
	}

	rootCmd.PersistentFlags().String("log-level", "info",
		"log level: trace, debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text",
		"log format: text or json")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newPRNGCommand())

	return rootCmd
}

// Execute runs the command line and exits the process.
func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadEnvDefaults(cmd *cobra.Command) error {
	err := godotenv.Load(EnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", EnvFile, err)
	}

	var errs []error

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			return
		}

		name := EnvPrefix +
			strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))

		value, ok := os.LookupEnv(name)
		if !ok {
			return
		}

		if err := cmd.Flags().Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	})

	return errors.Join(errs...)
}

func configureLogging(cmd *cobra.Command) error {
	levelName, _ := cmd.Flags().GetString("log-level")

	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return err
	}

	logrus.SetLevel(level)
	logrus.SetOutput(cmd.ErrOrStderr())

	format, _ := cmd.Flags().GetString("log-format")
	switch format {
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{})
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	return nil
}
