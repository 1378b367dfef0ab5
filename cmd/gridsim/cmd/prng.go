package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/occugrid/prng"
)

func newPRNGCommand() *cobra.Command {
	prngCmd := &cobra.Command{
		Use:   "prng",
		Short: "Print the outputs of the xorshift generator.",
		Long: `Print the outputs of the xorshift generator. The first line ` +
			`is the seed loaded by reset, and every following line is one ` +
			`enabled clock edge.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seed, _ := cmd.Flags().GetUint64("seed")
			count, _ := cmd.Flags().GetInt("count")

			if count < 0 {
				return fmt.Errorf("count must not be negative, got %d", count)
			}

			g := prng.MakeBuilder().BuildGenerator()
			out := g.Step(prng.Inputs{Reset: true, Seed: seed})
			fmt.Fprintln(cmd.OutOrStdout(), out)

			for i := 0; i < count; i++ {
				out = g.Step(prng.Inputs{En: true})
				fmt.Fprintln(cmd.OutOrStdout(), out)
			}

			return nil
		},
	}

	prngCmd.Flags().Uint64("seed", 1, "value loaded into the register on reset")
	prngCmd.Flags().Int("count", 10, "number of enabled edges after reset")

	return prngCmd
}
