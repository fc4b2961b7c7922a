package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vcscsvcscs/hope/apps/backend/internal/synth"
)

func newSnapshotCommand() *cobra.Command {
	var (
		seed int64
		now  string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print a synthesized health snapshot",
		Long:  "The snapshot command prints the health snapshot the synthesizer produces for a seed. The same seed and time always print the same snapshot.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now().UTC()
			if now != "" {
				parsed, err := time.Parse(time.RFC3339, now)
				if err != nil {
					return fmt.Errorf("invalid --now %q: %w", now, err)
				}
				at = parsed.UTC()
			}
			return writeJSON(cmd.OutOrStdout(), synth.New(seed, at).Initialize())
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 1, "Synthesizer seed")
	cmd.Flags().StringVar(&now, "now", "", "Anchor time in RFC3339 (default current time)")
	return cmd
}
