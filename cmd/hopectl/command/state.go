package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vcscsvcscs/hope/apps/backend/internal/config"
	"github.com/vcscsvcscs/hope/apps/backend/internal/persistence"
	"github.com/vcscsvcscs/hope/apps/backend/internal/store"
)

func newStateCommand() *cobra.Command {
	stateCmd := &cobra.Command{
		Use:   "state",
		Short: "Persisted store state",
		Long:  "The state command reads or erases the persisted store projection of the configured backend",
	}

	stateCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the persisted projection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), func(ctx context.Context, cfg *config.Config, backend *persistence.Backend) error {
				data, err := backend.Get(ctx, cfg.Persistence.Key)
				if errors.Is(err, persistence.ErrNotFound) {
					fmt.Fprintf(cmd.OutOrStdout(), "No persisted state under %q (%s backend)\n", cfg.Persistence.Key, backend.Name)
					return nil
				}
				if err != nil {
					return fmt.Errorf("failed to read persisted state: %w", err)
				}

				persisted, err := store.DecodePersisted(data)
				if err != nil {
					return fmt.Errorf("failed to decode persisted state: %w", err)
				}
				return writeJSON(cmd.OutOrStdout(), persisted)
			})
		},
	})

	stateCmd.AddCommand(&cobra.Command{
		Use:   "erase",
		Short: "Delete the persisted projection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(cmd.Context(), func(ctx context.Context, cfg *config.Config, backend *persistence.Backend) error {
				if err := backend.Delete(ctx, cfg.Persistence.Key); err != nil {
					return fmt.Errorf("failed to erase persisted state: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Erased %q from the %s backend\n", cfg.Persistence.Key, backend.Name)
				return nil
			})
		},
	})

	return stateCmd
}
