package command

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vcscsvcscs/hope/apps/backend/internal/config"
	"github.com/vcscsvcscs/hope/apps/backend/internal/persistence"
	"go.uber.org/zap"
)

var logLevel string

// openBackend is swapped in tests
var openBackend = func(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*persistence.Backend, error) {
	return persistence.Open(ctx, cfg.Persistence, logger)
}

// Run loads the configuration, opens the configured persistence backend and
// hands both to f
func Run(ctx context.Context, f func(ctx context.Context, cfg *config.Config, backend *persistence.Backend) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.Logging.Level = logLevel

	logger, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", cfg.Persistence.Backend, err)
	}
	defer backend.Close()

	return f(ctx, cfg, backend)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewRootCommand builds the hopectl command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hopectl",
		Short:         "Helper tool to inspect HOPE synthetic data and persisted state",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "v", "error", "Log Level")

	rootCmd.AddCommand(newSnapshotCommand())
	rootCmd.AddCommand(newStateCommand())
	return rootCmd
}

// Execute runs hopectl and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
