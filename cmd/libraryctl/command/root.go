package command

// root.go defines the root command for libraryctl and the setup shared by
// its subcommands.

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"libraryhub/internal/app"
	"libraryhub/internal/config"
	"libraryhub/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "libraryctl",
	Short: "libraryctl - LibraryHub administration tool",
	Long: `libraryctl runs maintenance tasks against the LibraryHub database:
- Apply or roll back schema migrations
- Import books from the Frappe catalog
- Print the rental reports

Settings come from the same environment variables and .env file as the server.`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called once by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads and validates the configuration and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	zl, err := logger.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, zl, nil
}

// withApp connects to the database and runs fn with the built services.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, zl, err := setup()
	if err != nil {
		return err
	}
	defer zl.Sync()

	a, err := app.New(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
