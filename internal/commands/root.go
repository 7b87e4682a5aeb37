// Package commands implements the playground command-line interface.
package commands

import (
	"context"

	"github.com/nulzo/image-playground/internal/client"
	"github.com/nulzo/image-playground/internal/config"
	"github.com/nulzo/image-playground/internal/platform/logger"
	"github.com/nulzo/image-playground/internal/playground"
	"github.com/nulzo/image-playground/internal/tui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serverURL string

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "playground",
	Short: "Generate images with schema-driven model parameters",
	Long: `Interactive image playground. Pick a model, fill in the parameters its
schema declares, and generate an image through the playground service.

Without a subcommand the interactive generator starts.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runGenerator,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Playground service URL (default: client.base_url)")
}

// ExecuteContext runs the root command; ctx cancels in-flight requests.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// setup loads configuration and points logging at the log file; the
// terminal belongs to the views and command output.
func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if serverURL != "" {
		loaded.Client.BaseURL = serverURL
	}
	cfg = loaded

	log = logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     "json",
		OutputPath: cfg.Log.File,
	}).With(zap.String("command", cmd.Name()))
	return nil
}

func newClient() *client.Client {
	return client.New(cfg.Client.BaseURL)
}

func sessionOptions() []playground.OrchestratorOption {
	return []playground.OrchestratorOption{
		playground.WithRevealDelay(cfg.Client.RevealDelay),
		playground.WithTimeout(cfg.Client.GenerationTimeout),
	}
}

func runGenerator(cmd *cobra.Command, _ []string) error {
	defer func() { _ = log.Sync() }()

	session := playground.NewSession(cmd.Context(), newClient(), log, sessionOptions()...)
	return tui.Run(cmd.Context(), tui.NewGenerator(session, cfg.Client.DownloadDir))
}
