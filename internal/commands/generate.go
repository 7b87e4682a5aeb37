package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nulzo/image-playground/internal/cli"
	"github.com/nulzo/image-playground/internal/playground"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	generateModel  string
	generateInputs []string
	generateOut    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one image without the interactive view",
	Long: `Generate one image and save it as generated-image.png.

Parameters not given with --set keep the defaults from the model schema.

Examples:
  playground generate --model @cf/black-forest-labs/flux-1-schnell --set prompt="a red fox"
  playground generate --model @cf/lykon/dreamshaper-8-lcm --set prompt=castle --set num_steps=8 --out ./images`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVarP(&generateModel, "model", "m", "", "Model id (see 'playground models')")
	generateCmd.Flags().StringArrayVar(&generateInputs, "set", nil, "Parameter as name=value, repeatable")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Directory to save the image in (default: client.download_dir)")
	_ = generateCmd.MarkFlagRequired("model")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	s := playground.NewSession(ctx, newClient(), log, sessionOptions()...)

	s.Drive(s.Init())
	if !inCatalog(s, generateModel) {
		return fmt.Errorf("unknown model %q (see 'playground models')", generateModel)
	}

	s.Drive(s.Select(generateModel))
	if s.Resolver.Form() == nil || s.Resolver.Stale() {
		return fmt.Errorf("could not load the schema of %s", generateModel)
	}

	for _, kv := range generateInputs {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, expected name=value", kv)
		}
		if err := s.Set(name, raw); err != nil {
			return err
		}
	}

	if !s.CanSubmit() {
		return fmt.Errorf("missing required parameters: %s", strings.Join(s.Resolver.Form().Missing(), ", "))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Generating with %s...\n", cli.Arrow(), s.Catalog.Name(generateModel))
	s.Drive(s.Submit())

	if s.Orchestrator.State() != playground.Success {
		return errors.New("generation failed, see " + cfg.Log.File)
	}

	dir := generateOut
	if dir == "" {
		dir = cfg.Client.DownloadDir
	}
	path, err := s.Orchestrator.Download(ctx, dir)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}

	log.Info("image saved", zap.String("path", path))
	fmt.Fprintf(out, "%s Saved %s\n", cli.CheckMark(), path)
	return nil
}

func inCatalog(s *playground.Session, id string) bool {
	for _, m := range s.Catalog.Models() {
		if m.ID == id {
			return true
		}
	}
	return false
}
