package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nulzo/image-playground/internal/cli"
	"github.com/nulzo/image-playground/internal/playground"
	"github.com/spf13/cobra"
)

var schemaJSON bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models offered by the service",
	Args:  cobra.NoArgs,
	RunE:  runModels,
}

var schemaCmd = &cobra.Command{
	Use:   "schema <model>",
	Short: "Show the parameters a model accepts",
	Long: `Show the parameters a model accepts, in declaration order.

Examples:
  playground schema @cf/black-forest-labs/flux-1-schnell
  playground schema @cf/lykon/dreamshaper-8-lcm --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVar(&schemaJSON, "json", false, "Print the raw input schema")
}

func runModels(cmd *cobra.Command, _ []string) error {
	models, err := newClient().ListModels(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range models {
		fmt.Fprintf(out, "%s %s\n  %s\n", cli.Arrow(), cli.Style(m.Name, cli.BoldCode), m.ID)
	}
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	schema, err := newClient().Schema(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if schemaJSON {
		fmt.Fprintln(out, cli.PrettyFormat(schema))
		return nil
	}

	for _, f := range playground.NewForm(args[0], schema).Fields() {
		line := fmt.Sprintf("%-20s %-8s", playground.Marker(f), f.Kind)
		if f.Value != "" {
			line += " default=" + f.Value
		}
		if r := formatRange(f); r != "" {
			line += " " + r
		}
		fmt.Fprintln(out, strings.TrimRight(line, " "))
		if f.Placeholder != "" {
			fmt.Fprintln(out, "  "+cli.Style(f.Placeholder, cli.DimCode))
		}
	}
	return nil
}

func formatRange(f playground.Field) string {
	if f.Min == nil && f.Max == nil {
		return ""
	}
	bound := func(p *float64) string {
		if p == nil {
			return ""
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	return "range=[" + bound(f.Min) + ".." + bound(f.Max) + "]"
}
