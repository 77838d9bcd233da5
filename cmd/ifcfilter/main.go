package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/OFFIS-RIT/ifcfilter/pkg/filter"
	ioloader "github.com/OFFIS-RIT/ifcfilter/pkg/loader/io"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger"
	"github.com/OFFIS-RIT/ifcfilter/pkg/logger/console"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	rootCmd = &cobra.Command{
		Use:           "ifcfilter",
		Short:         "Extract storey, type and keyword subsets from IFC models",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{Debug: debug}))
		},
	}
	debug bool

	files = ioloader.NewIOModelFileLoader(1)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(newFilterCmd())
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <model.ifc>",
	Short: "List the storeys and product types of a model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := files.NewModelFile(args[0]).GetModel(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(filter.Inspect(model))
	},
}

func newFilterCmd() *cobra.Command {
	var (
		flags        criteriaFlags
		criteriaPath string
		output       string
	)

	cmd := &cobra.Command{
		Use:   "filter <model.ifc>",
		Short: "Write the subset of a model that matches the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var base filter.Criteria
			if criteriaPath != "" {
				c, err := readCriteriaFile(criteriaPath)
				if err != nil {
					return err
				}
				base = c
			}

			flags.set = map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) {
				flags.set[f.Name] = true
			})
			criteria, err := mergeCriteria(base, flags)
			if err != nil {
				return err
			}

			src, err := files.NewModelFile(args[0]).GetModel(cmd.Context())
			if err != nil {
				return err
			}

			res, err := filter.Run(cmd.Context(), src, criteria)
			if err != nil {
				return err
			}

			if output == "" {
				output = filepath.Join(filepath.Dir(args[0]), filter.OutputName(args[0], criteria))
			}
			if err := res.Model.WriteFile(output); err != nil {
				return err
			}

			logger.Info("Filtered model written",
				"output", output,
				"seeds", res.Seeds,
				"entities", res.Entities,
				"containment", res.ContainmentEdges,
				"aggregation", res.AggregationEdges,
				"duration", res.Duration,
			)
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&flags.stories, "story", "s", nil, "Storey name to keep (repeatable)")
	cmd.Flags().BoolVar(&flags.allStories, "all-stories", false, "Keep every storey")
	cmd.Flags().StringSliceVarP(&flags.types, "type", "t", nil, "IFC product type to keep, e.g. IfcSlab (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.keywords, "keyword", "k", nil, "Comma separated name keywords")
	cmd.Flags().StringVarP(&flags.mode, "mode", "m", string(filter.ModeTypeAndKeyword), "type_and_keyword, type_only or keyword_only")
	cmd.Flags().BoolVar(&flags.includeParts, "include-parts", false, "Also copy the aggregated parts of selected elements")
	cmd.Flags().StringVarP(&criteriaPath, "criteria", "c", "", "YAML file with the selection; flags override it")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: derived from the selection)")

	return cmd
}
