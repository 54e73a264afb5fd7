// File: cmd/compile.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/xkilldash9x/xlocate/internal/catalog"
	"github.com/xkilldash9x/xlocate/internal/config"
	"github.com/xkilldash9x/xlocate/internal/observability"
	"github.com/xkilldash9x/xlocate/pkg/locator"
)

// newCompileCmd creates and configures the `compile` command.
func newCompileCmd(v *viper.Viper) *cobra.Command {
	var inputFile string

	compileCmd := &cobra.Command{
		Use:   "compile [selector...]",
		Short: "Compile selectors into XPath plus residual checks",
		Long: `Compile one or more selectors. Each argument is a YAML or JSON mapping,
for example '{tag_name: div, class: [a, "!b"], index: 2}'. With --file, every
document in the file is a selector ("-" reads stdin). Patterns are written as
!regexp 'src', !iregexp 'src' or {regexp: src, ignore_case: true}.`,
		Example: `  xlocate compile '{tag_name: input, name: !regexp "user.*"}'
  xlocate compile --format yaml --file selectors.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			selectors, err := readSelectors(cmd, args, inputFile)
			if err != nil {
				return err
			}
			return runCompile(cmd.Context(), configFrom(cmd), selectors, cmd.OutOrStdout())
		},
	}

	compileCmd.Flags().StringVarP(&inputFile, "file", "f", "", "read selector documents from a file (\"-\" for stdin)")
	compileCmd.Flags().String("format", "json", "output format: json or yaml")
	compileCmd.Flags().Int("jobs", 4, "number of selectors compiled in parallel")
	compileCmd.Flags().String("element", "", "tag whose attribute catalog is used (default: the selector's tag_name)")

	// Flags win over config file and environment.
	_ = v.BindPFlag("output.format", compileCmd.Flags().Lookup("format"))
	_ = v.BindPFlag("compile.jobs", compileCmd.Flags().Lookup("jobs"))
	_ = v.BindPFlag("compile.element", compileCmd.Flags().Lookup("element"))

	return compileCmd
}

// readSelectors gathers selectors from positional arguments and the input
// file. With neither, stdin is read.
func readSelectors(cmd *cobra.Command, args []string, inputFile string) ([]locator.Selector, error) {
	var selectors []locator.Selector
	for i, arg := range args {
		sel, err := locator.ParseSelector([]byte(arg))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		selectors = append(selectors, sel)
	}

	if inputFile == "" && len(args) == 0 {
		inputFile = "-"
	}
	if inputFile == "" {
		return selectors, nil
	}

	r, closeInput, err := openInput(cmd, inputFile)
	if err != nil {
		return nil, err
	}
	defer closeInput()

	fromFile, err := locator.DecodeSelectors(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", inputFile, err)
	}
	return append(selectors, fromFile...), nil
}

// runCompile compiles every selector, in parallel up to compile.jobs, and
// writes the results in input order.
func runCompile(ctx context.Context, cfg config.Interface, selectors []locator.Selector, out io.Writer) error {
	logger := observability.GetLogger().Named("compile")
	cat := catalog.New(cfg.Catalog().ExtraAttributes)
	element := cfg.Compile().Element

	results := make([]*locator.Result, len(selectors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Compile().Jobs)

	for i, sel := range selectors {
		i, sel := i, sel
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			builder := cat.BuilderFor(sel, element, locator.WithLogger(logger))
			res, err := builder.Build(sel)
			if err != nil {
				return fmt.Errorf("selector %d %s: %w", i+1, sel.Inspect(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Debug("Compiled selectors", zap.Int("count", len(results)))
	return writeResults(out, cfg.Output().Format, results)
}

func writeResults(out io.Writer, format string, results []*locator.Result) error {
	switch strings.ToLower(format) {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		for _, res := range results {
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
		}
		return enc.Close()
	default:
		for _, res := range results {
			line, err := res.MarshalJSON()
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
			if _, err := fmt.Fprintf(out, "%s\n", line); err != nil {
				return err
			}
		}
		return nil
	}
}
