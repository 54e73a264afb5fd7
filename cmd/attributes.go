package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/xlocate/internal/catalog"
	"github.com/xkilldash9x/xlocate/internal/observability"
)

// newAttributesCmd creates the `attributes` command, which prints the
// attribute catalog the compiler uses for a tag.
func newAttributesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attributes [tag]",
		Short: "List the attribute names known for an element",
		Long: `List the attribute names the compiler treats as valid for a tag. Whether
"label" is listed decides if a label locator matches the label attribute or
the text of an associated <label>. Without a tag, lists the tags that carry
element specific attributes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			cat := catalog.New(cfg.Catalog().ExtraAttributes)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				_, err := fmt.Fprintln(out, strings.Join(cat.Tags(), "\n"))
				return err
			}

			tag := catalog.Normalize(args[0])
			if !catalog.Known(tag) {
				if _, extra := cfg.Catalog().ExtraAttributes[tag]; !extra {
					observability.GetLogger().Warn("Unknown element; listing global attributes only", zap.String("tag", tag))
				}
			}
			_, err := fmt.Fprintln(out, strings.Join(cat.Attributes(tag), "\n"))
			return err
		},
	}
}
