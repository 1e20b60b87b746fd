package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shopbot/backend/internal/domain"
	"github.com/shopbot/backend/internal/usecase"
)

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <query>",
		Short: "Show the criteria extracted from a free-text query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			analyzer := usecase.NewQueryAnalyzer(opts.logger(cmd.ErrOrStderr()))
			criteria := analyzer.Analyze(query)

			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), criteria)
			}
			printCriteria(cmd.OutOrStdout(), criteria)
			return nil
		},
	}
}

func printCriteria(w io.Writer, c domain.Criteria) {
	label := color.New(color.FgCyan).SprintFunc()
	none := color.New(color.Faint).Sprint("-")

	productType := none
	if c.ProductType != nil {
		productType = *c.ProductType
	}
	brand := none
	if c.Brand != nil {
		brand = *c.Brand
	}
	price := none
	if c.PriceRange != nil {
		price = fmt.Sprintf("%s %d", c.PriceRange.Operator, c.PriceRange.Amount)
	}

	fmt.Fprintf(w, "%s %s\n", label("product type:"), productType)
	fmt.Fprintf(w, "%s %s\n", label("brand:"), brand)
	fmt.Fprintf(w, "%s %s\n", label("price:"), price)

	if len(c.Specifications) == 0 {
		fmt.Fprintf(w, "%s %s\n", label("specs:"), none)
	} else {
		names := make([]string, 0, len(c.Specifications))
		for name := range c.Specifications {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%d", name, c.Specifications[name]))
		}
		fmt.Fprintf(w, "%s %s\n", label("specs:"), strings.Join(parts, ", "))
	}

	fmt.Fprintf(w, "%s %s\n", label("intent:"), c.Intent)
}
