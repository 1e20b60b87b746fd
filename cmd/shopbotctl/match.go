package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/shopbot/backend/internal/domain"
	"github.com/shopbot/backend/internal/infrastructure/catalog"
	"github.com/shopbot/backend/internal/usecase"
)

type matchOptions struct {
	catalogPath  string
	priceVariant string
	limit        int
}

type matchOutput struct {
	Query    string                 `json:"query"`
	Analysis domain.Criteria        `json:"analysis"`
	Tier     domain.Tier            `json:"tier"`
	Products []domain.ScoredProduct `json:"products"`
}

func newMatchCmd(opts *rootOptions) *cobra.Command {
	mopts := &matchOptions{}

	cmd := &cobra.Command{
		Use:   "match <query>",
		Short: "Match a query against a local catalog file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.logger(cmd.ErrOrStderr())

			store := catalog.NewStore(catalog.NewFileSource(mopts.catalogPath), logger)
			if err := store.Load(cmd.Context()); err != nil {
				return err
			}

			query := strings.Join(args, " ")
			criteria := usecase.NewQueryAnalyzer(logger).Analyze(query)
			matcher := usecase.NewCatalogMatcher(usecase.MatchConfig{
				PriceVariant: mopts.priceVariant,
				Limit:        mopts.limit,
			}, logger)
			result := matcher.Match(criteria, store.Snapshot(), mopts.limit)
			scored := usecase.NewResultScorer().Score(result.Products, result.Tier)

			out := matchOutput{Query: query, Analysis: criteria, Tier: result.Tier, Products: scored}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printMatch(cmd.OutOrStdout(), out, mopts.priceVariant)
			return nil
		},
	}

	cmd.Flags().StringVar(&mopts.catalogPath, "catalog", "data/catalog.json", "path to the catalog JSON file")
	cmd.Flags().StringVar(&mopts.priceVariant, "price-variant", usecase.DefaultPriceVariant, "price variant used for comparisons")
	cmd.Flags().IntVarP(&mopts.limit, "limit", "n", usecase.DefaultMatchLimit, "maximum number of products")

	return cmd
}

func printMatch(w io.Writer, out matchOutput, priceVariant string) {
	printCriteria(w, out.Analysis)

	tier := string(out.Tier)
	if tier == "" {
		tier = "none"
	}
	fmt.Fprintf(w, "\n%s %s (%d)\n", color.New(color.FgCyan).Sprint("tier:"), color.New(color.Bold).Sprint(tier), len(out.Products))

	name := color.New(color.FgGreen).SprintFunc()
	for i, p := range out.Products {
		price := "Liên hệ"
		if ref := p.ReferencePrice(priceVariant); ref > 0 {
			price = fmt.Sprintf("%d VND", ref)
		}
		fmt.Fprintf(w, "%2d. %s  %s  [%.1f]\n", i+1, name(p.Name), price, p.Similarity)
	}
}
