package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-explorer/internal/domain"
	"github.com/naka-gawa/repo-explorer/internal/render"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Searches GitHub repositories and renders them as cards",
	Long: `Searches GitHub repositories by free text, language and topics.
Without any free text or topics, only repositories created in the last 30 days are shown.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := mustApp(ctx, cmd, false)
		defer a.close()

		params := searchParamsFromFlags(cmd, args)
		result, err := a.explorer.Search(ctx, params)
		a.exitOnFetchError(err)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			a.printJSON(result)
			return
		}
		if len(result.Items) == 0 {
			fmt.Println("No repositories found. Try adjusting your search criteria or filters.")
			return
		}
		fmt.Printf("%d repositories (%s total)\n", len(result.Items), render.FormatThousands(result.TotalCount))
		fmt.Println(render.Cards(result.Items, a.bookmarkedSet(ctx)))
	},
}

// addSearchFlags registers the filters shared by search and analytics.
func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("language", "l", domain.AllLanguages, "Filter by language (All disables the filter)")
	cmd.Flags().StringSliceP("topic", "t", nil, "Filter by topic (repeatable)")
	cmd.Flags().StringP("sort", "s", string(domain.SortStars), "Sort by stars, forks or updated")
	cmd.Flags().String("order", string(domain.OrderDesc), "Sort order: desc or asc")
	cmd.Flags().Int("per-page", 30, "Results per page (1-100)")
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
}

func searchParamsFromFlags(cmd *cobra.Command, args []string) domain.SearchParams {
	language, _ := cmd.Flags().GetString("language")
	topics, _ := cmd.Flags().GetStringSlice("topic")
	sort, _ := cmd.Flags().GetString("sort")
	order, _ := cmd.Flags().GetString("order")
	perPage, _ := cmd.Flags().GetInt("per-page")
	page, _ := cmd.Flags().GetInt("page")
	return domain.SearchParams{
		Query:    strings.Join(args, " "),
		Language: language,
		Topics:   topics,
		Sort:     domain.SortKey(sort),
		Order:    domain.Order(order),
		PerPage:  perPage,
		Page:     page,
	}
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addSearchFlags(searchCmd)
}
