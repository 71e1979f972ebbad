package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-explorer/internal/domain"
	"github.com/naka-gawa/repo-explorer/internal/render"
)

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "Lists recently created repositories with more than ten stars",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		language, _ := cmd.Flags().GetString("language")
		periodStr, _ := cmd.Flags().GetString("period")
		period := domain.Period(periodStr)
		switch period {
		case domain.PeriodDay, domain.PeriodWeek, domain.PeriodMonth:
		default:
			fmt.Fprintf(os.Stderr, "Invalid --period %q. Please use day, week or month.\n", periodStr)
			os.Exit(1)
		}

		a := mustApp(ctx, cmd, false)
		defer a.close()

		repos, err := a.explorer.Trending(ctx, language, period)
		a.exitOnFetchError(err)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			a.printJSON(repos)
			return
		}
		fmt.Println(render.Cards(repos, a.bookmarkedSet(ctx)))
	},
}

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Ranks the most frequent topics among this week's trending repositories",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := mustApp(ctx, cmd, false)
		defer a.close()

		topics, err := a.explorer.PopularTopics(ctx)
		a.exitOnFetchError(err)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			a.printJSON(topics)
			return
		}
		for i, t := range topics {
			fmt.Printf("%2d. %s\n", i+1, t)
		}
	},
}

func init() {
	rootCmd.AddCommand(trendingCmd)
	trendingCmd.Flags().StringP("language", "l", domain.AllLanguages, "Filter by language (All disables the filter)")
	trendingCmd.Flags().StringP("period", "p", string(domain.PeriodWeek), "Creation window: day, week or month")
	trendingCmd.Flags().Bool("json", false, "Print the result as JSON")

	rootCmd.AddCommand(topicsCmd)
	topicsCmd.Flags().Bool("json", false, "Print the result as JSON")
}
