package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-explorer/internal/render"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics [query]",
	Short: "Summarizes a page of search results as statistics and charts",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := mustApp(ctx, cmd, false)
		defer a.close()

		dashboard, err := a.explorer.Dashboard(ctx, searchParamsFromFlags(cmd, args))
		a.exitOnFetchError(err)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			a.printJSON(dashboard)
			return
		}
		if len(dashboard.Repositories) == 0 {
			fmt.Println("No data to analyze. Search for repositories to see analytics.")
			return
		}
		fmt.Println(render.Analytics(dashboard.Analytics))
		if len(dashboard.Topics) > 0 {
			fmt.Println("Popular topics: " + strings.Join(dashboard.Topics, ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(analyticsCmd)
	addSearchFlags(analyticsCmd)
}
