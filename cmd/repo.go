package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-explorer/internal/render"
)

var repoCmd = &cobra.Command{
	Use:   "repo <owner>/<name>",
	Short: "Shows the details of a single repository",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		owner, name, err := parseRepoRef(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		a := mustApp(ctx, cmd, false)
		defer a.close()

		repo, err := a.explorer.Repository(ctx, owner, name)
		a.exitOnFetchError(err)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			a.printJSON(repo)
			return
		}
		fmt.Println(render.Card(repo, a.bookmarkedSet(ctx)[repo.ID]))
	},
}

var rateLimitCmd = &cobra.Command{
	Use:   "rate-limit",
	Short: "Shows the remaining GitHub GraphQL API quota",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := mustApp(ctx, cmd, false)
		defer a.close()

		rl, err := a.explorer.RateLimit(ctx)
		if err != nil {
			a.fail("Failed to fetch rate limit: %v", err)
			return
		}
		a.printJSON(rl)
	},
}

// parseRepoRef splits "owner/name".
func parseRepoRef(ref string) (string, string, error) {
	owner, name, ok := strings.Cut(strings.Trim(ref, "/"), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", ref)
	}
	return owner, name, nil
}

func init() {
	rootCmd.AddCommand(repoCmd)
	repoCmd.Flags().Bool("json", false, "Print the result as JSON")

	rootCmd.AddCommand(rateLimitCmd)
}
