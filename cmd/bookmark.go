package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "Manages bookmarked repositories",
}

var bookmarkToggleCmd = &cobra.Command{
	Use:   "toggle <repository-id>",
	Short: "Bookmarks a repository, or removes the bookmark if it exists",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			fmt.Fprintf(os.Stderr, "Invalid repository id %q. Please use the numeric id shown by --json.\n", args[0])
			os.Exit(1)
		}

		a := mustApp(ctx, cmd, false)
		defer a.close()

		on, err := a.bookmarks.Toggle(ctx, id)
		if err != nil {
			a.fail("Failed to toggle bookmark: %v", err)
			return
		}
		if on {
			fmt.Printf("Bookmarked %d\n", id)
		} else {
			fmt.Printf("Removed bookmark %d\n", id)
		}
	},
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists bookmarked repository ids",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		a := mustApp(ctx, cmd, false)
		defer a.close()

		ids, err := a.bookmarks.List(ctx)
		if err != nil {
			a.fail("Failed to list bookmarks: %v", err)
			return
		}
		a.printJSON(ids)
	},
}

func init() {
	rootCmd.AddCommand(bookmarkCmd)
	bookmarkCmd.AddCommand(bookmarkToggleCmd, bookmarkListCmd)
}
