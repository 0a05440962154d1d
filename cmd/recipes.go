package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/jpegtx/internal/recipe"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "List built-in recipes",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		w := cmd.OutOrStdout()
		for _, name := range recipe.Names() {
			r, _ := recipe.Get(name)
			fmt.Fprintf(w, "  %-12s %s\n", name, r.String())
		}
	},
}

func init() {
	rootCmd.AddCommand(recipesCmd)
}
