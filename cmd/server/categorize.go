package main

import (
	"fmt"
	"strings"

	"github.com/phrazzld/smart-todo-api/internal/categorize"
	"github.com/spf13/cobra"
)

func categorizeCmd() *cobra.Command {
	var strategyKey string

	cmd := &cobra.Command{
		Use:   "categorize <title> [description]",
		Short: "Print the category a task with this title would get",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var description *string
			if len(args) == 2 {
				description = &args[1]
			}

			category := categorize.New(strategyKey).Categorize(args[0], description)
			_, err := fmt.Fprintln(cmd.OutOrStdout(), category)
			return err
		},
	}

	cmd.Flags().StringVarP(&strategyKey, "strategy", "s", categorize.DefaultKey,
		"categorization strategy ("+strings.Join(categorize.Keys(), ", ")+"; anything else uses "+categorize.DefaultKey+")")

	return cmd
}
