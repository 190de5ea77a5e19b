package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"show-scraper/internal/normalize"
)

func newTitleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "title <raw title>",
		Short: "Print the plain title written for a feed title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), normalize.PlainTitle(strings.Join(args, " ")))
			return nil
		},
	}
}
