package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigCheckCommand(ctx))
	return configCmd
}

func newConfigCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate config.yml and list the configured shows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.loadConfig()
			if err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"Slug", "Name", "Acronym", "Fireside", "Legacy", "RSS"})
			for _, show := range cfg.OrderedShows() {
				tw.AppendRow(table.Row{show.Slug, show.Name, show.Acronym, show.FiresideURL, orDash(show.JBURL), orDash(show.RSSURL)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, tw.Render())
			fmt.Fprintf(out, "%s is valid: %d shows, %d username aliases, %d protected files\n",
				ctx.settings.ConfigPath, len(cfg.Shows), len(cfg.UsernamesMap), len(cfg.DataDontOverride))
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
