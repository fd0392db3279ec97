package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rushteam/scentkit/logging"
)

func newSimilarCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "similar <name>",
		Short: "Print the fragrances most similar to the given name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logging.New(cfg.Log))
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.engine.Similar(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tBRAND\tRATING")
			for _, it := range items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\n", it.ID, it.Name, it.Brand, it.RatingValue)
			}
			return tw.Flush()
		},
	}
}
