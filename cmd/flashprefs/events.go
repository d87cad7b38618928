package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/cristianoliveira/flashprefs/cmd"
	"github.com/cristianoliveira/flashprefs/internal/app"
	"github.com/spf13/cobra"
)

// NewEventsCmd creates the events command with explicit dependencies.
func NewEventsCmd(open serviceOpener) *cobra.Command {
	if open == nil {
		panic("NewEventsCmd: open dependency cannot be nil")
	}

	var limit int
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "List recorded toggle events",
		Long: `List recorded toggle events, newest first.

Events are recorded when analytics_backend is "sqlite".`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return withService(open, func(svc settingsService) error {
				rows, err := svc.Events(limit)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(c.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "TIME\tEVENT\tSETTING\tVALUE\tDANGEROUS\tSESSION")
				for _, r := range rows {
					fmt.Fprintf(tw, "%s\t%s\t%v\t%v\t%v\t%s\n",
						app.EventTime(r.CreatedAt), r.Name,
						r.Properties["setting"], r.Properties["value"], r.Properties["dangerous"],
						r.SessionID)
				}
				return tw.Flush()
			})
		},
	}
	eventsCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of events (default: events_limit)")
	return eventsCmd
}

var eventsCmd = NewEventsCmd(func() (settingsService, error) { return defaultOpener() })

func init() {
	cmd.RootCmd.AddCommand(eventsCmd)
}
