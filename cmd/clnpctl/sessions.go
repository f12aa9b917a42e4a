package main

import (
	"fmt"
	"net/url"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/glyphwatch/clnp/admin"
)

var (
	sessionsLimit  int
	sessionsOffset int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recent sessions, newest first",
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 50, "maximum rows to return")
	sessionsCmd.Flags().IntVar(&sessionsOffset, "offset", 0, "rows to skip")
}

func runSessions(cmd *cobra.Command, args []string) error {
	q := url.Values{
		"limit":  {strconv.Itoa(sessionsLimit)},
		"offset": {strconv.Itoa(sessionsOffset)},
	}
	var resp struct {
		Sessions []admin.SessionRow `json:"sessions"`
	}
	if err := adminGet("/api/admin/sessions", q, &resp); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tMODE\tSCORE\tVERDICT\tDEVICE")
	for _, row := range resp.Sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.3f\t%s\t%s\n",
			row.ID, row.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), row.Mode, row.Score, row.VerdictClass, row.DeviceType)
	}
	return tw.Flush()
}
