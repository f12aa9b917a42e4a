package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glyphwatch/clnp/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session <id>",
	Short: "Print the full record for one session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSession,
}

func runSession(cmd *cobra.Command, args []string) error {
	var rec session.Record
	if err := adminGet("/api/admin/session/"+args[0], nil, &rec); err != nil {
		return err
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
