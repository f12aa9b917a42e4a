package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glyphwatch/clnp/admin"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate verification statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	var stats admin.Stats
	if err := adminGet("/api/admin/stats", nil, &stats); err != nil {
		return err
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
