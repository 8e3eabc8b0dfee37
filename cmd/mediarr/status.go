package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Daemon and queue status",
	Long: `Show daemon status: catch-up mode, per-queue worker and backlog
counts, and catalog size.

Examples:
  mediarr status          # Human-readable dashboard
  mediarr status --json   # Raw status JSON`,
	Args: cobra.NoArgs,
	RunE: runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatusCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		printJSON(status)
		return nil
	}

	fmt.Print(formatStatus(serverURL, status))
	return nil
}

func formatStatus(server string, s *StatusResponse) string {
	var b strings.Builder

	mode := "disabled"
	if s.Catchup.Enabled {
		mode = "enabled"
	}
	pools := "stopped"
	if s.Catchup.Running {
		pools = "running"
	}

	fmt.Fprintf(&b, "mediarr | Server: %s (%s)\n\n", server, s.Status)
	fmt.Fprintf(&b, "Catch-up: %s, queues %s\n", mode, pools)
	fmt.Fprintf(&b, "  Tasks:                %s\n", strings.Join(s.Catchup.Tasks, ", "))
	fmt.Fprintf(&b, "  Fingerprint unlocked: %v\n", s.Catchup.FingerprintUnlocked)
	fmt.Fprintf(&b, "  Items:                %d\n", s.Items)
	fmt.Fprintf(&b, "  Users:                %d\n\n", s.Users)

	rows := make([][]string, 0, len(s.Catchup.Queues))
	for _, q := range s.Catchup.Queues {
		rows = append(rows, []string{
			q.Kind,
			strconv.Itoa(q.Workers),
			strconv.Itoa(q.Pending),
			strconv.Itoa(q.InFlight),
			strconv.FormatUint(q.Processed, 10),
			strconv.FormatUint(q.Retried, 10),
			strconv.FormatUint(q.Failed, 10),
			strconv.FormatUint(q.Dropped, 10),
		})
	}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight,
		alignRight, alignRight, alignRight, alignRight}
	b.WriteString(renderTable(
		[]string{"QUEUE", "WORKERS", "PENDING", "ACTIVE", "DONE", "RETRIED", "FAILED", "DROPPED"},
		rows, aligns))
	b.WriteString("\n")

	return b.String()
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
