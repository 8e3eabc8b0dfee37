package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events [item-id]",
	Short: "Show recent events",
	Long: `Show recent events from the daemon's event log, newest first.
With an item ID, shows the full history for that catalog item.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	client := NewClient(serverURL)

	var events *ListEventsResponse
	var err error
	if len(args) > 0 {
		id, perr := strconv.ParseInt(args[0], 10, 64)
		if perr != nil {
			return fmt.Errorf("invalid item ID: %s", args[0])
		}
		events, err = client.ItemEvents(id)
	} else {
		events, err = client.Events(limit)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	if jsonOutput {
		printJSON(events)
		return nil
	}

	if len(events.Items) == 0 {
		fmt.Println("No events")
		return nil
	}

	rows := make([][]string, 0, len(events.Items))
	for _, e := range events.Items {
		t, _ := time.Parse(time.RFC3339, e.OccurredAt)
		entity := fmt.Sprintf("%s/%d", e.EntityType, e.EntityID)
		rows = append(rows, []string{formatTimeAgo(t.Unix()), e.EventType, entity})
	}

	fmt.Printf("Recent Events (%d):\n", events.Total)
	fmt.Println(renderTable([]string{"TIME", "TYPE", "ENTITY"}, rows, nil))
	return nil
}

func formatTimeAgo(unixTime int64) string {
	if unixTime == 0 {
		return "never"
	}
	d := time.Since(time.Unix(unixTime, 0))
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
