package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var itemsCmd = &cobra.Command{
	Use:   "items [id]",
	Short: "Browse the item catalog",
	Long: `List catalog items, or show one item in detail.

Examples:
  mediarr items                  # List everything
  mediarr items --kind episode   # Episodes only
  mediarr items --library TV     # One library
  mediarr items 42               # Single item detail`,
	Args: cobra.MaximumNArgs(1),
	RunE: runItemsCmd,
}

func init() {
	rootCmd.AddCommand(itemsCmd)
	itemsCmd.Flags().String("kind", "", "Filter by kind (movie, series, season, episode, video, audio)")
	itemsCmd.Flags().String("library", "", "Filter by library name")
	itemsCmd.Flags().IntP("limit", "n", 50, "Number of items to show")
}

func runItemsCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item ID: %s", args[0])
		}
		return showItem(client, id)
	}

	kind, _ := cmd.Flags().GetString("kind")
	libraryName, _ := cmd.Flags().GetString("library")
	limit, _ := cmd.Flags().GetInt("limit")

	items, err := client.Items(kind, libraryName, limit)
	if err != nil {
		return fmt.Errorf("failed to fetch items: %w", err)
	}

	if jsonOutput {
		printJSON(items)
		return nil
	}

	if len(items.Items) == 0 {
		fmt.Println("No items")
		return nil
	}

	rows := make([][]string, 0, len(items.Items))
	for _, it := range items.Items {
		probed := ""
		if it.HasMediaInfo {
			probed = "yes"
		}
		rows = append(rows, []string{
			strconv.FormatInt(it.ID, 10), it.Kind, it.Title, it.Library, probed,
		})
	}

	fmt.Printf("Items (%d of %d):\n", len(items.Items), items.Total)
	fmt.Println(renderTable([]string{"ID", "KIND", "TITLE", "LIBRARY", "PROBED"}, rows,
		[]columnAlignment{alignRight}))
	return nil
}

func showItem(client *Client, id int64) error {
	it, err := client.Item(id)
	if err != nil {
		return fmt.Errorf("failed to fetch item: %w", err)
	}

	if jsonOutput {
		printJSON(it)
		return nil
	}

	fmt.Printf("Item #%d\n", it.ID)
	fmt.Printf("  Kind:       %s\n", it.Kind)
	fmt.Printf("  Title:      %s\n", it.Title)
	fmt.Printf("  Library:    %s\n", it.Library)
	if it.Path != "" {
		fmt.Printf("  Path:       %s\n", it.Path)
	}
	if it.SeriesID != nil {
		fmt.Printf("  Series:     #%d\n", *it.SeriesID)
	}
	if it.SeasonNumber != nil {
		fmt.Printf("  Season:     %d\n", *it.SeasonNumber)
	}
	fmt.Printf("  Media info: %v\n", it.HasMediaInfo)
	fmt.Printf("  Shortcut:   %v\n", it.IsShortcut)
	fmt.Printf("  Added:      %s\n", it.AddedAt)
	return nil
}
