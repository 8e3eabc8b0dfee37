package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List media-server users",
	Long:  "List the cached media-server users, administrators first.",
	Args:  cobra.NoArgs,
	RunE:  runUsersCmd,
}

func init() {
	rootCmd.AddCommand(usersCmd)
}

func runUsersCmd(cmd *cobra.Command, args []string) error {
	client := NewClient(serverURL)

	users, err := client.Users()
	if err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	if jsonOutput {
		printJSON(users)
		return nil
	}

	if len(users.Items) == 0 {
		fmt.Println("No users")
		return nil
	}

	rows := make([][]string, 0, len(users.Items))
	for _, u := range users.Items {
		admin := ""
		if u.IsAdministrator {
			admin = "admin"
		}
		rows = append(rows, []string{strconv.FormatInt(u.ID, 10), u.Name, admin})
	}

	fmt.Println(renderTable([]string{"ID", "NAME", "ROLE"}, rows,
		[]columnAlignment{alignRight}))
	return nil
}
