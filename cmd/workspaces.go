package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var workspacesCmd = &cobra.Command{
	Use:   "workspaces",
	Short: "List the workspaces of the logged-in user",
	Args:  cobra.NoArgs,
	RunE:  runWorkspaces,
}

func runWorkspaces(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd.Context())
	if err != nil {
		fail(err)
	}
	_, current, _ := sess.User()
	for _, ws := range sess.Workspaces() {
		marker := " "
		if ws.ID == current.ID {
			marker = "*"
		}
		fmt.Printf("%s %-26s %s\n", marker, ws.ID, ws.Name)
	}
	return nil
}
