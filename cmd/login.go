package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourglass/internal/config"
)

var (
	loginKey       string
	loginWorkspace string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verify and save a Clockify API key",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved API key and workspace",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVar(&loginKey, "key", "", "Clockify API key (prompted for when omitted)")
	loginCmd.Flags().StringVar(&loginWorkspace, "workspace", "", "Workspace ID (defaults to your default workspace)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	key := strings.TrimSpace(loginKey)
	if key == "" {
		fmt.Fprint(os.Stderr, "Clockify API key: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "\nno API key given")
			os.Exit(1)
		}
		key = strings.TrimSpace(line)
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "no API key given")
		os.Exit(1)
	}

	cfg.APIKey = key
	if loginWorkspace != "" {
		cfg.WorkspaceID = loginWorkspace
	}
	sess, err := newSession(cmd.Context())
	if err != nil {
		fail(err)
	}
	user, ws, _ := sess.User()

	_, err = editSaved(openStore(), func(c *config.Config) {
		c.APIKey = key
		c.WorkspaceID = ws.ID
	})
	if err != nil {
		fail(err)
	}
	fmt.Printf("Logged in as %s (%s), workspace %q.\n", user.Name, user.Email, ws.Name)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	_, err := editSaved(openStore(), func(c *config.Config) {
		c.APIKey = ""
		c.WorkspaceID = ""
	})
	if err != nil {
		fail(err)
	}
	fmt.Println("Logged out. The billing profile is kept; use \"hourglass profile reset\" to clear it.")
	if os.Getenv(config.EnvAPIKey) != "" {
		fmt.Printf("Note: %s is still set in the environment.\n", config.EnvAPIKey)
	}
	return nil
}
