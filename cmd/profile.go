package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hourglass/internal/config"
	"github.com/Tiliavir/hourglass/internal/model"
)

var (
	profileName    string
	profileRate    float64
	profileDOPRate float64
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the billing profile used for earnings",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save name, hourly rate and USD to DOP exchange rate",
	Args:  cobra.NoArgs,
	RunE:  runProfileSet,
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the billing profile and the saved API key",
	Args:  cobra.NoArgs,
	RunE:  runProfileReset,
}

func init() {
	profileSetCmd.Flags().StringVar(&profileName, "name", "", "Name shown on reports")
	profileSetCmd.Flags().Float64Var(&profileRate, "rate", 0, "Hourly rate in USD")
	profileSetCmd.Flags().Float64Var(&profileDOPRate, "dop-rate", 0, "USD to DOP exchange rate")
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileResetCmd)
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	fmt.Print(describeProfile(cfg))
	return nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if !flags.Changed("name") && !flags.Changed("rate") && !flags.Changed("dop-rate") {
		fmt.Fprintln(cmd.ErrOrStderr(), "nothing to set; pass --name, --rate or --dop-rate")
		return nil
	}
	if profileRate < 0 || profileDOPRate < 0 {
		fmt.Fprintln(os.Stderr, "rates must not be negative")
		os.Exit(1)
	}
	saved, err := editSaved(openStore(), func(c *config.Config) {
		if flags.Changed("name") {
			c.Billing.Name = strings.TrimSpace(profileName)
		}
		if flags.Changed("rate") {
			c.Billing.HourlyRate = profileRate
		}
		if flags.Changed("dop-rate") {
			c.Billing.USDToDOPRate = profileDOPRate
		}
	})
	if err != nil {
		fail(err)
	}
	fmt.Print(describeProfile(saved))
	return nil
}

func runProfileReset(cmd *cobra.Command, args []string) error {
	if _, err := resetProfile(openStore()); err != nil {
		fail(err)
	}
	fmt.Println("Profile and API key cleared.")
	return nil
}

// resetProfile clears the billing profile together with the credential.
func resetProfile(store config.Store) (config.Config, error) {
	return editSaved(store, func(c *config.Config) {
		c.APIKey = ""
		c.WorkspaceID = ""
		c.Billing = model.BillingProfile{}
	})
}

func describeProfile(c config.Config) string {
	var b strings.Builder
	name := c.Billing.Name
	if name == "" {
		name = "(not set)"
	}
	fmt.Fprintf(&b, "Name:         %s\n", name)
	fmt.Fprintf(&b, "Hourly rate:  %s\n", rateOrUnset(c.Billing.HourlyRate, "$"))
	fmt.Fprintf(&b, "USD to DOP:   %s\n", rateOrUnset(c.Billing.USDToDOPRate, ""))
	key := "(not set)"
	if c.APIKey != "" {
		key = maskKey(c.APIKey)
	}
	fmt.Fprintf(&b, "API key:      %s\n", key)
	if !c.Billing.Complete() {
		b.WriteString("Profile incomplete: earnings need an hourly rate; DOP earnings also need the exchange rate.\n")
	}
	return b.String()
}

func rateOrUnset(f float64, prefix string) string {
	if f == 0 {
		return "(not set)"
	}
	return fmt.Sprintf("%s%.2f", prefix, f)
}

// maskKey keeps the last four characters.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
