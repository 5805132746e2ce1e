package cmd

import (
	"fmt"
	"os"

	"github.com/nagyistge/manta-madtom/internal/config"
	"github.com/nagyistge/manta-madtom/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the checker-hosts configuration",
	Long: `Check that every required setting is present and well formed. No remote
service is contacted.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprint(os.Stderr, ui.FormatError("Failed to load config", err.Error(), "run 'checker-hosts init' to create a config file"))
		return err
	}

	source := viper.ConfigFileUsed()
	if source == "" {
		source = "defaults and environment"
	}
	fmt.Fprintln(ui.Out, ui.Bold("Validating "+source+"..."))

	errs := cfg.Validate()
	for _, ve := range errs {
		ui.ValidationErr(ve.Field, ve.Message, ve.Suggestion)
	}
	if len(errs) > 0 {
		fmt.Fprintf(ui.Out, "\n%d validation errors\n", len(errs))
		return fmt.Errorf("%w: %d validation errors", config.ErrInvalidConfig, len(errs))
	}

	ui.ValidationOK("region", fmt.Sprintf("%s (local datacenter %s)", cfg.Region, cfg.Datacenter))
	ui.ValidationOK("ufds.url", cfg.UFDS.URL)
	ui.ValidationOK("networkTag", fmt.Sprintf("%s, agents on %s", cfg.NetworkTag, cfg.AgentNetworkTag))
	ui.ValidationOK("output", fmt.Sprintf("%s (%s)", cfg.Output, cfg.Format))
	fmt.Fprintln(ui.Out)
	ui.Success("configuration valid")
	return nil
}
