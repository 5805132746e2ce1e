package cmd

import (
	"fmt"
	"os"

	"github.com/nagyistge/manta-madtom/internal/ui"
	"github.com/nagyistge/manta-madtom/internal/wizard"
	"github.com/spf13/cobra"
)

var initOutput string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a checker-hosts.yml config file interactively",
	Long: `Look for the monitor's service config to prefill region and UFDS settings,
then generate a config file through an interactive wizard.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initOutput, "output", "o", "checker-hosts.yml", "config file to write")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := initOutput

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("%s already exists.\n", configPath)
		fmt.Print("Overwrite? [y/N] ")
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	fmt.Println(ui.Bold("Scanning environment..."))
	detection := wizard.Detect(nil)

	answers, err := wizard.Run(detection)
	if err != nil {
		return fmt.Errorf("wizard: %w", err)
	}

	content, err := wizard.GenerateConfig(*answers)
	if err != nil {
		return fmt.Errorf("generating config: %w", err)
	}

	// holds the UFDS bind password
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	ui.Success(fmt.Sprintf("Created %s", configPath))
	fmt.Println()
	fmt.Printf("Next step: %s\n", ui.Bold("checker-hosts validate -c "+configPath))
	fmt.Printf("           %s\n", ui.Hint("then run checker-hosts generate"))

	return nil
}
