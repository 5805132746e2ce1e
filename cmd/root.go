package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/nagyistge/manta-madtom/internal/config"
	"github.com/nagyistge/manta-madtom/internal/ctxlog"
	"github.com/nagyistge/manta-madtom/internal/wizard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// serviceConfig is read when no checker-hosts config file is found.
var serviceConfig = wizard.ServiceConfigPath

var rootCmd = &cobra.Command{
	Use:   "checker-hosts",
	Short: "Generate the health checker host inventory of a Manta region",
	Long: `checker-hosts discovers every monitorable instance of an application across
the datacenters of a region (UFDS, SAPI, VMAPI and CNAPI) and writes the
host inventory the health checker reads.

The output is a JSON file by default; YAML and a D2 diagram are also available.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return ctxlog.Configure(viper.GetString("log.level"), viper.GetString("log.format"))
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: checker-hosts.{yml,json} in . or /opt/smartdc/madtom/etc, then "+wizard.ServiceConfigPath+")")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default: $LOG_LEVEL or info)")
	rootCmd.PersistentFlags().String("log-format", "", "log format: json, text")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	def := config.Default()
	viper.SetDefault("log.level", def.Log.Level)
	viper.SetDefault("log.format", def.Log.Format)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("checker-hosts")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/opt/smartdc/madtom/etc")
	}

	if err := config.BindEnv(viper.GetViper()); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding environment: %v\n", err)
	}

	err := viper.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = readServiceConfig()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
	}
}

// readServiceConfig falls back to the config.json the zone is provisioned
// with. A missing file is not an error.
func readServiceConfig() error {
	if _, err := os.Stat(serviceConfig); err != nil {
		return nil
	}
	viper.SetConfigFile(serviceConfig)
	return viper.ReadInConfig()
}
