// Package cli implements claims command line tool inspecting the deployed
// claims contract through Neo RPC node.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "claims",
	Short: "Claims contract inspection tool",
	Long: `claims reads state of the deployed claims contract through Neo RPC node.

It shows contract settings and role registries, balances reserved for
addresses, decodes notifications of executed transactions and saves
contract storage snapshots for offline audit.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "claims", Version)
	},
}

// Version is the tool version, set at build time.
var Version = "dev"

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claims/config.yaml)")
	flags.String(cfgRPC, "", "Neo RPC node endpoint")
	flags.String(cfgContract, "", "claims contract hash (LE) or address")
	flags.Duration(cfgTimeout, defaultTimeout, "dial and request timeout")
	flags.String(cfgLogLevel, defaultLogLevel, "log level (debug, info, warn, error)")

	for _, name := range []string{cfgRPC, cfgContract, cfgTimeout, cfgLogLevel} {
		_ = viper.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".claims"))
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(viper.GetViper())

	// CLAIMS_RPC, CLAIMS_CONTRACT, CLAIMS_TIMEOUT, CLAIMS_LOG_LEVEL
	viper.SetEnvPrefix("CLAIMS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(cfgTimeout, defaultTimeout)
	v.SetDefault(cfgLogLevel, defaultLogLevel)
}

const (
	defaultTimeout  = 15 * time.Second
	defaultLogLevel = "info"
)
