package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/azw-io/azapi/cmd/azapi/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "azapi",
	Short: "Azure management and Graph API CLI",
	Long: `A command-line interface for issuing authenticated calls against the
Azure Resource Manager API and the Microsoft Graph API.

Credentials are read from the ARM_CLIENT_ID, ARM_CLIENT_SECRET, and
ARM_TENANT_ID environment variables. Acquired tokens are cached on disk
next to the invoking binary and reused across runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.azapi/config.yml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().String("out", "", "write the decoded result to a JSON file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log request URLs before dispatch")
	rootCmd.PersistentFlags().Bool("debug", false, "log full requests and responses")
	rootCmd.PersistentFlags().String("cache", "file", "token cache backend (file, memory, nats, none)")
	rootCmd.PersistentFlags().String("cache-file", "", "token cache file path override")
	rootCmd.PersistentFlags().String("nats-url", "", "NATS server URL for the nats cache backend")
	rootCmd.PersistentFlags().String("nats-bucket", "azapi-token-cache", "NATS KV bucket for the nats cache backend")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	viper.BindPFlag("out", rootCmd.PersistentFlags().Lookup("out"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("cache", rootCmd.PersistentFlags().Lookup("cache"))
	viper.BindPFlag("cache-file", rootCmd.PersistentFlags().Lookup("cache-file"))
	viper.BindPFlag("nats-url", rootCmd.PersistentFlags().Lookup("nats-url"))
	viper.BindPFlag("nats-bucket", rootCmd.PersistentFlags().Lookup("nats-bucket"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewRestCommand())
	rootCmd.AddCommand(commands.NewGraphCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.azapi/config.yml
		viper.AddConfigPath(filepath.Join(home, ".azapi"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match
	viper.SetEnvPrefix("AZAPI")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
