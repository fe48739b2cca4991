package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/depscan/pkg/depscan/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "depscan [path]",
		Short: "Find unused and missing npm dependencies",
		Long: `Depscan analyzes a JavaScript/TypeScript project and reports declared
dependencies no source file imports, and imported packages the manifest
never declares.

Examples:
  depscan                        # Check the current directory
  depscan ./packages/app         # Check a specific project
  depscan -o json .              # Machine-readable output
  depscan -i 'src/legacy' .      # Exclude a subtree from the scan
  depscan --ignore-bin-packages  # Skip CLI-only packages
  depscan watch .                # Re-check on file changes`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/depscan/config.yaml)")
	rootCmd.PersistentFlags().StringSliceP("ignore", "i", nil, "ignore patterns for paths and dependency names (can repeat)")
	rootCmd.PersistentFlags().String("ignore-file", "", "custom ignore filename read from the project root")
	rootCmd.PersistentFlags().Bool("no-ignore-file", false, "do not read the custom ignore file")
	rootCmd.PersistentFlags().Bool("skip-missing", false, "skip the missing-dependency computation")
	rootCmd.PersistentFlags().Bool("ignore-bin-packages", false, "exclude bin-only packages from reports")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "override worker count (0=auto)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (pretty, plain, json)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().Bool("no-fail", false, "exit zero even when issues are found")

	_ = viper.BindPFlag("ignore_patterns", rootCmd.PersistentFlags().Lookup("ignore"))
	_ = viper.BindPFlag("ignore_file", rootCmd.PersistentFlags().Lookup("ignore-file"))
	_ = viper.BindPFlag("skip_missing", rootCmd.PersistentFlags().Lookup("skip-missing"))
	_ = viper.BindPFlag("ignore_bin_packages", rootCmd.PersistentFlags().Lookup("ignore-bin-packages"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_fail", rootCmd.PersistentFlags().Lookup("no-fail"))
}

// initConfig wires the config file and environment into the global viper
// instance before any command runs.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, "depscan"))

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "depscan"))
		}
	}

	viper.SetEnvPrefix("DEPSCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	// The no-ignore-file flag inverts into the stored key.
	if f := rootCmd.PersistentFlags().Lookup("no-ignore-file"); f != nil && f.Changed {
		viper.Set("read_ignore_file", false)
	}

	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
