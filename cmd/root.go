package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kennyg/skillset/internal/config"
	"github.com/kennyg/skillset/internal/logger"
	"github.com/kennyg/skillset/internal/skillset"
	"github.com/kennyg/skillset/internal/ui"
)

var (
	// Version is set at build time
	Version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "skillset",
	Short: "Swap bundles of Claude skills and agents",
	Long: `skillset activates named bundles of skills and agents for Claude.

A skillset is defined in .claude/skillsets.json. Activating one removes the
items the previous skillset installed (except pinned ones) and downloads the
new set from the source repository.

Run without a command to list the available skillsets.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.SetLogLevel(viper.GetString("log_level")); err != nil {
			return errors.Errorf("invalid log level %q", viper.GetString("log_level"))
		}
		logger.SetLogFormat(viper.GetString("log_format"))
		logger.SetLogOutput(cmd.ErrOrStderr())

		entry := logger.L.WithField("command", cmd.Name())
		cmd.SetContext(logger.WithLogger(cmd.Context(), entry))
		return nil
	},
	Args: cobra.NoArgs,
	Run:  runList,
}

// Execute runs the root command. An interrupt cancels the command's context,
// which stops in-flight fetches before the state is committed.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("dir", "", "Project root (default: nearest directory with .claude or .git)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text or json)")

	viper.BindPFlag("dir", rootCmd.PersistentFlags().Lookup("dir"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	viper.SetDefault("workers", skillset.DefaultWorkers)
	viper.SetDefault("timeout", 30*time.Second)

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(unpinCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	// Environment variables
	viper.SetEnvPrefix("SKILLSET")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if dir := config.UserConfigDir(); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "skillset %s\n", Version)
	},
}

// exitWithError prints an error and exits
func exitWithError(msg string) {
	fmt.Fprintln(os.Stderr, ui.Error.Render("Error: "+msg))
	os.Exit(1)
}
