package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "whplan",
	Short: "Multi-robot warehouse action scheduler",
	Long: `whplan computes a minimal-makespan, collision-free action schedule for
a warehouse grid: robots move, pick up shelves, carry them to picking
stations and deliver products until all order requirements are met.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	viper.SetEnvPrefix("WHPLAN")
	viper.AutomaticEnv()
	cobra.CheckErr(viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")))
}
