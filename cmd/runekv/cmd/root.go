package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/runekv/pkg/api"
	"github.com/ssargent/runekv/pkg/store"
)

// contextKey avoids collisions with other packages' context values.
type contextKey string

const (
	storeKey    contextKey = "store"
	familiesKey contextKey = "families"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "runekv",
	Short: "RuneKV - typed column families over an LSM engine",
	Long: `RuneKV stores typed key-value pairs, tag lists, and counters in
column families backed by an embedded LSM engine. Tag lists and counters
are maintained by merge operators, so writes never read the current value.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		s, err := store.Open(store.Config{DataDir: dataDir})
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		families, err := api.OpenFamilies(s)
		if err != nil {
			_ = s.Close()
			return fmt.Errorf("failed to open column families: %w", err)
		}
		ctx := context.WithValue(cmd.Context(), storeKey, s)
		ctx = context.WithValue(ctx, familiesKey, families)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if s, ok := cmd.Context().Value(storeKey).(*store.Store); ok {
			return s.Close()
		}
		return nil
	},
}

// familiesFrom fetches the opened column families placed in the command
// context by the root command.
func familiesFrom(cmd *cobra.Command) (*api.Families, bool) {
	families, ok := cmd.Context().Value(familiesKey).(*api.Families)
	return families, ok
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global data directory flag
	rootCmd.PersistentFlags().StringP("data-dir", "d", "./data", "Data directory for the store")
}
