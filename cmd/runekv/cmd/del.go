package cmd

import (
	"github.com/spf13/cobra"
)

// delCmd represents the del command
var delCmd = &cobra.Command{
	Use:   "del <key>",
	Short: "Delete a key",
	Long: `Delete a key from the kv column family.

Example:
  runekv del mykey`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		families, ok := familiesFrom(cmd)
		if !ok {
			cmd.Println("Error: store not found in context")
			return
		}

		if err := families.KV.Delete(args[0]); err != nil {
			cmd.Printf("Error deleting key: %v\n", err)
			return
		}
		cmd.Printf("Deleted key '%s'\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(delCmd)
}
