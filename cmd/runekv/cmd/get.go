package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a value for a key",
	Long: `Get a value for a key from the kv column family.

Example:
  runekv get mykey`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		families, ok := familiesFrom(cmd)
		if !ok {
			cmd.Println("Error: store not found in context")
			return
		}

		value, found, err := families.KV.Get(args[0])
		if err != nil {
			cmd.Printf("Error getting value: %v\n", err)
			return
		}
		if !found {
			cmd.Printf("Key '%s' not found\n", args[0])
			return
		}
		fmt.Printf("%s\n", string(value))
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
