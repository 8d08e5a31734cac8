package cmd

import (
	"github.com/spf13/cobra"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "Put a key-value pair",
	Long: `Put a key-value pair into the kv column family.

Example:
  runekv put mykey myvalue`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		families, ok := familiesFrom(cmd)
		if !ok {
			cmd.Println("Error: store not found in context")
			return
		}

		if err := families.KV.Put(args[0], []byte(args[1])); err != nil {
			cmd.Printf("Error putting key-value: %v\n", err)
			return
		}
		cmd.Printf("Successfully put key '%s'\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
}
