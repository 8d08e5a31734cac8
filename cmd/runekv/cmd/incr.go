package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// incrCmd represents the incr command
var incrCmd = &cobra.Command{
	Use:   "incr <key> [delta]",
	Short: "Increment a counter",
	Long: `Increment a counter by a signed delta (default 1). The delta is a
blind merge handled by the counter merge operator; an untouched counter
starts at zero.

Example:
  runekv incr hits
  runekv incr hits 10
  runekv incr hits -- -5`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		families, ok := familiesFrom(cmd)
		if !ok {
			cmd.Println("Error: store not found in context")
			return
		}

		delta := int64(1)
		if len(args) == 2 {
			parsed, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				cmd.Printf("Error: invalid delta '%s': %v\n", args[1], err)
				return
			}
			delta = parsed
		}

		if err := families.Counters.Merge(args[0], delta); err != nil {
			cmd.Printf("Error incrementing counter: %v\n", err)
			return
		}

		value, _, err := families.Counters.Get(args[0])
		if err != nil {
			cmd.Printf("Error reading counter: %v\n", err)
			return
		}
		fmt.Printf("%d\n", value)
	},
}

func init() {
	rootCmd.AddCommand(incrCmd)
}
