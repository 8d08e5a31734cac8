package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/runekv/pkg/merge"
)

// tagCmd groups the tag subcommands
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage a key's tag list",
	Long: `Manage the tag list attached to a key. Additions and removals
are blind merges handled by the list merge operator; the current list is
never read on the write path.`,
}

var tagAddCmd = &cobra.Command{
	Use:     "add <key> <tag>...",
	Short:   "Add tags to a key",
	Example: "  runekv tag add doc1 alpha beta",
	Args:    cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		families, ok := familiesFrom(cmd)
		if !ok {
			cmd.Println("Error: store not found in context")
			return
		}

		if err := families.Tags.Merge(args[0], merge.Add(args[1:]...)); err != nil {
			cmd.Printf("Error adding tags: %v\n", err)
			return
		}
		cmd.Printf("Added %d tag(s) to '%s'\n", len(args)-1, args[0])
	},
}

var tagRmCmd = &cobra.Command{
	Use:     "rm <key> <tag>...",
	Short:   "Remove tags from a key",
	Example: "  runekv tag rm doc1 alpha",
	Args:    cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		families, ok := familiesFrom(cmd)
		if !ok {
			cmd.Println("Error: store not found in context")
			return
		}

		if err := families.Tags.Merge(args[0], merge.Remove(args[1:]...)); err != nil {
			cmd.Printf("Error removing tags: %v\n", err)
			return
		}
		cmd.Printf("Removed %d tag(s) from '%s'\n", len(args)-1, args[0])
	},
}

var tagGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "List a key's tags",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		families, ok := familiesFrom(cmd)
		if !ok {
			cmd.Println("Error: store not found in context")
			return
		}

		tags, found, err := families.Tags.Get(args[0])
		if err != nil {
			cmd.Printf("Error getting tags: %v\n", err)
			return
		}
		if !found {
			cmd.Printf("Key '%s' not found\n", args[0])
			return
		}
		fmt.Printf("%s\n", strings.Join(tags, " "))
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRmCmd)
	tagCmd.AddCommand(tagGetCmd)
}
