package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"skilltree/internal/skill"
)

var treeJSON bool

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the skill forest",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closer, err := OpenService()
		if err != nil {
			return err
		}
		defer closer()

		forest, err := svc.Tree()
		if err != nil {
			return err
		}

		if treeJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(forest)
		}

		if len(forest) == 0 {
			fmt.Println("  (no skills)")
			return nil
		}
		for _, root := range forest {
			printTreeNode(root, 0)
		}
		return nil
	},
}

func init() {
	treeCmd.Flags().BoolVar(&treeJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(treeCmd)
}

func printTreeNode(node skill.TreeNode, depth int) {
	fmt.Printf("  %s%d %s\n", strings.Repeat("  ", depth), node.ID, node.Name)
	for _, child := range node.Children {
		printTreeNode(child, depth+1)
	}
}
