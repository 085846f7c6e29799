package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"skilltree/internal/skill"
)

var importReplace bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the skill forest as JSON to stdout",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closer, err := OpenService()
		if err != nil {
			return err
		}
		defer closer()

		forest, err := svc.Export()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(forest)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a skill forest from a JSON file ('-' for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading import document: %w", err)
		}

		var trees []skill.ImportNode
		if err := json.Unmarshal(data, &trees); err != nil {
			return fmt.Errorf("parsing import document: %w", err)
		}

		svc, closer, err := OpenService()
		if err != nil {
			return err
		}
		defer closer()

		created, err := svc.Import(trees, importReplace)
		if err != nil {
			return err
		}
		fmt.Printf("imported %d tree(s)\n", len(created))
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace all existing skills and counters")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
