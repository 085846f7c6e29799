package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all skills and counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			return fmt.Errorf("refusing to clear without --yes")
		}

		svc, closer, err := OpenService()
		if err != nil {
			return err
		}
		defer closer()

		if err := svc.Clear(); err != nil {
			return err
		}
		fmt.Println("all data cleared")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "Confirm deletion")
	rootCmd.AddCommand(clearCmd)
}
