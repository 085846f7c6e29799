package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"skilltree/internal/skill"
)

var summaryJSON bool

var summaryCmd = &cobra.Command{
	Use:   "summary <skill>",
	Short: "Aggregate counters and descendant counts for a subtree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closer, err := OpenService()
		if err != nil {
			return err
		}
		defer closer()

		sk, err := ResolveSkill(svc, args[0])
		if err != nil {
			return err
		}
		summary, err := svc.Summarize(sk.ID)
		if err != nil {
			return err
		}

		if summaryJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}

		printSummary(summary)
		return nil
	},
}

func init() {
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(summaryCmd)
}

func printSummary(s skill.Summary) {
	fmt.Printf("\n  %s (id %d)\n", s.Name, s.ID)
	fmt.Println("  ────────────────────────────────────────")
	fmt.Printf("  Descendants: %d  Direct children: %d\n", s.TotalDescendants, s.DirectChildrenCount)

	if len(s.CounterTotals) == 0 {
		fmt.Println("  No counters in this subtree.")
		return
	}
	fmt.Println("  COUNTERS")
	for _, ct := range s.CounterTotals {
		unit := ""
		if ct.Unit != nil {
			unit = " " + *ct.Unit
		}
		line := fmt.Sprintf("  %s: %g%s", ct.Name, ct.Total, unit)
		if ct.Target != nil {
			line += fmt.Sprintf(" / %g%s", *ct.Target, unit)
		}
		fmt.Printf("%s  (%d counters)\n", line, ct.Count)
	}
}
