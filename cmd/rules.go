package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Lumos-Labs-HQ/datasynth/internal/generator"
	"github.com/Lumos-Labs-HQ/datasynth/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List available generators and type-name heuristics",
	Long: `
List the generator variants in matching order, most specific first, and the
storage type names recognized as a last resort.

Examples:
  datasynth rules`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry := generator.Default()

		color.Green("🧩 Available generators (%d)", len(registry.Variants()))
		fmt.Println()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ORDER\tNAME\tRANK\tMATCHES")
		fmt.Fprintln(w, "-----\t----\t----\t-------")
		for i, v := range registry.Variants() {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, color.CyanString(v.Name()), v.Specificity(), v.Describe())
		}
		w.Flush()

		fmt.Println()
		color.Green("🔎 Storage type heuristics")
		fmt.Println()

		w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tKIND")
		fmt.Fprintln(w, "----\t----")
		for _, h := range rules.DefaultHeuristics() {
			fmt.Fprintf(w, "%s\t%s\n", h.Name, h.Kind)
		}
		w.Flush()

		fmt.Println()
		color.Cyan("💡 Force a generator with overrides in datasynth.config.yaml:")
		fmt.Println("   overrides:")
		fmt.Println("     - pattern: \"User.nickname\"")
		fmt.Println("       generator: name")
		return nil
	},
}
