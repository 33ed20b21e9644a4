package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the generator, behavior and noise chosen for each field",
	Long: `
Prepare every record type and print the resulting plan: the dependency
order, and for each field the generator, the rule that picked it, whether
values are pooled, and the noise rate.

Examples:
  datasynth plan
  datasynth plan -d records.yaml --config datasynth.config.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.schema.Prepare(); err != nil {
			return fmt.Errorf("failed to prepare %s: %w", e.cfg.Definition, err)
		}
		plan, err := e.schema.Plan()
		if err != nil {
			return err
		}

		color.Green("📊 Found %d record types", len(plan.Order))
		color.Cyan("📋 Generation order: %s", strings.Join(plan.Order, " → "))

		for _, name := range plan.Order {
			rp := plan.Records[name]
			fmt.Println()
			if len(rp.Dependencies) > 0 {
				color.Cyan("  📝 %s (references %s)", name, strings.Join(rp.Dependencies, ", "))
			} else {
				color.Cyan("  📝 %s", name)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "  FIELD\tGENERATOR\tRULE\tBEHAVIOR\tNOISE")
			for _, fp := range rp.Fields {
				behavior := fp.Behavior
				if fp.Capacity > 0 {
					behavior = fmt.Sprintf("%s(%d)", fp.Behavior, fp.Capacity)
				}
				generator := fp.Generator
				if fp.Field.Relation != nil {
					generator = fmt.Sprintf("%s → %s", fp.Generator, fp.Field.Relation)
				}
				rule := string(fp.Strategy)
				if rule == "heuristic" {
					rule = color.YellowString(rule)
				}
				fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%.2f\n", fp.Field.Name, generator, rule, behavior, fp.NoiseRate)
			}
			w.Flush()
		}
		return nil
	},
}
