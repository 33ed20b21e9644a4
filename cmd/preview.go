package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Lumos-Labs-HQ/datasynth/internal/seeder"
)

var previewRecords []string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Generate rows and print them as tables",
	Long: `
Generate rows for every record type (or only those named with --record)
and print them. Row counts come from --count, records.<Name>.count in the
config, or the global count (default 10).

Examples:
  datasynth preview
  datasynth preview -n 5 --record Employee --seed 42`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEngine()
		if err != nil {
			return err
		}
		defer e.close()

		counts := e.cfg.Counts(e.def)
		if len(previewRecords) > 0 {
			selected := make(map[string]int, len(previewRecords))
			for _, name := range previewRecords {
				n, ok := counts[name]
				if !ok {
					return fmt.Errorf("%w: %s", seeder.ErrUnknownRecord, name)
				}
				selected[name] = n
			}
			counts = selected
		}

		color.Cyan("🌱 Starting generation...")

		var (
			mu   sync.Mutex
			rows = make(map[string][]seeder.Row, len(counts))
		)
		start := time.Now()
		err = e.schema.Generate(cmd.Context(), counts, func(ctx context.Context, record string, row seeder.Row) error {
			mu.Lock()
			rows[record] = append(rows[record], row)
			mu.Unlock()
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to generate rows: %w", err)
		}

		order := e.schema.Order()
		color.Cyan("📋 Generation order: %s", strings.Join(order, " → "))

		total := 0
		for _, name := range order {
			batch, ok := rows[name]
			if !ok {
				continue
			}
			total += len(batch)
			fmt.Println()
			color.Cyan("  📝 %s (%d rows)", name, len(batch))
			printRows(batch)
		}

		color.Green("\n✅ Generated %d rows in %s", total, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func printRows(rows []seeder.Row) {
	if len(rows) == 0 {
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  "+strings.Join(rows[0].Fields(), "\t"))
	for _, row := range rows {
		cells := make([]string, 0, row.Len())
		for _, v := range row.Values() {
			cells = append(cells, formatValue(v))
		}
		fmt.Fprintln(w, "  "+strings.Join(cells, "\t"))
	}
	w.Flush()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return color.New(color.Faint).Sprint("NULL")
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	case string:
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprint(t)
	}
}

func init() {
	previewCmd.Flags().IntP("count", "n", 0, "rows per record type")
	previewCmd.Flags().StringSliceVarP(&previewRecords, "record", "r", nil, "only generate these record types")
	viper.BindPFlag("count", previewCmd.Flags().Lookup("count"))
}
