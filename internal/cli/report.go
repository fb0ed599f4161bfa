package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/storm-damage-report/internal/adapter/kafka"
	"github.com/couchcryptid/storm-damage-report/internal/adapter/storms"
	"github.com/couchcryptid/storm-damage-report/internal/config"
	"github.com/couchcryptid/storm-damage-report/internal/observability"
	"github.com/couchcryptid/storm-damage-report/internal/pipeline"
	"github.com/couchcryptid/storm-damage-report/internal/report"
)

var (
	jsonOut string
	topN    int
	metrics []string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run the pipeline once and print damage summaries",
	Long: `Load and normalize the storm dataset, then print the top event types
per metric as tables. Use --json to also write the full report as a
JSON artifact.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&jsonOut, "json", "", "write the full report to this JSON file")
	reportCmd.Flags().IntVar(&topN, "top", 0, "number of event types per ranking (overrides config)")
	reportCmd.Flags().StringSliceVar(&metrics, "metric", nil, "metrics to rank (default: all)")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if topN > 0 {
		cfg.TopN = topN
	}

	selected, err := selectMetrics(metrics)
	if err != nil {
		return err
	}

	p, closer, err := buildPipeline(cfg, observability.NewMetrics(), logger)
	if err != nil {
		return err
	}
	defer closer()

	records, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}

	rep := report.Build(records, cfg.TopN)
	for _, m := range selected {
		renderTop(m, rep.TopByMetric[m.String()])
	}
	if rep.LeadEventType != "" {
		renderFrequency(rep.LeadEventType, rep.FrequencyByYear)
	}

	if jsonOut != "" {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		if err := os.WriteFile(jsonOut, data, 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("report written", "path", jsonOut)
	}
	return nil
}

func selectMetrics(names []string) ([]report.Metric, error) {
	if len(names) == 0 {
		return report.Metrics(), nil
	}
	selected := make([]report.Metric, 0, len(names))
	for _, name := range names {
		m, err := report.ParseMetric(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, m)
	}
	return selected, nil
}

func renderTop(metric report.Metric, totals []report.TypeTotal) {
	fmt.Printf("\nTop event types by %s\n", metric.String())

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Event Type", "Value"})
	for i, t := range totals {
		table.Append([]string{
			strconv.Itoa(i + 1),
			t.EventType,
			strconv.FormatFloat(t.Value, 'f', -1, 64),
		})
	}
	table.Render()
}

func renderFrequency(eventType string, byYear map[int]int) {
	fmt.Printf("\n%s occurrences per year\n", eventType)

	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Year", "Count"})
	for _, year := range years {
		table.Append([]string{strconv.Itoa(year), strconv.Itoa(byYear[year])})
	}
	table.Render()
}

// buildPipeline wires the dataset sources and the optional Kafka export
// into a Pipeline. The returned closer releases the export writer.
func buildPipeline(cfg *config.Config, m *observability.Metrics, logger *slog.Logger) (*pipeline.Pipeline, func(), error) {
	client := storms.NewClient(cfg.CacheDir, cfg.FetchTimeout, logger.With("component", "storms"))
	source := storms.NewDatasetSource(client, cfg.DataSource)
	vocab := storms.NewVocabularySource(client, cfg.VocabSource)

	var exporter pipeline.Exporter
	closer := func() {}
	if cfg.ExportEnabled() {
		writer := kafka.NewWriter(cfg, logger.With("component", "kafka"))
		exporter = writer
		closer = func() {
			if err := writer.Close(); err != nil {
				logger.Warn("close export writer", "error", err)
			}
		}
		logger.Info("export enabled", "brokers", cfg.ExportBrokers, "topic", cfg.ExportTopic)
	}

	return pipeline.New(source, vocab, exporter, logger.With("component", "pipeline"), m), closer, nil
}
