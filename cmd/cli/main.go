package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/reallygood83/mathemotion/adapters/excel"
	"github.com/reallygood83/mathemotion/app"
	"github.com/reallygood83/mathemotion/internal/chart"
	"github.com/reallygood83/mathemotion/internal/config"
	"github.com/reallygood83/mathemotion/internal/container"
	"github.com/reallygood83/mathemotion/internal/testkit"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "survey-cli",
		Short: "Survey dashboard CLI for rendering charts and generating sample data",
	}

	rootCmd.AddCommand(
		newRenderCmd(),
		newSampleCmd(),
		newInspectCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// sourceFlags are the load options shared by render and inspect
type sourceFlags struct {
	source        string
	file          string
	spreadsheetID string
	readRange     string
	seed          int64
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "sample", "Data source: sample|file|sheet")
	cmd.Flags().StringVar(&f.file, "file", "", "CSV or XLSX file (source=file)")
	cmd.Flags().StringVar(&f.spreadsheetID, "spreadsheet-id", "", "Spreadsheet id (source=sheet, default SPREADSHEET_ID)")
	cmd.Flags().StringVar(&f.readRange, "range", "", "Sheet range (source=sheet, default SPREADSHEET_RANGE)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Sample seed (0 uses SAMPLE_SEED)")
}

func (f *sourceFlags) load(ctx context.Context) (*container.Container, *app.LoadResult, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if f.seed != 0 {
		cfg.Data.SampleSeed = f.seed
	}
	c, err := container.New(cfg)
	if err != nil {
		return nil, nil, err
	}

	req := app.LoadRequest{Source: app.SourceKind(f.source), SessionKey: "cli"}
	switch req.Source {
	case app.SourceFile:
		req.FilePath = f.file
		if req.FilePath == "" {
			req.FilePath = cfg.Data.DataFile
		}
	case app.SourceSheet:
		req.SpreadsheetID = firstNonEmpty(f.spreadsheetID, cfg.Sheets.SpreadsheetID)
		req.Range = firstNonEmpty(f.readRange, cfg.Sheets.Range)
	}

	result, err := c.Dashboard.Load(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return c, result, nil
}

func newRenderCmd() *cobra.Command {
	var src sourceFlags
	var student, out string
	var asBase64 bool

	cmd := &cobra.Command{
		Use:   "render [kind]",
		Short: "Render one dashboard chart to a PNG file",
		Long: `Render one of the dashboard charts from a data source.

Kinds: student_profile, item_summary, student_change, item_correlation, all_students.
student_profile and student_change need --student.

Example: survey-cli render student_profile --student 김철수 --out profile.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := chart.ParseKind(args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			c, result, err := src.load(ctx)
			if err != nil {
				return err
			}

			img, err := c.Dashboard.Analyze(ctx, result.Table, chart.Request{Kind: kind, Student: student})
			if err != nil {
				return err
			}
			for _, w := range img.Warnings {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}

			if asBase64 || out == "" || out == "-" {
				fmt.Fprintln(cmd.OutOrStdout(), img.Base64())
				return nil
			}
			if err := os.WriteFile(out, img.PNG, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes, %d series)\n", out, len(img.PNG), img.Series)
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&student, "student", "", "Student name for per-student charts")
	cmd.Flags().StringVar(&out, "out", "", "Output PNG path (empty or - prints base64)")
	cmd.Flags().BoolVar(&asBase64, "base64", false, "Print the PNG as base64 instead of writing a file")
	return cmd
}

func newSampleCmd() *cobra.Command {
	var seed int64
	var date, roster string

	cmd := &cobra.Command{
		Use:   "sample [output.csv|output.xlsx]",
		Short: "Write a generated sample survey to CSV or XLSX",
		Long: `Generate one synthetic survey submission per student and save it.

Example: survey-cli sample demo.xlsx --seed 42 --date 2025-03-20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lessonDate, err := time.Parse("2006-01-02", date)
			if err != nil {
				return fmt.Errorf("invalid --date (use YYYY-MM-DD): %w", err)
			}
			names := testkit.DefaultRoster
			if roster != "" {
				names = splitNames(roster)
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			rows, err := testkit.NewSurveyGenerator(rand.New(rand.NewSource(seed))).Generate(names, lessonDate)
			if err != nil {
				return err
			}
			if err := excel.WriteSheet(args[0], testkit.Sheet(rows)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s (seed %d)\n", len(rows), args[0], seed)
			return nil
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time-based)")
	cmd.Flags().StringVar(&date, "date", testkit.DefaultSampleDate.Format("2006-01-02"), "Lesson date")
	cmd.Flags().StringVar(&roster, "roster", "", "Comma separated student names (default: demo class)")
	return cmd
}

func newInspectCmd() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the normalization report for a data source",
		Long: `Load a data source, normalize it and print what the normalizer did:
mapped labels, passthrough columns, padded rows and cells dropped to missing.

Example: survey-cli inspect --source file --file responses.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, result, err := src.load(cmd.Context())
			if err != nil {
				return err
			}

			output := map[string]interface{}{
				"source":  result.Source,
				"report":  result.Report,
				"summary": c.Dashboard.Summarize(result.Table),
			}
			if result.Warning != nil {
				output["warning"] = result.Warning.Error()
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(output)
		},
	}

	src.register(cmd)
	return cmd
}

func splitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
