// Command newsnotes-scrape runs one ingestion against the configured store and exits.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"newsnotes/app"
	"newsnotes/config"
	"newsnotes/ingest"

	"github.com/spf13/cobra"
)

var (
	modeFlag  string
	rulesFlag string
	jsonFlag  bool
)

var errRunFailed = errors.New("ingestion run failed")

var rootCmd = &cobra.Command{
	Use:   "newsnotes-scrape [source]",
	Short: "Scrape a news index page into the article store",
	Long: `Runs one ingestion of a source (a preset name such as "npr", or a URL)
and prints the run report. Store, archive and Kafka settings come from the
environment and .env, the same as the server.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("mode") {
			if modeFlag != string(ingest.ModeReplace) && modeFlag != string(ingest.ModeReconcile) {
				return fmt.Errorf("%w: got %q", config.ErrInvalidMode, modeFlag)
			}
			cfg.Mode = modeFlag
		}
		if rulesFlag != "" {
			cfg.RulesFile = rulesFlag
		}
		source := cfg.Source
		if len(args) > 0 {
			source = config.ResolveSourceURL(args[0])
		}
		return run(cmd.Context(), cfg, source, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.Flags().StringVar(&modeFlag, "mode", "replace", "replace or reconcile")
	rootCmd.Flags().StringVar(&rulesFlag, "rules", "", "YAML rule set (defaults to RULES_FILE or the built-in NPR rules)")
	rootCmd.Flags().BoolVar(&jsonFlag, "json", false, "print the full report as JSON")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, source string, out io.Writer) error {
	logger := config.NewLogger(cfg.LogLevel)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Coordinator.Ingest(ctx, source)
	if err != nil {
		return err
	}

	if jsonFlag {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		displayReport(out, report)
	}
	if !report.Succeeded {
		return errRunFailed
	}
	return nil
}

func displayReport(w io.Writer, r *ingest.Report) {
	fmt.Fprintln(w, "=== Ingestion Summary ===")
	fmt.Fprintf(w, "Run:          %s\n", r.RunID)
	fmt.Fprintf(w, "Source:       %s\n", r.SourceURL)
	fmt.Fprintf(w, "Mode:         %s\n", r.Mode)
	if !r.Succeeded {
		fmt.Fprintf(w, "Failed at:    %s (%s)\n", r.Stage, r.Error)
	}
	fmt.Fprintf(w, "Cleared:      %d articles, %d notes\n", r.Cleared.Articles, r.Cleared.Notes)
	fmt.Fprintf(w, "Candidates:   %d\n", r.CandidatesSeen)
	fmt.Fprintf(w, "Created:      %d\n", r.Created)
	fmt.Fprintf(w, "Updated:      %d\n", r.Updated)
	fmt.Fprintf(w, "Removed:      %d\n", r.Removed)
	fmt.Fprintf(w, "Failed:       %d\n", r.Failed)
	fmt.Fprintf(w, "Field misses: %d\n", r.FieldMisses)
	for _, rec := range r.Records {
		if rec.Status == ingest.StatusFailed {
			fmt.Fprintf(w, "  [%d] %s: %s\n", rec.Index, rec.Link, rec.Error)
		}
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	fmt.Fprintln(w, "=========================")
}
