package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/matracker/internal/extract"
	"github.com/sells-group/matracker/internal/feed"
	"github.com/sells-group/matracker/internal/report"
)

var (
	trackOPML          string
	trackOutput        string
	trackDays          int
	trackSector        string
	trackDisclosedOnly bool
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Process the feed list and write the deal report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		runID := uuid.NewString()

		// Flag overrides change configuration values only.
		if trackDays > 0 {
			cfg.DealFilters.DaysLookback = trackDays
		}
		if trackSector != "" {
			cfg.DealFilters.Sectors = []string{trackSector}
		}
		if trackDisclosedOnly {
			cfg.DealFilters.IncludeUndisclosed = false
		}

		opmlPath := trackOPML
		if opmlPath == "" {
			opmlPath = cfg.Feeds.OPMLPath
		}

		sources, err := feed.LoadSources(opmlPath)
		if err != nil {
			return eris.Wrap(err, "load feed list")
		}

		zap.L().Info("starting tracker",
			zap.String("run_id", runID),
			zap.Int("feeds", len(sources)),
			zap.Int("days_lookback", cfg.DealFilters.DaysLookback),
		)

		cache, err := feed.NewCache(cfg.Feeds.CacheDir)
		if err != nil {
			zap.L().Warn("feed cache unavailable", zap.Error(err))
			cache = nil
		}

		processor := feed.NewProcessor(cfg, extract.New(cfg), cache)
		deals := processor.ProcessSources(ctx, sources)

		if len(deals) == 0 {
			zap.L().Warn("no deals found in the specified period", zap.String("run_id", runID))
			cmd.Println("No deals found matching criteria")
			return nil
		}

		outputPath := trackOutput
		if outputPath == "" {
			filename := strings.ReplaceAll(cfg.Output.FilenamePattern, "{date}", time.Now().Format("20060102"))
			outputPath = filepath.Join(cfg.Output.Location, filename)
		}

		if err := report.Write(deals, outputPath); err != nil {
			return eris.Wrap(err, "write report")
		}

		zap.L().Info("tracking complete",
			zap.String("run_id", runID),
			zap.Int("deals", len(deals)),
			zap.String("report", outputPath),
		)
		cmd.Printf("Report saved to: %s\n", outputPath)
		return nil
	},
}

func init() {
	trackCmd.Flags().StringVar(&trackOPML, "opml", "", "path to OPML feed list (default from config)")
	trackCmd.Flags().StringVar(&trackOutput, "output", "", "report output path")
	trackCmd.Flags().IntVar(&trackDays, "days", 0, "days to look back")
	trackCmd.Flags().StringVar(&trackSector, "sector", "", "restrict to a single sector")
	trackCmd.Flags().BoolVar(&trackDisclosedOnly, "disclosed-only", false, "only include deals with disclosed values")
	rootCmd.AddCommand(trackCmd)
}
