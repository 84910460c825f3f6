package commands

import (
	"context"
	"io"

	"github.com/dastanaron/bookmark-organizer/internal/config"
	"github.com/dastanaron/bookmark-organizer/internal/models"
	"github.com/dastanaron/bookmark-organizer/internal/parser"
	"github.com/dastanaron/bookmark-organizer/internal/service"
	"github.com/rs/zerolog"
)

// AnalyzeCommand runs the whole pipeline for one bookmarks file:
// parse, find duplicates, probe every link, export reports.
type AnalyzeCommand struct {
	parser     *parser.Parser
	duplicates *service.DuplicateService
	prober     *service.ProbeService
	exporter   *ExportCommand
	logger     zerolog.Logger
}

// NewAnalyzeCommand creates a new analyze command
func NewAnalyzeCommand(cfg *config.Config, out io.Writer, logger zerolog.Logger) *AnalyzeCommand {
	return &AnalyzeCommand{
		parser:     parser.NewParser(logger),
		duplicates: service.NewDuplicateService(cfg.Report.CollapseTitleGroups),
		prober:     service.NewProbeService(cfg.Probe, logger),
		exporter:   NewExportCommand(cfg.Report, out, logger),
		logger:     logger,
	}
}

// Execute analyzes the bookmarks file and writes all reports.
// Parse failures abort before anything is written.
func (c *AnalyzeCommand) Execute(ctx context.Context, filePath string) (*models.Analysis, error) {
	c.logger.Info().Msg("Parsing bookmarks file...")
	bookmarks, err := c.parser.ParseFile(filePath)
	if err != nil {
		return nil, err
	}
	c.logger.Info().Msgf("Found %d bookmarks", len(bookmarks))

	analysis := &models.Analysis{Bookmarks: bookmarks}

	c.logger.Info().Msg("Checking for duplicates...")
	analysis.Duplicates = c.duplicates.Find(bookmarks)
	c.logger.Info().Msgf("Found %d duplicate groups", len(analysis.Duplicates))

	c.logger.Info().Msgf("Testing connectivity for %d bookmarks...", len(bookmarks))
	c.logger.Info().Msg("This may take a while...")
	for _, res := range c.prober.ProbeAll(ctx, bookmarks) {
		analysis.AddProbeResult(res)
	}
	c.logger.Info().
		Int("working", len(analysis.WorkingLinks)).
		Int("dead", len(analysis.DeadLinks)).
		Msg("Connectivity test complete!")

	if err := c.exporter.Execute(analysis); err != nil {
		return analysis, err
	}
	return analysis, nil
}
