package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dastanaron/bookmark-organizer/internal/config"
	"github.com/dastanaron/bookmark-organizer/internal/models"
	"github.com/rodaine/table"
	"github.com/rs/zerolog"
)

// Report file names
const (
	DeadLinksFile    = "dead_bookmarks.csv"
	DuplicatesFile   = "duplicate_bookmarks.csv"
	WorkingLinksFile = "working_bookmarks.csv"
	AnalysisFile     = "bookmark_analysis.json"
)

var (
	deadLinksHeader    = []string{"title", "url", "status_code", "domain", "error", "note"}
	duplicatesHeader   = []string{"Type", "Details", "Count"}
	workingLinksHeader = []string{"title", "url", "status_code", "domain"}
)

// ExportCommand writes analysis results to report files and prints a summary
type ExportCommand struct {
	outputDir  string
	topDomains int
	out        io.Writer
	logger     zerolog.Logger
}

// NewExportCommand creates a new export command
func NewExportCommand(cfg config.ReportConfig, out io.Writer, logger zerolog.Logger) *ExportCommand {
	return &ExportCommand{
		outputDir:  cfg.OutputDir,
		topDomains: cfg.TopDomains,
		out:        out,
		logger:     logger.With().Str("component", "exporter").Logger(),
	}
}

// Execute writes all reports and prints the console summary
func (c *ExportCommand) Execute(a *models.Analysis) error {
	if err := c.WriteReports(a); err != nil {
		return err
	}
	c.PrintSummary(a)
	return nil
}

// WriteReports writes the CSV reports for non-empty collections and always
// writes the JSON analysis.
func (c *ExportCommand) WriteReports(a *models.Analysis) error {
	c.logger.Info().Msg("Exporting results...")

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	if len(a.DeadLinks) > 0 {
		if err := c.writeCSV(DeadLinksFile, deadLinksHeader, deadLinkRows(a.DeadLinks)); err != nil {
			return err
		}
		c.logger.Info().Msgf("Exported %d dead links to '%s'", len(a.DeadLinks), DeadLinksFile)
	}

	if len(a.Duplicates) > 0 {
		if err := c.writeCSV(DuplicatesFile, duplicatesHeader, duplicateRows(a.Duplicates)); err != nil {
			return err
		}
		c.logger.Info().Msgf("Exported %d duplicate groups to '%s'", len(a.Duplicates), DuplicatesFile)
	}

	if len(a.WorkingLinks) > 0 {
		if err := c.writeCSV(WorkingLinksFile, workingLinksHeader, workingLinkRows(a.WorkingLinks)); err != nil {
			return err
		}
		c.logger.Info().Msgf("Exported %d working links to '%s'", len(a.WorkingLinks), WorkingLinksFile)
	}

	if err := c.writeJSON(a); err != nil {
		return err
	}
	c.logger.Info().Msgf("Exported complete analysis to '%s'", AnalysisFile)
	return nil
}

// PrintSummary prints the run totals and the domains with most dead links
func (c *ExportCommand) PrintSummary(a *models.Analysis) {
	s := a.Summary()
	rule := strings.Repeat("=", 50)

	fmt.Fprintf(c.out, "\n%s\n", rule)
	fmt.Fprintln(c.out, "BOOKMARK ANALYSIS SUMMARY")
	fmt.Fprintln(c.out, rule)
	fmt.Fprintf(c.out, "Total bookmarks processed: %d\n", s.TotalBookmarks)
	fmt.Fprintf(c.out, "Working links: %d\n", s.WorkingLinks)
	fmt.Fprintf(c.out, "Dead/problematic links: %d\n", s.DeadLinks)
	fmt.Fprintf(c.out, "Duplicate groups found: %d\n", s.Duplicates)

	if len(a.DeadLinks) == 0 {
		return
	}

	fmt.Fprintln(c.out, "\nTop domains with dead links:")
	tbl := table.New("Domain", "Dead links").WithWriter(c.out).WithPadding(2)
	for _, dc := range a.TopDeadDomains(c.topDomains) {
		tbl.AddRow(dc.Domain, dc.Count)
	}
	tbl.Print()
}

type analysisDocument struct {
	Summary      models.Summary          `json:"summary"`
	DeadLinks    []models.ProbeResult    `json:"dead_links"`
	Duplicates   []models.DuplicateGroup `json:"duplicates"`
	WorkingLinks []workingLink           `json:"working_links"`
}

// workingLink omits the error and note fields, which working links never carry
type workingLink struct {
	Title  string             `json:"title"`
	URL    string             `json:"url"`
	Status models.ProbeStatus `json:"status_code"`
	Domain string             `json:"domain"`
}

func (c *ExportCommand) writeJSON(a *models.Analysis) error {
	doc := analysisDocument{
		Summary:      a.Summary(),
		DeadLinks:    nonNil(a.DeadLinks),
		Duplicates:   nonNil(a.Duplicates),
		WorkingLinks: make([]workingLink, 0, len(a.WorkingLinks)),
	}
	for _, r := range a.WorkingLinks {
		doc.WorkingLinks = append(doc.WorkingLinks, workingLink{Title: r.Title, URL: r.URL, Status: r.Status, Domain: r.Domain})
	}

	file, err := os.Create(filepath.Join(c.outputDir, AnalysisFile))
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	return file.Close()
}

func (c *ExportCommand) writeCSV(name string, header []string, rows [][]string) error {
	file, err := os.Create(filepath.Join(c.outputDir, name))
	if err != nil {
		return fmt.Errorf("cannot create file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.UseCRLF = true
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return file.Close()
}

func deadLinkRows(links []models.ProbeResult) [][]string {
	rows := make([][]string, 0, len(links))
	for _, l := range links {
		rows = append(rows, []string{l.Title, l.URL, l.Status.String(), l.Domain, l.Error, l.Note})
	}
	return rows
}

func workingLinkRows(links []models.ProbeResult) [][]string {
	rows := make([][]string, 0, len(links))
	for _, l := range links {
		rows = append(rows, []string{l.Title, l.URL, l.Status.String(), l.Domain})
	}
	return rows
}

func duplicateRows(groups []models.DuplicateGroup) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{string(g.Type), DuplicateDetails(g), strconv.Itoa(g.Count)})
	}
	return rows
}

// DuplicateDetails renders a duplicate group as one human-readable line
func DuplicateDetails(g models.DuplicateGroup) string {
	if g.Type == models.DuplicateURL {
		return fmt.Sprintf("URL: %s | Titles: %s", g.URL, strings.Join(g.Titles, ", "))
	}
	return fmt.Sprintf("Title: %s | URLs: %s", g.Title, strings.Join(g.URLs, ", "))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
