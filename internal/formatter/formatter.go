// package formatter exports run reports to various formats (CSV, JSON, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/logomatch/internal/models"
	"github.com/desertthunder/logomatch/internal/shared"
)

// Format names a report encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// Row statuses used by the CSV export
const (
	StatusMatched   = "matched"
	StatusUnmatched = "unmatched"
	StatusDropped   = "dropped"
)

// Report summarizes one matching run.
type Report struct {
	RunID          string         `json:"run_id"`
	ListingURL     string         `json:"listing_url"`
	PlaylistPath   string         `json:"playlist_path"`
	Threshold      float64        `json:"threshold"`
	DryRun         bool           `json:"dry_run"`
	CandidateCount int            `json:"candidates"`
	ChannelCount   int            `json:"channels"`
	Matches        []models.Match `json:"matches"`
	Unmatched      []string       `json:"unmatched"`
	Missing        []string       `json:"missing,omitempty"`
	Dropped        []models.Match `json:"dropped,omitempty"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// FromRun builds a report from a stored run. Stored runs do not keep unmatched channel names.
func FromRun(run *models.Run) *Report {
	return &Report{
		RunID:          run.ID(),
		ListingURL:     run.ListingURL(),
		PlaylistPath:   run.PlaylistPath(),
		Threshold:      run.Threshold(),
		DryRun:         run.DryRun(),
		CandidateCount: run.CandidateCount(),
		ChannelCount:   run.ChannelCount(),
		Matches:        run.Matches(),
		GeneratedAt:    run.CreatedAt(),
	}
}

// ParseFormat resolves a format name; md and txt are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv, json, markdown or text)", shared.ErrInvalidFlag, name)
	}
}

// FormatFromPath infers a format from a file extension, defaulting to text.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Export encodes r in format f.
func Export(r *Report, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(r)
	case FormatJSON:
		return ExportToJSON(r)
	case FormatMarkdown:
		return ExportToMarkdown(r)
	case FormatText, "":
		return ExportToText(r)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToCSV converts a Report to CSV format with columns: Channel, Reference, Score, Status
func ExportToCSV(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Channel", "Reference", "Score", "Status"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	records := make([][]string, 0, len(r.Matches)+len(r.Dropped)+len(r.Unmatched))
	for _, m := range r.Matches {
		records = append(records, []string{m.ChannelName, m.Reference, FormatScore(m.Score), StatusMatched})
	}
	for _, m := range r.Dropped {
		records = append(records, []string{m.ChannelName, m.Reference, FormatScore(m.Score), StatusDropped})
	}
	for _, name := range r.Unmatched {
		records = append(records, []string{name, "", "", StatusUnmatched})
	}

	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a Report to indented JSON
func ExportToJSON(r *Report) ([]byte, error) {
	out := *r
	if out.Matches == nil {
		out.Matches = []models.Match{}
	}
	if out.Unmatched == nil {
		out.Unmatched = []string{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToMarkdown converts a Report to Markdown with a match table and an unmatched list
func ExportToMarkdown(r *Report) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Logo Match Report\n\n")
	writeMarkdownMeta(&buf, r)

	buf.WriteString("## Matches\n\n")
	if len(r.Matches) == 0 {
		buf.WriteString("_No channels matched._\n")
	} else {
		buf.WriteString("| # | Channel | Logo | Score |\n")
		buf.WriteString("|---|---------|------|-------|\n")
		for i, m := range r.Matches {
			fmt.Fprintf(&buf, "| %d | %s | %s | %s |\n", i+1, escapeCell(m.ChannelName), escapeCell(m.Reference), FormatScore(m.Score))
		}
	}

	if len(r.Dropped) > 0 {
		buf.WriteString("\n## Unreachable Logos\n\n")
		for _, m := range r.Dropped {
			fmt.Fprintf(&buf, "- %s: %s\n", m.ChannelName, m.Reference)
		}
	}

	if len(r.Unmatched) > 0 {
		buf.WriteString("\n## Unmatched Channels\n\n")
		for _, name := range r.Unmatched {
			fmt.Fprintf(&buf, "- %s\n", name)
		}
	}

	return buf.Bytes(), nil
}

func writeMarkdownMeta(buf *bytes.Buffer, r *Report) {
	if r.RunID != "" {
		fmt.Fprintf(buf, "**Run**: %s\n", r.RunID)
	}
	fmt.Fprintf(buf, "**Listing**: %s\n", r.ListingURL)
	fmt.Fprintf(buf, "**Playlist**: %s\n", r.PlaylistPath)
	fmt.Fprintf(buf, "**Threshold**: %s\n", FormatScore(r.Threshold))
	fmt.Fprintf(buf, "**Matched**: %d/%d channels (%d logos)\n", len(r.Matches), r.ChannelCount, r.CandidateCount)
	if r.DryRun {
		buf.WriteString("**Dry run**: playlist not modified\n")
	}
	buf.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ExportToText converts a Report to plain text with the matches rendered as a table
func ExportToText(r *Report) ([]byte, error) {
	var buf bytes.Buffer

	if r.RunID != "" {
		fmt.Fprintf(&buf, "Run: %s\n", r.RunID)
	}
	fmt.Fprintf(&buf, "Listing: %s\n", r.ListingURL)
	fmt.Fprintf(&buf, "Playlist: %s\n", r.PlaylistPath)
	fmt.Fprintf(&buf, "Matched: %d/%d channels\n\n", len(r.Matches), r.ChannelCount)

	if len(r.Matches) > 0 {
		buf.WriteString(MatchTable(r.Matches))
		buf.WriteString("\n")
	}

	if len(r.Dropped) > 0 {
		buf.WriteString("\nUnreachable logos:\n")
		for _, m := range r.Dropped {
			fmt.Fprintf(&buf, "  %s: %s\n", m.ChannelName, m.Reference)
		}
	}

	if len(r.Unmatched) > 0 {
		buf.WriteString("\nUnmatched channels:\n")
		for _, name := range r.Unmatched {
			fmt.Fprintf(&buf, "  %s\n", name)
		}
	}

	return buf.Bytes(), nil
}

// MatchTable renders matches as a bordered terminal table
func MatchTable(matches []models.Match) string {
	rows := make([][]string, len(matches))
	for i, m := range matches {
		rows[i] = []string{strconv.Itoa(i + 1), m.ChannelName, m.Reference, FormatScore(m.Score)}
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Channel", "Logo", "Score").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	return t.String()
}

// FormatScore prints a score with four decimals
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 4, 64)
}

// WriteReport exports r in format f to path.
func WriteReport(r *Report, path string, f Format) error {
	data, err := Export(r, f)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
