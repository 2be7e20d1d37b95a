// package formatter renders resolution results for terminal and file output
// (styled text, plain text, JSON, CSV).
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tunedex/tunedex/internal/models"
	"github.com/tunedex/tunedex/internal/shared"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	sourceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
)

// sourceLabel maps a result-set provenance value to its display label
func sourceLabel(source models.ResultSource) string {
	switch source {
	case models.SourceLocalCache:
		return "local cache"
	case models.SourceLocalAugmented:
		return "local cache + augmented"
	case models.SourceExternal:
		return "external providers"
	case models.SourceNotFound:
		return "not found"
	default:
		return string(source)
	}
}

// RenderSet renders a resolved set as a styled terminal listing
func RenderSet(set *models.ResolvedSet) string {
	var buf bytes.Buffer

	if set.Source == models.SourceNotFound || len(set.Items) == 0 {
		buf.WriteString(warnStyle.Render("No matching tracks found") + "\n")
		return buf.String()
	}

	header := fmt.Sprintf("%d track(s)", len(set.Items))
	buf.WriteString(titleStyle.Render(header))
	buf.WriteString(dimStyle.Render("  via ") + sourceStyle.Render(sourceLabel(set.Source)))
	buf.WriteString("\n\n")

	for i, track := range set.Items {
		buf.WriteString(renderTrackLine(i+1, track))
	}

	return buf.String()
}

func renderTrackLine(n int, track *models.PersistedTrack) string {
	line := fmt.Sprintf("%d. %s - %s", n, track.Artist(), track.Title())
	if track.Album() != "" {
		line += fmt.Sprintf(" (%s)", track.Album())
	}
	if track.Duration() > 0 {
		line += dimStyle.Render(" [" + shared.FormatDuration(track.Duration()) + "]")
	}
	if genres := track.Genres(); len(genres) > 0 {
		line += dimStyle.Render("  " + strings.Join(genres, ", "))
	}
	return line + "\n"
}

// RenderLyrics renders resolved lyrics with a styled attribution header
func RenderLyrics(title, artist, text string) string {
	var buf bytes.Buffer
	buf.WriteString(titleStyle.Render(fmt.Sprintf("%s - %s", artist, title)))
	buf.WriteString("\n\n")
	buf.WriteString(text)
	buf.WriteString("\n")
	return buf.String()
}

// RenderGenres renders genre matches with confidence scores
func RenderGenres(matches []models.GenreMatch) string {
	var buf bytes.Buffer

	if len(matches) == 0 {
		buf.WriteString(warnStyle.Render("No genres matched") + "\n")
		return buf.String()
	}

	for _, m := range matches {
		buf.WriteString(sourceStyle.Render(m.GenreID))
		buf.WriteString(dimStyle.Render(fmt.Sprintf("  %.2f", m.Confidence)))
		buf.WriteString("\n")
	}

	return buf.String()
}

// ToJSON serializes a resolved set as indented JSON
func ToJSON(set *models.ResolvedSet) ([]byte, error) {
	return shared.MarshalJSON(set, true)
}

// ExportToCSV converts a resolved set to CSV with columns: ID, Source, SourceID, Title, Artist, Album, Duration, ISRC, Genres
func ExportToCSV(set *models.ResolvedSet) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Source", "SourceID", "Title", "Artist", "Album", "Duration", "ISRC", "Genres"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range set.Items {
		record := []string{
			track.ID(),
			track.Source(),
			track.SourceID(),
			track.Title(),
			track.Artist(),
			track.Album(),
			strconv.Itoa(track.Duration()),
			track.ISRC(),
			strings.Join(track.Genres(), ";"),
		}
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

// WriteCSVExport writes a resolved set to {base}_tracks.csv.
//
// Defaults to "results" as the base filename.
func WriteCSVExport(set *models.ResolvedSet, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "results"
	}

	csvData, err := ExportToCSV(set)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	tracksFile := baseFilepath + "_tracks.csv"
	if err := os.WriteFile(tracksFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return tracksFile, nil
}
