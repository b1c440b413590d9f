// package formatter exports favorites and outreach history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/uniworld/cli/internal/models"
	"github.com/uniworld/cli/internal/shared"
)

// FavoritesToCSV converts favorites to CSV with columns: Program ID, Name, University, Field of Study, Degree Level, Added At
func FavoritesToCSV(favorites []*models.Favorite) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Program ID", "Name", "University", "Field of Study", "Degree Level", "Added At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, favorite := range favorites {
		record := []string{
			strconv.Itoa(favorite.ProgramID()),
			favorite.Name(),
			favorite.University(),
			favorite.FieldOfStudy(),
			favorite.DegreeLevel(),
			favorite.AddedAt().Format("2006-01-02 15:04"),
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

// FavoritesToMarkdown converts favorites to a Markdown listing.
func FavoritesToMarkdown(favorites []*models.Favorite) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Favorite Programs\n\n")
	buf.WriteString(fmt.Sprintf("**Count**: %d\n\n", len(favorites)))

	for i, favorite := range favorites {
		detail := ""
		if favorite.FieldOfStudy() != "" {
			detail = fmt.Sprintf(" (%s)", favorite.FieldOfStudy())
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, favorite.University(), favorite.Name(), detail))
	}

	return buf.Bytes()
}

// FavoritesToText converts favorites to plain text.
func FavoritesToText(favorites []*models.Favorite) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Favorites: %d\n\n", len(favorites)))
	for i, favorite := range favorites {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, favorite.University(), favorite.Name()))
	}

	return buf.Bytes()
}

// HistoryToCSV converts the outreach history to CSV with columns: Kind, Recipients, Subject, Recipient Count, Sent At
func HistoryToCSV(records []*models.EmailRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Kind", "Recipients", "Subject", "Recipient Count", "Sent At"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, record := range records {
		row := []string{
			string(record.Kind()),
			strings.Join(record.Recipients(), "; "),
			record.Subject(),
			strconv.Itoa(record.Count()),
			record.SentAt().Format("2006-01-02 15:04"),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// HistoryToText converts the outreach history to plain text, most recent
// entries in whatever order the caller passed them.
func HistoryToText(records []*models.EmailRecord) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Email history: %d entr%s\n\n", len(records), plural(len(records), "y", "ies")))
	for i, record := range records {
		buf.WriteString(fmt.Sprintf("%d. [%s] %s -> %d recipient(s) at %s\n",
			i+1, record.Kind(), record.Subject(), record.Count(),
			record.SentAt().Format("2006-01-02 15:04")))
	}

	return buf.Bytes()
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

// ToMetadataJSON generates a JSON representation of a favorites export header.
func ToMetadataJSON(v any) ([]byte, error) {
	return shared.MarshalJSON(v, true)
}

// CSVExportResult contains the paths of files created by WriteFavoritesCSV
type CSVExportResult struct {
	DataFile     string
	MetadataFile string
}

// favoritesMetadata is the sidecar written next to a CSV export.
type favoritesMetadata struct {
	Count      int    `json:"count"`
	ExportedAt string `json:"exported_at"`
}

// WriteFavoritesCSV exports favorites to CSV with an accompanying
// metadata JSON file. Creates {base}_favorites.csv and {base}_metadata.json.
func WriteFavoritesCSV(favorites []*models.Favorite, baseFilepath string, exportedAt string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "uniworld"
	}

	csvData, err := FavoritesToCSV(favorites)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	dataFile := baseFilepath + "_favorites.csv"
	if err := os.WriteFile(dataFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(favoritesMetadata{
		Count:      len(favorites),
		ExportedAt: exportedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		DataFile:     dataFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteHistoryCSV exports the outreach history to {base}_history.csv.
func WriteHistoryCSV(records []*models.EmailRecord, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "uniworld"
	}

	csvData, err := HistoryToCSV(records)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	dataFile := baseFilepath + "_history.csv"
	if err := os.WriteFile(dataFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return dataFile, nil
}
