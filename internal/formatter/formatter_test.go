package formatter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/uniworld/cli/internal/models"
	tu "github.com/uniworld/cli/internal/testing"
)

func sampleFavorites() []*models.Favorite {
	first := models.NewFavorite(1, 5, "Data Science", "TU Delft", "Computer Science", "master")
	second := models.NewFavorite(2, 9, "Philosophy", "Uppsala University", "", "bachelor")
	return []*models.Favorite{first, second}
}

func TestFavoritesToCSV(t *testing.T) {
	data, err := FavoritesToCSV(sampleFavorites())
	if err != nil {
		t.Fatalf("FavoritesToCSV failed: %v", err)
	}

	out := string(data)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Program ID,Name,University") {
		t.Errorf("Unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Data Science") || !strings.Contains(lines[1], "TU Delft") {
		t.Errorf("Unexpected first row: %q", lines[1])
	}
}

func TestFavoritesToMarkdown(t *testing.T) {
	out := string(FavoritesToMarkdown(sampleFavorites()))

	if !strings.HasPrefix(out, "# Favorite Programs") {
		t.Errorf("Expected heading, got %q", out[:40])
	}
	if !strings.Contains(out, "**Count**: 2") {
		t.Error("Expected count line")
	}
	if !strings.Contains(out, "1. TU Delft - Data Science (Computer Science)") {
		t.Errorf("Unexpected listing: %q", out)
	}
	if !strings.Contains(out, "2. Uppsala University - Philosophy\n") {
		t.Error("Expected entry without field suffix")
	}
}

func TestFavoritesToText(t *testing.T) {
	out := string(FavoritesToText(sampleFavorites()))

	if !strings.Contains(out, "Favorites: 2") {
		t.Errorf("Expected count, got %q", out)
	}
	if !strings.Contains(out, "2. Uppsala University - Philosophy") {
		t.Errorf("Expected numbered entries, got %q", out)
	}
}

func TestHistoryToCSV(t *testing.T) {
	records := []*models.EmailRecord{
		models.NewEmailRecord(1, models.RecordSingle, []string{"a@uni.example"}, "Inquiry", "body"),
		models.NewEmailRecord(2, models.RecordBulk, []string{"b@uni.example", "c@uni.example"}, "Bulk hello", "body"),
	}

	data, err := HistoryToCSV(records)
	if err != nil {
		t.Fatalf("HistoryToCSV failed: %v", err)
	}

	out := string(data)
	if !strings.Contains(out, "single,a@uni.example,Inquiry,1") {
		t.Errorf("Unexpected single row: %q", out)
	}
	if !strings.Contains(out, "bulk,b@uni.example; c@uni.example,Bulk hello,2") {
		t.Errorf("Unexpected bulk row: %q", out)
	}
}

func TestHistoryToText(t *testing.T) {
	records := []*models.EmailRecord{
		models.NewEmailRecord(1, models.RecordSingle, []string{"a@uni.example"}, "Inquiry", "body"),
	}

	out := string(HistoryToText(records))
	if !strings.Contains(out, "Email history: 1 entry") {
		t.Errorf("Expected singular count, got %q", out)
	}
	if !strings.Contains(out, "[single] Inquiry -> 1 recipient(s)") {
		t.Errorf("Unexpected entry line: %q", out)
	}
}

func TestWriteFavoritesCSV(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "export")

	result, err := WriteFavoritesCSV(sampleFavorites(), base, "2025-06-01")
	if err != nil {
		t.Fatalf("WriteFavoritesCSV failed: %v", err)
	}

	tu.AssertFileExists(t, result.DataFile)
	tu.AssertFileExists(t, result.MetadataFile)

	metadata := tu.MustReadFile(t, result.MetadataFile)
	if !strings.Contains(metadata, `"count": 2`) {
		t.Errorf("Unexpected metadata: %q", metadata)
	}
	if !strings.Contains(metadata, `"exported_at": "2025-06-01"`) {
		t.Errorf("Expected export timestamp, got %q", metadata)
	}
}

func TestWriteHistoryCSV(t *testing.T) {
	dir := t.TempDir()

	records := []*models.EmailRecord{
		models.NewEmailRecord(1, models.RecordSingle, []string{"a@uni.example"}, "Inquiry", "body"),
	}

	path, err := WriteHistoryCSV(records, filepath.Join(dir, "export"))
	if err != nil {
		t.Fatalf("WriteHistoryCSV failed: %v", err)
	}

	tu.AssertFileExists(t, path)
	if !strings.HasSuffix(path, "_history.csv") {
		t.Errorf("Unexpected path: %q", path)
	}
}
