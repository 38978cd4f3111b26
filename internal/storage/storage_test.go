package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseTable(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		input := "\ufeffname,Calories,Fat\nApple,52,0.2 g\nBread,265,3.2 g\n"

		table, err := ParseTable(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(table.Header) != 3 || table.Header[0] != "name" {
			t.Errorf("Expected header [name Calories Fat], got %v", table.Header)
		}
		if len(table.Rows) != 2 {
			t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
		}
		if table.Rows[1]["Fat"] != "3.2 g" {
			t.Errorf("Expected Fat '3.2 g', got '%s'", table.Rows[1]["Fat"])
		}
	})

	t.Run("ShortRow", func(t *testing.T) {
		table, err := ParseTable(strings.NewReader("a,b,c\n1,2\n"))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if _, ok := table.Rows[0]["c"]; ok {
			t.Error("Expected column 'c' to be absent from a short row")
		}
		if table.Rows[0]["b"] != "2" {
			t.Errorf("Expected b '2', got '%s'", table.Rows[0]["b"])
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if _, err := ParseTable(strings.NewReader("")); err == nil {
			t.Fatal("Expected an error for an empty table, got nil")
		}
	})
}

func TestReadTable(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "strong.csv")
	content := "Date,Exercise Name,Reps\n2023-01-01,Squat,5\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	table, err := ReadTable(path)
	if err != nil {
		t.Fatalf("Failed to read table: %v", err)
	}
	if len(table.Rows) != 1 || table.Rows[0]["Exercise Name"] != "Squat" {
		t.Errorf("Unexpected rows: %v", table.Rows)
	}

	t.Run("NotFound", func(t *testing.T) {
		_, err := ReadTable(filepath.Join(tempDir, "missing.csv"))
		if err == nil {
			t.Fatal("Expected an error for a missing file, got nil")
		}
	})
}
