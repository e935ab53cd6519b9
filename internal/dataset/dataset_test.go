package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/raaihank/phi-cleanse/internal/tabular"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		path string
		want Format
	}{
		{"patients.csv", FormatCSV},
		{"data/PATIENTS.CSV", FormatCSV},
		{"visits.parquet", FormatParquet},
		{"records.json", FormatJSON},
		{"records.jsonl", FormatJSON},
		{"notes.txt", FormatUnknown},
	}

	for _, tc := range cases {
		if got := DetectFormat(tc.path); got != tc.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patients.csv")

	table := tabular.New([]string{"name", "ssn"})
	table.AppendRow([]string{"Ann", "111-22-3333"})
	table.AppendRow([]string{"Bob, Jr.", "444-55-6666"})

	if err := Write(path, table, zap.NewNop()); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if len(got.Columns) != 2 || got.Columns[0] != "name" {
		t.Errorf("Unexpected columns: %v", got.Columns)
	}
	if got.RowCount() != 2 {
		t.Fatalf("Expected 2 rows, got %d", got.RowCount())
	}
	if got.Rows[1][0] != "Bob, Jr." {
		t.Errorf("Quoted cell lost: %q", got.Rows[1][0])
	}
}

func TestCSVShortRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.csv")
	content := "a,b,c\n1,2,3\n4,5\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if got.RowCount() != 2 {
		t.Fatalf("Expected 2 rows, got %d", got.RowCount())
	}
	if got.Rows[1][2] != "" {
		t.Errorf("Short record should be padded, got %v", got.Rows[1])
	}
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.jsonl")

	table := tabular.New([]string{"name", "mrn"})
	table.AppendRow([]string{"Ann", "A1234567"})
	table.AppendRow([]string{"Bob", "B7654321"})

	if err := Write(path, table, zap.NewNop()); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if got.RowCount() != 2 {
		t.Fatalf("Expected 2 rows, got %d", got.RowCount())
	}

	names, ok := got.Column("name")
	if !ok {
		t.Fatal("Expected name column")
	}
	if names[0] != "Ann" || names[1] != "Bob" {
		t.Errorf("Unexpected values: %v", names)
	}
}

func TestJSONRaggedRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ragged.jsonl")
	content := `{"name":"Ann","ssn":"111-22-3333"}
{"name":"Bob","phone":"555-1234"}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Read(path, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	if len(got.Columns) != 3 {
		t.Fatalf("Expected union of keys, got %v", got.Columns)
	}
	phones, _ := got.Column("phone")
	if phones[0] != "" || phones[1] != "555-1234" {
		t.Errorf("Unexpected phone column: %v", phones)
	}
}

func TestUnsupportedFormats(t *testing.T) {
	if _, err := Read("notes.txt", zap.NewNop()); err == nil {
		t.Error("Expected error for unsupported input format")
	}
	if err := Write("out.parquet", tabular.New([]string{"a"}), zap.NewNop()); err == nil {
		t.Error("Expected error for unsupported output format")
	}
}
