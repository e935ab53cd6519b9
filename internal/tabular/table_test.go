package tabular

import "testing"

func TestAppendRow(t *testing.T) {
	table := New([]string{"a", "b", "c"})

	t.Run("short rows are padded", func(t *testing.T) {
		if err := table.AppendRow([]string{"1"}); err != nil {
			t.Fatal(err)
		}
		if got := table.Rows[0]; len(got) != 3 || got[1] != "" || got[2] != "" {
			t.Errorf("Expected padded row, got %v", got)
		}
	})

	t.Run("long rows are rejected", func(t *testing.T) {
		if err := table.AppendRow([]string{"1", "2", "3", "4"}); err == nil {
			t.Error("Expected error for oversized row")
		}
	})
}

func TestColumns(t *testing.T) {
	table := New([]string{"name", "ssn"})
	table.AppendRow([]string{"Ann", "111-22-3333"})
	table.AppendRow([]string{"Bob", "444-55-6666"})

	t.Run("column returns values in row order", func(t *testing.T) {
		values, ok := table.Column("name")
		if !ok {
			t.Fatal("Expected name column")
		}
		if values[0] != "Ann" || values[1] != "Bob" {
			t.Errorf("Unexpected values: %v", values)
		}
	})

	t.Run("column returns a copy", func(t *testing.T) {
		values, _ := table.Column("name")
		values[0] = "tampered"
		if table.Rows[0][0] != "Ann" {
			t.Error("Mutating the returned slice changed the table")
		}
	})

	t.Run("missing column", func(t *testing.T) {
		if _, ok := table.Column("missing"); ok {
			t.Error("Expected no values for a missing column")
		}
		if table.HasColumn("missing") {
			t.Error("HasColumn should be false for missing column")
		}
	})

	t.Run("set column replaces values", func(t *testing.T) {
		if err := table.SetColumn("ssn", []string{"x", "y"}); err != nil {
			t.Fatal(err)
		}
		values, _ := table.Column("ssn")
		if values[0] != "x" || values[1] != "y" {
			t.Errorf("Unexpected values after SetColumn: %v", values)
		}
	})

	t.Run("set column rejects length mismatch", func(t *testing.T) {
		if err := table.SetColumn("ssn", []string{"only one"}); err == nil {
			t.Error("Expected error for mismatched column length")
		}
	})
}

func TestCopy(t *testing.T) {
	table := New([]string{"a", "b"})
	table.AppendRow([]string{"1", "2"})

	copied := table.Copy()
	copied.Rows[0][0] = "mutated"

	if table.Rows[0][0] != "1" {
		t.Error("Copy is not deep, original was mutated")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		table   *Table
		wantErr bool
	}{
		{"nil table", nil, true},
		{"one column", &Table{Columns: []string{"a"}, Rows: [][]string{{"1"}}}, true},
		{"no rows", &Table{Columns: []string{"a", "b"}}, true},
		{"valid", &Table{Columns: []string{"a", "b"}, Rows: [][]string{{"1", "2"}}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.table.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
