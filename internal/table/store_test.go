package table

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreLoad_MissingFileBootstraps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.csv")
	store := NewStore(path)

	tbl, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.NumCols() != 0 || tbl.NumRows() != 0 {
		t.Errorf("Load() = %d cols, %d rows, want empty table", tbl.NumCols(), tbl.NumRows())
	}

	// The file must exist afterwards
	if _, err := os.Stat(path); err != nil {
		t.Errorf("table file was not created: %v", err)
	}
}

func TestStoreLoad_ParseFailureDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.csv")
	// Unbalanced quote makes encoding/csv fail
	if err := os.WriteFile(path, []byte("A,B\n\"broken,row\n1,2,3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.NumCols() != 0 {
		t.Errorf("corrupt file should load as empty table, got %d cols", tbl.NumCols())
	}
}

func TestStoreLoad_RaggedRowDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.csv")
	if err := os.WriteFile(path, []byte("A,B\n1,2\n3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.NumCols() != 0 {
		t.Errorf("ragged file should load as empty table, got %d cols", tbl.NumCols())
	}
}

func TestStoreLoad_SkipsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.csv")
	if err := os.WriteFile(path, []byte("\xEF\xBB\xBFA,B\n1,x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tbl, err := NewStore(path).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cols := tbl.Columns()
	if len(cols) != 2 || cols[0] != "A" {
		t.Errorf("Columns() = %v, want [A B]", cols)
	}
}

func TestStoreSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.csv")
	store := NewStore(path)

	tbl := New("A", "B", "C")
	rows := [][]string{
		{"5", "hello", "True"},
		{"", "with,comma", "False"},
		{"-3", "quoted \"text\"", ""},
	}
	for _, row := range rows {
		if err := tbl.AppendRow(row); err != nil {
			t.Fatal(err)
		}
	}

	if err := store.Save(tbl); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantCols := []string{"A", "B", "C"}
	gotCols := got.Columns()
	if len(gotCols) != len(wantCols) {
		t.Fatalf("Columns() = %v, want %v", gotCols, wantCols)
	}
	for i, c := range wantCols {
		if gotCols[i] != c {
			t.Errorf("Columns()[%d] = %q, want %q", i, gotCols[i], c)
		}
	}

	gotRows := got.Rows()
	if len(gotRows) != len(rows) {
		t.Fatalf("Rows() count = %d, want %d", len(gotRows), len(rows))
	}
	for i, row := range rows {
		for j, cell := range row {
			if gotRows[i][j] != cell {
				t.Errorf("Rows()[%d][%d] = %q, want %q", i, j, gotRows[i][j], cell)
			}
		}
	}

	// Kinds survive the round trip too
	if got.Kind(0) != KindInt {
		t.Errorf("Kind(A) = %v, want int", got.Kind(0))
	}
	if got.Kind(1) != KindText {
		t.Errorf("Kind(B) = %v, want text", got.Kind(1))
	}
	if got.Kind(2) != KindBool {
		t.Errorf("Kind(C) = %v, want bool", got.Kind(2))
	}
}

func TestStoreSave_EmptyTableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.csv")
	store := NewStore(path)

	if err := store.Save(New()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	tbl, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if tbl.NumCols() != 0 {
		t.Errorf("empty table round trip produced %d cols", tbl.NumCols())
	}
}

func TestStoreSave_ReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.csv")
	store := NewStore(path)

	first := New("A")
	if err := first.AppendRow([]string{"1"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(first); err != nil {
		t.Fatal(err)
	}

	second := New("A")
	for _, v := range []string{"1", "2"} {
		if err := second.AppendRow([]string{v}); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Save(second); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.NumRows() != 2 {
		t.Errorf("NumRows() = %d, want 2", got.NumRows())
	}

	// No temp file left behind
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file still exists after save")
	}
}
