package dataset

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, "Time (s),Mouse1,Mouse2,Note\n0.0,1.5,2.0,a\n0.1,1.6,2.1,b\n0.2,1.7,2.2,c\n")

	tb, err := Load(path, "Time (s)", "Mouse")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if tb.Rows() != 3 {
		t.Errorf("expected 3 rows, got %d", tb.Rows())
	}
	if tb.NumSubjects() != 2 {
		t.Errorf("expected 2 subjects, got %d", tb.NumSubjects())
	}
	if tb.Subjects[0] != "Mouse1" || tb.Subjects[1] != "Mouse2" {
		t.Errorf("unexpected subjects: %v", tb.Subjects)
	}
	if tb.Times[1] != 0.1 {
		t.Errorf("expected time 0.1, got %f", tb.Times[1])
	}
	if tb.Data[2][0] != 1.7 {
		t.Errorf("expected 1.7 at [2][0], got %f", tb.Data[2][0])
	}

	col := tb.Column(1)
	if len(col) != 3 || col[0] != 2.0 {
		t.Errorf("unexpected column: %v", col)
	}
}

func TestLoadBOMHeader(t *testing.T) {
	path := writeCSV(t, "\ufeffTime (s),Mouse1\n0,1\n1,2\n")

	tb, err := Load(path, "Time (s)", "Mouse")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if tb.NumSubjects() != 1 {
		t.Errorf("expected 1 subject, got %d", tb.NumSubjects())
	}
}

func TestLoadEmptyCellIsNaN(t *testing.T) {
	path := writeCSV(t, "Time (s),Mouse1\n0,1.0\n1,\n2,3.0\n")

	tb, err := Load(path, "Time (s)", "Mouse")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !math.IsNaN(tb.Data[1][0]) {
		t.Errorf("expected NaN for empty cell, got %f", tb.Data[1][0])
	}
	if tb.Data[2][0] != 3.0 {
		t.Errorf("expected 3.0 after the gap, got %f", tb.Data[2][0])
	}
}

func TestLoadMissingTimeColumn(t *testing.T) {
	path := writeCSV(t, "Timestamp,Mouse1\n0,1\n")

	_, err := Load(path, "Time (s)", "Mouse")
	if !errors.Is(err, ErrNoTimeColumn) {
		t.Fatalf("expected ErrNoTimeColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "Time (s)") {
		t.Errorf("error should name the missing column: %v", err)
	}
}

func TestLoadNoSubjectColumns(t *testing.T) {
	path := writeCSV(t, "Time (s),Rat1,Rat2\n0,1,2\n")

	_, err := Load(path, "Time (s)", "Mouse")
	if !errors.Is(err, ErrNoSubjects) {
		t.Fatalf("expected ErrNoSubjects, got %v", err)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	path := writeCSV(t, "Time (s),Mouse1\n")

	_, err := Load(path, "Time (s)", "Mouse")
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestLoadBadValue(t *testing.T) {
	path := writeCSV(t, "Time (s),Mouse1\n0,1.0\n1,oops\n")

	_, err := Load(path, "Time (s)", "Mouse")
	if err == nil {
		t.Fatal("expected error for non-numeric cell")
	}
	if !strings.Contains(err.Error(), "row 2") || !strings.Contains(err.Error(), "Mouse1") {
		t.Errorf("error should carry row and column context: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), "Time (s)", "Mouse")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadRaggedRow(t *testing.T) {
	path := writeCSV(t, "Time (s),Mouse1,Mouse2\n0,1,2\n1,3\n")

	_, err := Load(path, "Time (s)", "Mouse")
	if err == nil {
		t.Fatal("expected error for ragged row")
	}
}
