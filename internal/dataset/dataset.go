package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Input errors surfaced by Load. All are terminal: the caller reports and
// exits without producing output.
var (
	// ErrNoTimeColumn indicates the designated time column is absent.
	ErrNoTimeColumn = errors.New("dataset: time column not found")

	// ErrNoSubjects indicates no column name matches the subject prefix.
	ErrNoSubjects = errors.New("dataset: no subject columns match prefix")

	// ErrNoData indicates the file holds a header but no data rows.
	ErrNoData = errors.New("dataset: no data rows")
)

// Table is one recording session: a time axis plus one column of samples per
// subject. Data is row-major, Data[i][j] = sample i of subject j. Empty cells
// are NaN and stay NaN through the pipeline.
type Table struct {
	Path     string
	TimeName string
	Times    []float64
	Subjects []string
	Data     [][]float64
}

func (t *Table) Rows() int        { return len(t.Data) }
func (t *Table) NumSubjects() int { return len(t.Subjects) }

// Column returns subject j's samples as a fresh slice.
func (t *Table) Column(j int) []float64 {
	col := make([]float64, len(t.Data))
	for i := range t.Data {
		col[i] = t.Data[i][j]
	}
	return col
}

// Load reads a CSV with one time column (matched by exact name) and N
// subject columns (matched by name prefix). Column order is preserved.
func Load(path, timeColumn, subjectPrefix string) (*Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()

	r := csv.NewReader(fh)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(header) > 0 {
		// Excel exports commonly carry a BOM on the first cell.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	timeIdx := -1
	var subjectIdx []int
	var subjects []string
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == timeColumn {
			timeIdx = i
			continue
		}
		if strings.HasPrefix(name, subjectPrefix) {
			subjectIdx = append(subjectIdx, i)
			subjects = append(subjects, name)
		}
	}
	if timeIdx == -1 {
		return nil, fmt.Errorf("%s: %w: %q", path, ErrNoTimeColumn, timeColumn)
	}
	if len(subjectIdx) == 0 {
		return nil, fmt.Errorf("%s: %w: %q", path, ErrNoSubjects, subjectPrefix)
	}

	t := &Table{
		Path:     path,
		TimeName: timeColumn,
		Subjects: subjects,
	}

	row := 0
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		row++

		tv, err := parseCell(record[timeIdx])
		if err != nil {
			return nil, fmt.Errorf("%s row %d column %q: %w", path, row, timeColumn, err)
		}
		t.Times = append(t.Times, tv)

		vals := make([]float64, len(subjectIdx))
		for j, idx := range subjectIdx {
			v, err := parseCell(record[idx])
			if err != nil {
				return nil, fmt.Errorf("%s row %d column %q: %w", path, row, subjects[j], err)
			}
			vals[j] = v
		}
		t.Data = append(t.Data, vals)
	}

	if len(t.Data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoData)
	}
	return t, nil
}

// parseCell converts one CSV cell. Empty cells are missing values, not
// errors, and come back as NaN.
func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad value %q", s)
	}
	return v, nil
}
