package viz

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hmizuno/zheat/internal/colormap"
	"github.com/hmizuno/zheat/internal/dataset"
)

func testModel() Model {
	tb := &dataset.Table{
		Path:     "demo.csv",
		TimeName: "Time (s)",
		Times:    []float64{0, 1, 2},
		Subjects: []string{"Mouse 1", "Mouse 2"},
		Data: [][]float64{
			{1, 5},
			{2, 5},
			{3, 5},
		},
	}
	z := [][]float64{
		{-1.2247, math.NaN()},
		{0, math.NaN()},
		{1.2247, math.NaN()},
	}
	return NewModel(tb, z, []int{1}, colormap.Default, -2, 2)
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestUpdateCyclesSubjects(t *testing.T) {
	m := testModel()
	if m.selected != 0 {
		t.Fatalf("initial selected = %d", m.selected)
	}

	next, _ := m.Update(key('j'))
	m = next.(Model)
	if m.selected != 1 {
		t.Errorf("after j: selected = %d, want 1", m.selected)
	}

	next, _ = m.Update(key('j'))
	m = next.(Model)
	if m.selected != 0 {
		t.Errorf("after wrap: selected = %d, want 0", m.selected)
	}

	next, _ = m.Update(key('k'))
	m = next.(Model)
	if m.selected != 1 {
		t.Errorf("after k wrap: selected = %d, want 1", m.selected)
	}
}

func TestUpdateTogglesZ(t *testing.T) {
	m := testModel()
	if !m.showZ {
		t.Fatal("z-score view should be the default")
	}
	next, _ := m.Update(key('z'))
	m = next.(Model)
	if m.showZ {
		t.Error("z did not toggle to raw view")
	}
}

func TestUpdateQuits(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(key('q'))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("q produced %T, want tea.QuitMsg", msg)
	}
}

func TestUpdateResize(t *testing.T) {
	m := testModel()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	if m.width != 120 {
		t.Errorf("width = %d, want 120", m.width)
	}

	// Tiny widths are ignored so the raster never collapses.
	next, _ = m.Update(tea.WindowSizeMsg{Width: 5, Height: 40})
	m = next.(Model)
	if m.width != 120 {
		t.Errorf("width = %d after tiny resize, want 120", m.width)
	}
}

func TestViewShowsSubjectsAndStats(t *testing.T) {
	m := testModel()
	out := m.View()
	for _, want := range []string{"demo.csv", "Mouse 1", "Mouse 2", "Samples", "Mean"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewFlagsDegenerateSubject(t *testing.T) {
	m := testModel()
	next, _ := m.Update(key('j'))
	m = next.(Model)
	if !strings.Contains(m.View(), "flat series") {
		t.Error("degenerate subject not flagged in view")
	}
}

func TestBucketMeans(t *testing.T) {
	xs := []float64{1, 3, math.NaN(), 5, 7, math.NaN()}
	got := bucketMeans(xs, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	want := []float64{2, 5, 7}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("bucket[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	allNaN := bucketMeans([]float64{math.NaN(), math.NaN()}, 1)
	if !math.IsNaN(allNaN[0]) {
		t.Errorf("all-NaN bucket = %v, want NaN", allNaN[0])
	}
}

func TestSwatch(t *testing.T) {
	s := Swatch(colormap.Default, 16)
	if strings.Count(s, "█") != 16 {
		t.Errorf("expected 16 blocks, got %d", strings.Count(s, "█"))
	}
}
