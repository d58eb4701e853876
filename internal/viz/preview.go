// Package viz is the interactive terminal preview. It shows the whole
// matrix as a colored block raster plus a line graph of one subject at a
// time, so a scale or colormap choice can be checked before rendering the
// full-size image.
package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/hmizuno/zheat/internal/colormap"
	"github.com/hmizuno/zheat/internal/dataset"
	"github.com/hmizuno/zheat/internal/stats"
)

const (
	defaultWidth = 80
	graphHeight  = 8
)

// Model holds the preview state.
type Model struct {
	tb         *dataset.Table
	z          [][]float64
	degenerate map[int]bool
	cmap       colormap.Map
	vmin, vmax float64

	selected int
	showZ    bool
	showHelp bool
	width    int
}

// NewModel builds a preview over a loaded table and its standardized
// matrix. degenerate lists flat subject columns by index.
func NewModel(tb *dataset.Table, z [][]float64, degenerate []int, cm colormap.Map, vmin, vmax float64) Model {
	deg := make(map[int]bool, len(degenerate))
	for _, j := range degenerate {
		deg[j] = true
	}
	return Model{
		tb:         tb,
		z:          z,
		degenerate: deg,
		cmap:       cm,
		vmin:       vmin,
		vmax:       vmax,
		showZ:      true,
		width:      defaultWidth,
	}
}

func (m Model) Init() tea.Cmd { return nil }

// Update handles key input and terminal resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "down", "j":
			m.selected = (m.selected + 1) % m.tb.NumSubjects()
		case "up", "k":
			m.selected = (m.selected + m.tb.NumSubjects() - 1) % m.tb.NumSubjects()
		case "g":
			m.selected = 0
		case "G":
			m.selected = m.tb.NumSubjects() - 1
		case "z":
			m.showZ = !m.showZ
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		if msg.Width > 20 {
			m.width = msg.Width
		}
	}
	return m, nil
}

// View renders the preview.
func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("%s  [%s]", m.tb.Path, m.cmap.Name)) + "\n")

	cells := m.width - m.labelWidth() - 4
	if cells < 10 {
		cells = 10
	}
	for j, name := range m.tb.Subjects {
		marker := "  "
		label := labelStyle.Render(name)
		if j == m.selected {
			marker = selectedStyle.Render("> ")
			label = selectedStyle.Render(name)
		}
		s.WriteString(marker + label + " " + m.heatRow(j, cells) + "\n")
	}

	s.WriteString("\n" + m.graph(cells) + "\n")
	s.WriteString(m.statsPanel())

	if m.showHelp {
		s.WriteString(helpStyle.Render("\n" +
			"  j/k or arrows  select subject\n" +
			"  g/G            first/last subject\n" +
			"  z              toggle raw values and z-scores\n" +
			"  q              quit"))
	} else {
		s.WriteString(helpStyle.Render("\nJ/K:Subject Z:Raw/Z ?:Help Q:Quit"))
	}
	return s.String()
}

func (m Model) labelWidth() int {
	w := 0
	for _, s := range m.tb.Subjects {
		if len(s) > w {
			w = len(s)
		}
	}
	if w < 10 {
		w = 10
	}
	return w
}

// heatRow renders subject j as one row of colored blocks, bucket-averaging
// the samples down to the cell budget.
func (m Model) heatRow(j, cells int) string {
	col := make([]float64, m.tb.Rows())
	for i := range col {
		col[i] = m.z[i][j]
	}
	buckets := bucketMeans(col, cells)

	span := m.vmax - m.vmin
	var row strings.Builder
	for _, v := range buckets {
		if math.IsNaN(v) {
			row.WriteString(mutedStyle.Render("·"))
			continue
		}
		c := m.cmap.At((v - m.vmin) / span)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)))
		row.WriteString(style.Render("█"))
	}
	return row.String()
}

func (m Model) graph(width int) string {
	series := m.tb.Column(m.selected)
	caption := "raw"
	if m.showZ {
		series = make([]float64, m.tb.Rows())
		for i := range series {
			series[i] = m.z[i][m.selected]
		}
		caption = "z-score"
	}

	finite := series[:0:0]
	for _, v := range series {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) < 2 {
		return warnStyle.Render("  (not enough finite samples to graph)")
	}
	chart := asciigraph.Plot(finite,
		asciigraph.Height(graphHeight),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s (%s)", m.tb.Subjects[m.selected], caption)))
	return graphStyle.Render(chart)
}

func (m Model) statsPanel() string {
	sm := stats.Summarize(m.tb.Column(m.selected))
	var s strings.Builder
	s.WriteString(labelStyle.Render("Samples") + valueStyle.Render(fmt.Sprintf("%d", sm.N)))
	if sm.Missing > 0 {
		s.WriteString(warnStyle.Render(fmt.Sprintf("  (%d missing)", sm.Missing)))
	}
	s.WriteString("\n")
	s.WriteString(labelStyle.Render("Mean") + valueStyle.Render(fmt.Sprintf("%.4g", sm.Mean)) + "\n")
	s.WriteString(labelStyle.Render("Std") + valueStyle.Render(fmt.Sprintf("%.4g", sm.StdDev)) + "\n")
	s.WriteString(labelStyle.Render("Range") + valueStyle.Render(fmt.Sprintf("%.4g to %.4g", sm.Min, sm.Max)))
	if m.degenerate[m.selected] {
		s.WriteString("\n" + warnStyle.Render("flat series: z-scores are undefined"))
	}
	return statsStyle.Render(s.String())
}

// Swatch renders a colormap as a one-line gradient strip of colored blocks,
// for terminal palette listings.
func Swatch(m colormap.Map, width int) string {
	if width < 2 {
		width = 2
	}
	var sb strings.Builder
	for k := 0; k < width; k++ {
		c := m.At(float64(k) / float64(width-1))
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)))
		sb.WriteString(style.Render("█"))
	}
	return sb.String()
}

// bucketMeans collapses xs into n buckets of NaN-skipping means. A bucket
// with no finite member stays NaN.
func bucketMeans(xs []float64, n int) []float64 {
	if n >= len(xs) {
		out := make([]float64, len(xs))
		copy(out, xs)
		return out
	}
	out := make([]float64, n)
	for b := 0; b < n; b++ {
		lo := b * len(xs) / n
		hi := (b + 1) * len(xs) / n
		sum, cnt := 0.0, 0
		for _, v := range xs[lo:hi] {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				sum += v
				cnt++
			}
		}
		if cnt == 0 {
			out[b] = math.NaN()
		} else {
			out[b] = sum / float64(cnt)
		}
	}
	return out
}
