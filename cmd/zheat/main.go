package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hmizuno/zheat/internal/colormap"
	"github.com/hmizuno/zheat/internal/config"
	"github.com/hmizuno/zheat/internal/dataset"
	"github.com/hmizuno/zheat/internal/export"
	"github.com/hmizuno/zheat/internal/logging"
	"github.com/hmizuno/zheat/internal/render"
	"github.com/hmizuno/zheat/internal/stats"
	"github.com/hmizuno/zheat/internal/viz"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	output        string
	title         string
	vmin          float64
	vmax          float64
	cmapName      string
	widthIn       float64
	heightIn      float64
	dpi           int
	timeColumn    string
	subjectPrefix string
	xtickInterval int
	colorbar      bool
	configFile    string
	preset        string
	logLevel      string
	// Standalone colorbar
	barOut      string
	barVMin     float64
	barVMax     float64
	barWidth    float64
	barHeight   float64
	orientation string
	barLabel    string
	// Inspect output format
	asJSON bool
	// Traces
	tracesDPI int
	withMean  bool
)

var inspectHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "zheat [input.csv]",
		Short:   "z-score heatmaps from longitudinal CSV recordings",
		Version: version,
		Args:    cobra.ExactArgs(1),
		RunE:    renderHeatmap,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output image path (default <input stem>_heatmap.png)")
	rootCmd.Flags().StringVarP(&title, "title", "t", "", "figure title (default \"Z-score Heatmap (n=N)\")")
	rootCmd.Flags().Float64Var(&vmin, "vmin", 0, "low end of the color scale (default data minimum)")
	rootCmd.Flags().Float64Var(&vmax, "vmax", 0, "high end of the color scale (default data maximum)")
	rootCmd.Flags().StringVar(&cmapName, "cmap", config.DefaultCmap, "colormap name (see zheat colormaps)")
	rootCmd.Flags().Float64Var(&widthIn, "width", config.DefaultWidth, "figure width in inches")
	rootCmd.Flags().Float64Var(&heightIn, "height", config.DefaultHeight, "figure height in inches")
	rootCmd.Flags().IntVar(&dpi, "dpi", config.DefaultDPI, "output resolution in dots per inch")
	rootCmd.Flags().StringVar(&timeColumn, "time-column", config.DefaultTimeColumn, "name of the time column")
	rootCmd.Flags().StringVar(&subjectPrefix, "subject-prefix", config.DefaultSubjectPrefix, "subject column name prefix")
	rootCmd.Flags().IntVar(&xtickInterval, "xtick-interval", config.DefaultXTickInterval, "samples between x axis ticks (0 for automatic)")
	rootCmd.Flags().BoolVar(&colorbar, "colorbar", false, "also write a standalone colorbar image")
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration (see zheat presets)")

	colorbarCmd := &cobra.Command{
		Use:   "colorbar [input.csv]",
		Short: "render a standalone colorbar image",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderColorbar,
	}
	colorbarCmd.Flags().StringVarP(&barOut, "output", "o", "colorbar.png", "output image path")
	colorbarCmd.Flags().Float64Var(&barVMin, "vmin", -3, "low end of the scale (data minimum when a CSV is given)")
	colorbarCmd.Flags().Float64Var(&barVMax, "vmax", 3, "high end of the scale (data maximum when a CSV is given)")
	colorbarCmd.Flags().StringVar(&cmapName, "cmap", config.DefaultCmap, "colormap name")
	colorbarCmd.Flags().StringVar(&orientation, "orientation", "vertical", "bar orientation (vertical, horizontal)")
	colorbarCmd.Flags().IntVar(&dpi, "dpi", config.DefaultDPI, "output resolution in dots per inch")
	colorbarCmd.Flags().Float64Var(&barWidth, "width", 0, "width in inches (default 2 vertical, 8 horizontal)")
	colorbarCmd.Flags().Float64Var(&barHeight, "height", 0, "height in inches (default 8 vertical, 2 horizontal)")
	colorbarCmd.Flags().StringVar(&barLabel, "label", "Z-score", "caption beside the bar")
	colorbarCmd.Flags().StringVar(&timeColumn, "time-column", config.DefaultTimeColumn, "name of the time column")
	colorbarCmd.Flags().StringVar(&subjectPrefix, "subject-prefix", config.DefaultSubjectPrefix, "subject column name prefix")

	inspectCmd := &cobra.Command{
		Use:   "inspect [input.csv]",
		Short: "per-subject summary statistics",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectTable,
	}
	inspectCmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a table")
	inspectCmd.Flags().StringVar(&timeColumn, "time-column", config.DefaultTimeColumn, "name of the time column")
	inspectCmd.Flags().StringVar(&subjectPrefix, "subject-prefix", config.DefaultSubjectPrefix, "subject column name prefix")

	tracesCmd := &cobra.Command{
		Use:   "traces [input.csv]",
		Short: "line chart of per-subject z-score traces",
		Args:  cobra.ExactArgs(1),
		RunE:  renderTraces,
	}
	tracesCmd.Flags().StringVarP(&output, "output", "o", "", "output PNG path (default <input stem>_traces.png)")
	tracesCmd.Flags().StringVarP(&title, "title", "t", "", "chart title")
	tracesCmd.Flags().StringVar(&cmapName, "cmap", config.DefaultCmap, "colormap for the trace colors")
	tracesCmd.Flags().Float64Var(&widthIn, "width", config.DefaultWidth, "chart width in inches")
	tracesCmd.Flags().Float64Var(&heightIn, "height", config.DefaultHeight, "chart height in inches")
	tracesCmd.Flags().IntVar(&tracesDPI, "dpi", 100, "chart resolution in dots per inch")
	tracesCmd.Flags().BoolVar(&withMean, "mean", false, "overlay the cross-subject mean trace")
	tracesCmd.Flags().StringVar(&timeColumn, "time-column", config.DefaultTimeColumn, "name of the time column")
	tracesCmd.Flags().StringVar(&subjectPrefix, "subject-prefix", config.DefaultSubjectPrefix, "subject column name prefix")

	previewCmd := &cobra.Command{
		Use:   "preview [input.csv]",
		Short: "interactive terminal preview",
		Args:  cobra.ExactArgs(1),
		RunE:  runPreview,
	}
	previewCmd.Flags().StringVar(&cmapName, "cmap", config.DefaultCmap, "colormap name")
	previewCmd.Flags().StringVar(&timeColumn, "time-column", config.DefaultTimeColumn, "name of the time column")
	previewCmd.Flags().StringVar(&subjectPrefix, "subject-prefix", config.DefaultSubjectPrefix, "subject column name prefix")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list style presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				scale := "auto scale"
				if p.Scale.VMin != nil && p.Scale.VMax != nil {
					scale = fmt.Sprintf("scale %g to %g", *p.Scale.VMin, *p.Scale.VMax)
				}
				extra := ""
				if p.Colorbar {
					extra = ", colorbar"
				}
				fmt.Fprintf(out, "  %-12s %gx%g in at %d dpi, %s, %s%s\n",
					name, p.Figure.Width, p.Figure.Height, p.Figure.DPI, p.Figure.Cmap, scale, extra)
			}
			return nil
		},
	}

	colormapsCmd := &cobra.Command{
		Use:   "colormaps",
		Short: "list colormaps with gradient swatches",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, m := range colormap.All {
				fmt.Fprintf(out, "  %-10s %s\n", m.Name, viz.Swatch(m, 32))
			}
			fmt.Fprintln(out, "\nappend _r to a name for the reversed ramp")
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "config file helpers",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a starter config file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	configInitCmd.Flags().StringVar(&preset, "preset", "", "seed the file from a preset")
	configCmd.AddCommand(configInitCmd)

	rootCmd.AddCommand(colorbarCmd, inspectCmd, tracesCmd, previewCmd, presetsCmd, colormapsCmd, configCmd)

	return rootCmd
}

func newLogger() *slog.Logger {
	return logging.New(os.Stderr, logging.ParseLevel(logLevel))
}

func renderHeatmap(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	tb, err := dataset.Load(args[0], cfg.Input.TimeColumn, cfg.Input.SubjectPrefix)
	if err != nil {
		return err
	}
	logger.Info("loaded recording", "path", tb.Path,
		"subjects", tb.NumSubjects(), "samples", tb.Rows())

	z, degenerate := stats.Standardize(tb.Data)
	for _, j := range degenerate {
		logger.Warn("flat series: z-scores are undefined", "subject", tb.Subjects[j])
	}

	opt, err := cfg.RenderOptions()
	if err != nil {
		return err
	}
	opt.VMin, opt.VMax = resolveScale(cfg, z, logger)
	if opt.Title == "" {
		opt.Title = fmt.Sprintf("Z-score Heatmap (n=%d)", tb.NumSubjects())
	}

	out := cfg.Output
	if out == "" {
		out = derivedPath(args[0], "_heatmap.png")
	}
	if err := writeHeatmap(out, z, tb.Subjects, opt); err != nil {
		return err
	}
	logger.Info("wrote heatmap", "path", out, "vmin", opt.VMin, "vmax", opt.VMax)

	if cfg.Colorbar {
		barOpt := opt
		barOpt.Title = ""
		barOpt.WidthIn, barOpt.HeightIn = 0, 0
		ext := filepath.Ext(out)
		barPath := strings.TrimSuffix(out, ext) + "_colorbar" + ext
		if err := writeColorbar(barPath, barOpt, render.Vertical); err != nil {
			return err
		}
		logger.Info("wrote colorbar", "path", barPath)
	}
	return nil
}

// resolveConfig merges preset, config file and flags in rising precedence.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile, cfg)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("title") {
		cfg.Title = title
	}
	if flags.Changed("cmap") {
		cfg.Figure.Cmap = cmapName
	}
	if flags.Changed("width") {
		cfg.Figure.Width = widthIn
	}
	if flags.Changed("height") {
		cfg.Figure.Height = heightIn
	}
	if flags.Changed("dpi") {
		cfg.Figure.DPI = dpi
	}
	if flags.Changed("time-column") {
		cfg.Input.TimeColumn = timeColumn
	}
	if flags.Changed("subject-prefix") {
		cfg.Input.SubjectPrefix = subjectPrefix
	}
	if flags.Changed("xtick-interval") {
		cfg.Figure.XTickInterval = xtickInterval
	}
	if flags.Changed("vmin") {
		v := vmin
		cfg.Scale.VMin = &v
	}
	if flags.Changed("vmax") {
		v := vmax
		cfg.Scale.VMax = &v
	}
	if flags.Changed("colorbar") {
		cfg.Colorbar = colorbar
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveScale fills whichever color bound the user left automatic from the
// finite extrema of the z-matrix.
func resolveScale(cfg *config.Config, z [][]float64, logger *slog.Logger) (float64, float64) {
	lo, hi, ok := stats.MinMax(z)
	if !ok {
		lo, hi = -1, 1
		logger.Warn("no finite z-scores, using fallback color scale", "vmin", lo, "vmax", hi)
	}
	if cfg.Scale.VMin != nil {
		lo = *cfg.Scale.VMin
	}
	if cfg.Scale.VMax != nil {
		hi = *cfg.Scale.VMax
	}
	if !(lo < hi) {
		logger.Warn("degenerate color scale, padding", "vmin", lo, "vmax", hi)
		lo, hi = lo-0.5, lo+0.5
	}
	return lo, hi
}

// derivedPath swaps path's extension for suffix, so "run1.csv" becomes
// "run1_heatmap.png".
func derivedPath(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}

func writeHeatmap(path string, z [][]float64, subjects []string, opt render.Options) error {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		doc, err := export.HeatmapSVG(z, subjects, opt)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(doc), 0644)
	}
	img, err := render.Heatmap(z, subjects, opt)
	if err != nil {
		return err
	}
	return render.Save(path, img)
}

func writeColorbar(path string, opt render.Options, orient render.Orientation) error {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		doc, err := export.ColorbarSVG(opt, orient)
		if err != nil {
			return err
		}
		return os.WriteFile(path, []byte(doc), 0644)
	}
	img, err := render.Colorbar(opt, orient)
	if err != nil {
		return err
	}
	return render.Save(path, img)
}

func renderColorbar(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if dpi <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", dpi)
	}
	// Zero means the orientation default; only negative sizes are invalid.
	if barWidth < 0 || barHeight < 0 {
		return fmt.Errorf("width and height must not be negative, got %g and %g", barWidth, barHeight)
	}
	cm, err := colormap.Get(cmapName)
	if err != nil {
		return err
	}
	orient, err := render.ParseOrientation(orientation)
	if err != nil {
		return err
	}

	lo, hi := barVMin, barVMax
	if len(args) == 1 {
		tb, err := dataset.Load(args[0], timeColumn, subjectPrefix)
		if err != nil {
			return err
		}
		z, _ := stats.Standardize(tb.Data)
		if dataLo, dataHi, ok := stats.MinMax(z); ok {
			if !cmd.Flags().Changed("vmin") {
				lo = dataLo
			}
			if !cmd.Flags().Changed("vmax") {
				hi = dataHi
			}
		}
	}

	opt := render.Options{
		BarLabel: barLabel,
		WidthIn:  barWidth,
		HeightIn: barHeight,
		DPI:      dpi,
		Cmap:     cm,
		VMin:     lo,
		VMax:     hi,
	}
	if err := writeColorbar(barOut, opt, orient); err != nil {
		return err
	}
	logger.Info("wrote colorbar", "path", barOut,
		"vmin", lo, "vmax", hi, "orientation", orient.String())
	return nil
}

func inspectTable(cmd *cobra.Command, args []string) error {
	tb, err := dataset.Load(args[0], timeColumn, subjectPrefix)
	if err != nil {
		return err
	}

	_, degenerate := stats.Standardize(tb.Data)
	deg := make(map[int]bool, len(degenerate))
	for _, j := range degenerate {
		deg[j] = true
	}

	type subjectRow struct {
		Subject    string        `json:"subject"`
		Stats      stats.Summary `json:"stats"`
		Degenerate bool          `json:"degenerate"`
	}
	rows := make([]subjectRow, tb.NumSubjects())
	for j := range rows {
		rows[j] = subjectRow{
			Subject:    tb.Subjects[j],
			Stats:      stats.Summarize(tb.Column(j)),
			Degenerate: deg[j],
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Fprintln(out, inspectHeader.Render(
		fmt.Sprintf("%s: %d subjects, %d samples", tb.Path, tb.NumSubjects(), tb.Rows())))
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SUBJECT\tN\tMISSING\tMEAN\tSTDDEV\tMIN\tMAX\tFLAT")
	for _, r := range rows {
		flat := ""
		if r.Degenerate {
			flat = "yes"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%s\n",
			r.Subject, r.Stats.N, r.Stats.Missing, r.Stats.Mean, r.Stats.StdDev,
			r.Stats.Min, r.Stats.Max, flat)
	}
	return w.Flush()
}

func renderTraces(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	if widthIn <= 0 || heightIn <= 0 {
		return fmt.Errorf("figure size must be positive, got %gx%g", widthIn, heightIn)
	}
	if tracesDPI <= 0 {
		return fmt.Errorf("dpi must be positive, got %d", tracesDPI)
	}
	cm, err := colormap.Get(cmapName)
	if err != nil {
		return err
	}
	tb, err := dataset.Load(args[0], timeColumn, subjectPrefix)
	if err != nil {
		return err
	}

	z, degenerate := stats.Standardize(tb.Data)
	for _, j := range degenerate {
		logger.Warn("flat series: z-scores are undefined", "subject", tb.Subjects[j])
	}
	zt := &dataset.Table{
		Path:     tb.Path,
		TimeName: tb.TimeName,
		Times:    tb.Times,
		Subjects: tb.Subjects,
		Data:     z,
	}

	var buf bytes.Buffer
	opt := render.TracesOptions{
		Title:    title,
		WidthIn:  widthIn,
		HeightIn: heightIn,
		DPI:      tracesDPI,
		Cmap:     cm,
		Mean:     withMean,
	}
	if err := render.Traces(zt, opt, &buf); err != nil {
		return err
	}

	out := output
	if out == "" {
		out = derivedPath(args[0], "_traces.png")
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return err
	}
	logger.Info("wrote traces", "path", out, "subjects", tb.NumSubjects())
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	cm, err := colormap.Get(cmapName)
	if err != nil {
		return err
	}
	tb, err := dataset.Load(args[0], timeColumn, subjectPrefix)
	if err != nil {
		return err
	}

	z, degenerate := stats.Standardize(tb.Data)
	lo, hi, ok := stats.MinMax(z)
	if !ok {
		lo, hi = -1, 1
	}
	if !(lo < hi) {
		lo, hi = lo-0.5, lo+0.5
	}

	m := viz.NewModel(tb, z, degenerate, cm, lo, hi)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return err
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "zheat.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
