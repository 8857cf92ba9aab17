package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/propmount/internal/errors"
	"github.com/banshee-data/propmount/internal/fsutil"
	"github.com/banshee-data/propmount/internal/monitoring"
	"github.com/banshee-data/propmount/internal/sessionlog"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	_ "gonum.org/v1/plot/vg/vgimg"
)

// ErrEmptySummary is returned when there are no slot times to chart.
var ErrEmptySummary = errors.New("summary has no slot times")

// Chart dimensions for the PNG.
const (
	pngWidth  = 8 * vg.Inch
	pngHeight = 4 * vg.Inch
)

// Paths lists the files written by Write.
type Paths struct {
	PNG  string
	HTML string
}

func slotLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("Slot %d", i+1)
	}
	return labels
}

// NewPlot builds the mount-time bar chart.
func NewPlot(s sessionlog.Summary) (*plot.Plot, error) {
	if len(s.Slots) == 0 {
		return nil, ErrEmptySummary
	}
	st := Summarize(s)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Mount times (total %.1fs, mean %.1fs)", st.Total, st.Mean)
	p.Y.Label.Text = "Seconds"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(plotter.Values(slotSeconds(s.Slots)), vg.Points(24))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build bar chart")
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars, plotter.NewGrid())
	p.NominalX(slotLabels(len(s.Slots))...)
	return p, nil
}

// WritePNG renders the bar chart to path on fs.
func WritePNG(fs fsutil.FileSystem, path string, s sessionlog.Summary) error {
	p, err := NewPlot(s)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(pngWidth, pngHeight, "png")
	if err != nil {
		return errors.Wrap(err, "failed to render plot")
	}
	f, err := fs.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	if _, err := wt.WriteTo(f); err != nil {
		_ = f.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return f.Close()
}

// WriteHTML renders an interactive chart page to w.
func WriteHTML(w io.Writer, s sessionlog.Summary) error {
	if len(s.Slots) == 0 {
		return ErrEmptySummary
	}
	st := Summarize(s)

	data := make([]opts.BarData, len(s.Slots))
	for i, sec := range slotSeconds(s.Slots) {
		data[i] = opts.BarData{Value: fmt.Sprintf("%.3f", sec)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Mount times", Width: "900px", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Mount times",
			Subtitle: fmt.Sprintf("session=%s total=%.3fs mean=%.3fs sd=%.3fs", s.SessionID, st.Total, st.Mean, st.StdDev),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Seconds"}),
	)
	bar.SetXAxis(slotLabels(len(s.Slots))).
		AddSeries("mount time", data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)
	return page.Render(w)
}

// Write renders both the PNG and the HTML report into dir, named after
// the session's text log.
func Write(fs fsutil.FileSystem, dir string, s sessionlog.Summary) (Paths, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, errors.Wrapf(err, "failed to create report dir %s", dir)
	}
	base := strings.TrimSuffix(sessionlog.FileName(s.Started), ".txt")
	paths := Paths{
		PNG:  filepath.Join(dir, base+".png"),
		HTML: filepath.Join(dir, base+".html"),
	}
	if err := WritePNG(fs, paths.PNG, s); err != nil {
		return Paths{}, err
	}

	f, err := fs.Create(paths.HTML)
	if err != nil {
		return Paths{}, errors.Wrapf(err, "failed to create %s", paths.HTML)
	}
	if err := WriteHTML(f, s); err != nil {
		_ = f.Close()
		return Paths{}, errors.Wrapf(err, "failed to write %s", paths.HTML)
	}
	if err := f.Close(); err != nil {
		return Paths{}, err
	}
	monitoring.Logf("report: wrote %s and %s", paths.PNG, paths.HTML)
	return paths, nil
}
