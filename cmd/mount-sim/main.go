// Command mount-sim replays a recorded mounting session through the
// guidance core: tracker frames drive the per-tick pipeline and UI
// events drive the workflow. It writes the same session log, SQLite
// records and report a live session would.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/banshee-data/propmount/internal/anchor"
	"github.com/banshee-data/propmount/internal/config"
	"github.com/banshee-data/propmount/internal/fsutil"
	"github.com/banshee-data/propmount/internal/monitoring"
	"github.com/banshee-data/propmount/internal/pipeline"
	"github.com/banshee-data/propmount/internal/report"
	"github.com/banshee-data/propmount/internal/session"
	"github.com/banshee-data/propmount/internal/sessionlog"
	"github.com/banshee-data/propmount/internal/slots"
	"github.com/banshee-data/propmount/internal/timeutil"
	"github.com/banshee-data/propmount/internal/tracking"
	"github.com/banshee-data/propmount/internal/version"
	"github.com/banshee-data/propmount/internal/workflow"
)

type options struct {
	configPath   string
	scenarioPath string
	writeReport  bool
	printFrames  bool
	verbose      bool
	showVersion  bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("mount-sim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "guidance config JSON (default: "+config.DefaultConfigPath+")")
	fs.StringVar(&o.scenarioPath, "scenario", "", "scenario JSON to replay")
	fs.BoolVar(&o.writeReport, "report", false, "write the PNG/HTML timing report when the session completes")
	fs.BoolVar(&o.printFrames, "frames", false, "print one line per tick")
	fs.BoolVar(&o.verbose, "v", false, "enable workflow and pipeline diagnostics on stderr")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if !o.showVersion && o.scenarioPath == "" {
		return o, fmt.Errorf("-scenario is required")
	}
	return o, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatalf("mount-sim: %v", err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if opts.showVersion {
		fmt.Fprintln(stdout, version.String())
		return nil
	}
	if opts.verbose {
		workflow.SetLogWriters(stderr, stderr, nil)
		pipeline.SetLogWriters(stderr, stderr, nil)
		defer workflow.SetLogWriters(nil, nil, nil)
		defer pipeline.SetLogWriters(nil, nil, nil)
	}

	var cfg *config.GuidanceConfig
	if opts.configPath == "" {
		cfg = config.MustLoadDefaultConfig()
	} else if cfg, err = config.LoadGuidanceConfig(opts.configPath); err != nil {
		return err
	}

	scenario, err := LoadScenario(opts.scenarioPath)
	if err != nil {
		return err
	}
	frames, events, err := scenario.Expand()
	if err != nil {
		return err
	}

	start := scenario.Start
	if start.IsZero() {
		start = time.Now()
	}
	clock := timeutil.NewMockClock(start)
	files := fsutil.OSFileSystem{}

	sink, err := openSinks(files, cfg, clock.Now())
	if err != nil {
		return err
	}
	recorder := sessionlog.NewRecorder(sink, cfg.GetLogQueueSize())

	sess := session.New(clock, recorder)
	comp := anchor.NewCompositor()
	machine := slots.NewMachine()
	wf := workflow.New(sess, comp, machine, cfg)

	script := tracking.NewScript(frames)
	scene, err := pipeline.NewScene(pipeline.SceneConfig{
		Tracker:   script,
		Anchor:    comp,
		Slots:     machine,
		Tuning:    cfg,
		MarkerIDs: scenario.MarkerIDs,
	})
	if err != nil {
		_ = recorder.Close()
		return err
	}

	fmt.Fprintf(stdout, "session %s: %d ticks\n", sess.ID, len(frames))
	fmt.Fprintf(stdout, "> %s\n", wf.Prompt())

	for i := 0; !script.Done(); i++ {
		for _, e := range events[i] {
			before := wf.Step()
			if err := wf.Handle(e); err != nil {
				fmt.Fprintf(stdout, "tick %d: rejected %s: %v\n", i+1, e, err)
				continue
			}
			if wf.Step() != before {
				fmt.Fprintf(stdout, "> %s\n", wf.Prompt())
			}
		}
		viewer, _ := script.Viewer()
		frame := scene.Tick(viewer)
		if opts.printFrames {
			fmt.Fprintln(stdout, describeFrame(frame, wf.Step()))
		}
		script.Advance()
		clock.Advance(scenario.TickInterval())
	}

	if err := recorder.Close(); err != nil {
		monitoring.Logf("mount-sim: closing session log: %v", err)
	}
	stats := recorder.Stats()
	fmt.Fprintf(stdout, "log records: written=%d dropped=%d failed=%d\n", stats.Written, stats.Dropped, stats.Failed)

	if wf.Step().Kind != workflow.Complete {
		fmt.Fprintf(stdout, "session incomplete at %s\n", wf.Step())
		return nil
	}

	summary := sessionlog.Summary{
		SessionID: sess.ID,
		Started:   sess.Started,
		Total:     wf.Total(),
		Slots:     wf.Durations(),
	}
	for _, line := range sessionlog.FormatSummary(summary) {
		fmt.Fprintln(stdout, line)
	}
	st := report.Summarize(summary)
	fmt.Fprintf(stdout, "Mean: %.3f SD: %.3f Slowest: slot %d\n", st.Mean, st.StdDev, st.Slowest+1)

	if opts.writeReport {
		paths, err := report.Write(files, cfg.GetReportDir(), summary)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "report: %s %s\n", paths.PNG, paths.HTML)
	}
	return nil
}

// openSinks builds the text log and, when a database path is
// configured, the SQLite store. An unavailable store is logged and the
// session carries on with the text log alone.
func openSinks(files fsutil.FileSystem, cfg *config.GuidanceConfig, started time.Time) (sessionlog.Sink, error) {
	text, err := sessionlog.NewFileSink(files, cfg.GetLogDir(), started)
	if err != nil {
		return nil, err
	}
	dbPath := cfg.GetDBPath()
	if dbPath == "" {
		return text, nil
	}
	store, err := sessionlog.OpenSQLiteStore(dbPath)
	if err != nil {
		monitoring.Logf("mount-sim: session database unavailable, text log only: %v", err)
		return text, nil
	}
	return sessionlog.MultiSink{text, store}, nil
}

func describeFrame(f pipeline.Frame, step workflow.Step) string {
	var b strings.Builder
	fmt.Fprintf(&b, "tick %d %s", f.Tick, step)
	switch {
	case !f.Anchor.HasPose:
		b.WriteString(" anchor=none")
	case f.Anchor.Frozen:
		b.WriteString(" anchor=frozen")
	default:
		b.WriteString(" anchor=live")
	}
	if f.Anchor.HasPose && step.Kind == workflow.Calibrating {
		fmt.Fprintf(&b, " dist=%.3f", f.Anchor.Distance)
	}
	fmt.Fprintf(&b, " visible=%v", f.VisibleGuides())
	if f.HighlightedPlug != pipeline.NoPlug {
		fmt.Fprintf(&b, " plug=%d", f.HighlightedPlug)
	}
	if f.Indicator.Visible {
		fmt.Fprintf(&b, " arrow=(%.3f,%.3f,%.3f)", f.Indicator.Pose.Position.X, f.Indicator.Pose.Position.Y, f.Indicator.Pose.Position.Z)
	}
	for _, m := range f.Markers {
		fmt.Fprintf(&b, " m%d=%s", m.ID, m.Variant)
		if m.Color != "" {
			fmt.Fprintf(&b, "/%s", m.Color)
		}
	}
	return b.String()
}
