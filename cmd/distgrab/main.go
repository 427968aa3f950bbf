package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/distgrab/internal/config"
	"github.com/san-kum/distgrab/internal/export"
	"github.com/san-kum/distgrab/internal/logging"
	"github.com/san-kum/distgrab/internal/metrics"
	"github.com/san-kum/distgrab/internal/optim"
	"github.com/san-kum/distgrab/internal/sim"
	"github.com/san-kum/distgrab/internal/storage"
	"github.com/san-kum/distgrab/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	dt         float64
	duration   float64
	policy     string
	configFile string
	noSave     bool
	jsonOut    string
	parallel   int
	column     string
	svgOut     string
	snapshotAt float64
	svgWidth   int
	svgHeight  int
	tuneParams []string
	tuneMetric string

	log = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "distgrab",
		Short:         "distance grab interaction simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			log, err = logging.New(level)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".distgrab", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scene and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScene,
	}
	addSceneFlags(runCmd)
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write the full result as JSON to this path (- for stdout)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot rail positions of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "plot this column instead of every rail (e.g. cube.z)")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "play a scene in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSceneFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE:  listPresets,
	}

	showCmd := &cobra.Command{
		Use:   "show [preset]",
		Short: "print a scene as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showScene,
	}
	addSceneFlags(showCmd)

	batchCmd := &cobra.Command{
		Use:   "batch [preset|file.yaml...]",
		Short: "run several scenes concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBatch,
	}
	batchCmd.Flags().IntVar(&parallel, "parallel", 4, "maximum concurrent runs")
	batchCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored run to JSON on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
		},
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [preset]",
		Short: "render a scene frame as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	addSceneFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&svgOut, "out", "o", "scene.svg", "output file")
	snapshotCmd.Flags().Float64Var(&snapshotAt, "at", -1, "time of the frame to draw (default: last)")
	snapshotCmd.Flags().IntVar(&svgWidth, "width", 640, "image width")
	snapshotCmd.Flags().IntVar(&svgHeight, "height", 480, "image height")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search grab parameters against a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tune,
	}
	addSceneFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=v1,v2,... (repeatable; one of "+strings.Join(optim.Params, ", ")+")")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "time_to_hand", "metric to minimize")
	tuneCmd.Flags().IntVar(&parallel, "parallel", 4, "maximum concurrent runs")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, liveCmd, presetsCmd, showCmd, batchCmd, exportJSONCmd, snapshotCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSceneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scene file (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&policy, "policy", "all", "highlight policy (all, eligible)")
}

// loadScene resolves the scene from --config or a preset name and applies
// any flags set on the command line.
func loadScene(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case len(args) == 1:
		c, err := resolve(args[0])
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		return nil, fmt.Errorf("need a preset name or --config (presets: %s)", strings.Join(config.ListPresets(), ", "))
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("policy") {
		cfg.HighlightPolicy = policy
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolve treats name as a preset first and a yaml path second.
func resolve(name string) (*config.Config, error) {
	if cfg := config.GetPreset(name); cfg != nil {
		return cfg, nil
	}
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return config.Load(name)
	}
	return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info("running scene", zap.String("scene", cfg.Name), zap.Int("steps", cfg.Steps()))
	res, err := sim.RunScene(ctx, cfg, metrics.Default, log)
	if err != nil {
		return err
	}

	printResult(res)

	if jsonOut != "" {
		if err := storage.ExportResult(jsonOut, res); err != nil {
			return err
		}
	}
	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, res)
	if err != nil {
		return err
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func printResult(res *sim.Result) {
	fmt.Printf("scene: %s\n", res.Scene)
	fmt.Printf("steps: %d\n", res.StepsTaken)
	for _, e := range res.Events {
		fmt.Printf("  %7.3fs  %-6s %-13s %s\n", e.Time, e.Hand, e.Kind, e.Object)
	}
	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%-14s %.4f\n", name, res.Metrics[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tEVENTS\tGRABS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%d\t%.0f\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Events,
			run.Metrics["grabs"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(series.Times))

	columns := []string{column}
	if column == "" {
		columns = columns[:0]
		for _, c := range series.Columns {
			if strings.HasSuffix(c, ".rail") {
				columns = append(columns, c)
			}
		}
		if len(columns) == 0 {
			for _, id := range meta.Objects {
				columns = append(columns, id+".z")
			}
		}
	}

	for _, c := range columns {
		data, ok := series.Column(c)
		if !ok {
			return fmt.Errorf("unknown column %q (have: %s)", c, strings.Join(series.Columns, ", "))
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(c),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	return viz.Run(cfg, log)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tHANDS\tOBJECTS\tRAILS\tDURATION")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		rails := 0
		for _, o := range cfg.Objects {
			if o.Rail != nil {
				rails++
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.1fs\n", name, len(cfg.Hands), len(cfg.Objects), rails, cfg.Duration)
	}
	return w.Flush()
}

func showScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfgs := make([]*config.Config, 0, len(args))
	for _, arg := range args {
		cfg, err := resolve(arg)
		if err != nil {
			return err
		}
		cfgs = append(cfgs, cfg)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := sim.RunBatch(ctx, cfgs, parallel, metrics.Default, log)
	if err != nil {
		return err
	}

	var st *storage.Store
	if !noSave {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	names := metrics.Names()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENE\tRUN\t"+strings.ToUpper(strings.Join(names, "\t")))
	for i, res := range results {
		runID := "-"
		if st != nil {
			id, err := st.Save(cfgs[i], res)
			if err != nil {
				return err
			}
			runID = id
		}
		row := []string{res.Scene, runID}
		for _, name := range names {
			row = append(row, fmt.Sprintf("%.3f", res.Metrics[name]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	res, err := sim.RunScene(cmd.Context(), cfg, nil, log)
	if err != nil {
		return err
	}

	at := len(res.Frames) - 1
	if snapshotAt >= 0 {
		at = min(int(snapshotAt/cfg.Dt+0.5), at)
	}
	svg := export.SceneToSVG(cfg, res.Frames, at, svgWidth, svgHeight)
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (t=%.2fs)\n", svgOut, res.Frames[at].Time)
	return nil
}

func tune(cmd *cobra.Command, args []string) error {
	cfg, err := loadScene(cmd, args)
	if err != nil {
		return err
	}
	if len(tuneParams) == 0 {
		return fmt.Errorf("need at least one --param")
	}

	names := make([]string, 0, len(tuneParams))
	ranges := make([][]float64, 0, len(tuneParams))
	for _, spec := range tuneParams {
		name, values, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("bad --param %q, want name=v1,v2", spec)
		}
		vals := make([]float64, 0)
		for _, field := range strings.Split(values, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return fmt.Errorf("bad value in --param %q: %w", spec, err)
			}
			vals = append(vals, v)
		}
		names = append(names, strings.TrimSpace(name))
		ranges = append(ranges, vals)
	}

	g, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	best, trials, err := g.WithLimit(parallel).WithLogger(log).Search(ctx, cfg, metrics.Default, tuneMetric)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(tuneMetric))
	for _, tr := range trials {
		row := make([]string, 0, len(names)+1)
		for _, n := range names {
			row = append(row, fmt.Sprintf("%g", tr.Params[n]))
		}
		row = append(row, fmt.Sprintf("%.4f", tr.Value))
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest %s = %.4f with %v\n", tuneMetric, best.Value, best.Params)
	return nil
}
