package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ionsim/internal/channel"
	"github.com/san-kum/ionsim/internal/config"
	"github.com/san-kum/ionsim/internal/engine"
	"github.com/san-kum/ionsim/internal/export"
	"github.com/san-kum/ionsim/internal/metrics"
	"github.com/san-kum/ionsim/internal/schema"
	"github.com/san-kum/ionsim/internal/solver"
	"github.com/san-kum/ionsim/internal/storage"
	"github.com/san-kum/ionsim/internal/sweep"
	"github.com/san-kum/ionsim/internal/viz"
)

var (
	dataDir     string
	modelFile   string
	protoFile   string
	requestFile string
	configFile  string
	preset      string
	durationMS  float64
	steps       int
	integrator  string
	rtol        float64
	atol        float64
	format      string
	noSave      bool
	// plot
	traceName string
	// iv sweep
	ivFrom float64
	ivTo   float64
	ivStep float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ionsim",
		Short: "ion channel gating and potassium electrodiffusion simulator",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addInputFlags(runCmd)
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&format, "format", "table", "output format: table, json, csv")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not persist the run")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "check model and protocol documents without running",
		RunE:  validateInputs,
	}
	addInputFlags(validateCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&traceName, "trace", "total_current_pA", "trace column to plot")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write a stored run's traces to stdout as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRunCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a stored run's traces to stdout as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRunJSON,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run with a live terminal view",
		RunE:  runLive,
	}
	addInputFlags(liveCmd)
	addRunFlags(liveCmd)

	ivCmd := &cobra.Command{
		Use:   "iv",
		Short: "sweep holding voltages and print the IV curve",
		RunE:  runIV,
	}
	addInputFlags(ivCmd)
	addRunFlags(ivCmd)
	ivCmd.Flags().Float64Var(&ivFrom, "from", -120, "first voltage (mV)")
	ivCmd.Flags().Float64Var(&ivTo, "to", 60, "last voltage (mV)")
	ivCmd.Flags().Float64Var(&ivStep, "step", 10, "voltage step (mV)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in model+protocol presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, validateCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, liveCmd, ivCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&modelFile, "model", "", "model file (json or yaml)")
	cmd.Flags().StringVar(&protoFile, "protocol", "", "protocol file (json or yaml)")
	cmd.Flags().StringVar(&requestFile, "request", "", `combined request file ("-" reads stdin)`)
	cmd.Flags().StringVar(&preset, "preset", "", "built-in model+protocol preset")
	cmd.Flags().StringVar(&configFile, "config", "", "config file (yaml)")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&durationMS, "duration", config.DefaultDurationMS, "duration (ms)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of output samples")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator: euler, rk4, rk45")
	cmd.Flags().Float64Var(&rtol, "rtol", config.DefaultRtol, "relative tolerance (rk45)")
	cmd.Flags().Float64Var(&atol, "atol", config.DefaultAtol, "absolute tolerance (rk45)")
}

// resolveInputs picks the model and protocol from, in order of
// precedence: a combined request, explicit files, a preset from flag or
// config file. Request files may also carry run parameters; those apply
// only when the corresponding flag was not set.
func resolveInputs(cmd *cobra.Command, cfg *config.Config) (*channel.Model, *channel.Protocol, error) {
	if requestFile != "" {
		var data []byte
		var err error
		if requestFile == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(requestFile)
		}
		if err != nil {
			return nil, nil, err
		}
		req, err := schema.DecodeRequest(data, requestFile)
		if err != nil {
			return nil, nil, err
		}
		if req.DurationMS > 0 && !cmd.Flags().Changed("duration") {
			durationMS = req.DurationMS
		}
		if req.Steps > 0 && !cmd.Flags().Changed("steps") {
			steps = req.Steps
		}
		return req.Model, req.Protocol, nil
	}

	mf, pf, pr := modelFile, protoFile, preset
	if cfg != nil {
		if mf == "" {
			mf = cfg.Model
		}
		if pf == "" {
			pf = cfg.Protocol
		}
		if pr == "" {
			pr = cfg.Preset
		}
	}

	if mf != "" || pf != "" {
		if mf == "" || pf == "" {
			return nil, nil, fmt.Errorf("--model and --protocol must be given together")
		}
		m, err := schema.LoadModel(mf)
		if err != nil {
			return nil, nil, err
		}
		p, err := schema.LoadProtocol(pf)
		if err != nil {
			return nil, nil, err
		}
		return m, p, nil
	}

	if pr != "" {
		return config.GetPreset(pr)
	}
	return nil, nil, fmt.Errorf("no input: give --request, --model/--protocol, or --preset (available: %v)", config.ListPresets())
}

// applyConfig loads the config file if given and fills in every run
// parameter whose flag was not set on the command line.
func applyConfig(cmd *cobra.Command) (*config.Config, error) {
	if configFile == "" {
		return nil, nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cmd.Flags().Changed("duration") {
		durationMS = cfg.DurationMS
	}
	if !cmd.Flags().Changed("steps") {
		steps = cfg.Steps
	}
	if !cmd.Flags().Changed("integrator") {
		integrator = cfg.Integrator
	}
	if !cmd.Flags().Changed("rtol") {
		rtol = cfg.Rtol
	}
	if !cmd.Flags().Changed("atol") {
		atol = cfg.Atol
	}
	if cfg.DataDir != "" && !cmd.Flags().Changed("data") {
		dataDir = cfg.DataDir
	}
	return cfg, nil
}

func runConfig() (engine.RunConfig, error) {
	cfg := engine.RunConfig{
		DurationMS: durationMS,
		Steps:      steps,
		Options:    solver.Options{Rtol: rtol, Atol: atol},
	}
	switch integrator {
	case "rk45", "":
	case "euler":
		cfg.Stepper = solver.NewEuler()
	case "rk4":
		cfg.Stepper = solver.NewRK4()
	default:
		return cfg, fmt.Errorf("unknown integrator %q (euler, rk4, rk45)", integrator)
	}
	return cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	fileCfg, err := applyConfig(cmd)
	if err != nil {
		return err
	}
	model, protocol, err := resolveInputs(cmd, fileCfg)
	if err != nil {
		return err
	}
	rc, err := runConfig()
	if err != nil {
		return err
	}

	e, err := engine.New(model, protocol)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := e.Run(context.Background(), rc)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	vals := metrics.Collect(res, metrics.Standard(res.StateIndex))

	switch format {
	case "json":
		return export.JSON(os.Stdout, res)
	case "csv":
		return export.CSV(os.Stdout, res)
	case "table":
	default:
		return fmt.Errorf("unknown format %q (table, json, csv)", format)
	}

	runID := "(not saved)"
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err = st.Save(storage.RunMetadata{
			ChannelID:  model.ChannelID,
			ProtocolID: protocol.ProtocolID,
			DurationMS: durationMS,
			Steps:      steps,
			Integrator: integrator,
			Metrics:    vals,
		}, res)
		if err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", res.Len())
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(vals))
	for name := range vals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, vals[name])
	}
	return nil
}

func validateInputs(cmd *cobra.Command, args []string) error {
	fileCfg, err := applyConfig(cmd)
	if err != nil {
		return err
	}
	model, protocol, err := resolveInputs(cmd, fileCfg)
	if err != nil {
		return err
	}
	// compiling the rate equations catches parse errors too
	if _, err := engine.New(model, protocol); err != nil {
		return err
	}
	fmt.Printf("ok: channel %q (%d states, %d transitions), protocol %q (%d epochs)\n",
		model.ChannelID, model.NumStates(), len(model.Transitions),
		protocol.ProtocolID, len(protocol.Epochs))
	return nil
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

	sort.Slice(runs, func(a, b int) bool { return runs[a].Timestamp.Before(runs[b].Timestamp) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCHANNEL\tPROTOCOL\tTIME\tDURATION\tSTEPS\tINTEG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1fms\t%d\t%s\n",
			run.ID,
			run.ChannelID,
			run.ProtocolID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.DurationMS,
			run.Steps,
			run.Integrator,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	columns, rows, err := st.LoadTraces(args[0])
	if err != nil {
		return err
	}

	col := -1
	for i, name := range columns {
		if name == traceName {
			col = i
			break
		}
	}
	if col < 0 {
		return fmt.Errorf("no trace %q in run %s (have %v)", traceName, meta.ID, columns)
	}

	data := make([]float64, len(rows))
	for i, row := range rows {
		data[i] = row[col]
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("channel: %s  protocol: %s\n\n", meta.ChannelID, meta.ProtocolID)
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(traceName),
	))
	return nil
}

func exportRunCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	columns, rows, err := st.LoadTraces(args[0])
	if err != nil {
		return err
	}
	return export.WriteTraces(os.Stdout, columns, rows)
}

func exportRunJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	columns, rows, err := st.LoadTraces(args[0])
	if err != nil {
		return err
	}
	return export.TracesJSON(os.Stdout, columns, rows)
}

func runLive(cmd *cobra.Command, args []string) error {
	fileCfg, err := applyConfig(cmd)
	if err != nil {
		return err
	}
	model, protocol, err := resolveInputs(cmd, fileCfg)
	if err != nil {
		return err
	}

	e, err := engine.New(model, protocol)
	if err != nil {
		return err
	}

	// plot the state with the largest conductance
	openState, openIdx := model.States[0].ID, 0
	for i, s := range model.States {
		if s.Conductance > model.States[openIdx].Conductance {
			openState, openIdx = s.ID, i
		}
	}

	dtMs := durationMS / float64(steps)
	cursor := e.NewCursor(dtMs)
	return viz.RunLive(cursor, model.ChannelID, openState, openIdx)
}

func runIV(cmd *cobra.Command, args []string) error {
	fileCfg, err := applyConfig(cmd)
	if err != nil {
		return err
	}
	model, protocol, err := resolveInputs(cmd, fileCfg)
	if err != nil {
		return err
	}
	rc, err := runConfig()
	if err != nil {
		return err
	}

	voltages := sweep.VoltageRange(ivFrom, ivTo, ivStep)
	if voltages == nil {
		return fmt.Errorf("bad voltage range %g..%g step %g", ivFrom, ivTo, ivStep)
	}

	points, err := sweep.IVCurve(context.Background(), model, protocol, voltages, rc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "V (mV)\tI (pA)")
	for _, p := range points {
		fmt.Fprintf(w, "%.1f\t%.4f\n", p.VoltageMV, p.SteadyCurrentPA)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	currents := make([]float64, len(points))
	for i, p := range points {
		currents[i] = p.SteadyCurrentPA
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(currents,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("steady current (pA) across voltages"),
	))
	return nil
}
