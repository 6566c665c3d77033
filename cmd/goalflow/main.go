package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"goalflow/internal/audit"
	"goalflow/internal/config"
	"goalflow/internal/engine"
	"goalflow/internal/goal"
	"goalflow/internal/registry"
	"goalflow/internal/vertical"
	"goalflow/internal/workspace"
)

const appName = "goalflow"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	global globalFlags
	log    *zap.Logger
}

type globalFlags struct {
	Workspace string
	Verbose   bool
}

func run(args []string, stdout, stderr io.Writer) int {
	global, remaining, err := extractGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger, err := newLogger(global.Verbose)
	if err != nil {
		fmt.Fprintln(stderr, "init logger:", err)
		return 1
	}
	defer func() {
		_ = logger.Sync()
	}()

	a := &app{stdout: stdout, stderr: stderr, global: global, log: logger}

	if len(remaining) == 0 || remaining[0] == "help" || remaining[0] == "-h" || remaining[0] == "--help" {
		a.usage()
		return 0
	}

	var cmdErr error
	switch remaining[0] {
	case "init":
		cmdErr = a.runInit(remaining[1:])
	case "verticals":
		cmdErr = a.runVerticals(remaining[1:])
	case "calc":
		cmdErr = a.runCalc(remaining[1:])
	case "goals":
		cmdErr = a.runGoals(remaining[1:])
	case "breakdown":
		cmdErr = a.runBreakdown(remaining[1:])
	case "daily":
		cmdErr = a.runDaily(remaining[1:])
	case "kpis":
		cmdErr = a.runKPIs(remaining[1:])
	case "config":
		cmdErr = a.runConfig(remaining[1:])
	case "progress":
		cmdErr = a.runProgress(remaining[1:])
	case "remaining":
		cmdErr = a.runRemaining(remaining[1:])
	case "audit":
		cmdErr = a.runAudit(remaining[1:])
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", remaining[0])
		a.usage()
		return 1
	}
	if cmdErr != nil {
		fmt.Fprintln(stderr, cmdErr)
		return 1
	}
	return 0
}

func (a *app) usage() {
	fmt.Fprintf(a.stderr, "%s: sales goal breakdowns and daily activity plans\n\n", appName)
	fmt.Fprintf(a.stderr, "Usage:\n  %s [--workspace DIR] [--verbose] [command] [flags]\n\n", appName)
	fmt.Fprintln(a.stderr, "Commands:")
	fmt.Fprintln(a.stderr, "  init       Initialize a new workspace")
	fmt.Fprintln(a.stderr, "  verticals  List available verticals")
	fmt.Fprintln(a.stderr, "  calc       Full goal calculation")
	fmt.Fprintln(a.stderr, "  goals      Calculate every goal file in the workspace")
	fmt.Fprintln(a.stderr, "  breakdown  Goal breakdown only")
	fmt.Fprintln(a.stderr, "  daily      Daily activity targets only")
	fmt.Fprintln(a.stderr, "  kpis       Dashboard KPIs of a vertical")
	fmt.Fprintln(a.stderr, "  config     Show or diff daily-flow configs")
	fmt.Fprintln(a.stderr, "  progress   Progress toward a target")
	fmt.Fprintln(a.stderr, "  remaining  Time left until an end date")
	fmt.Fprintln(a.stderr, "  audit      Show recent audit events")
	fmt.Fprintln(a.stderr, "  help       Show this help")
}

func extractGlobalFlags(args []string) (globalFlags, []string, error) {
	var global globalFlags
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--workspace":
			if i+1 >= len(args) {
				return globalFlags{}, nil, fmt.Errorf("--workspace requires a value")
			}
			global.Workspace = args[i+1]
			i++
		case strings.HasPrefix(arg, "--workspace="):
			global.Workspace = strings.TrimPrefix(arg, "--workspace=")
		case arg == "--verbose" || arg == "-v":
			global.Verbose = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return global, remaining, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// session is the per-command environment derived from the workspace.
type session struct {
	ws       *workspace.Workspace
	settings *config.Settings
	service  *engine.Service
	audit    *audit.Logger
}

// openSession loads settings and wires the engine. Without a workspace the
// built-in defaults apply and nothing is audited.
func (a *app) openSession(configPath string) (*session, error) {
	s := &session{settings: config.Defaults()}

	if strings.TrimSpace(a.global.Workspace) != "" {
		ws, err := workspace.Resolve(a.global.Workspace)
		if err != nil {
			return nil, err
		}
		if err := ws.EnsureDirs(); err != nil {
			return nil, err
		}
		s.ws = ws
		s.audit = audit.NewLogger(ws.AuditDBPath)
		if configPath == "" {
			configPath = ws.SettingsPath
		}
	}

	if configPath != "" {
		if s.ws != nil {
			resolved, err := s.ws.ResolvePath(configPath)
			if err != nil {
				return nil, fmt.Errorf("resolve --config: %w", err)
			}
			configPath = resolved
		}
		settings, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		s.settings = settings
	}

	reg := registry.Default(vertical.WithLocale(s.settings.Locale))
	overrides, err := s.settings.Overrides(reg)
	if err != nil {
		return nil, err
	}
	s.service = engine.New(reg,
		engine.WithLogger(a.log),
		engine.WithLocale(s.settings.Locale),
		engine.WithFallbackVertical(s.settings.FallbackVertical),
		engine.WithConfigOverrides(overrides),
	)
	return s, nil
}

// audited records <command>_started and <command>_finished around fn.
func (a *app) audited(s *session, command string, startPayload map[string]any, fn func() (map[string]any, error)) error {
	if s.audit != nil {
		if _, err := s.audit.LogEvent("cli", command+"_started", startPayload); err != nil {
			a.log.Warn("audit log failed", zap.String("event", command+"_started"), zap.Error(err))
		}
	}

	finishPayload, runErr := fn()
	if finishPayload == nil {
		finishPayload = map[string]any{}
	}
	if runErr != nil {
		finishPayload["error"] = runErr.Error()
	}

	if s.audit != nil {
		if _, err := s.audit.LogEvent("cli", command+"_finished", finishPayload); err != nil {
			a.log.Warn("audit log failed", zap.String("event", command+"_finished"), zap.Error(err))
		}
	}
	return runErr
}

func (a *app) runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(a.global.Workspace) == "" {
		return fmt.Errorf("--workspace is required")
	}

	root, err := workspace.ResolveRoot(a.global.Workspace)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("create workspace root: %w", err)
	}
	ws, err := workspace.Resolve(root)
	if err != nil {
		return err
	}
	if err := ws.EnsureDirs(); err != nil {
		return err
	}

	logger := audit.NewLogger(ws.AuditDBPath)
	if _, err := logger.LogEvent("cli", "workspace_init_started", map[string]any{"workspace": ws.Root}); err != nil {
		a.log.Warn("audit log failed", zap.Error(err))
	}

	finishErr := writeFileIfMissing(ws.SettingsPath, settingsTemplate)
	if finishErr == nil {
		finishErr = writeFileIfMissing(filepath.Join(ws.GoalsDir, "example.yml"), exampleGoalTemplate)
	}

	finishPayload := map[string]any{"workspace": ws.Root}
	if finishErr != nil {
		finishPayload["error"] = finishErr.Error()
	}
	_, _ = logger.LogEvent("cli", "workspace_init_finished", finishPayload)
	if finishErr != nil {
		return finishErr
	}

	fmt.Fprintf(a.stdout, "Initialized workspace: %s\n", ws.Root)
	return nil
}

func (a *app) runVerticals(args []string) error {
	fs := flag.NewFlagSet("verticals", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := a.openSession("")
	if err != nil {
		return err
	}
	list := s.service.ListVerticals()
	if *asJSON {
		return writeJSON(a.stdout, list)
	}
	for _, v := range list {
		fmt.Fprintf(a.stdout, "%-20s %s\n", v.ID, v.Label)
	}
	return nil
}

func (a *app) runCalc(args []string) error {
	fs := flag.NewFlagSet("calc", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	gf := addGoalFlags(fs)
	format := fs.String("format", "json", "Output format: json, text, widget, or coaching")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := a.openSession(gf.configPath)
	if err != nil {
		return err
	}
	in, err := gf.input(s.ws)
	if err != nil {
		return err
	}

	return a.audited(s, "calc", goalPayload(in), func() (map[string]any, error) {
		result, err := s.service.CalculateGoalComplete(in)
		if err != nil {
			return nil, err
		}
		finish := map[string]any{
			"vertical": string(result.Resolution.Resolved),
			"fallback": result.Resolution.Fallback,
			"format":   *format,
		}

		switch *format {
		case "json":
			return finish, writeJSON(a.stdout, result)
		case "text":
			fmt.Fprintln(a.stdout, result.Summary)
			return finish, nil
		case "widget":
			return finish, writeJSON(a.stdout, s.service.FormatForDailyFlow(result))
		case "coaching":
			fmt.Fprintln(a.stdout, s.service.FormatForChiefCoaching(result))
			return finish, nil
		default:
			return finish, fmt.Errorf("unknown format: %s", *format)
		}
	})
}

// goalFileResult is one entry of the goals command output.
type goalFileResult struct {
	File   string         `json:"file"`
	Result *engine.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

func (a *app) runGoals(args []string) error {
	fs := flag.NewFlagSet("goals", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	dir := fs.String("dir", "", "Goals directory (default: <workspace>/goals)")
	configPath := fs.String("config", "", "Path to goalflow.yml (default: <workspace>/goalflow.yml)")
	asJSON := fs.Bool("json", false, "Print JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := a.openSession(*configPath)
	if err != nil {
		return err
	}
	goalsDir := *dir
	switch {
	case goalsDir == "" && s.ws == nil:
		return fmt.Errorf("--workspace or --dir is required")
	case goalsDir == "":
		goalsDir = s.ws.GoalsDir
	case s.ws != nil:
		resolved, err := s.ws.ResolvePath(goalsDir)
		if err != nil {
			return fmt.Errorf("resolve --dir: %w", err)
		}
		goalsDir = resolved
	}

	files, err := config.ListGoalFiles(goalsDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(a.stdout, "No goal files in %s\n", goalsDir)
		return nil
	}

	return a.audited(s, "goals", map[string]any{"dir": goalsDir, "files": len(files)}, func() (map[string]any, error) {
		results := make([]goalFileResult, 0, len(files))
		failed := 0
		for _, path := range files {
			entry := goalFileResult{File: filepath.Base(path)}
			in, err := config.LoadGoal(path)
			if err == nil {
				entry.Result, err = s.service.CalculateGoalComplete(in)
			}
			if err != nil {
				entry.Error = err.Error()
				failed++
			}
			results = append(results, entry)
		}
		finish := map[string]any{"files": len(files), "failed": failed}

		if *asJSON {
			if err := writeJSON(a.stdout, results); err != nil {
				return finish, err
			}
		} else {
			for _, entry := range results {
				if entry.Error != "" {
					fmt.Fprintf(a.stdout, "%-24s error: %s\n", entry.File, strings.ReplaceAll(entry.Error, "\n", "; "))
					continue
				}
				t := entry.Result.DailyTargets
				fmt.Fprintf(a.stdout, "%-24s %-20s %d new contacts, %d follow-ups, %d reactivations\n",
					entry.File, entry.Result.VerticalLabel, t.NewContacts, t.Followups, t.Reactivations)
			}
		}
		if failed > 0 {
			return finish, fmt.Errorf("%d of %d goal files failed", failed, len(files))
		}
		return finish, nil
	})
}

func (a *app) runBreakdown(args []string) error {
	fs := flag.NewFlagSet("breakdown", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	gf := addGoalFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := a.openSession(gf.configPath)
	if err != nil {
		return err
	}
	in, err := gf.input(s.ws)
	if err != nil {
		return err
	}

	return a.audited(s, "breakdown", goalPayload(in), func() (map[string]any, error) {
		b, err := s.service.CalculateBreakdown(in)
		if err != nil {
			return nil, err
		}
		return map[string]any{"vertical": string(b.VerticalID)}, writeJSON(a.stdout, b)
	})
}

func (a *app) runDaily(args []string) error {
	fs := flag.NewFlagSet("daily", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	gf := addGoalFlags(fs)
	flowPath := fs.String("flow", "", "Path to a daily-flow config YAML (default: vertical default or workspace override)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := a.openSession(gf.configPath)
	if err != nil {
		return err
	}
	in, err := gf.input(s.ws)
	if err != nil {
		return err
	}

	var cfg *goal.DailyFlowConfig
	if *flowPath != "" {
		loaded, err := loadFlowConfig(s, in.VerticalID, *flowPath)
		if err != nil {
			return err
		}
		cfg = &loaded
	}

	return a.audited(s, "daily", goalPayload(in), func() (map[string]any, error) {
		t, err := s.service.CalculateDailyTargets(in, cfg)
		if err != nil {
			return nil, err
		}
		return map[string]any{"vertical": string(t.VerticalID), "custom_config": cfg != nil}, writeJSON(a.stdout, t)
	})
}

func (a *app) runKPIs(args []string) error {
	fs := flag.NewFlagSet("kpis", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verticalID := fs.String("vertical", string(goal.DefaultVertical), "Vertical id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := a.openSession("")
	if err != nil {
		return err
	}
	return writeJSON(a.stdout, s.service.KPIsForVertical(goal.VerticalID(*verticalID)))
}

func (a *app) runConfig(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		return fmt.Errorf("%s config: missing subcommand", appName)
	}

	fs := flag.NewFlagSet("config "+args[0], flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verticalID := fs.String("vertical", "", "Vertical id (default: all)")
	configPath := fs.String("config", "", "Path to goalflow.yml (default: <workspace>/goalflow.yml)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	s, err := a.openSession(*configPath)
	if err != nil {
		return err
	}

	var ids []goal.VerticalID
	if *verticalID != "" {
		ids = []goal.VerticalID{goal.VerticalID(*verticalID)}
	} else {
		for _, v := range s.service.ListVerticals() {
			ids = append(ids, v.ID)
		}
	}

	switch args[0] {
	case "show":
		for _, id := range ids {
			text, err := config.RenderFlowConfig(s.service.DefaultConfig(id))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "# %s\n%s\n", id, text)
		}
		return nil
	case "diff":
		reg := s.service.Registry()
		changed := false
		for _, id := range ids {
			strategy, err := reg.Get(id)
			if err != nil {
				return err
			}
			diff, err := config.DiffFlowConfig(id, strategy.DefaultConversionConfig(), s.service.DefaultConfig(id))
			if err != nil {
				return err
			}
			if diff != "" {
				changed = true
				fmt.Fprintln(a.stdout, diff)
			}
		}
		if !changed {
			fmt.Fprintln(a.stdout, "No overrides.")
		}
		return nil
	default:
		return fmt.Errorf("%s config: unknown subcommand %q", appName, args[0])
	}
}

func (a *app) runProgress(args []string) error {
	fs := flag.NewFlagSet("progress", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	current := fs.Float64("current", 0, "Current value")
	target := fs.Float64("target", 0, "Target value")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := a.openSession("")
	if err != nil {
		return err
	}
	return writeJSON(a.stdout, s.service.Progress(*current, *target))
}

func (a *app) runRemaining(args []string) error {
	fs := flag.NewFlagSet("remaining", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	end := fs.String("end", "", "End date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *end == "" {
		return fmt.Errorf("--end is required")
	}
	endDate, err := time.ParseInLocation("2006-01-02", *end, time.Local)
	if err != nil {
		return fmt.Errorf("parse --end: %w", err)
	}
	s, err := a.openSession("")
	if err != nil {
		return err
	}
	return writeJSON(a.stdout, s.service.TimeRemaining(endDate))
}

func (a *app) runAudit(args []string) error {
	fs := flag.NewFlagSet("audit", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	limit := fs.Int("limit", 20, "Number of events to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if strings.TrimSpace(a.global.Workspace) == "" {
		return fmt.Errorf("--workspace is required")
	}
	ws, err := workspace.Resolve(a.global.Workspace)
	if err != nil {
		return err
	}
	events, err := audit.NewLogger(ws.AuditDBPath).Recent(*limit)
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Fprintf(a.stdout, "%s  %-28s %s %s\n", ev.Timestamp, ev.Type, ev.ID, ev.PayloadJSON)
	}
	return nil
}

// goalFlags are shared by the calculation commands.
type goalFlags struct {
	goalFile   string
	verticalID string
	kind       string
	target     string
	months     float64
	meta       metaFlag
	configPath string
}

func addGoalFlags(fs *flag.FlagSet) *goalFlags {
	gf := &goalFlags{meta: metaFlag{}}
	fs.StringVar(&gf.goalFile, "goal", "", "Path to a goal YAML file (overrides the goal flags)")
	fs.StringVar(&gf.verticalID, "vertical", string(goal.DefaultVertical), "Vertical id")
	fs.StringVar(&gf.kind, "kind", string(goal.KindIncome), "Goal kind: income, rank, deals, volume, or clients")
	fs.StringVar(&gf.target, "target", "", "Target value (unit depends on kind)")
	fs.Float64Var(&gf.months, "months", 6, "Timeframe in months (1-60)")
	fs.Var(gf.meta, "meta", "Vertical meta as key=value (repeatable)")
	fs.StringVar(&gf.configPath, "config", "", "Path to goalflow.yml (default: <workspace>/goalflow.yml)")
	return gf
}

func (gf *goalFlags) input(ws *workspace.Workspace) (goal.Input, error) {
	if gf.goalFile != "" {
		path := gf.goalFile
		if ws != nil {
			resolved, err := ws.ResolvePath(path)
			if err != nil {
				return goal.Input{}, fmt.Errorf("resolve --goal: %w", err)
			}
			path = resolved
		}
		return config.LoadGoal(path)
	}

	kind, err := goal.ParseKind(gf.kind)
	if err != nil {
		return goal.Input{}, err
	}
	in := goal.Input{
		VerticalID:      goal.VerticalID(strings.TrimSpace(gf.verticalID)),
		Kind:            kind,
		TimeframeMonths: gf.months,
	}
	if strings.TrimSpace(gf.target) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(gf.target), 64)
		if err != nil {
			return goal.Input{}, fmt.Errorf("parse --target: %w", err)
		}
		in.TargetValue = goal.Float(v)
	}
	if len(gf.meta) > 0 {
		in.Meta = map[string]string(gf.meta)
	}
	return in, nil
}

// metaFlag collects repeated key=value flags.
type metaFlag map[string]string

func (m metaFlag) String() string {
	parts := make([]string, 0, len(m))
	for k, v := range m {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (m metaFlag) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("meta must be key=value, got %q", value)
	}
	m[strings.TrimSpace(key)] = strings.TrimSpace(val)
	return nil
}

func loadFlowConfig(s *session, id goal.VerticalID, path string) (goal.DailyFlowConfig, error) {
	if s.ws != nil {
		resolved, err := s.ws.ResolvePath(path)
		if err != nil {
			return goal.DailyFlowConfig{}, fmt.Errorf("resolve --flow: %w", err)
		}
		path = resolved
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return goal.DailyFlowConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	override, err := config.ParseFlowOverride(data, path)
	if err != nil {
		return goal.DailyFlowConfig{}, err
	}
	return override.Apply(s.service.DefaultConfig(id)), nil
}

func goalPayload(in goal.Input) map[string]any {
	payload := map[string]any{
		"vertical":         string(in.VerticalID),
		"goal_kind":        string(in.Kind),
		"timeframe_months": in.TimeframeMonths,
	}
	if in.TargetValue != nil {
		payload["target_value"] = *in.TargetValue
	}
	return payload
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeFileIfMissing(path string, contents string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure dir for %s: %w", path, err)
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}

const settingsTemplate = `# goalflow settings
locale: de
fallback_vertical: network_marketing

# Per-vertical daily-flow overrides. Unset fields keep the vertical default.
verticals: {}
#  real_estate:
#    working_days_per_week: 5
#    reactivation_share: 0.2
`

const exampleGoalTemplate = `vertical: network_marketing
goal_kind: income
target_value: 2000
timeframe_months: 6
`
