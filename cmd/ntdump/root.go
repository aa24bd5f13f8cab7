package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ntdump/internal/config"
)

// rootOptions holds global flags and the state every subcommand shares once
// PersistentPreRunE has run.
type rootOptions struct {
	verbose        bool
	configPath     string
	metricsBackend string
	pushgatewayURL string

	log    *zap.Logger // preset by tests; built from --verbose otherwise
	run    config.Run
	issues []config.Issue
	flush  func() // preset by tests; installed by setupMetrics otherwise
}

// configError carries blocking validation issues.
type configError struct {
	issues []config.Issue
}

func (e *configError) Error() string {
	msgs := make([]string, 0, len(e.issues))
	for _, iss := range e.issues {
		if iss.Severity == config.SeverityError {
			msgs = append(msgs, iss.Error())
		}
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ntdump",
		Short: "Convert the theatre archive dump into SQLite stores",
		Long: `ntdump replays a SQL Server "Generate Scripts" dump into a faithful SQLite
copy of the archive, then distills that copy into a small denormalized store
of people, works, plays and their links.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.log == nil {
				zc := zap.NewProductionConfig()
				if opts.verbose {
					zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
				}
				log, err := zc.Build()
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				opts.log = log
			}
			return opts.loadRun(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	pf.StringVarP(&opts.configPath, "config", "c", "", "JSON run file (defaults apply when empty)")
	pf.StringVar(&opts.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides METRICS_BACKEND)")
	pf.StringVar(&opts.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides PUSHGATEWAY_URL)")

	cmd.AddCommand(
		newConvertCommand(opts),
		newDistillCommand(opts),
		newRunCommand(opts),
		newValidateCommand(opts),
	)
	return cmd
}

// loadRun resolves the run configuration: defaults, then the run file, then
// the environment, then flags. Warnings are logged; errors stop the command.
func (o *rootOptions) loadRun(cmd *cobra.Command) error {
	run := config.Default()
	if o.configPath != "" {
		var err error
		if run, err = config.Load(o.configPath); err != nil {
			return &configError{issues: []config.Issue{{Severity: config.SeverityError, Path: o.configPath, Message: err.Error()}}}
		}
	}
	run.ApplyEnv()
	if o.metricsBackend != "" {
		run.Metrics.Backend = o.metricsBackend
	}
	if o.pushgatewayURL != "" {
		run.Metrics.PushgatewayURL = o.pushgatewayURL
	}
	applyFlags(cmd, &run)
	o.run = run

	issues := config.ValidateRun(run)
	o.issues = issues
	for _, iss := range issues {
		if iss.Severity == config.SeverityWarning {
			o.log.Warn("configuration", zap.String("path", iss.Path), zap.String("issue", iss.Message))
		}
	}
	if config.HasErrors(issues) {
		return &configError{issues: issues}
	}
	if run.Runtime.BatchSize <= 0 {
		o.run.Runtime.BatchSize = config.DefaultBatchSize
	}
	if o.flush == nil {
		o.flush = setupMetrics(run, o.log)
	}
	return nil
}

// finish flushes metrics and the logger. It runs after every command,
// failed ones included; cobra skips post-run hooks when RunE errors.
func (o *rootOptions) finish() {
	if o.flush != nil {
		o.flush()
	}
	if o.log != nil {
		_ = o.log.Sync()
	}
}

// Per-command flags that override run-file values.
const (
	flagDump         = "dump"
	flagEncoding     = "encoding"
	flagFaithful     = "faithful"
	flagFailures     = "failures"
	flagMini         = "mini"
	flagBaseURL      = "base-url"
	flagBatchSize    = "batch-size"
	flagWorkers      = "workers"
	flagMirrorDSN    = "mirror-dsn"
	flagMirrorSchema = "mirror-schema"
)

func addConvertFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(flagDump, config.DefaultDump, "dump file")
	f.String(flagEncoding, config.DefaultEncoding, "dump encoding (utf-16le, utf-8, windows-1253, ...)")
	f.String(flagFaithful, config.DefaultFaithful, "faithful SQLite store")
	f.Int(flagBatchSize, config.DefaultBatchSize, "rows per transaction")
	f.String(flagFailures, "", "write failed statements to this CSV file")
}

func addDistillFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Lookup(flagFaithful) == nil {
		f.String(flagFaithful, config.DefaultFaithful, "faithful SQLite store")
	}
	f.String(flagMini, config.DefaultMini, "mini SQLite store")
	f.String(flagBaseURL, config.DefaultBaseURL, "URL prefix for synthesized links")
	f.Int(flagWorkers, 0, "max concurrent distillation passes (0 = no bound)")
	f.String(flagMirrorDSN, "", "Postgres DSN; mirrors the mini store when set")
	f.String(flagMirrorSchema, config.DefaultSchema, "Postgres schema for the mirror")
}

// applyFlags copies explicitly set flags into run.
func applyFlags(cmd *cobra.Command, run *config.Run) {
	f := cmd.Flags()
	str := func(name string, dst *string) {
		if f.Lookup(name) != nil && f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if f.Lookup(name) != nil && f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}
	str(flagDump, &run.Source.File.Path)
	str(flagEncoding, &run.Source.File.Encoding)
	str(flagFaithful, &run.Faithful.Path)
	str(flagFailures, &run.Faithful.FailuresCSV)
	str(flagMini, &run.Mini.Path)
	str(flagBaseURL, &run.Mini.BaseURL)
	num(flagBatchSize, &run.Runtime.BatchSize)
	num(flagWorkers, &run.Runtime.Workers)
	if f.Lookup(flagMirrorDSN) != nil && f.Changed(flagMirrorDSN) {
		run.Mirror.Kind = "postgres"
		run.Mirror.DSN, _ = f.GetString(flagMirrorDSN)
	}
	str(flagMirrorSchema, &run.Mirror.Schema)
	if run.Mirror.Kind != "" && run.Mirror.Schema == "" {
		run.Mirror.Schema = config.DefaultSchema
	}
}
