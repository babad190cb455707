package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/typeinfer/pkg/config"
	"github.com/ajitpratap0/typeinfer/pkg/errors"
	"github.com/ajitpratap0/typeinfer/pkg/inference"
	"github.com/ajitpratap0/typeinfer/pkg/loader"
	"github.com/ajitpratap0/typeinfer/pkg/logger"
	"github.com/ajitpratap0/typeinfer/pkg/metrics"
	"github.com/ajitpratap0/typeinfer/pkg/observability"
	"github.com/ajitpratap0/typeinfer/pkg/store"

	// Register metadata store backends
	_ "github.com/ajitpratap0/typeinfer/pkg/store/postgres"
	_ "github.com/ajitpratap0/typeinfer/pkg/store/sqlite"
)

// commandFlagKeys maps subcommand flags to the config keys they override.
var commandFlagKeys = map[string]string{
	"export-dir":  "export.dir",
	"compression": "export.compression",
	"arrow":       "export.arrow",
	"store":       "store.enabled",
}

// envPrefix namespaces environment overrides, e.g. TYPEINFER_INFERENCE_SAMPLE_SIZE.
const envPrefix = "TYPEINFER"

// app holds what every command needs once flags and config are resolved.
type app struct {
	v          *viper.Viper
	out        io.Writer
	configFile string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out}

	root := &cobra.Command{
		Use:   "typeinfer",
		Short: "Infer and apply column data types for CSV and Excel files",
		Long: `typeinfer samples every column of a CSV or Excel file, classifies it as
boolean, integer, decimal, date or category, and optionally converts the file
to those types.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return a.setup(cmd) },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return a.teardown(cmd.Context()) },
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Path to a YAML configuration file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-encoding", "console", "Log encoding (console, json)")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file on exit")
	flags.Bool("trace", false, "Export OpenTelemetry spans to stderr")

	_ = a.v.BindPFlag("observability.log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("observability.log_encoding", flags.Lookup("log-encoding"))
	_ = a.v.BindPFlag("observability.metrics_file", flags.Lookup("metrics-file"))
	_ = a.v.BindPFlag("observability.enable_tracing", flags.Lookup("trace"))

	root.AddCommand(
		newInferCmd(a),
		newApplyTypesCmd(a),
		newHistoryCmd(a),
		newTypesCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup resolves configuration: defaults, then the config file, then
// TYPEINFER_* environment variables, then explicitly set flags.
func (a *app) setup(cmd *cobra.Command) error {
	for name, key := range commandFlagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg := config.Default()
	if a.configFile != "" {
		loaded, err := config.Load(a.configFile)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeConfig, "failed to load config")
		}
		cfg = loaded
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	a.v.SetConfigType("yaml")
	if err := a.v.ReadConfig(bytes.NewReader(data)); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to read config")
	}
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.Unmarshal(cfg); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to apply overrides")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "invalid configuration")
	}
	a.cfg = cfg

	obs := cfg.Observability
	if err := logger.Init(logger.Config{
		Level:       obs.LogLevel,
		Development: obs.Development,
		Encoding:    obs.LogEncoding,
	}); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to create logger")
	}
	a.log = logger.Get().With(zap.String("component", "typeinfer-cli"))

	tracing := observability.DefaultConfig()
	tracing.Enabled = obs.EnableTracing
	tracing.SamplingRate = obs.TracingSampleRate
	tracing.ServiceVersion = version
	tracing.Writer = os.Stderr
	if err := observability.Initialize(tracing); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "failed to initialize tracing")
	}
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := observability.Shutdown(ctx); err != nil {
		a.log.Warn("failed to shutdown tracing", zap.Error(err))
	}
	if path := a.cfg.Observability.MetricsFile; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write metrics")
		}
	}
	_ = logger.Sync()
	return nil
}

func (a *app) engine() *inference.Engine {
	opts := inference.OptionsFromConfig(a.cfg.Inference)
	return inference.NewEngine(a.log, opts, loader.New(a.cfg.Loader, a.log))
}

func (a *app) openStore(ctx context.Context) (store.Repository, error) {
	return store.Open(ctx, a.cfg.Store)
}
