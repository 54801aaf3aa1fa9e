package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/preveen-stack/chisel3/internal/cachemanager"
	"github.com/preveen-stack/chisel3/internal/config"
	"github.com/preveen-stack/chisel3/internal/elab"
	"github.com/preveen-stack/chisel3/internal/log"
	"github.com/preveen-stack/chisel3/internal/netlist"
	"github.com/preveen-stack/chisel3/internal/tracing"
	"github.com/preveen-stack/chisel3/internal/watcher"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "chisel3 <netlist.yaml>",
	Short: "Elaborate a circuit netlist and emit wiring annotations",
	Long: `Elaborates a YAML netlist into a module hierarchy, applies its boring
directives (cross-module source/sink wiring intents), and emits the recorded
annotation set for the downstream wire-threading transform.`,
	Version: version,
	Args:    cobra.ExactArgs(1),
	RunE:    runElaborate,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .chisel3/config.yaml, then ~/.config/chisel3/config.yaml)")
	rootCmd.Flags().StringP("out", "o", "",
		"annotation output file (default: stdout)")
	rootCmd.Flags().Bool("strict-names", false,
		"fail fast on user-chosen source name collisions")
	rootCmd.Flags().BoolP("watch", "w", false,
		"watch the netlist and re-elaborate on change")
	rootCmd.Flags().Bool("debug", false,
		"write debug logs to .chisel3/debug.log")
	rootCmd.Flags().Bool("trace", false,
		"enable tracing of the elaborate pipeline")

	// Bind flags to viper
	_ = viper.BindPFlag("output", rootCmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("strict_names", rootCmd.Flags().Lookup("strict-names"))
	_ = viper.BindPFlag("tracing.enabled", rootCmd.Flags().Lookup("trace"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("output", defaults.Output)
	viper.SetDefault("strict_names", defaults.StrictNames)
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("auto_reload_debounce_ms", defaults.AutoReloadDebounceMs)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .chisel3/config.yaml (current directory)
		// 2. ~/.config/chisel3/config.yaml (user config)
		if _, err := os.Stat(".chisel3/config.yaml"); err == nil {
			viper.SetConfigFile(".chisel3/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "chisel3"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .chisel3/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".chisel3/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

func runElaborate(cmd *cobra.Command, args []string) error {
	if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag || os.Getenv("CHISEL3_DEBUG") != "" {
		if cleanup, err := log.Init(".chisel3/debug.log"); err == nil {
			defer cleanup()
		}
	}

	provider, err := tracing.NewProvider(tracingConfig(cfg.Tracing))
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	nlPath := args[0]
	ectxOpts := []elab.Option{}
	if cfg.StrictNames {
		ectxOpts = append(ectxOpts, elab.WithStrictNames())
	}
	// One context for the whole run: names issued across watch-mode
	// re-elaborations stay unique for the process lifetime.
	ectx := elab.NewContext(ectxOpts...)

	pipeline := &elaboratePipeline{
		ectx:     ectx,
		provider: provider,
		path:     nlPath,
		output:   cfg.Output,
		cache:    cachemanager.NewInMemoryCacheManager[*netlist.Netlist]("netlist", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval),
		stdout:   cmd.OutOrStdout(),
	}

	if err := pipeline.run(cmd.Context()); err != nil {
		return err
	}

	if watchFlag, _ := cmd.Flags().GetBool("watch"); watchFlag && cfg.AutoReload {
		return watchLoop(cmd, pipeline, nlPath)
	}
	return nil
}

func watchLoop(cmd *cobra.Command, pipeline *elaboratePipeline, nlPath string) error {
	w, err := watcher.New(watcher.Config{
		Path:        nlPath,
		DebounceDur: time.Duration(cfg.AutoReloadDebounceMs) * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s\n", nlPath)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-onChange:
			log.Info(log.CatWatcher, "netlist changed", "path", nlPath)
			if err := pipeline.run(ctx); err != nil {
				// Keep watching; a broken intermediate save is normal.
				fmt.Fprintf(cmd.ErrOrStderr(), "elaboration failed: %v\n", err)
			}
		}
	}
}

func tracingConfig(tc config.TracingConfig) tracing.Config {
	out := tracing.DefaultConfig()
	out.Enabled = tc.Enabled
	if tc.Exporter != "" {
		out.Exporter = tc.Exporter
	}
	out.FilePath = tc.FilePath
	if tc.OTLPEndpoint != "" {
		out.OTLPEndpoint = tc.OTLPEndpoint
	}
	if tc.SampleRate > 0 {
		out.SampleRate = tc.SampleRate
	}
	return out
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
