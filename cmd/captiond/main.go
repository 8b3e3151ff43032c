package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"captiond/internal/caption"
	"captiond/internal/config"
	"captiond/internal/httpapi"
	"captiond/internal/registry"
	"captiond/internal/runtime"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "captiond",
		Short:         "HTTP daemon for image captioning, VQA and text generation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), modelsCmd())
	return root
}

func serveCmd() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, cfgPath)
			if err != nil {
				return err
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "Path to a yaml/json/toml config file")
	cmd.Flags().String("addr", "", "HTTP listen address, e.g. :8080")
	cmd.Flags().String("runtime-url", "", "Base URL of the transformers runtime sidecar")
	cmd.Flags().String("default-model", "", "Default image model key when request omits model")
	cmd.Flags().String("default-llm", "", "Default text model key when request omits model")
	cmd.Flags().Int("max-upload-mb", 0, "Maximum request body size in MiB")
	cmd.Flags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().String("log-file", "", "Log to this file with rotation instead of stderr")
	cmd.Flags().Bool("debug", false, "Enable debug mode (console logging, debug level)")
	return cmd
}

// resolveConfig layers configuration: file, then CAPTIOND_* env (after .env),
// then explicitly set flags.
func resolveConfig(cmd *cobra.Command, cfgPath string) (config.Config, error) {
	// Best effort, like the usual dotenv bootstrap: a missing .env is fine.
	_ = godotenv.Load()

	var cfg config.Config
	if cfgPath != "" {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	cfg = config.ApplyEnv(cfg)

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
	if flags.Changed("runtime-url") {
		cfg.RuntimeURL, _ = flags.GetString("runtime-url")
	}
	if flags.Changed("default-model") {
		cfg.DefaultImageModel, _ = flags.GetString("default-model")
	}
	if flags.Changed("default-llm") {
		cfg.DefaultTextModel, _ = flags.GetString("default-llm")
	}
	if flags.Changed("max-upload-mb") {
		cfg.MaxUploadMB, _ = flags.GetInt("max-upload-mb")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.RuntimeURL == "" {
		cfg.RuntimeURL = "http://127.0.0.1:8500"
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 50
	}
	return cfg, nil
}

func newLogger(cfg config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil && cfg.LogLevel != "" {
		level = l
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	var out zerolog.Logger
	switch {
	case cfg.LogFile != "" && !cfg.Debug:
		// Rotating file log for long-running deployments.
		w := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // MiB
			MaxBackups: 10,
		}
		out = zerolog.New(w)
	case cfg.Debug:
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	default:
		out = zerolog.New(os.Stderr)
	}
	return out.Level(level).With().Timestamp().Logger()
}

func serve(cfg config.Config) error {
	logger := newLogger(cfg)
	logger.Info().Msg("API startup")

	client := runtime.NewClient(cfg.RuntimeURL, cfg.RuntimeAPIKey, 0, 10*time.Second)
	svc := caption.New(caption.Config{
		Log:               logger,
		Loader:            client,
		DefaultImageModel: cfg.DefaultImageModel,
		DefaultTextModel:  cfg.DefaultTextModel,
	})

	httpapi.SetLogger(logger)
	httpapi.SetMaxUploadBytes(int64(cfg.MaxUploadMB) << 20)
	if cfg.CORSOrigins != "" {
		origins := strings.Split(cfg.CORSOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		httpapi.SetCORSOptions(true, origins,
			[]string{"GET", "POST", "OPTIONS"},
			[]string{"Accept", "Authorization", "Content-Type"})
	}

	baseCtx, baseCancel := context.WithCancel(context.Background())
	defer baseCancel()
	httpapi.SetBaseContext(baseCtx)

	// Warm-up load of the default image model; failure is logged inside and
	// never blocks startup.
	go svc.Warmup(baseCtx)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(svc)}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("runtime", cfg.RuntimeURL).Msg("captiond listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	baseCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the registered models",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Image models:")
			for _, d := range registry.ImageModels() {
				fmt.Fprintf(out, "  %-14s %-22s %s\n", d.Key, d.Name, d.Description)
				if len(d.ModeOrder) > 0 {
					fmt.Fprintf(out, "    modes: %s (default %s)\n", strings.Join(d.ModeOrder, ", "), d.DefaultMode)
				}
			}
			fmt.Fprintln(out, "Text models:")
			for _, d := range registry.TextModels() {
				fmt.Fprintf(out, "  %-14s %-22s %s\n", d.Key, d.Name, d.Description)
			}
		},
	}
}
