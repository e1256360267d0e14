package main

import (
	"fmt"
	"os"

	"github.com/de-tools/statement-converter/pkg/server"
	"github.com/de-tools/statement-converter/pkg/services/config"
	"github.com/de-tools/statement-converter/pkg/services/conversion"
	"github.com/de-tools/statement-converter/pkg/services/extract"
	"github.com/de-tools/statement-converter/pkg/services/spreadsheet"
	"github.com/de-tools/statement-converter/pkg/store/workdir"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the statement converter web server",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML/TOML/JSON config file (environment variables override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	fs := afero.NewOsFs()
	dir, err := workdir.NewDir(fs, cfg.Upload.WorkDir)
	if err != nil {
		return fmt.Errorf("failed to configure work dir: %w", err)
	}
	if err := dir.Ensure(); err != nil {
		return err
	}

	extractor, err := extract.NewDefaultRegistry().Create(cfg.Extractor.Backend, fs)
	if err != nil {
		return fmt.Errorf("failed to create extractor: %w", err)
	}

	generator, err := spreadsheet.NewGenerator(fs)
	if err != nil {
		return fmt.Errorf("failed to create spreadsheet generator: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	converter := conversion.NewService(dir, extractor, generator, conversion.NewMetrics(reg))

	logger.Info().
		Str("work_dir", dir.Root()).
		Str("extractor", cfg.Extractor.Backend).
		Int64("max_upload_size", cfg.Upload.MaxSize).
		Msg("configuration loaded")

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Server.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxUploadSize:   cfg.Upload.MaxSize,
		Dependencies: server.Dependencies{
			Converter: converter,
			Gatherer:  reg,
			Logger:    logger,
		},
	})

	return api.Start()
}
