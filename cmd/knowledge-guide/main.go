package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/eastfarm/knowledge-guide/internal/config"
	"github.com/eastfarm/knowledge-guide/internal/pipeline"
	"github.com/eastfarm/knowledge-guide/internal/summarize"
	"github.com/eastfarm/knowledge-guide/pkg/logger"
)

var (
	configPath     string
	inputFolder    string
	outputFolder   string
	metadataFolder string
	debug          bool
)

var rootCmd = &cobra.Command{
	Use:   "knowledge-guide",
	Short: "Organize an inbox of files into a metadata-backed knowledge base",
	Long: `knowledge-guide walks the input folder, extracts text from each file,
summarizes it through the OpenAI API and files the result away together
with a frontmatter metadata record.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "config.yaml", "path to the YAML configuration file")
	rootCmd.Flags().StringVar(&inputFolder, "input", "", "override the input folder")
	rootCmd.Flags().StringVar(&outputFolder, "output", "", "override the output folder")
	rootCmd.Flags().StringVar(&metadataFolder, "metadata", "", "override the metadata folder")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable verbose per-file logging")
}

func run(cmd *cobra.Command, args []string) error {
	// A local .env is a convenience for the API key; its absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if inputFolder != "" {
		cfg.Folders.Input = inputFolder
	}
	if outputFolder != "" {
		cfg.Folders.Output = outputFolder
	}
	if metadataFolder != "" {
		cfg.Folders.Metadata = metadataFolder
	}
	if debug {
		cfg.Debug = true
	}

	level, err := logrus.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if cfg.Debug && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logger.Init(level)

	service := summarize.NewOpenAIService(cfg.Summarizer.APIKey)
	pipe, err := pipeline.New(cfg, service)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	report, err := pipe.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Processed %d files, wrote %d metadata records\n", report.Processed, report.MetadataWritten)
	for _, f := range report.Failed {
		fmt.Printf("  failed: %s (%s)\n", f.File, f.Reason)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
