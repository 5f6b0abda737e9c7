// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the readera-extract CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/BlueDude11/Readera-annotation-note-extractor/internal/readera"
	"github.com/BlueDude11/Readera-annotation-note-extractor/internal/render"
	"github.com/BlueDude11/Readera-annotation-note-extractor/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command; invoked with an export path it runs the
// extraction pipeline directly.
var rootCmd = &cobra.Command{
	Use:   "readera-extract <export.json>",
	Short: "Extract book annotations from a Readera JSON export",
	Long: `readera-extract reads a Readera backup export, pulls out every
annotation (book, page, quoted passage, and your note), and groups them
by book.

By default the grouped annotations are printed to the console. With --pdf
each book gets its own formatted PDF document instead. The export, index,
and search subcommands cover structured output and a persistent, searchable
annotation library.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	records, err := loadAndExtract(args[0])
	if err != nil {
		return err
	}
	groups := types.GroupByBook(records)

	pdfMode, _ := cmd.Flags().GetBool("pdf")
	if !pdfMode {
		render.Console(os.Stdout, groups)
		return nil
	}

	if len(groups) == 0 {
		fmt.Fprintln(os.Stdout, "No annotations found.")
		return nil
	}

	summary := render.PDFAll(groups, renderConfig(cmd), os.Stdout)
	if summary.HasFailures() {
		// Per-book failures were already reported; the run still succeeds.
		fmt.Fprintf(os.Stderr, "%d of %d book(s) failed to render\n",
			summary.Failed, summary.Total())
	}
	return nil
}

// loadAndExtract runs the fatal half of the pipeline: read, parse, walk.
func loadAndExtract(path string) ([]types.Annotation, error) {
	root, err := readera.Load(path)
	if err != nil {
		return nil, err
	}
	return readera.Extract(root)
}

// renderConfig resolves document renderer settings: flag, then config
// file, then default.
func renderConfig(cmd *cobra.Command) types.RenderConfig {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	if outputDir == "" {
		outputDir = viper.GetString("output_dir")
	}
	cfg := types.RenderConfig{OutputDir: outputDir}
	cfg.ApplyDefaults()
	return cfg
}

// libraryConfig resolves annotation library settings the same way.
func libraryConfig(cmd *cobra.Command) types.LibraryConfig {
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = viper.GetString("library.db_path")
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults <= 0 {
		maxResults = viper.GetInt("library.max_results")
	}
	cfg := types.LibraryConfig{DBPath: dbPath, MaxResults: maxResults}
	cfg.ApplyDefaults()
	return cfg
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./readera-extract.yaml or ~/.config/readera-extract/config.yaml)")
	rootCmd.Flags().Bool("pdf", false, "generate one PDF per book instead of console output")
	rootCmd.Flags().String("output-dir", "", "directory for generated PDFs (default: current directory)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("readera-extract")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "readera-extract"))
		}
	}

	viper.SetEnvPrefix("READERA_EXTRACT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
