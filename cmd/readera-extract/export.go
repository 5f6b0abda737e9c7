// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/BlueDude11/Readera-annotation-note-extractor/pkg/types"
)

var exportCmd = &cobra.Command{
	Use:   "export <export.json>",
	Short: "Write grouped annotations as YAML or JSON",
	Long: `Export runs the extraction pipeline and writes the book groups as a
structured document instead of console text, for feeding into other tools.
Output goes to stdout unless -o is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	records, err := loadAndExtract(args[0])
	if err != nil {
		return err
	}
	groups := types.GroupByBook(records)

	out := io.Writer(os.Stdout)
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		out = f
	}

	return writeGroups(out, groups, format)
}

func writeGroups(w io.Writer, groups []types.BookGroup, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(groups)
	}

	data, err := yaml.Marshal(groups)
	if err != nil {
		return fmt.Errorf("marshaling groups: %w", err)
	}
	_, err = w.Write(data)
	return err
}

func init() {
	exportCmd.Flags().String("format", "yaml", "output format: yaml or json")
	exportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")

	rootCmd.AddCommand(exportCmd)
}
