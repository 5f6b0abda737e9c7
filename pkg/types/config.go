// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RenderConfig holds settings for the document renderer.
type RenderConfig struct {
	// OutputDir is the directory PDF files are written to (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ApplyDefaults fills unset fields with their documented defaults.
func (c *RenderConfig) ApplyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}

// LibraryConfig holds settings for the annotation library index.
type LibraryConfig struct {
	// DBPath is the SQLite database file (default "library.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults caps the number of search results returned (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// ApplyDefaults fills unset fields with their documented defaults.
func (c *LibraryConfig) ApplyDefaults() {
	if c.DBPath == "" {
		c.DBPath = "library.db"
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 20
	}
}
