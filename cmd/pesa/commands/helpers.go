package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pesakit/pesakit-go/internal/constants"
)

const (
	// NotAvailable is shown for empty table cells.
	NotAvailable = "N/A"

	// Masked replaces secrets in output.
	Masked = constants.MaskedValue

	defaultJSONIndent = 2
)

// loadRequestFile decodes a JSON or YAML request file into out.
func loadRequestFile(path string, out interface{}) error {
	if path == "" {
		return constants.ErrRequestFileRequired
	}

	if strings.Contains(path, "..") {
		return constants.ErrDirectoryTraversal
	}

	// path is provided by the operator on the command line
	// #nosec G304
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read request file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, out)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnsupportedFileType, path)
	}

	if err != nil {
		return fmt.Errorf("failed to parse request file: %w", err)
	}

	return nil
}

// renderOutput writes value as JSON or YAML, or rows as a property table.
func renderOutput(w io.Writer, value interface{}, rows [][]string) error {
	switch viper.GetString("output") {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", strings.Repeat(" ", defaultJSONIndent))

		return encoder.Encode(value)
	case constants.FormatYAML:
		return yaml.NewEncoder(w).Encode(value)
	case constants.FormatTable, "":
		table := tablewriter.NewWriter(w)
		table.Header("Property", "Value")

		for _, row := range rows {
			cell := row[1]
			if cell == "" {
				cell = NotAvailable
			}

			_ = table.Append(row[0], cell)
		}

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	default:
		return constants.ErrInvalidOutputFormat
	}
}
