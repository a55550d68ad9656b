// Package constants provides shared constants for CLI commands.
package constants

// Output format names accepted by --format.
const (
	// FormatText prints the plain summary lines.
	FormatText = "text"

	// FormatTable renders aligned tables.
	FormatTable = "table"

	// FormatJSON outputs data as JSON.
	FormatJSON = "json"

	// FormatYAML outputs data as YAML.
	FormatYAML = "yaml"
)
