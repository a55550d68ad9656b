// Package constants holds values shared by the catmatch packages and CLI.
package constants

// File permission constants.
const (
	// DirPermissions is used for created directories (rwxr-xr-x).
	DirPermissions = 0o755

	// FilePermissions is used for the report and the log file (rw-r--r--).
	FilePermissions = 0o644
)

// Report naming.
const (
	// DefaultReportName is the workbook written when no output is configured.
	DefaultReportName = "category_match_report.xlsx"

	// FallbackExt is the extension of the summary written without workbook support.
	FallbackExt = ".csv"

	// ReportsDir is the subdirectory searched for inputs besides the root.
	ReportsDir = "reports"

	// InputPattern selects candidate input files.
	InputPattern = "*.csv"

	// TimestampLayout suffixes the report name when the primary path is busy.
	TimestampLayout = "20060102_150405"
)

// Workbook layout.
const (
	// SummarySheet is the name of the first sheet.
	SummarySheet = "Summary"

	// MaxSheetNameLength is the longest sheet name spreadsheet tools accept.
	MaxSheetNameLength = 31

	// DefaultSheetName replaces names that sanitize to nothing.
	DefaultSheetName = "Sheet"
)

// Environment and config.
const (
	// ConfigName is the config file base name searched in home and working dir.
	ConfigName = ".catmatch"

	// MetricsNamespace prefixes every exported metric.
	MetricsNamespace = "catmatch"
)
