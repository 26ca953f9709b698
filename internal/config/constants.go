package config

// Application constants
const (
	// Application Info
	AppName    = "transform-betas"
	AppVersion = "1.2.0"

	// EnvPrefix namespaces every environment variable (BETAS_TRANSFORM_PRECISION, ...)
	EnvPrefix = "BETAS"

	// Transform defaults
	DefaultPrecision    = 9
	LowPrecision        = 3
	DefaultMetaColumns  = 2
	DefaultInputSheet   = "Sheet1"
	DefaultOutputPrefix = "transformed_factor_betas"

	// Output sheet names
	StandardizedSheetName = "StandardizedBetas"
	TransformedSheetName  = "TransformedBetas"

	// Output formats
	FormatAuto = "auto"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"

	// Log Settings
	DefaultLogLevel = "info"
	DefaultLogFile  = "logs/transform-betas.log"
)
