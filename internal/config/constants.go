package config

// Application constants
const (
	// Application Info
	AppName    = "dt"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces environment variables (DT_REPORT_PATH, ...)
	EnvPrefix = "DT"

	// Report defaults
	DefaultDataFile     = "data.csv"
	DefaultSourceColumn = "timestamp"
	DefaultDeltaColumn  = "dt"
	DefaultSmallestN    = 5
	DefaultLargestN     = 10

	// Logging
	DefaultLogFile = "logs/dt.log"
)

// DefaultPercentiles are the quantiles printed when none are configured.
var DefaultPercentiles = []float64{0.99, 0.999, 0.9999}

// ConfigFileLocations are searched in order when DT_CONFIG is unset.
var ConfigFileLocations = []string{
	"dt.yaml",
	"configs/dt.yaml",
}
