// Package config provides configuration management for the dt tool.
// It handles loading configuration from multiple sources, validation, and provides
// a type-safe API for accessing configuration values.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (DT_CONFIG, dt.yaml or configs/dt.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern DT_* for namespacing:
//
//	DT_REPORT_PATH=data.csv
//	DT_REPORT_LARGEST_N=10
//	DT_REPORT_PERCENTILES=0.99,0.999,0.9999
//	DT_LOGGING_LEVEL=debug
//	DT_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Example File
//
//	report:
//	  path: data.csv
//	  smallest_n: 5
//	  largest_n: 10
//	  percentiles: [0.99, 0.999, 0.9999]
//	  xlsx_path: reports/dt.xlsx
//	logging:
//	  level: info
//	  output: both
//	  file_path: logs/dt.log
//	telemetry:
//	  metrics_file: metrics/dt.prom
//
// Validation uses go-playground/validator struct tags; any violation is
// returned as a CONFIG AppError.
package config
