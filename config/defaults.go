package config

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log:     DefaultLogConfig(),
		Metrics: DefaultMetricsConfig(),
	}
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stderr"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultMetricsConfig returns the default metrics configuration.
// Metrics stay off until a deployment opts in with a namespace.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   false,
		Namespace: "blocks",
	}
}
