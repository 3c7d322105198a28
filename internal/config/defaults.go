package config

const (
	defaultStagingDir           = "~/.local/share/mediaconv/staging"
	defaultLogDir               = "~/.local/share/mediaconv/logs"
	defaultHistoryPath          = "~/.local/share/mediaconv/history.db"
	defaultHistoryRetentionDays = 90
	defaultToolTimeoutSeconds   = 300
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Tools: Tools{
			TimeoutSeconds: defaultToolTimeoutSeconds,
		},
		History: History{
			Enabled:       true,
			Path:          defaultHistoryPath,
			RetentionDays: defaultHistoryRetentionDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
