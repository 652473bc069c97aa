package config

const (
	defaultRoot       = "~/Music"
	defaultRecursive  = true
	defaultLogPath    = "~/.local/state/cyrfix/audit.log"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
	defaultExtension  = ".mp3"
	defaultConfigPath = "~/.config/cyrfix/config.toml"
	projectConfigName = "cyrfix.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Scan: Scan{
			Root:       defaultRoot,
			Recursive:  defaultRecursive,
			Extensions: []string{defaultExtension},
		},
		Audit: Audit{
			LogPath: defaultLogPath,
		},
		Save: Save{
			BackupSuffix:    "",
			PreserveModTime: false,
			Validate:        false,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
