package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/simonhull/cyrfix"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateAudit(); err != nil {
		return err
	}
	if err := c.validateSave(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScan() error {
	if c.Scan.Root == "" {
		return errors.New("scan.root must be set")
	}
	if len(c.Scan.Extensions) == 0 {
		return errors.New("scan.extensions must list at least one extension")
	}
	for _, ext := range c.Scan.Extensions {
		if cyrfix.FormatForExtension(ext) == cyrfix.FormatUnknown {
			return fmt.Errorf("scan.extensions: %q is not a supported audio format", ext)
		}
	}
	return nil
}

func (c *Config) validateAudit() error {
	if c.Audit.LogPath == "" {
		return errors.New("audit.log_path must be set")
	}
	return nil
}

func (c *Config) validateSave() error {
	if strings.ContainsAny(c.Save.BackupSuffix, `/\`) {
		return fmt.Errorf("save.backup_suffix %q must not contain path separators", c.Save.BackupSuffix)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q (use debug, info, warn or error)", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	return nil
}
