package config

import (
	"fmt"
	"slices"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeScan(); err != nil {
		return err
	}
	if err := c.normalizeAudit(); err != nil {
		return err
	}
	c.normalizeSave()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeScan() error {
	var err error
	if c.Scan.Root, err = expandPath(strings.TrimSpace(c.Scan.Root)); err != nil {
		return fmt.Errorf("scan.root: %w", err)
	}

	exts := make([]string, 0, len(c.Scan.Extensions))
	for _, ext := range c.Scan.Extensions {
		ext = NormalizeExtension(ext)
		if ext == "" || slices.Contains(exts, ext) {
			continue
		}
		exts = append(exts, ext)
	}
	c.Scan.Extensions = exts
	return nil
}

func (c *Config) normalizeAudit() error {
	var err error
	if c.Audit.LogPath, err = expandPath(strings.TrimSpace(c.Audit.LogPath)); err != nil {
		return fmt.Errorf("audit.log_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSave() {
	c.Save.BackupSuffix = strings.TrimSpace(c.Save.BackupSuffix)
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}

// Normalize re-applies normalization after fields were overridden, for
// example by command-line flags.
func (c *Config) Normalize() error {
	return c.normalize()
}
