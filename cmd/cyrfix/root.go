package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/simonhull/cyrfix"
	"github.com/simonhull/cyrfix/internal/config"
	"github.com/simonhull/cyrfix/internal/logging"
)

// runFlags holds the flags shared by the repair run and check.
type runFlags struct {
	configPath string
	root       string
	logPath    string
	recursive  bool
	extensions []string
	backup     string
	dryRun     bool
	logLevel   string
	logFormat  string
	noProgress bool
}

func newRootCommand() *cobra.Command {
	flags := &runFlags{}

	rootCmd := &cobra.Command{
		Use:   "cyrfix",
		Short: "Repair mis-encoded Cyrillic text in audio tags",
		Long: `cyrfix finds tag values that were written as Windows-1251 but read back
as ISO-8859-1 (text like "Ïðèâåò" instead of "Привет"), converts them back
and saves the file. Every replaced value is appended to the audit log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.dryRun {
				return runCheck(cmd, flags)
			}
			return runRepair(cmd, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	pf.StringVar(&flags.root, "root", "", "Folder to process")
	pf.BoolVarP(&flags.recursive, "recursive", "r", true, "Descend into subfolders")
	pf.StringSliceVar(&flags.extensions, "extension", nil, "File extension to process (repeatable)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Diagnostic log format (console, json)")
	pf.BoolVar(&flags.noProgress, "no-progress", false, "Disable the progress bar")

	pf.StringVar(&flags.logPath, "log", "", "Audit log file")
	rootCmd.Flags().StringVar(&flags.backup, "backup", "", "Keep a copy of each file with this suffix before saving")
	rootCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Preview changes without saving (same as check)")

	rootCmd.AddCommand(newCheckCommand(flags))
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// loadConfig reads the configuration file and applies the flags the user
// set explicitly.
func loadConfig(cmd *cobra.Command, flags *runFlags) (*config.Config, error) {
	cfg, _, _, err := config.Load(strings.TrimSpace(flags.configPath))
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("root") {
		cfg.Scan.Root = flags.root
	}
	if changed("recursive") {
		cfg.Scan.Recursive = flags.recursive
	}
	if changed("extension") {
		cfg.Scan.Extensions = flags.extensions
	}
	if changed("log") {
		cfg.Audit.LogPath = flags.logPath
	}
	if changed("backup") {
		cfg.Save.BackupSuffix = flags.backup
	}
	if changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.logFormat
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newRunLogger builds the diagnostics logger for one run, tagged with a
// fresh run id.
func newRunLogger(cmd *cobra.Command, cfg *config.Config) (*zap.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("run_id", uuid.NewString())), nil
}

func saveOptions(cfg *config.Config) []cyrfix.SaveOption {
	var opts []cyrfix.SaveOption
	if cfg.Save.BackupSuffix != "" {
		opts = append(opts, cyrfix.WithBackup(cfg.Save.BackupSuffix))
	}
	if cfg.Save.PreserveModTime {
		opts = append(opts, cyrfix.WithPreserveModTime())
	}
	if cfg.Save.Validate {
		opts = append(opts, cyrfix.WithValidation())
	}
	return opts
}
