package cyrfix

// SaveOption configures how a repaired file is written back.
//
// Example:
//
//	if walker.WalkAndRepair(file.Metadata()) {
//	    err := file.Save(
//	        cyrfix.WithBackup(".bak"),
//	        cyrfix.WithValidation(),
//	    )
//	}
type SaveOption func(*saveOptions)

type saveOptions struct {
	backupSuffix    string // kept copy of the pre-repair file, e.g. ".bak"
	validate        bool
	preserveModTime bool
}

// newSaveOptions applies opts over the defaults: no backup, no validation,
// modification time updated.
func newSaveOptions(opts []SaveOption) *saveOptions {
	o := &saveOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithBackup keeps the file as it was before the repair under its name plus
// suffix. WithBackup(".bak") turns "Кино - Звезда.mp3" into
// "Кино - Звезда.mp3.bak" and writes the repaired tags to the original
// name. An existing backup is replaced.
//
// An empty suffix disables the backup.
func WithBackup(suffix string) SaveOption {
	return func(o *saveOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-opens the saved file and checks that its tags read back
// exactly as they were saved. A mismatch fails the save with a WriteError;
// the file on disk then already holds the new content.
func WithValidation() SaveOption {
	return func(o *saveOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the file's modification time, so a library
// sorted by date added does not reshuffle after a repair run.
func WithPreserveModTime() SaveOption {
	return func(o *saveOptions) {
		o.preserveModTime = true
	}
}
