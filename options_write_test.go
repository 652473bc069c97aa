package cyrfix

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSaveOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []SaveOption
		want saveOptions
	}{
		{"defaults", nil, saveOptions{}},
		{"backup", []SaveOption{WithBackup(".bak")}, saveOptions{backupSuffix: ".bak"}},
		{"empty backup suffix", []SaveOption{WithBackup("")}, saveOptions{}},
		{"last backup wins", []SaveOption{WithBackup(".bak"), WithBackup(".orig")}, saveOptions{backupSuffix: ".orig"}},
		{"validation", []SaveOption{WithValidation()}, saveOptions{validate: true}},
		{"mod time", []SaveOption{WithPreserveModTime()}, saveOptions{preserveModTime: true}},
		{
			name: "repair run",
			opts: []SaveOption{WithBackup(".bak"), WithValidation(), WithPreserveModTime()},
			want: saveOptions{backupSuffix: ".bak", validate: true, preserveModTime: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := newSaveOptions(tc.opts)
			if diff := cmp.Diff(tc.want, *got, cmp.AllowUnexported(saveOptions{})); diff != "" {
				t.Errorf("options mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
