package probe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWholeDisk(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"sda", "nvme0n1", "loop0", "zram0", "dm-0"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o755))
	}

	tests := []struct {
		name string
		want bool
	}{
		{"sda", true},
		{"nvme0n1", true},
		{"sda1", false},
		{"nvme0n1p1", false},
		{"loop0", false},
		{"zram0", false},
		{"dm-0", false},
		{"ram0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, WholeDisk(root, tt.name))
		})
	}
}

func TestWholeDiskWithoutSysfs(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")
	require.True(t, WholeDisk(root, "disk0"))
	require.False(t, WholeDisk(root, "loop1"))
}
