package probe

import (
	"os"
	"path/filepath"
	"strings"
)

// SysBlock is where Linux lists whole block devices. Partitions only
// appear beneath their parent device.
const SysBlock = "/sys/block"

// virtualPrefixes name block devices that mirror or emulate other storage.
var virtualPrefixes = []string{"loop", "ram", "zram", "dm-"}

// WholeDisk reports whether the device name is a physical whole disk.
// Virtual devices are never whole disks. When root does not exist (non
// Linux hosts) every other name is accepted.
func WholeDisk(root, name string) bool {
	for _, p := range virtualPrefixes {
		if strings.HasPrefix(name, p) {
			return false
		}
	}
	if _, err := os.Stat(root); err != nil {
		return true
	}
	_, err := os.Stat(filepath.Join(root, name))
	return err == nil
}
