package utils

import (
	"os"
	"path/filepath"
	"strconv"
)

// CheckPid reports whether a process with the given pid currently exists.
func CheckPid(pid int) bool {
	if pid <= 0 {
		return false
	}
	_, err := os.Stat(filepath.Join("/proc", strconv.Itoa(pid)))
	return err == nil
}
