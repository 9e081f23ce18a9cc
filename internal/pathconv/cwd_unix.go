//go:build !windows

package pathconv

import "golang.org/x/sys/unix"

func currentDir() string {
	dir, err := unix.Getwd()
	if err != nil {
		logger.Debug("Getwd failed: %v", err)
		return ""
	}
	return dir
}
