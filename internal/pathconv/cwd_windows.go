//go:build windows

package pathconv

import "golang.org/x/sys/windows"

func currentDir() string {
	n, err := windows.GetCurrentDirectory(0, nil)
	if err != nil || n == 0 {
		logger.Debug("GetCurrentDirectory failed: %v", err)
		return ""
	}
	buf := make([]uint16, n)
	n, err = windows.GetCurrentDirectory(uint32(len(buf)), &buf[0])
	if err != nil || n == 0 || int(n) > len(buf) {
		logger.Debug("GetCurrentDirectory failed: %v", err)
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}
