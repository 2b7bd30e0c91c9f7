package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadComm returns the command name of pid, or "" if it cannot be read.
func ReadComm(pid int) string {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "comm"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ReadState returns the one-letter scheduler state of pid ("R", "S", "T",
// "Z", ...), or "" if it cannot be read.
func ReadState(pid int) string {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return ""
	}
	// The comm field is parenthesised and may itself contain spaces.
	stat := string(data)
	end := strings.LastIndexByte(stat, ')')
	if end < 0 {
		return ""
	}
	fields := strings.Fields(stat[end+1:])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
