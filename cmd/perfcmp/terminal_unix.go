//go:build !windows

package main

// enableWindowsANSI does nothing here: stdout and stderr already interpret
// the escape sequences written by the report palette.
func enableWindowsANSI() {}
