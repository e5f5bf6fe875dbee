package logging

import "os"

// LogFile returns the file the default logger currently writes to.
func LogFile() *os.File {
	mu.Lock()
	defer mu.Unlock()
	return logFile
}
