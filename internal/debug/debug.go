// Package debug provides gated structured logging shared by every component
// of the search core. Output is a no-op unless explicitly enabled, so the
// hot query path never pays for string formatting it doesn't need.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnableDebug is a build-time flag, e.g.:
// go build -ldflags "-X github.com/standardbeagle/lexicore/internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	debugOutput io.Writer
	debugFile   *os.File
	debugMutex  sync.Mutex
)

// SetDebugOutput sets a custom writer for debug output. Pass nil to disable.
func SetDebugOutput(w io.Writer) {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	debugOutput = w
}

// InitDebugLogFile initializes debug logging to a timestamped file under
// os.TempDir()/lexicore-debug-logs and returns its path.
func InitDebugLogFile() (string, error) {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	logDir := filepath.Join(os.TempDir(), "lexicore-debug-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02T150405")
	logPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", timestamp))

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugFile = file
	debugOutput = file
	return logPath, nil
}

// CloseDebugLog closes the debug log file if one is open.
func CloseDebugLog() error {
	debugMutex.Lock()
	defer debugMutex.Unlock()

	if debugFile != nil {
		err := debugFile.Close()
		debugFile = nil
		debugOutput = nil
		return err
	}
	return nil
}

// IsDebugEnabled reports whether debug logging is active.
func IsDebugEnabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("LEXICORE_DEBUG")
	return v == "1" || v == "true"
}

func getDebugWriter() io.Writer {
	debugMutex.Lock()
	defer debugMutex.Unlock()
	return debugOutput
}

// Log provides structured debug logging tagged with a component name.
func Log(component, format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	w := getDebugWriter()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[DEBUG:%s] "+format, append([]interface{}{component}, args...)...)
}

// LogSearch logs query-engine activity.
func LogSearch(format string, args ...interface{}) { Log("SEARCH", format, args...) }

// LogCorpus logs corpus-store mutations.
func LogCorpus(format string, args ...interface{}) { Log("CORPUS", format, args...) }

// LogIndex logs index-builder activity.
func LogIndex(format string, args ...interface{}) { Log("INDEX", format, args...) }

// LogCache logs cache-tier activity.
func LogCache(format string, args ...interface{}) { Log("CACHE", format, args...) }

// LogServer logs REST surface activity.
func LogServer(format string, args ...interface{}) { Log("SERVER", format, args...) }

// CatastrophicError logs an error that indicates a corrupted artifact or
// other system-level failure. It never panics or exits;
// callers decide how to degrade.
func CatastrophicError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	w := getDebugWriter()
	if w != nil {
		fmt.Fprintf(w, "[CATASTROPHIC] %s\n", msg)
	}
}
