// Package logger provides the process-wide log used by flowgen commands.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
)

var (
	globalLogger *log.Logger
	logFile      *os.File
	console      io.Writer
	verbose      bool
	mu           sync.Mutex
)

var levelColors = map[string]*color.Color{
	"DEBUG": color.New(color.Faint),
	"INFO":  color.New(color.FgCyan),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed, color.Bold),
}

// Init initializes the global logger with the specified log file path.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	// Close previous log file if exists
	if logFile != nil {
		logFile.Close()
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //#nosec G304 -- user-provided log path
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	globalLogger = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// InitWriter logs to w instead of a file. Used by tests.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger = log.New(w, "", 0)
}

// SetConsole mirrors log lines to w. Debug lines are mirrored only when verbose.
func SetConsole(w io.Writer, isVerbose bool) {
	mu.Lock()
	defer mu.Unlock()

	console = w
	verbose = isVerbose
}

// Close closes the log file and detaches the console.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger = nil
	console = nil
	verbose = false
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	write("INFO", format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	write("DEBUG", format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	write("ERROR", format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	write("WARN", format, v...)
}

func write(level, format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if globalLogger != nil {
		globalLogger.Printf("["+level+"] "+format, v...)
	}
	if console == nil || (level == "DEBUG" && !verbose) {
		return
	}
	tag := levelColors[level].Sprintf("%-5s", level)
	fmt.Fprintf(console, "%s %s\n", tag, fmt.Sprintf(format, v...))
}
