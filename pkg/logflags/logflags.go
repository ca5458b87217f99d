package logflags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const DefaultLogDesc = ""

var (
	access = false
	attach = false

	logOut  io.Writer = os.Stderr
	logFile *os.File
	colored = false
)

// Logger is the logging surface used throughout the module. It is satisfied
// by *zap.SugaredLogger.
type Logger interface {
	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
}

// Access reports whether view read/write tracing is enabled.
func Access() bool {
	return access
}

// Attach reports whether context open/attach/close logging is enabled.
func Attach() bool {
	return attach
}

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

// Setup configures logging. logStr is a comma separated list of subsystems
// (access, attach); logDest is a file path, empty for stderr.
func Setup(logFlag bool, logStr, logDest string) error {
	access, attach = false, false
	logOut, colored = os.Stderr, false

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}

	if logDest != "" {
		f, err := os.OpenFile(logDest, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("could not open log file %q: %v", logDest, err)
		}
		logOut, logFile = f, f
	}

	if f, ok := logOut.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		logOut = colorable.NewColorable(f)
		colored = true
	}

	if !logFlag {
		if logStr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}

	if logStr == "" {
		logStr = "attach"
	}

	for _, logcmd := range strings.Split(logStr, ",") {
		switch strings.TrimSpace(logcmd) {
		case "access":
			access = true
		case "attach":
			attach = true
		case "":
		default:
			return fmt.Errorf("unknown log subsystem %q", logcmd)
		}
	}

	return nil
}
