package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/clog/hooks"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

// ErrInvalidOption is returned for an unknown log format, level or output.
var ErrInvalidOption = goerr.New("invalid logging option")

// LevelEnv overrides the configured log level when set.
const LevelEnv = "A11Y_MCP_LOG_LEVEL"

var (
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

	// logFile is the file the default logger writes to, nil for stderr/stdout.
	logFile *os.File
	mu      sync.Mutex
)

func init() {
	_ = Configure("text", "info", "stderr")
}

// Default returns the default logger
func Default() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return defaultLogger
}

// Configure configures the default logger with the given format, level, and output.
//
// stdout is accepted as an output but the MCP server owns stdout for protocol frames, so
// the server always logs to stderr or a file.
func Configure(logFormat, logLevel, logOutput string) error {
	filter := masq.New(
		// Mask value with `masq:"secret"` tag
		masq.WithTag("secret"),
	)

	levelMap := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}

	if env := os.Getenv(LevelEnv); env != "" {
		logLevel = env
	}
	level, ok := levelMap[strings.ToLower(logLevel)]
	if !ok {
		return goerr.Wrap(ErrInvalidOption, "invalid log level", goerr.V("value", logLevel))
	}

	var w io.Writer
	var fd *os.File
	switch logOutput {
	case "stderr", "":
		w = os.Stderr
	case "stdout", "-":
		w = os.Stdout
	default:
		f, err := os.OpenFile(filepath.Clean(logOutput), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return goerr.Wrap(err, "failed to open log file", goerr.V("path", logOutput))
		}
		w, fd = f, f
	}

	handler, err := newHandler(logFormat, level, w, filter)
	if err != nil {
		if fd != nil {
			_ = fd.Close()
		}
		return err
	}

	mu.Lock()
	prev := logFile
	defaultLogger = slog.New(handler)
	logFile = fd
	mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			return goerr.Wrap(err, "failed to close previous log file", goerr.V("path", prev.Name()))
		}
	}
	return nil
}

// Close closes the log file, if any, and points the default logger back at stderr.
func Close() error {
	mu.Lock()
	prev := logFile
	logFile = nil
	if prev != nil {
		defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	mu.Unlock()

	if prev == nil {
		return nil
	}
	if err := prev.Close(); err != nil {
		return goerr.Wrap(err, "failed to close log file", goerr.V("path", prev.Name()))
	}
	return nil
}

// New builds a logger writing to w without touching the default logger.
func New(logFormat, logLevel string, w io.Writer) (*slog.Logger, error) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, goerr.Wrap(ErrInvalidOption, "invalid log level", goerr.V("value", logLevel))
	}
	handler, err := newHandler(logFormat, level, w, masq.New(masq.WithTag("secret")))
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

func newHandler(logFormat string, level slog.Level, w io.Writer, filter func(groups []string, a slog.Attr) slog.Attr) (slog.Handler, error) {
	switch logFormat {
	case "text", "":
		return clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithSource(true),
			clog.WithColorMap(&clog.ColorMap{
				Level: map[slog.Level]*color.Color{
					slog.LevelDebug: color.New(color.FgGreen, color.Bold),
					slog.LevelInfo:  color.New(color.FgCyan, color.Bold),
					slog.LevelWarn:  color.New(color.FgYellow, color.Bold),
					slog.LevelError: color.New(color.FgRed, color.Bold),
				},
				LevelDefault: color.New(color.FgBlue, color.Bold),
				Time:         color.New(color.FgWhite),
				Message:      color.New(color.FgHiWhite),
				AttrKey:      color.New(color.FgHiCyan),
				AttrValue:    color.New(color.FgHiWhite),
			}),
			clog.WithAttrHook(hooks.GoErr()),
			clog.WithReplaceAttr(filter),
		), nil

	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       level,
			ReplaceAttr: filter,
		}), nil

	default:
		return nil, goerr.Wrap(ErrInvalidOption, "invalid log format, should be 'json' or 'text'", goerr.V("value", logFormat))
	}
}
