package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/specialistvlad/nxload/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) *ExitError {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
// Values from --config apply only where no flag was given.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("nxload", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
nxload - Converts NeXus-style node trees into measurement records.

Usage:
  nxload [options] [INPUT_PATH]

Arguments:
  INPUT_PATH
    Path to a single .nxs.hcl file or a directory containing .nxs.hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	inputFlag := flagSet.String("input", "", "Path to the source file or directory.")
	iFlag := flagSet.String("i", "", "Path to the source file or directory (shorthand).")
	overrideFlag := flagSet.String("override", "", "Path to the override document.")
	startFlag := flagSet.Int("start-id", app.DefaultStartGroupID, "First group id assigned in every file.")
	workersFlag := flagSet.Int("workers", app.DefaultWorkers, "Number of files converted concurrently.")
	logFormatFlag := flagSet.String("log-format", app.DefaultLogFormat, "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", app.DefaultLogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	healthPortFlag := flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	viewerURLFlag := flagSet.String("viewer-url", "", "Socket.IO URL of a record viewer. Empty disables publishing.")
	viewerNSFlag := flagSet.String("viewer-namespace", "/", "Socket.IO namespace of the record viewer.")
	configFlag := flagSet.String("config", "", "YAML file with default option values.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, usageError("%s", err.Error())
	}
	slog.Debug("Arguments parsed successfully.")

	explicit := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) {
		name := f.Name
		if name == "i" {
			name = "input"
		}
		explicit[name] = true
	})

	path := ""
	if *inputFlag != "" {
		path = *inputFlag
	} else if *iFlag != "" {
		path = *iFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
		explicit["input"] = true
	}

	cfg := app.Config{
		InputPath:       path,
		OverridePath:    *overrideFlag,
		StartGroupID:    *startFlag,
		Workers:         *workersFlag,
		LogFormat:       *logFormatFlag,
		LogLevel:        *logLevelFlag,
		HealthcheckPort: *healthPortFlag,
		ViewerURL:       *viewerURLFlag,
		ViewerNamespace: *viewerNSFlag,
		ConfigFile:      *configFlag,
	}

	if cfg.ConfigFile != "" {
		fc, err := app.LoadConfigFile(cfg.ConfigFile)
		if err != nil {
			return nil, false, usageError("%s", err.Error())
		}
		fc.ApplyTo(&cfg, func(name string) bool { return explicit[name] })
		slog.Debug("Config file applied.", "path", cfg.ConfigFile)
	}
	slog.Debug("Input path determined.", "path", cfg.InputPath)

	if cfg.InputPath == "" {
		slog.Debug("No input path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, usageError("invalid log-format: must be 'text' or 'json'")
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if _, err := app.ParseLevel(cfg.LogLevel); err != nil {
		return nil, false, usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, usageError("%s", err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
