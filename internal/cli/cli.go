package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/passgridgo/internal/app"
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

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("passgridgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
PassGridGo - a pass-pipeline engine and instruction scheduler for circuit graphs.

Usage:
  passgridgo [options] [CIRCUIT_PATH]

Arguments:
  CIRCUIT_PATH
    Path to a single .hcl circuit file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	circuitFlag := flagSet.String("circuit", "", "Path to the circuit file or directory.")
	cFlag := flagSet.String("c", "", "Path to the circuit file or directory (shorthand).")
	calibFlag := flagSet.String("calib", "", "Path to a YAML calibration table for operation durations.")
	scheduleFlag := flagSet.String("schedule", "asap", "Scheduling algorithm. Options: 'asap' or 'alap'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of concurrent workers for multi-circuit runs.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *circuitFlag != "" {
		path = *circuitFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Circuit path determined.", "path", path)

	if path == "" {
		slog.Debug("No circuit path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	schedule := strings.ToLower(*scheduleFlag)
	if schedule != "asap" && schedule != "alap" {
		return nil, false, &ExitError{Code: 2, Message: "invalid schedule: must be 'asap' or 'alap'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		CircuitPath: path,
		CalibPath:   *calibFlag,
		Schedule:    schedule,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
		WorkerCount: *workersFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
