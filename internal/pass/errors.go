package pass

import "fmt"

// ConfigError reports invalid pipeline configuration: bad pass-set contents,
// unknown stage names, disallowed mutation, a missing index, or a graph that
// does not meet a pass's structural precondition. Configuration errors are
// fatal to the call that raised them and are never retried internally.
type ConfigError struct {
	msg string
}

// Configf builds a ConfigError with a formatted message.
func Configf(format string, args ...any) *ConfigError {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ConfigError) Error() string { return e.msg }

// ResolutionError reports a value the engine could not resolve during a run,
// such as an operation duration absent from both the graph and the
// calibration table. Fatal to the pass that raised it; the pipeline run
// aborts with the graph left as earlier passes produced it.
type ResolutionError struct {
	msg string
}

// Resolutionf builds a ResolutionError with a formatted message.
func Resolutionf(format string, args ...any) *ResolutionError {
	return &ResolutionError{msg: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *ResolutionError) Error() string { return e.msg }
