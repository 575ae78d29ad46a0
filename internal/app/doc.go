// Package app wires the application together: it validates configuration,
// constructs the logger, loads circuits and the calibration table, builds the
// default scheduling pipeline, runs it over every loaded circuit, and prints
// the resulting schedules.
package app
