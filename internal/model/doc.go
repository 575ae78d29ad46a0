// Package model loads program graphs from their on-disk HCL definition.
//
// A circuit file declares one or more circuit blocks, each with its wire
// counts and an ordered list of op blocks. Operation parameters are HCL
// expressions evaluated through cty, so plain numbers and numeric lists both
// decode naturally. Files are discovered recursively and aggregated, so a
// workspace may split its circuits across directories.
package model
