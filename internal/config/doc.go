// SPDX-License-Identifier: MPL-2.0

// Package config handles launcher configuration using Viper with CUE as the file format.
//
// The only configuration file is the launcher's sibling "<launcher name>.cue"
// (shimrun.exe reads shimrun.cue from the same directory). It is validated
// against an embedded CUE schema (config_schema.cue). Every key can be
// overridden with a SHIMRUN_ environment variable, dots replaced by
// underscores (SHIMRUN_LOG_LEVEL=debug).
package config
