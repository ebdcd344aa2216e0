// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the shimrun command.
//
// The root command accepts every argument verbatim and hands it to the
// launcher; shimrun has no flags or subcommands of its own.
package cmd
