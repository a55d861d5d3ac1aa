// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for termframe.
//
// This package implements the Cobra command hierarchy: the root command
// renders terminal screenshots from flags, config file entries and
// markdown directives, and small subcommands expose supporting
// information such as the available themes.
package cmd
