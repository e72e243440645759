// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the ds-identify command line.
//
// The root command performs one detection pass and writes the datasource
// list for cloud-init; the explain subcommand shows how the decision was
// reached without writing anything.
package cmd
