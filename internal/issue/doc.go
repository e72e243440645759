// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and the catalog of Markdown
// guidance the CLI renders when ds-identify cannot finish its run.
package issue
