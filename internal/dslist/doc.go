// SPDX-License-Identifier: MPL-2.0

// Package dslist resolves the datasource candidate list from the cloud-init
// base configuration and its cloud.cfg.d fragments.
//
// Sources are consulted in precedence order: the base file first, then every
// fragment in lexicographic name order. Each source that defines
// datasource_list replaces the list entirely; nothing is merged. When no
// source defines one, the built-in default list is used.
//
// Resolution never fails. Unreadable or malformed sources are skipped and
// reported as Diagnostic values on the Result.
package dslist
