// SPDX-License-Identifier: MPL-2.0

// Package identify runs one ds-identify pass: resolve the candidate list,
// filter it through the datasource checks, and persist the result.
package identify
