// SPDX-License-Identifier: MPL-2.0

// Package datasource decides which cloud-init datasources apply to the
// running machine.
//
// The set of supported datasources is closed. Each one has a check built
// from DMI identity fields and seed marker files; the Engine filters a
// candidate list through those checks, keeps the candidate order, and always
// terminates the result with the None sentinel. A candidate list with a
// single entry is an administrator's explicit choice and is accepted without
// running any check.
package datasource
