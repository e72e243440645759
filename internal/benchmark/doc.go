// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the paths a boot-time run takes:
//   - YAML extraction of datasource_list
//   - candidate list resolution across cloud.cfg and its fragments
//   - detection over DMI and seed signals
//   - a full run including the output write
//
// Run them with:
//
//	go test -run '^$' -bench . ./internal/benchmark
package benchmark
