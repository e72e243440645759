// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated primitive types shared by the
// ds-identify packages: filesystem paths and process exit codes.
package types
