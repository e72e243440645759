// SPDX-License-Identifier: MPL-2.0

// Package dmi reads firmware identity strings exposed by the kernel under
// /sys/class/dmi/id. Each field lives in its own file; a missing or
// unreadable file is an absent value, never an error.
package dmi
