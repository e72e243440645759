// SPDX-License-Identifier: MPL-2.0

// Package output renders the detection result as the cloud-init
// configuration document and writes it under run/cloud-init.
package output
