// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment variable management (MustSetenv,
// MustUnsetenv), filesystem setup on afero filesystems (MustWriteFile,
// MustMkdirAll, MustReadFile), and Machine, a builder for the DMI, seed and
// configuration files a ds-identify run looks at.
package testutil
