// SPDX-License-Identifier: MPL-2.0

// Package config resolves the ds-identify run configuration using Viper.
//
// The root prefix comes from the --root flag, then the PATH_ROOT environment
// variable, then "/". Other settings (verbose, dry_run, log_format) follow
// the same flag > DS_IDENTIFY_* environment > default precedence. The fixed
// cloud-init locations the run touches are described by Layout and resolved
// inside a filesystem rooted at the prefix.
package config
